package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Fraol7/FoodWagen/config"
	"github.com/Fraol7/FoodWagen/helper"
	"github.com/Fraol7/FoodWagen/store"
)

func main() {
	file := flag.String("file", "", "CSV or XLSX file with a header row")
	sheet := flag.String("sheet", "", "XLSX sheet name (default: first sheet)")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	logger := helper.NewLogger("foodwagen-import", os.Stdout, cfg.LogLevel)

	if err := run(context.Background(), cfg, logger, *file, *sheet); err != nil {
		logger.Error("", "import_failed", "Import failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *helper.Logger, path, sheet string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	raw, err := readRows(f, path, sheet)
	if err != nil {
		return err
	}
	rows, err := parseRows(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	s, err := store.Open(ctx, cfg.MongoURI, store.Options{Database: cfg.MongoDatabase})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close(ctx)

	created, skipped, err := importRows(ctx, s, logger, rows)
	logger.Info("", "import_finished", fmt.Sprintf("Imported %d food items, skipped %d", created, skipped),
		"file", path, "created", created, "skipped", skipped)
	return err
}
