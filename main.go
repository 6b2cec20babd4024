package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Fraol7/FoodWagen/config"
	"github.com/Fraol7/FoodWagen/helper"
	"github.com/Fraol7/FoodWagen/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logger := helper.NewLogger("foodwagen-api", os.Stdout, cfg.LogLevel)
	if err := run(cfg, logger); err != nil {
		logger.Error("", "server_failed", "Server stopped with error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *helper.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer srv.Close(context.Background())

	return srv.Run(ctx)
}
