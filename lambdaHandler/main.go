package main

import (
	"context"
	"log"
	"os"

	"github.com/Fraol7/FoodWagen/config"
	"github.com/Fraol7/FoodWagen/helper"
	"github.com/Fraol7/FoodWagen/server"
	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	logger := helper.NewLogger("foodwagen-lambda", os.Stdout, cfg.LogLevel)

	// The store stays open for the lifetime of the execution environment.
	srv, err := server.Build(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	lambda.Start(newProxy(srv.Handler()))
}
