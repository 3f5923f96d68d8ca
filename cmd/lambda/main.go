// Package main runs the feed generation API as an AWS Lambda function behind
// an API Gateway HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"dealerfeeds/internal/api"
	"dealerfeeds/internal/config"
	"dealerfeeds/internal/logger"
	"dealerfeeds/internal/pipeline"
)

func main() {
	path := os.Getenv("FEEDGEN_CONFIG")
	if path == "" {
		path = "configs/feedgen.yaml"
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLoggerWithFormat(cfg.Logging.Level, "json")
	defer log.Sync()

	runner, err := pipeline.New(cfg, pipeline.WithLogger(log))
	if err != nil {
		log.Error("Failed to initialize pipeline", "error", err)
		os.Exit(1)
	}

	server := api.NewServer(cfg, runner, api.WithLogger(log))

	log.Info("Lambda handler initialized", "dealerships", len(cfg.Dealerships), "target", cfg.Publish.Target)

	lambda.Start(api.NewLambdaHandler(server.Handler()))
}
