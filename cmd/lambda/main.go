// Package main is the entry point for the game catalog Lambda function.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/gamevault/catalog-api/internal/config"
	"github.com/gamevault/catalog-api/internal/handler"
	"github.com/gamevault/catalog-api/internal/store"
	"github.com/gamevault/catalog-api/internal/translator"
)

type app struct {
	handler *handler.Handler
	log     *slog.Logger
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Clients are built once at cold start and live for the process.
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	a := &app{
		handler: handler.New(
			store.NewFromConfig(awsCfg, cfg.TableName),
			translator.NewFromConfig(awsCfg),
			cfg.SourceLanguage,
			log,
		),
		log: log,
	}
	lambda.Start(a.handleRequest)
}

func (a *app) handleRequest(ctx context.Context, event json.RawMessage) (any, error) {
	// Warmup detection first, before API Gateway parsing.
	if warmup, ok := IsWarmupEvent(event); ok {
		return HandleWarmup(ctx, warmup, a.log)
	}

	var req events.APIGatewayProxyRequest
	if err := json.Unmarshal(event, &req); err != nil {
		return nil, err
	}
	return a.handler.Route(ctx, req), nil
}
