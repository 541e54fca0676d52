// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/AleutianAI/Causeway/services/llm"
	"github.com/AleutianAI/Causeway/services/orchestrator/middleware"
	"github.com/AleutianAI/Causeway/services/orchestrator/observability"
	"github.com/AleutianAI/Causeway/services/orchestrator/routes"
	"github.com/AleutianAI/Causeway/services/orchestrator/storage"

	// --- OpenTelemetry imports ---
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		otelEndpoint = "causeway-otel-collector:4317"
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("causeway-orchestrator")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

// newLLMClient selects the backend from LLM_BACKEND_TYPE. A failed
// backend init degrades to the mock so the service still serves the
// pattern-based extraction path.
func newLLMClient() llm.LLMClient {
	backend := os.Getenv("LLM_BACKEND_TYPE")

	var client llm.LLMClient
	var err error
	switch backend {
	case "openai":
		client, err = llm.NewOpenAIClient()
		slog.Info("Using OpenAI LLM backend")
	case "mock":
		slog.Info("Using mock LLM backend")
		return llm.NewMockClient("{}")
	case "groq", "":
		client, err = llm.NewGroqClient()
		slog.Info("Using Groq LLM backend")
	default:
		slog.Warn("LLM_BACKEND_TYPE not recognized, defaulting to groq", "value", backend)
		client, err = llm.NewGroqClient()
	}
	if err != nil {
		slog.Warn("LLM backend unavailable, falling back to mock client", "error", err)
		return llm.NewMockClient("{}")
	}
	return client
}

func main() {
	port := os.Getenv("ORCHESTRATOR_PORT")
	if port == "" {
		port = "12210"
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// --- Init the tracer ---
	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	dataDir := os.Getenv("CAUSEWAY_DATA_DIR")
	if dataDir == "" {
		dataDir = "./data/causeway"
	}
	dbCfg := storage.DefaultConfig()
	dbCfg.Path = dataDir
	dbCfg.Logger = slog.Default()
	db, err := storage.OpenDB(dbCfg)
	if err != nil {
		log.Fatalf("Failed to open the database at %s: %v", dataDir, err)
	}
	defer db.Close()
	store := storage.NewStore(db)

	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		secret = "causeway-dev-secret"
		slog.Warn("JWT_SECRET_KEY not set, using the development secret")
	}
	tokens := middleware.NewTokenManager(secret, middleware.DefaultTokenExpiry)

	llmClient := newLLMClient()
	metrics := observability.InitMetrics()

	router := gin.Default()
	router.Use(otelgin.Middleware("causeway-orchestrator"))

	routes.SetupRoutes(router, store, llmClient, tokens, metrics)

	log.Println("Starting the orchestrator server on port ", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
