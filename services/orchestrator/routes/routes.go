// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/Causeway/services/llm"
	"github.com/AleutianAI/Causeway/services/orchestrator/extraction"
	"github.com/AleutianAI/Causeway/services/orchestrator/handlers"
	"github.com/AleutianAI/Causeway/services/orchestrator/middleware"
	"github.com/AleutianAI/Causeway/services/orchestrator/observability"
	"github.com/AleutianAI/Causeway/services/orchestrator/simulation"
	"github.com/AleutianAI/Causeway/services/orchestrator/storage"
)

func SetupRoutes(router *gin.Engine, store *storage.Store, llmClient llm.LLMClient,
	tokens *middleware.TokenManager, metrics *observability.Metrics) {

	analyzer := extraction.NewAnalyzer(llmClient, nil)
	generator := simulation.NewGenerator(llmClient, nil)

	router.Use(middleware.RequestMetrics(metrics))

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", handlers.Signup(store, tokens))
			auth.POST("/login", handlers.Login(store, tokens))
			auth.GET("/profile", middleware.AuthMiddleware(tokens), handlers.Profile(store))
		}

		documents := v1.Group("/documents")
		{
			documents.POST("/paste", handlers.PasteDocument(store, analyzer, metrics))
			documents.POST("/demo", handlers.IngestDemo(store, analyzer, metrics))
			documents.POST("/topics", handlers.GenerateTopics(store, metrics))
			documents.GET("", handlers.ListDocuments(store))
			documents.GET("/:id", handlers.GetDocument(store))
			documents.GET("/:id/graph", handlers.GetDocumentGraph(store))
		}

		simulations := v1.Group("/simulations")
		{
			simulations.POST("/calculate", handlers.CalculateSimulation(store, metrics))
			simulations.GET("/:relationshipId", handlers.GetSimulationConfig(store, generator))
		}

		chat := v1.Group("/chat")
		{
			chat.POST("/message", handlers.HandleChatMessage(store, analyzer))
			chat.GET("/ws", handlers.HandleChatWebSocket(store, analyzer, metrics))
		}

		quiz := v1.Group("/quiz")
		{
			quiz.POST("/generate", handlers.GenerateQuiz(store, llmClient, metrics))
			quiz.POST("/flashcards/generate", handlers.GenerateFlashcards(store, llmClient, metrics))
		}
	}
}
