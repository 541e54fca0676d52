// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/Causeway/services/llm"
	"github.com/AleutianAI/Causeway/services/orchestrator/datatypes"
	"github.com/AleutianAI/Causeway/services/orchestrator/observability"
	"github.com/AleutianAI/Causeway/services/orchestrator/storage"
)

const quizPrompt = `You are a tutor writing a short quiz about one concept from a causal diagram.

Concept: %s
Description: %s
Causal relationships:
%s

Generate exactly 5 multiple-choice questions that test understanding of this concept and its causal relationships. Each question has 4 options and exactly one correct answer.

Respond with ONLY valid JSON in this exact format:
{
    "questions": [
        {
            "question": "string",
            "options": ["string", "string", "string", "string"],
            "correct_index": 0,
            "explanation": "One sentence explaining the correct answer"
        }
    ]
}`

const flashcardPrompt = `You are a tutor writing study flashcards about one concept from a causal diagram.

Concept: %s
Description: %s
Causal relationships:
%s

Generate exactly 8 flashcards. The front is a short question or term; the back is a concise answer a student can recall. Cover the concept's definition, its units and typical range if known, and each causal relationship.

Respond with ONLY valid JSON in this exact format:
{
    "cards": [
        {"front": "string", "back": "string"}
    ]
}`

// GenerateQuiz returns the quiz for a concept, generating and caching
// it on first request.
func GenerateQuiz(store *storage.Store, client llm.LLMClient,
	metrics *observability.Metrics) gin.HandlerFunc {

	return func(c *gin.Context) {
		var req datatypes.QuizRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "concept_id and document_id are required"})
			return
		}
		ctx := c.Request.Context()

		if cached, err := store.GetQuizByConcept(ctx, req.ConceptID); err == nil {
			c.JSON(http.StatusOK, datatypes.QuizResponse{
				ID:        cached.ID,
				ConceptID: cached.ConceptID,
				Questions: cached.Questions,
			})
			return
		}

		concept, relationLines, ok := loadQuizContext(c, store, &req)
		if !ok {
			return
		}

		prompt := fmt.Sprintf(quizPrompt, concept.Label, concept.Description, relationLines)
		raw, err := generateJSON(ctx, client, metrics, "quiz", prompt)
		if err != nil {
			slog.Error("Quiz generation failed", "concept_id", req.ConceptID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate quiz"})
			return
		}

		var parsed struct {
			Questions []datatypes.QuizQuestion `json:"questions"`
		}
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil || len(parsed.Questions) == 0 {
			slog.Error("Quiz response was not usable JSON", "concept_id", req.ConceptID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate quiz"})
			return
		}

		quiz := &datatypes.Quiz{
			ID:         uuid.New().String(),
			ConceptID:  req.ConceptID,
			DocumentID: req.DocumentID,
			Questions:  parsed.Questions,
			CreatedAt:  time.Now().UTC(),
		}
		if err := store.PutQuiz(ctx, quiz); err != nil {
			slog.Error("Failed to cache quiz", "concept_id", req.ConceptID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate quiz"})
			return
		}

		c.JSON(http.StatusOK, datatypes.QuizResponse{
			ID:        quiz.ID,
			ConceptID: quiz.ConceptID,
			Questions: quiz.Questions,
		})
	}
}

// GenerateFlashcards returns the flashcard set for a concept,
// generating and caching it on first request.
func GenerateFlashcards(store *storage.Store, client llm.LLMClient,
	metrics *observability.Metrics) gin.HandlerFunc {

	return func(c *gin.Context) {
		var req datatypes.QuizRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "concept_id and document_id are required"})
			return
		}
		ctx := c.Request.Context()

		if cached, err := store.GetFlashcardsByConcept(ctx, req.ConceptID); err == nil {
			c.JSON(http.StatusOK, datatypes.FlashcardResponse{
				ID:        cached.ID,
				ConceptID: cached.ConceptID,
				Cards:     cached.Cards,
			})
			return
		}

		concept, relationLines, ok := loadQuizContext(c, store, &req)
		if !ok {
			return
		}

		prompt := fmt.Sprintf(flashcardPrompt, concept.Label, concept.Description, relationLines)
		raw, err := generateJSON(ctx, client, metrics, "flashcards", prompt)
		if err != nil {
			slog.Error("Flashcard generation failed", "concept_id", req.ConceptID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate flashcards"})
			return
		}

		var parsed struct {
			Cards []datatypes.Flashcard `json:"cards"`
		}
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil || len(parsed.Cards) == 0 {
			slog.Error("Flashcard response was not usable JSON", "concept_id", req.ConceptID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate flashcards"})
			return
		}

		set := &datatypes.FlashcardSet{
			ID:         uuid.New().String(),
			ConceptID:  req.ConceptID,
			DocumentID: req.DocumentID,
			Cards:      parsed.Cards,
			CreatedAt:  time.Now().UTC(),
		}
		if err := store.PutFlashcards(ctx, set); err != nil {
			slog.Error("Failed to cache flashcards", "concept_id", req.ConceptID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate flashcards"})
			return
		}

		c.JSON(http.StatusOK, datatypes.FlashcardResponse{
			ID:        set.ID,
			ConceptID: set.ConceptID,
			Cards:     set.Cards,
		})
	}
}

// loadQuizContext fetches the concept and renders its relationships as
// prompt lines, writing the error response itself on failure.
func loadQuizContext(c *gin.Context, store *storage.Store,
	req *datatypes.QuizRequest) (*datatypes.Concept, string, bool) {

	ctx := c.Request.Context()

	concept, err := store.GetConcept(ctx, req.ConceptID)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Concept not found"})
		return nil, "", false
	}
	if err != nil {
		slog.Error("Failed to load concept", "concept_id", req.ConceptID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load concept"})
		return nil, "", false
	}

	lines, err := relationshipLines(ctx, store, req.DocumentID, concept)
	if err != nil {
		slog.Error("Failed to load relationships", "document_id", req.DocumentID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load concept"})
		return nil, "", false
	}
	return concept, lines, true
}

// relationshipLines describes every edge touching the concept, one per
// line, for the generation prompt.
func relationshipLines(ctx context.Context, store *storage.Store,
	docID string, concept *datatypes.Concept) (string, error) {

	concepts, err := store.ListConcepts(ctx, docID)
	if err != nil {
		return "", err
	}
	labels := make(map[string]string, len(concepts))
	for _, c := range concepts {
		labels[c.ID] = c.Label
	}

	rels, err := store.ListRelationships(ctx, docID)
	if err != nil {
		return "", err
	}

	var lines []string
	for _, rel := range rels {
		switch concept.ID {
		case rel.SourceConceptID:
			lines = append(lines, fmt.Sprintf("- %s affects %s (%s)",
				concept.Label, labels[rel.TargetConceptID], rel.RelationshipType))
		case rel.TargetConceptID:
			lines = append(lines, fmt.Sprintf("- %s is affected by %s (%s)",
				concept.Label, labels[rel.SourceConceptID], rel.RelationshipType))
		}
	}
	if len(lines) == 0 {
		return "- (no known causal relationships)", nil
	}
	return strings.Join(lines, "\n"), nil
}

// generateJSON runs one JSON-mode generation with metrics around it.
func generateJSON(ctx context.Context, client llm.LLMClient,
	metrics *observability.Metrics, operation, prompt string) (string, error) {

	if client == nil {
		return "", errors.New("no LLM backend configured")
	}

	start := time.Now()
	raw, err := client.Generate(ctx, prompt, llm.GenerationParams{
		Temperature: llm.Float32Ptr(0.4),
		MaxTokens:   llm.IntPtr(2000),
		JSONMode:    true,
	})

	if metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.LLMCallsTotal.WithLabelValues(operation, status).Inc()
		metrics.LLMCallDurationSeconds.WithLabelValues(operation).
			Observe(time.Since(start).Seconds())
	}
	return raw, err
}
