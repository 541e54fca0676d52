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
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/Causeway/services/orchestrator/datatypes"
	"github.com/AleutianAI/Causeway/services/orchestrator/extraction"
	"github.com/AleutianAI/Causeway/services/orchestrator/observability"
	"github.com/AleutianAI/Causeway/services/orchestrator/storage"
)

// defaultDocumentLimit caps the document list when the client does not
// ask for a specific page size.
const defaultDocumentLimit = 20

// PasteDocument ingests pasted text: split into sentences, extract the
// causal graph, persist everything, and open a chat session for the
// document.
func PasteDocument(store *storage.Store, analyzer *extraction.Analyzer,
	metrics *observability.Metrics) gin.HandlerFunc {

	return func(c *gin.Context) {
		var req datatypes.PasteRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
		if err := req.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Text must be between 20 characters and 512KB"})
			return
		}

		title := strings.TrimSpace(req.Title)
		if title == "" {
			title = "Pasted Text"
		}

		summary, err := ingestText(c.Request.Context(), store, analyzer, metrics,
			title, req.Text, datatypes.SourceText)
		if err != nil {
			slog.Error("Ingestion failed", "title", title, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ingest document"})
			return
		}

		slog.Info("Document ingested", "document_id", summary.DocumentID,
			"concepts", summary.ConceptsExtracted, "relationships", summary.RelationshipsFound)
		c.JSON(http.StatusCreated, summary)
	}
}

// IngestDemo loads the built-in demo text through the same pipeline as
// pasted text.
func IngestDemo(store *storage.Store, analyzer *extraction.Analyzer,
	metrics *observability.Metrics) gin.HandlerFunc {

	return func(c *gin.Context) {
		summary, err := ingestText(c.Request.Context(), store, analyzer, metrics,
			extraction.DemoTitle, extraction.DemoText, datatypes.SourceText)
		if err != nil {
			slog.Error("Demo ingestion failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to ingest demo document"})
			return
		}
		c.JSON(http.StatusCreated, summary)
	}
}

// GenerateTopics builds a synthetic concept graph from a topic list
// without calling the LLM.
func GenerateTopics(store *storage.Store, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.TopicsRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Between 1 and 10 topics are required"})
			return
		}

		start := time.Now()
		analysis := extraction.GenerateTopicGraph(req.Topics)
		title := strings.Join(req.Topics, ", ")

		doc := &datatypes.Document{
			ID:         uuid.New().String(),
			Title:      title,
			SourceType: datatypes.SourceTopics,
			RawText:    "Topics: " + title,
			CreatedAt:  time.Now().UTC(),
		}

		summary, err := persistAnalysis(c.Request.Context(), store, doc, nil, analysis)
		if err != nil {
			slog.Error("Topic graph persistence failed", "topics", req.Topics, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build topic graph"})
			return
		}

		chat := &datatypes.ChatSession{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Title:      "Chat about " + title,
			Messages:   []datatypes.ChatMessage{},
			CreatedAt:  time.Now().UTC(),
		}
		if err := store.PutChatSession(c.Request.Context(), chat); err != nil {
			slog.Error("Failed to create chat session", "document_id", doc.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build topic graph"})
			return
		}
		summary.ChatID = chat.ID

		if metrics != nil {
			metrics.IngestDurationSeconds.WithLabelValues(string(datatypes.SourceTopics)).
				Observe(time.Since(start).Seconds())
			metrics.ConceptsExtractedTotal.WithLabelValues(string(datatypes.SourceTopics)).
				Add(float64(summary.ConceptsExtracted))
		}

		slog.Info("Topic graph generated", "document_id", doc.ID,
			"topics", len(req.Topics), "concepts", summary.ConceptsExtracted)
		c.JSON(http.StatusCreated, summary)
	}
}

// ListDocuments returns summaries of the most recent documents.
func ListDocuments(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultDocumentLimit
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = parsed
		}

		docs, err := store.ListDocuments(c.Request.Context(), limit)
		if err != nil {
			slog.Error("Failed to list documents", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list documents"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"documents": docs})
	}
}

// GetDocument returns one document by id.
func GetDocument(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := store.GetDocument(c.Request.Context(), c.Param("id"))
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
			return
		}
		if err != nil {
			slog.Error("Failed to load document", "document_id", c.Param("id"), "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load document"})
			return
		}
		c.JSON(http.StatusOK, doc)
	}
}

// GetDocumentGraph returns the causal graph for one document, shaped
// for the frontend renderer.
func GetDocumentGraph(store *storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		docID := c.Param("id")

		if _, err := store.GetDocument(ctx, docID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
				return
			}
			slog.Error("Failed to load document", "document_id", docID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load graph"})
			return
		}

		concepts, err := store.ListConcepts(ctx, docID)
		if err != nil {
			slog.Error("Failed to list concepts", "document_id", docID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load graph"})
			return
		}
		rels, err := store.ListRelationships(ctx, docID)
		if err != nil {
			slog.Error("Failed to list relationships", "document_id", docID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load graph"})
			return
		}

		graph := datatypes.GraphData{
			Concepts:      make([]datatypes.ConceptNode, 0, len(concepts)),
			Relationships: make([]datatypes.RelationshipEdge, 0, len(rels)),
		}
		for i := range concepts {
			graph.Concepts = append(graph.Concepts, concepts[i].NodeView())
		}
		for i := range rels {
			graph.Relationships = append(graph.Relationships, rels[i].EdgeView())
		}
		c.JSON(http.StatusOK, graph)
	}
}

// ingestText is the shared ingestion path for pasted and demo text.
func ingestText(ctx context.Context, store *storage.Store, analyzer *extraction.Analyzer,
	metrics *observability.Metrics, title, text string,
	source datatypes.SourceType) (*datatypes.IngestSummary, error) {

	start := time.Now()
	sentences := extraction.SplitSentences(text)
	analysis := analyzer.Analyze(ctx, sentences)

	doc := &datatypes.Document{
		ID:         uuid.New().String(),
		Title:      title,
		SourceType: source,
		RawText:    text,
		CreatedAt:  time.Now().UTC(),
	}

	summary, err := persistAnalysis(ctx, store, doc, sentences, analysis)
	if err != nil {
		return nil, err
	}

	chatTitle := analyzer.ChatTitle(ctx, text)
	if chatTitle == "" {
		chatTitle = "Chat about " + title
	}
	chat := &datatypes.ChatSession{
		ID:         uuid.New().String(),
		DocumentID: doc.ID,
		Title:      chatTitle,
		Messages:   []datatypes.ChatMessage{},
		CreatedAt:  time.Now().UTC(),
	}
	if err := store.PutChatSession(ctx, chat); err != nil {
		return nil, fmt.Errorf("failed to create chat session: %w", err)
	}
	summary.ChatID = chat.ID

	if metrics != nil {
		metrics.IngestDurationSeconds.WithLabelValues(string(source)).
			Observe(time.Since(start).Seconds())
		metrics.ConceptsExtractedTotal.WithLabelValues(string(source)).
			Add(float64(summary.ConceptsExtracted))
	}
	return summary, nil
}

// persistAnalysis stores the document, its sentence chunks, and the
// extracted graph, then marks the document processed. Chunks, concepts,
// and relationships are written concurrently; relationships reference
// concepts by id only, so write order between the groups is free.
func persistAnalysis(ctx context.Context, store *storage.Store, doc *datatypes.Document,
	sentences []string, analysis extraction.Analysis) (*datatypes.IngestSummary, error) {

	if err := store.PutDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	causal := make(map[string]bool, len(analysis.CausalSentences))
	for _, s := range analysis.CausalSentences {
		causal[s] = true
	}
	chunks := make([]datatypes.Chunk, 0, len(sentences))
	for i, s := range sentences {
		chunks = append(chunks, datatypes.Chunk{
			ID:            uuid.New().String(),
			DocumentID:    doc.ID,
			Text:          s,
			SentenceIndex: i,
			IsCausal:      causal[s],
		})
	}

	// Map extraction slugs to persistent ids before fanning out.
	slugToID := make(map[string]string, len(analysis.Concepts))
	concepts := make([]datatypes.Concept, 0, len(analysis.Concepts))
	for _, ec := range analysis.Concepts {
		id := uuid.New().String()
		slugToID[ec.ID] = id
		concepts = append(concepts, datatypes.Concept{
			ID:           id,
			DocumentID:   doc.ID,
			Label:        ec.Label,
			Description:  ec.Description,
			Unit:         ec.Unit,
			MinValue:     ec.MinValue,
			MaxValue:     ec.MaxValue,
			DefaultValue: ec.DefaultValue,
		})
	}

	rels := make([]datatypes.Relationship, 0, len(analysis.Relationships))
	for _, er := range analysis.Relationships {
		sourceID, okSource := slugToID[er.Source]
		targetID, okTarget := slugToID[er.Target]
		if !okSource || !okTarget {
			slog.Warn("Dropping relationship with unknown concept",
				"source", er.Source, "target", er.Target)
			continue
		}
		rels = append(rels, datatypes.Relationship{
			ID:               uuid.New().String(),
			DocumentID:       doc.ID,
			SourceConceptID:  sourceID,
			TargetConceptID:  targetID,
			RelationshipType: er.Type,
			Description:      er.Description,
			Equation:         er.Equation,
			Coefficient:      er.CoefficientOrDefault(),
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return store.PutChunks(gctx, chunks) })
	g.Go(func() error { return store.PutConcepts(gctx, concepts) })
	g.Go(func() error { return store.PutRelationships(gctx, rels) })
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to store extraction results: %w", err)
	}

	doc.Processed = true
	if err := store.PutDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to mark document processed: %w", err)
	}

	return &datatypes.IngestSummary{
		DocumentID:         doc.ID,
		Title:              doc.Title,
		TotalSentences:     analysis.TotalSentences,
		CausalSentences:    analysis.CausalCount,
		ConceptsExtracted:  len(concepts),
		RelationshipsFound: len(rels),
	}, nil
}
