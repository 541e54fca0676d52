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
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/AleutianAI/Causeway/services/llm"
	"github.com/AleutianAI/Causeway/services/orchestrator/datatypes"
	"github.com/AleutianAI/Causeway/services/orchestrator/extraction"
	"github.com/AleutianAI/Causeway/services/orchestrator/observability"
	"github.com/AleutianAI/Causeway/services/orchestrator/storage"
)

const (
	// maxContextChunks caps how many concept-matching sentences are fed
	// to the model.
	maxContextChunks = 10

	// maxFallbackChunks caps the causal-sentence fallback used when no
	// chunk mentions the concept.
	maxFallbackChunks = 5
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  64 * 1024,
	WriteBufferSize: 64 * 1024,
}

// HandleChatMessage answers one concept-scoped chat turn: retrieve the
// document chunks mentioning the concept, build the context, and call
// the model.
func HandleChatMessage(store *storage.Store, analyzer *extraction.Analyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.ChatRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "document_id, concept_id, and message are required"})
			return
		}

		resp, status, err := answerChatTurn(c.Request.Context(), store, analyzer, &req)
		if err != nil {
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// HandleChatWebSocket relays chat turns over a websocket. Each inbound
// frame is a ChatRequest; each outbound frame is a ChatResponse or an
// error object.
func HandleChatWebSocket(store *storage.Store, analyzer *extraction.Analyzer,
	metrics *observability.Metrics) gin.HandlerFunc {

	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("failed to upgrade the websocket", "error", err)
			return
		}
		defer ws.Close()

		if metrics != nil {
			metrics.ActiveChatSessions.Inc()
			defer metrics.ActiveChatSessions.Dec()
		}
		slog.Info("Websocket chat client connected")

		for {
			var req datatypes.ChatRequest
			if err := ws.ReadJSON(&req); err != nil {
				slog.Info("Websocket chat client disconnected", "error", err.Error())
				break
			}
			if req.DocumentID == "" || req.ConceptID == "" || req.Message == "" {
				if err := ws.WriteJSON(gin.H{"error": "document_id, concept_id, and message are required"}); err != nil {
					break
				}
				continue
			}

			resp, _, err := answerChatTurn(c.Request.Context(), store, analyzer, &req)
			if err != nil {
				if werr := ws.WriteJSON(gin.H{"error": err.Error()}); werr != nil {
					break
				}
				continue
			}
			if err := ws.WriteJSON(resp); err != nil {
				slog.Warn("Failed to write websocket chat reply", "error", err)
				break
			}
		}
	}
}

// answerChatTurn is the shared chat path for the HTTP and websocket
// endpoints. It returns the response, or an error with the HTTP status
// the caller should report.
func answerChatTurn(ctx context.Context, store *storage.Store,
	analyzer *extraction.Analyzer, req *datatypes.ChatRequest) (*datatypes.ChatResponse, int, error) {

	concept, err := store.GetConcept(ctx, req.ConceptID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, http.StatusNotFound, errors.New("Concept not found")
	}
	if err != nil {
		slog.Error("Failed to load concept", "concept_id", req.ConceptID, "error", err)
		return nil, http.StatusInternalServerError, errors.New("Failed to answer message")
	}

	contextChunks, err := conceptContext(ctx, store, req.DocumentID, concept.Label)
	if err != nil {
		slog.Error("Failed to build chat context", "document_id", req.DocumentID, "error", err)
		return nil, http.StatusInternalServerError, errors.New("Failed to answer message")
	}

	history := make([]llm.Message, 0, len(req.History))
	for _, m := range req.History {
		history = append(history, llm.Message{Role: m.Role, Content: m.Content})
	}

	contextText := strings.Join(contextChunks, "\n---\n")
	reply := analyzer.ChatWithContext(ctx, contextText, req.Message, history)

	if err := appendChatTurn(ctx, store, req.DocumentID, req.Message, reply); err != nil {
		// History persistence is best effort; the reply still goes out.
		slog.Warn("Failed to append chat turn", "document_id", req.DocumentID, "error", err)
	}

	return &datatypes.ChatResponse{
		Response:    reply,
		ContextUsed: contextChunks,
	}, http.StatusOK, nil
}

// conceptContext selects the document chunks to ground a chat reply:
// sentences mentioning the concept label, or the causal sentences when
// nothing mentions it.
func conceptContext(ctx context.Context, store *storage.Store,
	docID, label string) ([]string, error) {

	chunks, err := store.ListChunks(ctx, docID)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(label)
	matched := make([]string, 0, maxContextChunks)
	for _, chunk := range chunks {
		if strings.Contains(strings.ToLower(chunk.Text), needle) {
			matched = append(matched, chunk.Text)
			if len(matched) == maxContextChunks {
				return matched, nil
			}
		}
	}
	if len(matched) > 0 {
		return matched, nil
	}

	for _, chunk := range chunks {
		if chunk.IsCausal {
			matched = append(matched, chunk.Text)
			if len(matched) == maxFallbackChunks {
				break
			}
		}
	}
	return matched, nil
}

// appendChatTurn records the user message and assistant reply on the
// document's chat session, if one exists.
func appendChatTurn(ctx context.Context, store *storage.Store, docID, message, reply string) error {
	session, err := store.GetChatByDocument(ctx, docID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	session.Messages = append(session.Messages,
		datatypes.ChatMessage{Role: "user", Content: message},
		datatypes.ChatMessage{Role: "assistant", Content: reply},
	)
	return store.PutChatSession(ctx, session)
}
