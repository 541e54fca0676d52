// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the concept-scoped chat handler.

package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/Causeway/services/llm"
	"github.com/AleutianAI/Causeway/services/orchestrator/datatypes"
	"github.com/AleutianAI/Causeway/services/orchestrator/extraction"
	"github.com/AleutianAI/Causeway/services/orchestrator/storage"
)

func chatRouter(store *storage.Store, client llm.LLMClient) *gin.Engine {
	analyzer := extraction.NewAnalyzer(client, nil)
	router := gin.New()
	router.POST("/v1/chat/message", HandleChatMessage(store, analyzer))
	return router
}

// seedChatDocument stores a document with chunks, one concept, and a
// chat session, returning the ids the chat handler needs.
func seedChatDocument(t *testing.T, store *storage.Store) (docID, conceptID string) {
	t.Helper()
	ctx := context.Background()
	docID, rel := seedGraph(t, store, "y = x", datatypes.RelationshipDirect, 1)
	conceptID = rel.SourceConceptID

	chunks := []datatypes.Chunk{
		{ID: uuid.New().String(), DocumentID: docID, SentenceIndex: 0,
			Text: "The experiment was performed on Tuesday."},
		{ID: uuid.New().String(), DocumentID: docID, SentenceIndex: 1,
			Text: "As the temperature increases, the pressure rises.", IsCausal: true},
		{ID: uuid.New().String(), DocumentID: docID, SentenceIndex: 2,
			Text: "Results were recorded in the lab notebook."},
	}
	require.NoError(t, store.PutChunks(ctx, chunks))

	require.NoError(t, store.PutChatSession(ctx, &datatypes.ChatSession{
		ID:         uuid.New().String(),
		DocumentID: docID,
		Title:      "Chat about Seeded",
		Messages:   []datatypes.ChatMessage{},
		CreatedAt:  time.Now().UTC(),
	}))
	return docID, conceptID
}

func TestChatMessage_UsesConceptContext(t *testing.T) {
	store := newTestStore(t)
	docID, conceptID := seedChatDocument(t, store)
	router := chatRouter(store, llm.NewMockClient("Pressure goes up with temperature."))

	w := doJSON(t, router, "POST", "/v1/chat/message", gin.H{
		"document_id": docID,
		"concept_id":  conceptID,
		"message":     "What happens when it gets hotter?",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp datatypes.ChatResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "Pressure goes up with temperature.", resp.Response)
	require.Len(t, resp.ContextUsed, 1)
	assert.Contains(t, resp.ContextUsed[0], "temperature")
}

func TestChatMessage_AppendsToSession(t *testing.T) {
	store := newTestStore(t)
	docID, conceptID := seedChatDocument(t, store)
	router := chatRouter(store, llm.NewMockClient("Reply one."))

	w := doJSON(t, router, "POST", "/v1/chat/message", gin.H{
		"document_id": docID,
		"concept_id":  conceptID,
		"message":     "First question",
	})
	require.Equal(t, http.StatusOK, w.Code)

	session, err := store.GetChatByDocument(context.Background(), docID)
	require.NoError(t, err)
	require.Len(t, session.Messages, 2)
	assert.Equal(t, "user", session.Messages[0].Role)
	assert.Equal(t, "First question", session.Messages[0].Content)
	assert.Equal(t, "assistant", session.Messages[1].Role)
	assert.Equal(t, "Reply one.", session.Messages[1].Content)
}

func TestChatMessage_FallsBackToCausalChunks(t *testing.T) {
	store := newTestStore(t)
	docID, rel := seedGraph(t, store, "y = x", datatypes.RelationshipDirect, 1)

	// No chunk mentions "Pressure" by label; the causal sentence is the
	// fallback context.
	chunks := []datatypes.Chunk{
		{ID: uuid.New().String(), DocumentID: docID, SentenceIndex: 0,
			Text: "Warmer air pushes harder on the walls.", IsCausal: true},
		{ID: uuid.New().String(), DocumentID: docID, SentenceIndex: 1,
			Text: "The notebook was blue."},
	}
	require.NoError(t, store.PutChunks(context.Background(), chunks))
	router := chatRouter(store, llm.NewMockClient("ok"))

	w := doJSON(t, router, "POST", "/v1/chat/message", gin.H{
		"document_id": docID,
		"concept_id":  rel.TargetConceptID,
		"message":     "Explain",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp datatypes.ChatResponse
	decodeBody(t, w, &resp)
	require.Len(t, resp.ContextUsed, 1)
	assert.Equal(t, "Warmer air pushes harder on the walls.", resp.ContextUsed[0])
}

func TestChatMessage_UnknownConcept(t *testing.T) {
	store := newTestStore(t)
	docID, _ := seedChatDocument(t, store)
	router := chatRouter(store, llm.NewMockClient("ok"))

	w := doJSON(t, router, "POST", "/v1/chat/message", gin.H{
		"document_id": docID,
		"concept_id":  "nope",
		"message":     "Hello",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatMessage_RejectsMissingFields(t *testing.T) {
	router := chatRouter(newTestStore(t), llm.NewMockClient("ok"))

	w := doJSON(t, router, "POST", "/v1/chat/message", gin.H{"message": "Hello"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatMessage_ErrorReplyWhenBackendFails(t *testing.T) {
	store := newTestStore(t)
	docID, conceptID := seedChatDocument(t, store)
	router := chatRouter(store, llm.NewFailingMockClient(assert.AnError))

	w := doJSON(t, router, "POST", "/v1/chat/message", gin.H{
		"document_id": docID,
		"concept_id":  conceptID,
		"message":     "Hello",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp datatypes.ChatResponse
	decodeBody(t, w, &resp)
	assert.Contains(t, resp.Response, "I apologize")
}
