// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the quiz and flashcard generation handlers.

package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/Causeway/services/llm"
	"github.com/AleutianAI/Causeway/services/orchestrator/datatypes"
	"github.com/AleutianAI/Causeway/services/orchestrator/storage"
)

const quizJSON = `{
	"questions": [
		{
			"question": "What happens to pressure when temperature rises?",
			"options": ["It rises", "It falls", "It is constant", "It oscillates"],
			"correct_index": 0,
			"explanation": "The relationship is direct."
		},
		{
			"question": "What anchors the model?",
			"options": ["Defaults", "Noise", "Nothing", "Randomness"],
			"correct_index": 0,
			"explanation": "Concept defaults anchor it."
		}
	]
}`

const cardsJSON = `{
	"cards": [
		{"front": "What is temperature?", "back": "A measure of thermal energy."},
		{"front": "Unit of pressure?", "back": "kPa"}
	]
}`

func quizRouter(store *storage.Store, client llm.LLMClient) *gin.Engine {
	router := gin.New()
	router.POST("/v1/quiz/generate", GenerateQuiz(store, client, nil))
	router.POST("/v1/quiz/flashcards/generate", GenerateFlashcards(store, client, nil))
	return router
}

func TestGenerateQuiz_GeneratesAndCaches(t *testing.T) {
	store := newTestStore(t)
	docID, rel := seedGraph(t, store, "y = x", datatypes.RelationshipDirect, 1)
	client := llm.NewMockClient(quizJSON)
	router := quizRouter(store, client)

	body := gin.H{"concept_id": rel.SourceConceptID, "document_id": docID}

	w := doJSON(t, router, "POST", "/v1/quiz/generate", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var first datatypes.QuizResponse
	decodeBody(t, w, &first)
	require.Len(t, first.Questions, 2)
	assert.Equal(t, 0, first.Questions[0].CorrectIndex)
	assert.Equal(t, rel.SourceConceptID, first.ConceptID)

	// Second request is served from the cache without another LLM call.
	w = doJSON(t, router, "POST", "/v1/quiz/generate", body)
	require.Equal(t, http.StatusOK, w.Code)
	var second datatypes.QuizResponse
	decodeBody(t, w, &second)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, client.Calls())
}

func TestGenerateQuiz_PromptIncludesRelationships(t *testing.T) {
	store := newTestStore(t)
	docID, rel := seedGraph(t, store, "y = x", datatypes.RelationshipDirect, 1)
	client := llm.NewMockClient(quizJSON)
	router := quizRouter(store, client)

	w := doJSON(t, router, "POST", "/v1/quiz/generate",
		gin.H{"concept_id": rel.SourceConceptID, "document_id": docID})
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, client.Prompts, 1)
	assert.Contains(t, client.Prompts[0], "Temperature affects Pressure (direct)")
}

func TestGenerateQuiz_UnknownConcept(t *testing.T) {
	router := quizRouter(newTestStore(t), llm.NewMockClient(quizJSON))

	w := doJSON(t, router, "POST", "/v1/quiz/generate",
		gin.H{"concept_id": "nope", "document_id": "nope"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerateQuiz_BadBackendJSON(t *testing.T) {
	store := newTestStore(t)
	docID, rel := seedGraph(t, store, "y = x", datatypes.RelationshipDirect, 1)
	router := quizRouter(store, llm.NewMockClient("not json"))

	w := doJSON(t, router, "POST", "/v1/quiz/generate",
		gin.H{"concept_id": rel.SourceConceptID, "document_id": docID})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGenerateQuiz_RejectsMissingFields(t *testing.T) {
	router := quizRouter(newTestStore(t), llm.NewMockClient(quizJSON))

	w := doJSON(t, router, "POST", "/v1/quiz/generate", gin.H{"concept_id": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateFlashcards_GeneratesAndCaches(t *testing.T) {
	store := newTestStore(t)
	docID, rel := seedGraph(t, store, "y = x", datatypes.RelationshipDirect, 1)
	client := llm.NewMockClient(cardsJSON)
	router := quizRouter(store, client)

	body := gin.H{"concept_id": rel.TargetConceptID, "document_id": docID}

	w := doJSON(t, router, "POST", "/v1/quiz/flashcards/generate", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var first datatypes.FlashcardResponse
	decodeBody(t, w, &first)
	require.Len(t, first.Cards, 2)
	assert.Equal(t, "kPa", first.Cards[1].Back)

	w = doJSON(t, router, "POST", "/v1/quiz/flashcards/generate", body)
	require.Equal(t, http.StatusOK, w.Code)
	var second datatypes.FlashcardResponse
	decodeBody(t, w, &second)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, client.Calls())
}

func TestGenerateFlashcards_PromptDescribesInboundEdge(t *testing.T) {
	store := newTestStore(t)
	docID, rel := seedGraph(t, store, "y = x", datatypes.RelationshipDirect, 1)
	client := llm.NewMockClient(cardsJSON)
	router := quizRouter(store, client)

	w := doJSON(t, router, "POST", "/v1/quiz/flashcards/generate",
		gin.H{"concept_id": rel.TargetConceptID, "document_id": docID})
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, client.Prompts, 1)
	assert.Contains(t, client.Prompts[0], "Pressure is affected by Temperature (direct)")
}
