// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Shared test helpers for the handler suite.

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/Causeway/services/orchestrator/datatypes"
	"github.com/AleutianAI/Causeway/services/orchestrator/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	db, err := storage.OpenDB(storage.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return storage.NewStore(db)
}

// doJSON performs a request with a JSON body against the router.
func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

// seedGraph stores a two-concept document with one relationship and
// returns the relationship, ready for simulation tests.
func seedGraph(t *testing.T, store *storage.Store, equation, relType string,
	coefficient float64) (docID string, rel datatypes.Relationship) {

	t.Helper()
	ctx := context.Background()
	docID = uuid.New().String()

	require.NoError(t, store.PutDocument(ctx, &datatypes.Document{
		ID:         docID,
		Title:      "Seeded",
		SourceType: datatypes.SourceText,
		RawText:    "The temperature increase causes the pressure to rise.",
		Processed:  true,
		CreatedAt:  time.Now().UTC(),
	}))

	source := datatypes.Concept{
		ID:           uuid.New().String(),
		DocumentID:   docID,
		Label:        "Temperature",
		Description:  "The measure of thermal energy in a system",
		Unit:         "°C",
		DefaultValue: fptr(25),
	}
	target := datatypes.Concept{
		ID:           uuid.New().String(),
		DocumentID:   docID,
		Label:        "Pressure",
		Description:  "Force exerted per unit area",
		Unit:         "kPa",
		DefaultValue: fptr(101.3),
	}
	require.NoError(t, store.PutConcepts(ctx, []datatypes.Concept{source, target}))

	rel = datatypes.Relationship{
		ID:               uuid.New().String(),
		DocumentID:       docID,
		SourceConceptID:  source.ID,
		TargetConceptID:  target.ID,
		RelationshipType: relType,
		Description:      "As temperature increases, pressure increases",
		Equation:         equation,
		Coefficient:      coefficient,
	}
	require.NoError(t, store.PutRelationships(ctx, []datatypes.Relationship{rel}))
	return docID, rel
}

func fptr(v float64) *float64 { return &v }

// =============================================================================
// HealthCheck Tests
// =============================================================================

func TestHealthCheck_ReturnsOK(t *testing.T) {
	router := gin.New()
	router.GET("/health", HealthCheck)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)
	assert.Equal(t, "ok", response["status"])
}
