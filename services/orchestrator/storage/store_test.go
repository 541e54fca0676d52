// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/Causeway/services/orchestrator/datatypes"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := OpenDB(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db)
}

// =============================================================================
// Document Tests
// =============================================================================

func TestStore_DocumentRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := &datatypes.Document{
		ID:         uuid.NewString(),
		Title:      "Gas Laws",
		SourceType: datatypes.SourceText,
		RawText:    "Temperature increases cause pressure to rise.",
		Processed:  true,
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, store.PutDocument(ctx, doc))

	got, err := store.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Title, got.Title)
	assert.Equal(t, doc.RawText, got.RawText)
	assert.True(t, got.Processed)
}

func TestStore_GetDocument_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetDocument(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ListDocuments_NewestFirstWithLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		doc := &datatypes.Document{
			ID:         uuid.NewString(),
			Title:      "Doc",
			SourceType: datatypes.SourceText,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if i == 4 {
			doc.Title = "Newest"
		}
		require.NoError(t, store.PutDocument(ctx, doc))
	}

	summaries, err := store.ListDocuments(ctx, 3)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "Newest", summaries[0].Title)
}

func TestStore_ChunksKeepSentenceOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	docID := uuid.NewString()

	chunks := []datatypes.Chunk{
		{ID: uuid.NewString(), DocumentID: docID, Text: "Third.", SentenceIndex: 2},
		{ID: uuid.NewString(), DocumentID: docID, Text: "First.", SentenceIndex: 0, IsCausal: true},
		{ID: uuid.NewString(), DocumentID: docID, Text: "Second.", SentenceIndex: 1},
	}
	require.NoError(t, store.PutChunks(ctx, chunks))

	got, err := store.ListChunks(ctx, docID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "First.", got[0].Text)
	assert.Equal(t, "Second.", got[1].Text)
	assert.Equal(t, "Third.", got[2].Text)
	assert.True(t, got[0].IsCausal)
}

// =============================================================================
// Concept and Relationship Tests
// =============================================================================

func TestStore_ConceptsScopedToDocument(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	docA := uuid.NewString()
	docB := uuid.NewString()
	require.NoError(t, store.PutConcepts(ctx, []datatypes.Concept{
		{ID: uuid.NewString(), DocumentID: docA, Label: "Temperature"},
		{ID: uuid.NewString(), DocumentID: docA, Label: "Pressure"},
		{ID: uuid.NewString(), DocumentID: docB, Label: "Demand"},
	}))

	concepts, err := store.ListConcepts(ctx, docA)
	require.NoError(t, err)
	assert.Len(t, concepts, 2)

	concepts, err = store.ListConcepts(ctx, docB)
	require.NoError(t, err)
	require.Len(t, concepts, 1)
	assert.Equal(t, "Demand", concepts[0].Label)
}

func TestStore_RelationshipRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	docID := uuid.NewString()

	rel := datatypes.Relationship{
		ID:               uuid.NewString(),
		DocumentID:       docID,
		SourceConceptID:  uuid.NewString(),
		TargetConceptID:  uuid.NewString(),
		RelationshipType: datatypes.RelationshipDirect,
		Description:      "temperature raises pressure",
		Coefficient:      1.0,
	}
	require.NoError(t, store.PutRelationships(ctx, []datatypes.Relationship{rel}))

	got, err := store.GetRelationship(ctx, rel.ID)
	require.NoError(t, err)
	assert.Equal(t, rel.Description, got.Description)

	rels, err := store.ListRelationships(ctx, docID)
	require.NoError(t, err)
	assert.Len(t, rels, 1)
}

func TestStore_BackfillRelationshipParams_WriteOnce(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rel := datatypes.Relationship{
		ID:               uuid.NewString(),
		DocumentID:       uuid.NewString(),
		RelationshipType: datatypes.RelationshipInverse,
		Coefficient:      1.0,
	}
	require.NoError(t, store.PutRelationships(ctx, []datatypes.Relationship{rel}))

	// First backfill wins.
	got, err := store.BackfillRelationshipParams(ctx, rel.ID, "y = 100 - x", 2.0)
	require.NoError(t, err)
	assert.Equal(t, "y = 100 - x", got.Equation)
	assert.Equal(t, 2.0, got.Coefficient)

	// Second attempt must not overwrite.
	got, err = store.BackfillRelationshipParams(ctx, rel.ID, "y = 5 * x", 9.0)
	require.NoError(t, err)
	assert.Equal(t, "y = 100 - x", got.Equation)
	assert.Equal(t, 2.0, got.Coefficient)

	stored, err := store.GetRelationship(ctx, rel.ID)
	require.NoError(t, err)
	assert.Equal(t, "y = 100 - x", stored.Equation)
}

func TestStore_BackfillRelationshipParams_UnknownID(t *testing.T) {
	store := newTestStore(t)

	_, err := store.BackfillRelationshipParams(context.Background(), uuid.NewString(), "y = x", 1.0)
	assert.ErrorIs(t, err, ErrNotFound)
}

// =============================================================================
// User Tests
// =============================================================================

func TestStore_CreateUser_And_EmailIndex(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	u := &datatypes.User{
		ID:           uuid.NewString(),
		Email:        "student@example.com",
		Name:         "Student",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, store.CreateUser(ctx, u))

	got, err := store.GetUserByEmail(ctx, "student@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "Student", got.Name)
}

func TestStore_CreateUser_DuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &datatypes.User{ID: uuid.NewString(), Email: "dup@example.com"}
	require.NoError(t, store.CreateUser(ctx, first))

	second := &datatypes.User{ID: uuid.NewString(), Email: "dup@example.com"}
	err := store.CreateUser(ctx, second)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

// =============================================================================
// Chat, Quiz, and Flashcard Tests
// =============================================================================

func TestStore_ChatSessionByDocument(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	docID := uuid.NewString()

	session := &datatypes.ChatSession{
		ID:         uuid.NewString(),
		DocumentID: docID,
		Title:      "Gas Laws",
		Messages: []datatypes.ChatMessage{
			{Role: "user", Content: "What drives pressure?"},
		},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.PutChatSession(ctx, session))

	got, err := store.GetChatByDocument(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	require.Len(t, got.Messages, 1)

	// Appending a message is a full-session rewrite.
	got.Messages = append(got.Messages, datatypes.ChatMessage{Role: "assistant", Content: "Temperature."})
	require.NoError(t, store.PutChatSession(ctx, got))

	got, err = store.GetChatSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 2)
}

func TestStore_QuizCachePerConcept(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	conceptID := uuid.NewString()

	_, err := store.GetQuizByConcept(ctx, conceptID)
	assert.ErrorIs(t, err, ErrNotFound)

	quiz := &datatypes.Quiz{
		ID:        uuid.NewString(),
		ConceptID: conceptID,
		Questions: []datatypes.QuizQuestion{
			{Question: "Q?", Options: []string{"a", "b"}, CorrectIndex: 1, Explanation: "b it is"},
		},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.PutQuiz(ctx, quiz))

	got, err := store.GetQuizByConcept(ctx, conceptID)
	require.NoError(t, err)
	require.Len(t, got.Questions, 1)
	assert.Equal(t, 1, got.Questions[0].CorrectIndex)
}

func TestStore_FlashcardCachePerConcept(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	conceptID := uuid.NewString()

	set := &datatypes.FlashcardSet{
		ID:        uuid.NewString(),
		ConceptID: conceptID,
		Cards:     []datatypes.Flashcard{{Front: "Boyle's law", Back: "P is inverse to V"}},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.PutFlashcards(ctx, set))

	got, err := store.GetFlashcardsByConcept(ctx, conceptID)
	require.NoError(t, err)
	require.Len(t, got.Cards, 1)
	assert.Equal(t, "Boyle's law", got.Cards[0].Front)
}

func TestStore_ContextCancelled(t *testing.T) {
	store := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.PutDocument(ctx, &datatypes.Document{ID: uuid.NewString()})
	assert.ErrorIs(t, err, context.Canceled)
}
