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
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/Causeway/services/orchestrator/datatypes"
)

// Sentinel errors returned by Store operations.
var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned by CreateUser when the email address is
	// already registered.
	ErrEmailTaken = errors.New("email already registered")
)

// Key layout. Every entity is one JSON value under a typed prefix;
// secondary indexes live under "idx:" and hold the primary key (or
// nothing, for membership indexes).
//
//	doc:<id>                          Document
//	chunk:<docID>:<%06d index>        Chunk, ordered by sentence index
//	concept:<id>                      Concept
//	idx:docconcept:<docID>:<id>       membership index
//	rel:<id>                          Relationship
//	idx:docrel:<docID>:<id>           membership index
//	user:<id>                         User
//	idx:email:<email>                 user ID
//	chat:<id>                         ChatSession
//	idx:docchat:<docID>               chat session ID
//	quiz:<conceptID>                  Quiz
//	cards:<conceptID>                 FlashcardSet

// Store provides typed access to the persisted domain model.
type Store struct {
	db *DB
}

// NewStore wraps an open database.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

func docKey(id string) []byte     { return []byte("doc:" + id) }
func chunkKey(docID string, idx int) []byte {
	return []byte(fmt.Sprintf("chunk:%s:%06d", docID, idx))
}
func chunkPrefix(docID string) []byte   { return []byte("chunk:" + docID + ":") }
func conceptKey(id string) []byte       { return []byte("concept:" + id) }
func docConceptKey(docID, id string) []byte {
	return []byte("idx:docconcept:" + docID + ":" + id)
}
func docConceptPrefix(docID string) []byte { return []byte("idx:docconcept:" + docID + ":") }
func relKey(id string) []byte              { return []byte("rel:" + id) }
func docRelKey(docID, id string) []byte    { return []byte("idx:docrel:" + docID + ":" + id) }
func docRelPrefix(docID string) []byte     { return []byte("idx:docrel:" + docID + ":") }
func userKey(id string) []byte             { return []byte("user:" + id) }
func emailKey(email string) []byte         { return []byte("idx:email:" + email) }
func chatKey(id string) []byte             { return []byte("chat:" + id) }
func docChatKey(docID string) []byte       { return []byte("idx:docchat:" + docID) }
func quizKey(conceptID string) []byte      { return []byte("quiz:" + conceptID) }
func cardsKey(conceptID string) []byte     { return []byte("cards:" + conceptID) }

func setJSON(txn *badger.Txn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return txn.Set(key, data)
}

func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(data []byte) error {
		return json.Unmarshal(data, v)
	})
}

func (s *Store) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(fn)
}

func (s *Store) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(fn)
}

// =============================================================================
// Documents and Chunks
// =============================================================================

// PutDocument stores or replaces a document.
func (s *Store) PutDocument(ctx context.Context, doc *datatypes.Document) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		return setJSON(txn, docKey(doc.ID), doc)
	})
}

// GetDocument returns the document with the given ID.
func (s *Store) GetDocument(ctx context.Context, id string) (*datatypes.Document, error) {
	var doc datatypes.Document
	err := s.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, docKey(id), &doc)
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListDocuments returns up to limit documents, newest first.
func (s *Store) ListDocuments(ctx context.Context, limit int) ([]datatypes.DocumentSummary, error) {
	var docs []datatypes.Document
	err := s.view(ctx, func(txn *badger.Txn) error {
		return forEachPrefix(txn, []byte("doc:"), func(data []byte) error {
			var d datatypes.Document
			if err := json.Unmarshal(data, &d); err != nil {
				return err
			}
			docs = append(docs, d)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}

	summaries := make([]datatypes.DocumentSummary, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, datatypes.DocumentSummary{
			ID:         d.ID,
			Title:      d.Title,
			SourceType: d.SourceType,
			Processed:  d.Processed,
		})
	}
	return summaries, nil
}

// PutChunks stores a document's chunks in one transaction.
func (s *Store) PutChunks(ctx context.Context, chunks []datatypes.Chunk) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		for i := range chunks {
			c := &chunks[i]
			if err := setJSON(txn, chunkKey(c.DocumentID, c.SentenceIndex), c); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListChunks returns a document's chunks in sentence order.
func (s *Store) ListChunks(ctx context.Context, docID string) ([]datatypes.Chunk, error) {
	var chunks []datatypes.Chunk
	err := s.view(ctx, func(txn *badger.Txn) error {
		return forEachPrefix(txn, chunkPrefix(docID), func(data []byte) error {
			var c datatypes.Chunk
			if err := json.Unmarshal(data, &c); err != nil {
				return err
			}
			chunks = append(chunks, c)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return chunks, nil
}

// =============================================================================
// Concepts and Relationships
// =============================================================================

// PutConcepts stores a document's concepts in one transaction.
func (s *Store) PutConcepts(ctx context.Context, concepts []datatypes.Concept) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		for i := range concepts {
			c := &concepts[i]
			if err := setJSON(txn, conceptKey(c.ID), c); err != nil {
				return err
			}
			if err := txn.Set(docConceptKey(c.DocumentID, c.ID), nil); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetConcept returns the concept with the given ID.
func (s *Store) GetConcept(ctx context.Context, id string) (*datatypes.Concept, error) {
	var c datatypes.Concept
	err := s.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, conceptKey(id), &c)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListConcepts returns all concepts belonging to a document.
func (s *Store) ListConcepts(ctx context.Context, docID string) ([]datatypes.Concept, error) {
	var concepts []datatypes.Concept
	err := s.view(ctx, func(txn *badger.Txn) error {
		ids, err := indexedIDs(txn, docConceptPrefix(docID))
		if err != nil {
			return err
		}
		for _, id := range ids {
			var c datatypes.Concept
			if err := getJSON(txn, conceptKey(id), &c); err != nil {
				return err
			}
			concepts = append(concepts, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return concepts, nil
}

// PutRelationships stores a document's relationships in one transaction.
func (s *Store) PutRelationships(ctx context.Context, rels []datatypes.Relationship) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		for i := range rels {
			r := &rels[i]
			if err := setJSON(txn, relKey(r.ID), r); err != nil {
				return err
			}
			if err := txn.Set(docRelKey(r.DocumentID, r.ID), nil); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetRelationship returns the relationship with the given ID.
func (s *Store) GetRelationship(ctx context.Context, id string) (*datatypes.Relationship, error) {
	var r datatypes.Relationship
	err := s.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, relKey(id), &r)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRelationships returns all relationships belonging to a document.
func (s *Store) ListRelationships(ctx context.Context, docID string) ([]datatypes.Relationship, error) {
	var rels []datatypes.Relationship
	err := s.view(ctx, func(txn *badger.Txn) error {
		ids, err := indexedIDs(txn, docRelPrefix(docID))
		if err != nil {
			return err
		}
		for _, id := range ids {
			var r datatypes.Relationship
			if err := getJSON(txn, relKey(id), &r); err != nil {
				return err
			}
			rels = append(rels, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rels, nil
}

// BackfillRelationshipParams upgrades a relationship with a generated
// equation and coefficient exactly once. If the relationship already
// carries an equation the stored record is returned unchanged; the
// upgrade never overwrites.
func (s *Store) BackfillRelationshipParams(ctx context.Context, id, equation string, coefficient float64) (*datatypes.Relationship, error) {
	var r datatypes.Relationship
	err := s.update(ctx, func(txn *badger.Txn) error {
		if err := getJSON(txn, relKey(id), &r); err != nil {
			return err
		}
		if r.Equation != "" {
			return nil
		}
		r.Equation = equation
		r.Coefficient = coefficient
		return setJSON(txn, relKey(id), &r)
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// =============================================================================
// Users
// =============================================================================

// CreateUser stores a new user and claims their email address.
// Returns ErrEmailTaken if the email is already registered.
func (s *Store) CreateUser(ctx context.Context, u *datatypes.User) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		_, err := txn.Get(emailKey(u.Email))
		if err == nil {
			return ErrEmailTaken
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := setJSON(txn, userKey(u.ID), u); err != nil {
			return err
		}
		return txn.Set(emailKey(u.Email), []byte(u.ID))
	})
}

// GetUser returns the user with the given ID.
func (s *Store) GetUser(ctx context.Context, id string) (*datatypes.User, error) {
	var u datatypes.User
	err := s.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, userKey(id), &u)
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail resolves an email address through the secondary index.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*datatypes.User, error) {
	var u datatypes.User
	err := s.view(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get(emailKey(email))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var id string
		if err := item.Value(func(data []byte) error {
			id = string(data)
			return nil
		}); err != nil {
			return err
		}
		return getJSON(txn, userKey(id), &u)
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// =============================================================================
// Chat Sessions
// =============================================================================

// PutChatSession stores or replaces a chat session and its
// document index entry.
func (s *Store) PutChatSession(ctx context.Context, session *datatypes.ChatSession) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		if err := setJSON(txn, chatKey(session.ID), session); err != nil {
			return err
		}
		return txn.Set(docChatKey(session.DocumentID), []byte(session.ID))
	})
}

// GetChatSession returns the chat session with the given ID.
func (s *Store) GetChatSession(ctx context.Context, id string) (*datatypes.ChatSession, error) {
	var session datatypes.ChatSession
	err := s.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, chatKey(id), &session)
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// GetChatByDocument returns the chat session attached to a document.
func (s *Store) GetChatByDocument(ctx context.Context, docID string) (*datatypes.ChatSession, error) {
	var session datatypes.ChatSession
	err := s.view(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get(docChatKey(docID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var id string
		if err := item.Value(func(data []byte) error {
			id = string(data)
			return nil
		}); err != nil {
			return err
		}
		return getJSON(txn, chatKey(id), &session)
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// =============================================================================
// Quizzes and Flashcards
// =============================================================================

// PutQuiz caches the generated quiz for a concept.
func (s *Store) PutQuiz(ctx context.Context, quiz *datatypes.Quiz) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		return setJSON(txn, quizKey(quiz.ConceptID), quiz)
	})
}

// GetQuizByConcept returns the cached quiz for a concept, if any.
func (s *Store) GetQuizByConcept(ctx context.Context, conceptID string) (*datatypes.Quiz, error) {
	var quiz datatypes.Quiz
	err := s.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, quizKey(conceptID), &quiz)
	})
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

// PutFlashcards caches the generated flashcard set for a concept.
func (s *Store) PutFlashcards(ctx context.Context, set *datatypes.FlashcardSet) error {
	return s.update(ctx, func(txn *badger.Txn) error {
		return setJSON(txn, cardsKey(set.ConceptID), set)
	})
}

// GetFlashcardsByConcept returns the cached flashcard set for a concept.
func (s *Store) GetFlashcardsByConcept(ctx context.Context, conceptID string) (*datatypes.FlashcardSet, error) {
	var set datatypes.FlashcardSet
	err := s.view(ctx, func(txn *badger.Txn) error {
		return getJSON(txn, cardsKey(conceptID), &set)
	})
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// =============================================================================
// Iteration helpers
// =============================================================================

// forEachPrefix calls fn with the value of every key under the prefix,
// in key order.
func forEachPrefix(txn *badger.Txn, prefix []byte, fn func(data []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}

// indexedIDs returns the entity IDs recorded under a membership index
// prefix. The ID is the key segment after the prefix.
func indexedIDs(txn *badger.Txn, prefix []byte) ([]string, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var ids []string
	for it.Rewind(); it.Valid(); it.Next() {
		key := it.Item().Key()
		ids = append(ids, string(key[len(prefix):]))
	}
	return ids, nil
}
