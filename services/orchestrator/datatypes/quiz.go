// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Quiz and flashcard types. Both are generated once per concept and
// cached; a second request for the same concept returns the stored set.
package datatypes

import "time"

// QuizQuestion is one multiple-choice question. CorrectIndex points
// into Options.
type QuizQuestion struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
}

// Quiz is the persisted question set for one concept.
type Quiz struct {
	ID         string         `json:"id"`
	ConceptID  string         `json:"concept_id"`
	DocumentID string         `json:"document_id,omitempty"`
	Questions  []QuizQuestion `json:"questions"`
	CreatedAt  time.Time      `json:"created_at"`
}

// QuizRequest is the body of POST /v1/quiz/generate and
// POST /v1/quiz/flashcards/generate.
type QuizRequest struct {
	ConceptID  string `json:"concept_id" binding:"required"`
	DocumentID string `json:"document_id" binding:"required"`
}

// QuizResponse is returned by the quiz endpoint, whether freshly
// generated or served from cache.
type QuizResponse struct {
	ID        string         `json:"id"`
	ConceptID string         `json:"concept_id"`
	Questions []QuizQuestion `json:"questions"`
}

// Flashcard is a single front/back study card.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// FlashcardSet is the persisted card set for one concept.
type FlashcardSet struct {
	ID         string      `json:"id"`
	ConceptID  string      `json:"concept_id"`
	DocumentID string      `json:"document_id,omitempty"`
	Cards      []Flashcard `json:"cards"`
	CreatedAt  time.Time   `json:"created_at"`
}

// FlashcardResponse is returned by the flashcard endpoint.
type FlashcardResponse struct {
	ID        string      `json:"id"`
	ConceptID string      `json:"concept_id"`
	Cards     []Flashcard `json:"cards"`
}
