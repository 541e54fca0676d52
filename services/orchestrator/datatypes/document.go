// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides data structures for the orchestrator service.
//
// This file contains the document and chunk models produced by text
// ingestion. A Document holds the raw submitted text; its Chunks are the
// individual sentences in order, flagged when the extraction pipeline
// identified them as carrying a causal assertion.
package datatypes

import (
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// MinPasteBytes is the minimum length of pasted text accepted for
	// ingestion. Anything shorter cannot contain a causal sentence worth
	// extracting.
	MinPasteBytes = 20

	// MaxPasteBytes bounds a single pasted submission.
	MaxPasteBytes = 512 * 1024 // 512KB
)

// validate is the shared validator instance for request datatypes.
var validate = validator.New()

// SourceType describes where a document's text came from.
type SourceType string

const (
	SourceText   SourceType = "text"
	SourceTopics SourceType = "topics"
)

// Document is a persisted unit of ingested text.
type Document struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	SourceType SourceType `json:"source_type"`
	RawText    string     `json:"raw_text"`
	Processed  bool       `json:"processed"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Chunk is one sentence of a document, in reading order.
type Chunk struct {
	ID            string `json:"id"`
	DocumentID    string `json:"document_id"`
	Text          string `json:"text"`
	SentenceIndex int    `json:"sentence_index"`
	IsCausal      bool   `json:"is_causal"`
}

// PasteRequest is the body of POST /v1/documents/paste.
type PasteRequest struct {
	Text  string `json:"text" binding:"required"`
	Title string `json:"title"`
}

// Validate enforces the paste size bounds beyond what binding covers.
func (r *PasteRequest) Validate() error {
	type bounds struct {
		Text string `validate:"required,min=20,max=524288"`
	}
	return validate.Struct(bounds{Text: r.Text})
}

// TopicsRequest is the body of POST /v1/documents/topics: build a graph
// from a list of topics instead of free text.
type TopicsRequest struct {
	Topics []string `json:"topics" binding:"required,min=1,max=10,dive,required,max=120"`
}

// IngestSummary is returned by the ingestion endpoints.
type IngestSummary struct {
	DocumentID         string `json:"document_id"`
	ChatID             string `json:"chat_id"`
	Title              string `json:"title"`
	TotalSentences     int    `json:"total_sentences"`
	CausalSentences    int    `json:"causal_sentences"`
	ConceptsExtracted  int    `json:"concepts_extracted"`
	RelationshipsFound int    `json:"relationships_found"`
}

// DocumentSummary is the list-view projection of a Document.
type DocumentSummary struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	SourceType SourceType `json:"source_type"`
	Processed  bool       `json:"processed"`
}
