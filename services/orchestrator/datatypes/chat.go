// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Concept-scoped chat types. A chat session is attached to one document
// and created at ingestion time; messages are retained in order.
package datatypes

import "time"

const (
	// MaxChatMessageBytes bounds a single chat message to prevent memory
	// exhaustion with oversized payloads.
	MaxChatMessageBytes = 32 * 1024 // 32KB

	// MaxChatHistory is the maximum number of prior messages accepted in
	// one request.
	MaxChatHistory = 100
)

// ChatMessage is one turn in a conversation. Role is "user" or
// "assistant".
type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=user assistant"`
	Content string `json:"content" binding:"required"`
}

// ChatSession is the persisted conversation attached to a document.
type ChatSession struct {
	ID         string        `json:"id"`
	DocumentID string        `json:"document_id"`
	Title      string        `json:"title"`
	Messages   []ChatMessage `json:"messages"`
	CreatedAt  time.Time     `json:"created_at"`
}

// ChatRequest is the body of POST /v1/chat/message. The concept scopes
// context retrieval: only chunks mentioning the concept's label are fed
// to the model.
type ChatRequest struct {
	DocumentID string        `json:"document_id" binding:"required"`
	ConceptID  string        `json:"concept_id" binding:"required"`
	Message    string        `json:"message" binding:"required,max=32768"`
	History    []ChatMessage `json:"history" binding:"max=100,dive"`
}

// ChatResponse carries the assistant reply plus the context chunks that
// informed it.
type ChatResponse struct {
	Response    string   `json:"response"`
	ContextUsed []string `json:"context_used"`
}
