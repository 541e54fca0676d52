// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/AleutianAI/Causeway/services/llm"
)

// maxAnalysisChars truncates the combined text before prompting, as a
// rough token cap.
const maxAnalysisChars = 15000

const extractionSystemPrompt = `You are an expert causal reasoning engine. Your task is to analyze the provided text and extract causal relationships between concepts.
You must output ONLY valid JSON matching the specified schema.

Extraction Rules:
1. Identify key concepts (variables that can change, e.g., "temperature", "pressure", "price", "demand").
   - EXTRACT AT LEAST 20 CONCEPTS to ensure a rich, detailed graph.
   - Dig deeper into sub-concepts if necessary to meet this count.
2. Identify causal relationships where a change in one concept causes a change in another.
3. Determine the relationship type: "direct" (both move same direction) or "inverse" (move opposite directions).
4. Estimate a mathematical equation if possible, or provide a coefficient (positive for direct, negative for inverse).
5. Extract specific sentences that contain the causal assertion.
6. **CRITICAL**: Ensure the graph is FULLY CONNECTED.
   - Do not leave any isolated nodes.
   - If a concept seems disconnected, find a relationship to the main topic or another concept.
   - All nodes must have at least one edge.

Output Schema:
{
    "concepts": [
        {
            "id": "concept_id_snake_case",
            "label": "Human Readable Label",
            "description": "Brief description",
            "unit": "unit if variable (e.g., m/s, $)",
            "min_value": 0,
            "max_value": 100,
            "default_value": 50
        }
    ],
    "relationships": [
        {
            "source": "source_concept_id",
            "target": "target_concept_id",
            "type": "direct" | "inverse",
            "description": "Explanation of the relationship",
            "equation": "y = mx + b format (optional)",
            "coefficient": 1.0 (approximated strength)
        }
    ],
    "causal_sentences": ["exact sentence from text"]
}`

const chatSystemPrompt = `You are a helpful assistant analyzing a document.
Use the following context to answer the user's question.
If the answer is not in the context, say so politely.
Keep answers concise and relevant to the specific concept being discussed.

Context:
%s`

// truncateRunes cuts s to at most n bytes without splitting a
// multi-byte rune.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// chatErrorReply is returned to the user when the backend call fails.
const chatErrorReply = "I apologize, but I encountered an error determining the answer. Please try again."

// Analyzer extracts causal structure, preferring the configured LLM
// backend and falling back to the pattern matcher.
type Analyzer struct {
	client llm.LLMClient
	logger *slog.Logger
}

// NewAnalyzer builds an Analyzer. A nil client is valid and limits the
// analyzer to pattern matching.
func NewAnalyzer(client llm.LLMClient, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{client: client, logger: logger}
}

// Analyze extracts the causal structure of the given sentences. LLM
// failures of any kind degrade to the pattern matcher, never to an
// error.
func (a *Analyzer) Analyze(ctx context.Context, sentences []string) Analysis {
	if a.client == nil {
		a.logger.Warn("no LLM backend configured, using pattern extraction")
		return AnalyzeSentences(sentences)
	}

	fullText := strings.Join(sentences, " ")
	if len(fullText) > maxAnalysisChars {
		fullText = truncateRunes(fullText, maxAnalysisChars) + "..."
	}

	a.logger.Info("starting LLM analysis",
		"sentences", len(sentences), "chars", len(fullText))

	resp, err := a.client.Chat(ctx, extractionSystemPrompt,
		[]llm.Message{{
			Role:    llm.RoleUser,
			Content: "Analyze this text and extract causal structure:\n\n" + fullText,
		}},
		llm.GenerationParams{
			Temperature: llm.Float32Ptr(0.1),
			JSONMode:    true,
		})
	if err != nil {
		a.logger.Warn("LLM analysis failed, using pattern extraction", "error", err)
		return AnalyzeSentences(sentences)
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(resp), &analysis); err != nil {
		a.logger.Warn("LLM returned invalid JSON, using pattern extraction", "error", err)
		return AnalyzeSentences(sentences)
	}

	analysis.TotalSentences = len(sentences)
	analysis.CausalCount = len(analysis.CausalSentences)
	a.logger.Info("LLM extraction complete",
		"concepts", len(analysis.Concepts), "relationships", len(analysis.Relationships))
	return analysis
}

// ChatTitle asks the model for a short title for ingested text.
// Returns "" when no backend is configured or the call fails; callers
// fall back to the document title.
func (a *Analyzer) ChatTitle(ctx context.Context, text string) string {
	if a.client == nil {
		return ""
	}
	text = truncateRunes(text, 2000)

	resp, err := a.client.Generate(ctx,
		"Generate a concise title (at most 6 words, no quotes) for a document that begins:\n\n"+text,
		llm.GenerationParams{
			Temperature: llm.Float32Ptr(0.3),
			MaxTokens:   llm.IntPtr(20),
		})
	if err != nil {
		a.logger.Warn("chat title generation failed", "error", err)
		return ""
	}
	return strings.Trim(strings.TrimSpace(resp), `"`)
}

// ChatWithContext answers a user message grounded in the given context
// chunks. Backend failures yield an apology string rather than an
// error so the conversation can continue.
func (a *Analyzer) ChatWithContext(ctx context.Context, contextText, message string, history []llm.Message) string {
	if a.client == nil {
		return "Error: AI service not available. Please check API key configuration."
	}

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})

	a.logger.Info("starting chat with context", "context_chars", len(contextText))
	resp, err := a.client.Chat(ctx,
		fmt.Sprintf(chatSystemPrompt, contextText),
		messages,
		llm.GenerationParams{
			Temperature: llm.Float32Ptr(0.7),
			MaxTokens:   llm.IntPtr(1000),
		})
	if err != nil {
		a.logger.Warn("chat failed", "error", err)
		return chatErrorReply
	}
	return resp
}
