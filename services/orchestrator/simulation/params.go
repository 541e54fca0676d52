// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package simulation generates runnable simulation parameters for
// relationships that were extracted without an equation. Generation is
// lazy: the first request for a relationship's simulation config
// triggers it, and the storage layer guarantees the backfill happens
// at most once.
package simulation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/AleutianAI/Causeway/services/llm"
	"github.com/AleutianAI/Causeway/services/orchestrator/datatypes"
)

const generationSystemPrompt = "You are a physics and logic engine. Output JSON only."

const generationPrompt = `You are an expert educational designer and scientific modeler.
Your task is to create a "Pedagogical Micro-Simulation" for a relationship between two concepts.
This simulation should tell a story and teach the user via cause-and-effect.

Input:
- Source Concept: %s (%s)
- Target Concept: %s (%s)
- Relationship: %s (%s)

You must generate:
1. A Mathematical Model (Equation) relating Source (x) to Target (y).
2. A "Scenario Context" (1-2 sentences): Set the scene. e.g., "Imagine you are a network admin..." or "You are a virus trying to infect a host..."
3. A "Variable Explainer": What does the input variable represent in this story?
4. "Feedback Rules": A list of text feedback that appears as the user changes the input value.
   - Example: Low value -> "The system is stable but slow."
   - High value -> "WARNING: Overload imminent! Packet loss occurring."
5. A "Visual Theme": Suggest a theme (e.g., "danger", "growth", "balance", "efficiency").

Output Schema (JSON):
{
    "equation": "expression in x, e.g. 5 * x + 10",
    "source_min": float,
    "source_max": float,
    "source_unit": "string",
    "target_unit": "string",
    "scenario_context": "string",
    "variable_explainer": "string",
    "visual_theme": "string",
    "feedback_rules": [
        {
            "min_value": float,
            "max_value": float,
            "feedback_text": "string",
            "sentiment": "positive" | "neutral" | "negative" | "warning"
        }
    ],
    "explanation": "Brief explanation of the math model"
}`

// FeedbackRule is a value-range annotation shown as the user moves the
// input slider.
type FeedbackRule struct {
	MinValue     float64 `json:"min_value"`
	MaxValue     float64 `json:"max_value"`
	FeedbackText string  `json:"feedback_text"`
	Sentiment    string  `json:"sentiment"`
}

// Params is a full set of generated simulation parameters.
type Params struct {
	Equation          string         `json:"equation"`
	SourceMin         float64        `json:"source_min"`
	SourceMax         float64        `json:"source_max"`
	SourceUnit        string         `json:"source_unit"`
	TargetUnit        string         `json:"target_unit"`
	ScenarioContext   string         `json:"scenario_context"`
	VariableExplainer string         `json:"variable_explainer"`
	VisualTheme       string         `json:"visual_theme"`
	FeedbackRules     []FeedbackRule `json:"feedback_rules"`
	Explanation       string         `json:"explanation"`
}

// Generator produces Params, via the LLM when available and via static
// per-type defaults otherwise.
type Generator struct {
	client llm.LLMClient
	logger *slog.Logger
}

// NewGenerator builds a Generator. A nil client restricts it to the
// static defaults.
func NewGenerator(client llm.LLMClient, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{client: client, logger: logger}
}

// Generate builds simulation parameters for the edge between source
// and target. Any backend failure degrades to FallbackParams; Generate
// never returns an error.
func (g *Generator) Generate(ctx context.Context, source, target datatypes.ConceptNode, relType, relDesc string) Params {
	if g.client == nil {
		return FallbackParams(relType)
	}

	prompt := fmt.Sprintf(generationPrompt,
		source.Label, source.Description,
		target.Label, target.Description,
		relDesc, relType)

	resp, err := g.client.Chat(ctx, generationSystemPrompt,
		[]llm.Message{{Role: llm.RoleUser, Content: prompt}},
		llm.GenerationParams{
			Temperature: llm.Float32Ptr(0.2),
			JSONMode:    true,
		})
	if err != nil {
		g.logger.Warn("simulation parameter generation failed", "error", err)
		return FallbackParams(relType)
	}

	var params Params
	if err := json.Unmarshal([]byte(resp), &params); err != nil {
		g.logger.Warn("simulation parameters were not valid JSON", "error", err)
		return FallbackParams(relType)
	}
	if params.Equation == "" {
		g.logger.Warn("simulation parameters missing equation, using fallback")
		return FallbackParams(relType)
	}
	return params
}

// FallbackParams returns safe static parameters for a relationship
// type: the identity line for direct edges, a descending line for
// inverse ones.
func FallbackParams(relType string) Params {
	params := Params{
		SourceMin:         0,
		SourceMax:         100,
		SourceUnit:        "Units",
		TargetUnit:        "Units",
		ScenarioContext:   "Explore how changing the input affects the output.",
		VariableExplainer: "Input Variable",
		VisualTheme:       "default",
		FeedbackRules:     []FeedbackRule{},
		Explanation:       "Standard relationship model.",
	}
	if relType == datatypes.RelationshipInverse {
		params.Equation = "100 - x"
		params.Explanation = "Inverse relationship: As input increases, output decreases."
		return params
	}
	params.Equation = "x"
	params.Explanation = "Direct relationship: As input increases, output increases."
	return params
}
