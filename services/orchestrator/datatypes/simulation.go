// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Simulation request/response types. SimulationRequest and
// SimulationResult are ephemeral: nothing here is persisted.
package datatypes

// SimulationConfig describes one runnable simulation for the frontend:
// the edge, both concepts, and the curve parameters.
type SimulationConfig struct {
	RelationshipID   string      `json:"relationship_id"`
	SourceConcept    ConceptNode `json:"source_concept"`
	TargetConcept    ConceptNode `json:"target_concept"`
	RelationshipType string      `json:"relationship_type"`
	Equation         string      `json:"equation,omitempty"`
	Coefficient      float64     `json:"coefficient"`
	ScenarioContext  string      `json:"scenario_context,omitempty"`
	VariableExplain  string      `json:"variable_explainer,omitempty"`
	VisualTheme      string      `json:"visual_theme,omitempty"`
}

// SimulationRequest asks for one calculation step.
type SimulationRequest struct {
	RelationshipID string   `json:"relationship_id" binding:"required"`
	InputValue     *float64 `json:"input_value" binding:"required"`
}

// SimulationResult carries the calculated output. OutputValue is rounded
// to 2 decimal places at this boundary; the engine itself keeps full
// precision. Approximated reports whether the linear fallback produced
// the number instead of the relationship's equation.
type SimulationResult struct {
	InputValue       float64 `json:"input_value"`
	OutputValue      float64 `json:"output_value"`
	RelationshipType string  `json:"relationship_type"`
	Description      string  `json:"description"`
	Approximated     bool    `json:"approximated"`
}
