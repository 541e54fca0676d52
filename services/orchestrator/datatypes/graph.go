// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Causal graph models: concepts (nodes) and relationships (edges).
//
// A Concept is a named numeric variable with optional unit, bounds, and
// default value; the default anchors the linear fallback during
// simulation. A Relationship is a directed causal edge whose type
// ("direct"/"inverse") is explanatory metadata. When the edge carries a
// valid equation, the equation decides the curve shape regardless of
// type.
package datatypes

// Relationship type values. The type only steers the sign of the linear
// fallback; it never gates the equation path.
const (
	RelationshipDirect  = "direct"
	RelationshipInverse = "inverse"
)

// Concept is a node in the causal graph.
type Concept struct {
	ID           string   `json:"id"`
	DocumentID   string   `json:"document_id"`
	Label        string   `json:"label"`
	Description  string   `json:"description,omitempty"`
	Unit         string   `json:"unit,omitempty"`
	MinValue     *float64 `json:"min_value,omitempty"`
	MaxValue     *float64 `json:"max_value,omitempty"`
	DefaultValue *float64 `json:"default_value,omitempty"`
}

// DefaultOrZero returns the concept default value, treating an absent
// default as 0 for fallback anchoring.
func (c *Concept) DefaultOrZero() float64 {
	if c == nil || c.DefaultValue == nil {
		return 0
	}
	return *c.DefaultValue
}

// Relationship is a directed causal edge between two concepts.
//
// Equation and Coefficient are created at extraction time and may be
// backfilled exactly once by the lazy simulation-parameter generator;
// after that one-time upgrade they are immutable.
type Relationship struct {
	ID               string  `json:"id"`
	DocumentID       string  `json:"document_id"`
	SourceConceptID  string  `json:"source_concept_id"`
	TargetConceptID  string  `json:"target_concept_id"`
	RelationshipType string  `json:"relationship_type"`
	Description      string  `json:"description"`
	Equation         string  `json:"equation,omitempty"`
	Coefficient      float64 `json:"coefficient"`
}

// ConceptNode is the graph-view projection of a Concept.
type ConceptNode struct {
	ID           string   `json:"id"`
	Label        string   `json:"label"`
	Description  string   `json:"description,omitempty"`
	Unit         string   `json:"unit,omitempty"`
	MinValue     *float64 `json:"min_value,omitempty"`
	MaxValue     *float64 `json:"max_value,omitempty"`
	DefaultValue *float64 `json:"default_value,omitempty"`
}

// RelationshipEdge is the graph-view projection of a Relationship.
type RelationshipEdge struct {
	ID               string `json:"id"`
	Source           string `json:"source"`
	Target           string `json:"target"`
	RelationshipType string `json:"relationship_type"`
	Description      string `json:"description"`
	Equation         string `json:"equation,omitempty"`
	HasSimulation    bool   `json:"has_simulation"`
}

// GraphData is the full graph for one document, shaped for the frontend
// renderer.
type GraphData struct {
	Concepts      []ConceptNode      `json:"concepts"`
	Relationships []RelationshipEdge `json:"relationships"`
}

// NodeView converts a Concept to its graph projection.
func (c *Concept) NodeView() ConceptNode {
	return ConceptNode{
		ID:           c.ID,
		Label:        c.Label,
		Description:  c.Description,
		Unit:         c.Unit,
		MinValue:     c.MinValue,
		MaxValue:     c.MaxValue,
		DefaultValue: c.DefaultValue,
	}
}

// EdgeView converts a Relationship to its graph projection.
func (r *Relationship) EdgeView() RelationshipEdge {
	return RelationshipEdge{
		ID:               r.ID,
		Source:           r.SourceConceptID,
		Target:           r.TargetConceptID,
		RelationshipType: r.RelationshipType,
		Description:      r.Description,
		Equation:         r.Equation,
		HasSimulation:    true,
	}
}
