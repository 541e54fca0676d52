// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/Causeway/pkg/simeval"
	"github.com/AleutianAI/Causeway/services/orchestrator/datatypes"
	"github.com/AleutianAI/Causeway/services/orchestrator/observability"
	"github.com/AleutianAI/Causeway/services/orchestrator/simulation"
	"github.com/AleutianAI/Causeway/services/orchestrator/storage"
)

// GetSimulationConfig returns the runnable simulation for one
// relationship. When the relationship has no equation yet, parameters
// are generated on first request and backfilled exactly once; later
// requests see the stored values.
func GetSimulationConfig(store *storage.Store, generator *simulation.Generator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		relID := c.Param("relationshipId")

		rel, source, target, ok := loadRelationship(c, store, relID)
		if !ok {
			return
		}

		config := datatypes.SimulationConfig{
			RelationshipID:   rel.ID,
			SourceConcept:    source.NodeView(),
			TargetConcept:    target.NodeView(),
			RelationshipType: rel.RelationshipType,
			Equation:         rel.Equation,
			Coefficient:      rel.Coefficient,
		}

		if rel.Equation == "" {
			params := generator.Generate(ctx, config.SourceConcept, config.TargetConcept,
				rel.RelationshipType, rel.Description)

			updated, err := store.BackfillRelationshipParams(ctx, rel.ID, params.Equation, rel.Coefficient)
			if err != nil {
				slog.Error("Failed to backfill simulation parameters",
					"relationship_id", rel.ID, "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare simulation"})
				return
			}
			// Another request may have won the backfill race; the stored
			// equation is authoritative either way.
			config.Equation = updated.Equation
			config.Coefficient = updated.Coefficient
			config.ScenarioContext = params.ScenarioContext
			config.VariableExplain = params.VariableExplainer
			config.VisualTheme = params.VisualTheme

			slog.Info("Simulation parameters generated",
				"relationship_id", rel.ID, "equation", updated.Equation)
		}

		c.JSON(http.StatusOK, config)
	}
}

// CalculateSimulation runs one step of a relationship's simulation for
// the supplied input value.
func CalculateSimulation(store *storage.Store, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.SimulationRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "relationship_id and input_value are required"})
			return
		}

		rel, source, target, ok := loadRelationship(c, store, req.RelationshipID)
		if !ok {
			return
		}

		value, approximated := simeval.Calculate(*req.InputValue,
			rel.RelationshipType, rel.Equation, rel.Coefficient,
			source.DefaultOrZero(), target.DefaultOrZero())
		metrics.ObserveCalculation(approximated)

		c.JSON(http.StatusOK, datatypes.SimulationResult{
			InputValue:       *req.InputValue,
			OutputValue:      simeval.Round2(value),
			RelationshipType: rel.RelationshipType,
			Description:      rel.Description,
			Approximated:     approximated,
		})
	}
}

// loadRelationship fetches a relationship and both endpoint concepts,
// writing the error response itself when anything is missing.
func loadRelationship(c *gin.Context, store *storage.Store,
	relID string) (*datatypes.Relationship, *datatypes.Concept, *datatypes.Concept, bool) {

	ctx := c.Request.Context()

	rel, err := store.GetRelationship(ctx, relID)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Relationship not found"})
		return nil, nil, nil, false
	}
	if err != nil {
		slog.Error("Failed to load relationship", "relationship_id", relID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load relationship"})
		return nil, nil, nil, false
	}

	source, err := store.GetConcept(ctx, rel.SourceConceptID)
	if err != nil {
		slog.Error("Relationship references missing source concept",
			"relationship_id", relID, "concept_id", rel.SourceConceptID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Relationship data is inconsistent"})
		return nil, nil, nil, false
	}
	target, err := store.GetConcept(ctx, rel.TargetConceptID)
	if err != nil {
		slog.Error("Relationship references missing target concept",
			"relationship_id", relID, "concept_id", rel.TargetConceptID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Relationship data is inconsistent"})
		return nil, nil, nil, false
	}
	return rel, source, target, true
}
