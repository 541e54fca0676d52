// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package datatypes

import (
	"strings"
	"testing"
)

// =============================================================================
// PasteRequest Validation Tests
// =============================================================================

func TestPasteRequest_Validate_Success(t *testing.T) {
	req := &PasteRequest{
		Text:  "Temperature increases cause pressure to rise in a sealed container.",
		Title: "Gas Laws",
	}

	if err := req.Validate(); err != nil {
		t.Errorf("expected valid request, got error: %v", err)
	}
}

func TestPasteRequest_Validate_TooShort(t *testing.T) {
	req := &PasteRequest{Text: "too short"}

	if err := req.Validate(); err == nil {
		t.Error("expected error for text below minimum length, got nil")
	}
}

func TestPasteRequest_Validate_Empty(t *testing.T) {
	req := &PasteRequest{}

	if err := req.Validate(); err == nil {
		t.Error("expected error for empty text, got nil")
	}
}

func TestPasteRequest_Validate_ExactlyMinLength(t *testing.T) {
	req := &PasteRequest{Text: strings.Repeat("a", MinPasteBytes)}

	if err := req.Validate(); err != nil {
		t.Errorf("expected valid request at exactly %d bytes, got error: %v",
			MinPasteBytes, err)
	}
}

func TestPasteRequest_Validate_TooLong(t *testing.T) {
	req := &PasteRequest{Text: strings.Repeat("a", MaxPasteBytes+1)}

	if err := req.Validate(); err == nil {
		t.Errorf("expected error for text over %d bytes, got nil", MaxPasteBytes)
	}
}

// =============================================================================
// Concept Helper Tests
// =============================================================================

func TestConcept_DefaultOrZero(t *testing.T) {
	v := 42.5
	c := &Concept{DefaultValue: &v}
	if got := c.DefaultOrZero(); got != 42.5 {
		t.Errorf("expected 42.5, got %v", got)
	}
}

func TestConcept_DefaultOrZero_Absent(t *testing.T) {
	c := &Concept{}
	if got := c.DefaultOrZero(); got != 0 {
		t.Errorf("expected 0 for absent default, got %v", got)
	}

	var nilConcept *Concept
	if got := nilConcept.DefaultOrZero(); got != 0 {
		t.Errorf("expected 0 for nil concept, got %v", got)
	}
}

// =============================================================================
// Projection Tests
// =============================================================================

func TestRelationship_EdgeView(t *testing.T) {
	r := &Relationship{
		ID:               "rel-1",
		SourceConceptID:  "c-1",
		TargetConceptID:  "c-2",
		RelationshipType: RelationshipInverse,
		Description:      "pressure decreases as volume increases",
		Equation:         "y = 100 / x",
	}

	edge := r.EdgeView()
	if edge.Source != "c-1" || edge.Target != "c-2" {
		t.Errorf("unexpected endpoints: %s -> %s", edge.Source, edge.Target)
	}
	if edge.RelationshipType != RelationshipInverse {
		t.Errorf("expected inverse type, got %q", edge.RelationshipType)
	}
	if !edge.HasSimulation {
		t.Error("expected every edge to be simulatable")
	}
}

func TestUser_PublicView_OmitsPasswordHash(t *testing.T) {
	u := &User{
		ID:           "u-1",
		Email:        "student@example.com",
		Name:         "Student",
		PasswordHash: "sha256:abc",
	}

	pub := u.PublicView()
	if pub.Email != u.Email || pub.Name != u.Name || pub.ID != u.ID {
		t.Errorf("public view lost fields: %+v", pub)
	}
}
