// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package simeval

import (
	"errors"
	"log/slog"
	"math"
)

// RelationshipInverse is the relationship type whose fallback slope is
// negated. Every other value (including garbage) falls back with a
// positive slope. The type never gates the equation path: a valid
// equation wins over the type regardless of direction.
const RelationshipInverse = "inverse"

// LinearFallback computes the point-slope linear model anchored at the
// concepts' default values:
//
//	delta  = input - sourceDefault
//	output = targetDefault ± coefficient * delta
//
// with '-' for inverse relationships and '+' otherwise. It is total and
// deterministic: finite inputs always yield a finite output.
func LinearFallback(input float64, relationshipType string, coefficient, sourceDefault, targetDefault float64) float64 {
	delta := input - sourceDefault
	if relationshipType == RelationshipInverse {
		return targetDefault - coefficient*delta
	}
	return targetDefault + coefficient*delta
}

// Evaluate parses and evaluates a normalized expression body at x.
// Convenience for one-shot use; callers evaluating the same equation at
// many inputs should Parse once and reuse the Expr.
func Evaluate(body string, x float64) (float64, error) {
	expr, err := Parse(body)
	if err != nil {
		return 0, err
	}
	return expr.Eval(x)
}

// Calculate runs the full calculation protocol for one simulation step:
// normalize, parse, evaluate, and on any failure (missing equation,
// unparsable equation, domain error, overflow) the linear fallback.
//
// It never returns an error and never panics; for any equation string
// and finite input it produces a finite float64. The result keeps full
// precision: presentation rounding is the caller's concern.
//
// The second return reports whether the linear approximation was used,
// for observability; the numeric result is identical either way the
// caller chooses to surface it.
func Calculate(input float64, relationshipType, equation string, coefficient, sourceDefault, targetDefault float64) (value float64, approximated bool) {
	body, ok := Normalize(equation)
	if !ok {
		return LinearFallback(input, relationshipType, coefficient, sourceDefault, targetDefault), true
	}

	v, err := Evaluate(body, input)
	if err != nil {
		// Parse rejections (including anything that smells like code
		// injection) and runtime domain errors log distinguishably but
		// degrade identically. The user still gets a number.
		switch {
		case errors.Is(err, ErrParse):
			slog.Warn("equation rejected, using linear fallback", "equation", equation, "error", err)
		default:
			slog.Debug("equation evaluation failed, using linear fallback",
				"equation", equation, "input", input, "error", err)
		}
		return LinearFallback(input, relationshipType, coefficient, sourceDefault, targetDefault), true
	}
	return v, false
}

// Round2 rounds to two decimal places for presentation at the HTTP
// boundary. Intermediate composition keeps full precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
