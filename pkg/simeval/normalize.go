// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package simeval evaluates free-form algebraic equations for causal
// simulations.
//
// Equations arrive as untrusted text, either written by a user or produced
// by an LLM, in the informal convention "y = <expr>" or a bare "<expr>"
// with x as the single free variable. The package normalizes the text,
// parses it with a restricted-grammar recursive-descent parser (an
// allowlist by construction: numeric literals, x, pi, e, a fixed function
// set, and arithmetic operators; nothing else can be expressed), and
// evaluates the resulting AST in double precision.
//
// Whenever normalization, parsing, or evaluation cannot produce a finite
// number, the calculation degrades to a point-slope linear model anchored
// at the concepts' default values. Calculate therefore never fails: the
// caller always receives a finite float64.
//
// The package is pure and stateless; all functions are safe for
// concurrent use.
package simeval

import "strings"

// Normalize extracts the expression body from an equation string.
//
// An empty string means "no equation" and returns ok=false. Otherwise the
// string is lower-cased, split on its last '=' (so "y = 5*x+10" and
// "5*x+10" normalize identically, and a stray double '=' doesn't need
// special-casing), and surrounding whitespace is trimmed.
//
// Normalize never fails: a malformed equation simply normalizes to a body
// the parser will reject.
func Normalize(equation string) (body string, ok bool) {
	if equation == "" {
		return "", false
	}
	lowered := strings.ToLower(equation)
	if idx := strings.LastIndexByte(lowered, '='); idx >= 0 {
		lowered = lowered[idx+1:]
	}
	return strings.TrimSpace(lowered), true
}
