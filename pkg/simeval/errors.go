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

import "errors"

// Sentinel errors classifying why an equation could not be used.
//
// Every failure inside this package wraps one of these, so callers can
// log "rejected" and "broken" equations distinguishably while treating
// both identically (route to the linear fallback). None of them ever
// crosses the Calculate boundary.
var (
	// ErrParse marks equations the restricted grammar cannot express:
	// syntax errors, unknown names, wrong arity, and anything that would
	// have been statement injection against an eval()-style interpreter.
	ErrParse = errors.New("equation does not parse")

	// ErrEval marks runtime failures at a concrete input: division by
	// zero, log/sqrt domain violations, and overflow to a non-finite
	// value.
	ErrEval = errors.New("equation evaluation failed")
)
