// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package extraction turns raw text into a causal concept graph.
//
// The pipeline is: split text into sentences, classify each sentence
// against known causal patterns, and aggregate the matched concepts and
// relationships. When an LLM backend is configured the Analyzer runs
// the whole text through it instead and falls back to the pattern
// matcher on any failure, so ingestion always produces a graph.
package extraction

import (
	"regexp"
	"strings"
)

// minSentenceLen filters out fragments too short to carry a causal
// assertion.
const minSentenceLen = 10

var whitespaceRe = regexp.MustCompile(`\s+`)

// SplitSentences splits raw text into sentences. Whitespace is
// normalized first; a sentence ends at '.', '!' or '?' followed by a
// space and a capital letter, which keeps abbreviations like "Dr." or
// "e.g." from splitting mid-sentence in the common case.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	if text == "" {
		return nil
	}

	var sentences []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		if i+2 < len(runes) && runes[i+1] == ' ' && runes[i+2] >= 'A' && runes[i+2] <= 'Z' {
			sentences = append(sentences, string(runes[start:i+1]))
			start = i + 2
			i++
		}
	}
	if start < len(runes) {
		sentences = append(sentences, string(runes[start:]))
	}

	clean := make([]string, 0, len(sentences))
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if len(s) > minSentenceLen {
			clean = append(clean, s)
		}
	}
	return clean
}
