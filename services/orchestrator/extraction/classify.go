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

import "strings"

// Classification is the per-sentence result of the pattern matcher.
type Classification struct {
	Sentence     string
	IsCausal     bool
	Concepts     []Concept
	Relationship *Relationship

	// NeedsLLM marks sentences that read causal but matched no known
	// pattern, so only an LLM could extract their structure.
	NeedsLLM bool
}

// ClassifySentence matches one sentence against the known causal
// patterns, then against the generic causal keywords.
func ClassifySentence(sentence string) Classification {
	lower := strings.ToLower(sentence)

	for _, p := range causalPatterns {
		if p.re.MatchString(lower) {
			rel := p.relationship
			return Classification{
				Sentence:     sentence,
				IsCausal:     true,
				Concepts:     p.concepts,
				Relationship: &rel,
			}
		}
	}

	for _, kw := range causalKeywords {
		if kw.MatchString(lower) {
			return Classification{Sentence: sentence, IsCausal: true, NeedsLLM: true}
		}
	}

	return Classification{Sentence: sentence}
}

// AnalyzeSentences runs the pattern matcher over every sentence and
// aggregates the results, deduplicating concepts by slug and
// relationships by source/target pair.
func AnalyzeSentences(sentences []string) Analysis {
	seen := make(map[string]bool)
	seenRel := make(map[string]bool)
	analysis := Analysis{TotalSentences: len(sentences)}

	for _, sentence := range sentences {
		result := ClassifySentence(sentence)
		if !result.IsCausal || result.Concepts == nil {
			continue
		}
		analysis.CausalSentences = append(analysis.CausalSentences, result.Sentence)

		for _, c := range result.Concepts {
			if !seen[c.ID] {
				seen[c.ID] = true
				analysis.Concepts = append(analysis.Concepts, c)
			}
		}
		if rel := result.Relationship; rel != nil {
			key := rel.Source + "-" + rel.Target
			if !seenRel[key] {
				seenRel[key] = true
				analysis.Relationships = append(analysis.Relationships, *rel)
			}
		}
	}

	analysis.CausalCount = len(analysis.CausalSentences)
	return analysis
}
