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

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/Causeway/services/llm"
)

// =============================================================================
// Sentence Splitting Tests
// =============================================================================

func TestSplitSentences_Basic(t *testing.T) {
	text := "Temperature increases cause pressure to rise. This is Gay-Lussac's Law. Short."
	sentences := SplitSentences(text)

	require.Len(t, sentences, 2)
	assert.Equal(t, "Temperature increases cause pressure to rise.", sentences[0])
	assert.Equal(t, "This is Gay-Lussac's Law.", sentences[1])
}

func TestSplitSentences_NormalizesWhitespace(t *testing.T) {
	text := "First sentence   spans\n\nmultiple lines here. Second sentence follows it."
	sentences := SplitSentences(text)

	require.Len(t, sentences, 2)
	assert.Equal(t, "First sentence spans multiple lines here.", sentences[0])
}

func TestSplitSentences_NoSplitBeforeLowercase(t *testing.T) {
	// "approx. one" must not split: the next word is lowercase.
	text := "The value is approx. one hundred units in total measurement."
	sentences := SplitSentences(text)

	require.Len(t, sentences, 1)
}

func TestSplitSentences_DropsShortFragments(t *testing.T) {
	sentences := SplitSentences("Yes. No! Exercise causes the heart rate to increase.")
	require.Len(t, sentences, 1)
	assert.Contains(t, sentences[0], "heart rate")
}

func TestSplitSentences_Empty(t *testing.T) {
	assert.Nil(t, SplitSentences(""))
	assert.Empty(t, SplitSentences("   \n\t  "))
}

// =============================================================================
// Classification Tests
// =============================================================================

func TestClassifySentence_KnownPattern(t *testing.T) {
	result := ClassifySentence("When temperature increases in a closed container, pressure also increases.")

	assert.True(t, result.IsCausal)
	assert.False(t, result.NeedsLLM)
	require.Len(t, result.Concepts, 2)
	assert.Equal(t, "temperature", result.Concepts[0].ID)
	require.NotNil(t, result.Relationship)
	assert.Equal(t, "direct", result.Relationship.Type)
	assert.Equal(t, "y = 0.34 * x + 92.8", result.Relationship.Equation)
}

func TestClassifySentence_ReversedPhrasing(t *testing.T) {
	result := ClassifySentence("Pressure drops noticeably as altitude gets higher.")

	assert.True(t, result.IsCausal)
	require.NotNil(t, result.Relationship)
	assert.Equal(t, "inverse", result.Relationship.Type)
	assert.Equal(t, "altitude", result.Relationship.Source)
}

func TestClassifySentence_GenericCausalNeedsLLM(t *testing.T) {
	result := ClassifySentence("Deforestation leads to soil erosion in tropical regions.")

	assert.True(t, result.IsCausal)
	assert.True(t, result.NeedsLLM)
	assert.Nil(t, result.Concepts)
}

func TestClassifySentence_NonCausal(t *testing.T) {
	result := ClassifySentence("The sky was a brilliant shade of blue yesterday.")

	assert.False(t, result.IsCausal)
}

func TestAnalyzeSentences_DeduplicatesAcrossSentences(t *testing.T) {
	sentences := []string{
		"When temperature increases, pressure increases too.",
		"Higher temperature will further increase the pressure.",
		"The sky was blue.",
	}
	analysis := AnalyzeSentences(sentences)

	assert.Equal(t, 3, analysis.TotalSentences)
	assert.Equal(t, 2, analysis.CausalCount)
	assert.Len(t, analysis.Concepts, 2)
	assert.Len(t, analysis.Relationships, 1)
}

func TestAnalyzeSentences_DemoTextCoversAllPatterns(t *testing.T) {
	analysis := AnalyzeSentences(SplitSentences(DemoText))

	// The demo text exercises gas laws, altitude, supply/demand, and
	// exercise physiology.
	assert.GreaterOrEqual(t, len(analysis.Concepts), 8)
	assert.GreaterOrEqual(t, len(analysis.Relationships), 4)
	assert.NotZero(t, analysis.CausalCount)
}

// =============================================================================
// Topic Graph Tests
// =============================================================================

func TestGenerateTopicGraph_SingleTopic(t *testing.T) {
	analysis := GenerateTopicGraph([]string{"Machine Learning"})

	// 1 root + 5 level-1 + 13 level-2 concepts.
	assert.Len(t, analysis.Concepts, 19)

	// 5 tree edges + 13 child edges + 3 cross links.
	assert.Len(t, analysis.Relationships, 21)

	assert.Equal(t, "machine_learning", analysis.Concepts[0].ID)
	assert.Equal(t, "Machine Learning", analysis.Concepts[0].Label)
}

func TestGenerateTopicGraph_MultipleTopicsAreLinked(t *testing.T) {
	analysis := GenerateTopicGraph([]string{"Go", "Rust"})

	var crossLinks int
	for _, rel := range analysis.Relationships {
		if rel.Source == "go" && rel.Target == "rust" {
			crossLinks++
			assert.Equal(t, 0.5, rel.CoefficientOrDefault())
		}
		if rel.Source == "go_applications" && rel.Target == "rust_applications" {
			crossLinks++
			assert.Equal(t, 0.4, rel.CoefficientOrDefault())
		}
	}
	assert.Equal(t, 2, crossLinks)
}

func TestGenerateTopicGraph_EveryNodeConnected(t *testing.T) {
	analysis := GenerateTopicGraph([]string{"Causal Inference"})

	connected := make(map[string]bool)
	for _, rel := range analysis.Relationships {
		connected[rel.Source] = true
		connected[rel.Target] = true
	}
	for _, c := range analysis.Concepts {
		assert.True(t, connected[c.ID], "concept %s has no edge", c.ID)
	}
}

// =============================================================================
// Analyzer Tests
// =============================================================================

func TestAnalyzer_UsesLLMResponse(t *testing.T) {
	mock := llm.NewMockClient(`{
		"concepts": [
			{"id": "rainfall", "label": "Rainfall", "unit": "mm", "default_value": 50},
			{"id": "crop_yield", "label": "Crop Yield", "unit": "t/ha", "default_value": 3}
		],
		"relationships": [
			{"source": "rainfall", "target": "crop_yield", "type": "direct",
			 "description": "Rain feeds crops", "equation": "y = 0.05 * x", "coefficient": 0.05}
		],
		"causal_sentences": ["Rainfall increases crop yield."]
	}`)
	analyzer := NewAnalyzer(mock, nil)

	analysis := analyzer.Analyze(context.Background(), []string{"Rainfall increases crop yield."})

	require.Len(t, analysis.Concepts, 2)
	assert.Equal(t, "rainfall", analysis.Concepts[0].ID)
	require.Len(t, analysis.Relationships, 1)
	assert.Equal(t, 0.05, analysis.Relationships[0].CoefficientOrDefault())
	assert.Equal(t, 1, analysis.TotalSentences)
	assert.Equal(t, 1, analysis.CausalCount)
}

func TestAnalyzer_DefaultsMissingCoefficient(t *testing.T) {
	mock := llm.NewMockClient(`{
		"concepts": [
			{"id": "rainfall", "label": "Rainfall", "unit": "mm", "default_value": 50},
			{"id": "crop_yield", "label": "Crop Yield", "unit": "t/ha", "default_value": 3}
		],
		"relationships": [
			{"source": "rainfall", "target": "crop_yield", "type": "direct",
			 "description": "Rain feeds crops"}
		],
		"causal_sentences": ["Rainfall increases crop yield."]
	}`)
	analyzer := NewAnalyzer(mock, nil)

	analysis := analyzer.Analyze(context.Background(), []string{"Rainfall increases crop yield."})

	require.Len(t, analysis.Relationships, 1)
	assert.Nil(t, analysis.Relationships[0].Coefficient)
	assert.Equal(t, 1.0, analysis.Relationships[0].CoefficientOrDefault())
}

func TestAnalyzer_FallsBackOnLLMError(t *testing.T) {
	mock := llm.NewFailingMockClient(errors.New("backend down"))
	analyzer := NewAnalyzer(mock, nil)

	analysis := analyzer.Analyze(context.Background(),
		[]string{"When temperature increases, pressure increases as well."})

	require.Len(t, analysis.Concepts, 2)
	assert.Equal(t, "temperature", analysis.Concepts[0].ID)
}

func TestAnalyzer_FallsBackOnInvalidJSON(t *testing.T) {
	mock := llm.NewMockClient("this is not json")
	analyzer := NewAnalyzer(mock, nil)

	analysis := analyzer.Analyze(context.Background(),
		[]string{"When supply increases, the price will fall."})

	require.Len(t, analysis.Relationships, 1)
	assert.Equal(t, "inverse", analysis.Relationships[0].Type)
}

func TestAnalyzer_NilClientUsesPatterns(t *testing.T) {
	analyzer := NewAnalyzer(nil, nil)

	analysis := analyzer.Analyze(context.Background(),
		[]string{"Exercise that is more intense makes the heart rate rise faster."})

	assert.NotEmpty(t, analysis.Concepts)
}

func TestAnalyzer_ChatWithContext_ApologyOnError(t *testing.T) {
	mock := llm.NewFailingMockClient(errors.New("rate limited"))
	analyzer := NewAnalyzer(mock, nil)

	reply := analyzer.ChatWithContext(context.Background(), "ctx", "why?", nil)
	assert.Equal(t, chatErrorReply, reply)
}

func TestAnalyzer_ChatTitle_TrimsQuotes(t *testing.T) {
	mock := llm.NewMockClient(`"Gas Laws Explained"`)
	analyzer := NewAnalyzer(mock, nil)

	title := analyzer.ChatTitle(context.Background(), "Pressure and temperature...")
	assert.Equal(t, "Gas Laws Explained", title)
}

func TestTruncateRunes_KeepsRuneBoundaries(t *testing.T) {
	// "°" is two bytes; an odd byte limit lands mid-rune.
	s := strings.Repeat("°", 100)
	cut := truncateRunes(s, 25)
	assert.True(t, utf8.ValidString(cut))
	assert.Equal(t, 24, len(cut))

	assert.Equal(t, "abc", truncateRunes("abc", 10))
	assert.Equal(t, "ab", truncateRunes("abcd", 2))
}
