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
	"fmt"
	"strings"
)

// topicSlug converts a topic name to its concept slug.
func topicSlug(topic string) string {
	s := strings.ToLower(topic)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

type topicChild struct {
	suffix string
	label  string
	desc   string
}

var level1Children = []topicChild{
	{"fundamentals", "%s Fundamentals", "Core principles and foundational concepts"},
	{"applications", "%s Applications", "Practical applications and real-world use cases"},
	{"techniques", "%s Techniques", "Methods and approaches used"},
	{"benefits", "%s Benefits", "Key advantages and positive outcomes"},
	{"challenges", "%s Challenges", "Common obstacles and difficulties"},
}

var level2Children = map[string][]topicChild{
	"fundamentals": {
		{"theory", "%s Theory", "Theoretical foundations"},
		{"principles", "%s Principles", "Guiding principles"},
		{"history", "%s History", "Historical development"},
	},
	"applications": {
		{"use_cases", "%s Use Cases", "Specific use case examples"},
		{"industry", "%s in Industry", "Industry applications"},
		{"examples", "%s Examples", "Practical examples"},
	},
	"techniques": {
		{"methods", "%s Methods", "Specific methodologies"},
		{"tools", "%s Tools", "Tools and resources"},
		{"best_practices", "%s Best Practices", "Recommended approaches"},
	},
	"benefits": {
		{"advantages", "%s Advantages", "Key advantages"},
		{"value", "%s Value Proposition", "Value and impact"},
	},
	"challenges": {
		{"limitations", "%s Limitations", "Known limitations"},
		{"solutions", "%s Solutions", "Solutions to challenges"},
	},
}

// GenerateTopicGraph builds a three-level knowledge graph from a list
// of topic names, without consulting an LLM. Each topic gets a tree of
// sub-concepts plus cross-links between the branches; multiple topics
// are linked to each other.
func GenerateTopicGraph(topics []string) Analysis {
	var analysis Analysis

	for _, topic := range topics {
		id := topicSlug(topic)
		analysis.Concepts = append(analysis.Concepts, Concept{
			ID:          id,
			Label:       topic,
			Description: "Core concept: " + topic,
		})

		for _, child := range level1Children {
			childID := id + "_" + child.suffix
			childLabel := fmt.Sprintf(child.label, topic)
			analysis.Concepts = append(analysis.Concepts, Concept{
				ID:          childID,
				Label:       childLabel,
				Description: child.desc,
			})
			analysis.Relationships = append(analysis.Relationships, Relationship{
				Source: id, Target: childID, Type: "direct",
				Description: fmt.Sprintf("%s encompasses %s", topic, childLabel),
				Coefficient: fp(1.0),
			})

			for _, grandchild := range level2Children[child.suffix] {
				gcID := id + "_" + grandchild.suffix
				gcLabel := fmt.Sprintf(grandchild.label, topic)
				analysis.Concepts = append(analysis.Concepts, Concept{
					ID:          gcID,
					Label:       gcLabel,
					Description: grandchild.desc,
				})
				analysis.Relationships = append(analysis.Relationships, Relationship{
					Source: childID, Target: gcID, Type: "direct",
					Description: fmt.Sprintf("%s includes %s", childLabel, gcLabel),
					Coefficient: fp(1.0),
				})
			}
		}

		// Cross-links between the branches of one topic.
		analysis.Relationships = append(analysis.Relationships,
			Relationship{
				Source: id + "_benefits", Target: id + "_applications", Type: "direct",
				Description: fmt.Sprintf("Benefits drive %s Applications", topic),
				Coefficient: fp(0.7),
			},
			Relationship{
				Source: id + "_techniques", Target: id + "_challenges", Type: "direct",
				Description: fmt.Sprintf("Techniques address %s Challenges", topic),
				Coefficient: fp(0.6),
			},
			Relationship{
				Source: id + "_fundamentals", Target: id + "_techniques", Type: "direct",
				Description: fmt.Sprintf("Fundamentals underpin %s Techniques", topic),
				Coefficient: fp(0.8),
			},
		)
	}

	// Link topics to each other, plus their application branches.
	for i := 0; i < len(topics); i++ {
		for j := i + 1; j < len(topics); j++ {
			a, b := topicSlug(topics[i]), topicSlug(topics[j])
			analysis.Relationships = append(analysis.Relationships,
				Relationship{
					Source: a, Target: b, Type: "direct",
					Description: fmt.Sprintf("%s relates to %s", topics[i], topics[j]),
					Coefficient: fp(0.5),
				},
				Relationship{
					Source: a + "_applications", Target: b + "_applications", Type: "direct",
					Description: fmt.Sprintf("%s Applications connect with %s Applications", topics[i], topics[j]),
					Coefficient: fp(0.4),
				},
			)
		}
	}

	return analysis
}
