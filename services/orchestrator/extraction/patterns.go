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

import "regexp"

// Concept is an extracted variable. The ID is a snake_case slug scoped
// to the extraction; the storage layer assigns persistent identifiers.
type Concept struct {
	ID           string   `json:"id"`
	Label        string   `json:"label"`
	Description  string   `json:"description"`
	Unit         string   `json:"unit,omitempty"`
	MinValue     *float64 `json:"min_value,omitempty"`
	MaxValue     *float64 `json:"max_value,omitempty"`
	DefaultValue *float64 `json:"default_value,omitempty"`
}

// Relationship is an extracted causal edge, referring to concepts by
// their extraction slug.
type Relationship struct {
	Source      string   `json:"source"`
	Target      string   `json:"target"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Equation    string   `json:"equation,omitempty"`
	Coefficient *float64 `json:"coefficient,omitempty"`
}

// CoefficientOrDefault resolves an absent coefficient to 1.0, the
// neutral edge strength. Model responses routinely omit the field.
func (r Relationship) CoefficientOrDefault() float64 {
	if r.Coefficient == nil {
		return 1.0
	}
	return *r.Coefficient
}

// Analysis aggregates the causal structure found in a text.
type Analysis struct {
	Concepts        []Concept      `json:"concepts"`
	Relationships   []Relationship `json:"relationships"`
	CausalSentences []string       `json:"causal_sentences"`
	TotalSentences  int            `json:"total_sentences"`
	CausalCount     int            `json:"causal_count"`
}

func fp(v float64) *float64 { return &v }

// pattern describes one recognizable causal assertion: a sentence
// regex plus the concepts and relationship it implies.
type pattern struct {
	re           *regexp.Regexp
	concepts     []Concept
	relationship Relationship
}

// Known causal patterns covering the demo domains: gas laws, altitude,
// supply and demand, and exercise physiology. Matched against
// lower-cased sentences.
var (
	gayLussac = pattern{
		re: regexp.MustCompile(`temperature.*(?:increase|rise|higher).*pressure`),
		concepts: []Concept{
			{
				ID: "temperature", Label: "Temperature", Unit: "°C",
				MinValue: fp(0), MaxValue: fp(100), DefaultValue: fp(25),
				Description: "The measure of thermal energy in a system",
			},
			{
				ID: "pressure", Label: "Pressure", Unit: "kPa",
				MinValue: fp(50), MaxValue: fp(200), DefaultValue: fp(101.3),
				Description: "Force exerted per unit area",
			},
		},
		relationship: Relationship{
			Source: "temperature", Target: "pressure", Type: "direct",
			Equation: "y = 0.34 * x + 92.8", Coefficient: fp(0.34),
			Description: "As temperature increases, pressure increases (Gay-Lussac's Law)",
		},
	}

	altitudePressure = pattern{
		re: regexp.MustCompile(`(?:altitude|height).*(?:increase|higher).*pressure.*(?:decrease|lower|drop)`),
		concepts: []Concept{
			{
				ID: "altitude", Label: "Altitude", Unit: "m",
				MinValue: fp(0), MaxValue: fp(10000), DefaultValue: fp(0),
				Description: "Height above sea level",
			},
			{
				ID: "atm_pressure", Label: "Atmospheric Pressure", Unit: "kPa",
				MinValue: fp(20), MaxValue: fp(101.3), DefaultValue: fp(101.3),
				Description: "Pressure exerted by the atmosphere",
			},
		},
		relationship: Relationship{
			Source: "altitude", Target: "atm_pressure", Type: "inverse",
			Equation: "y = 101.3 * exp(-x/8500)", Coefficient: fp(-0.012),
			Description: "As altitude increases, atmospheric pressure decreases exponentially",
		},
	}

	demandPrice = pattern{
		re: regexp.MustCompile(`demand.*(?:increase|rise|higher).*price.*(?:increase|rise|higher)`),
		concepts: []Concept{
			{
				ID: "demand", Label: "Demand", Unit: "units",
				MinValue: fp(0), MaxValue: fp(1000), DefaultValue: fp(500),
				Description: "Consumer desire and ability to purchase goods",
			},
			{
				ID: "price", Label: "Market Price", Unit: "$",
				MinValue: fp(0), MaxValue: fp(100), DefaultValue: fp(50),
				Description: "The selling price of a good or service",
			},
		},
		relationship: Relationship{
			Source: "demand", Target: "price", Type: "direct",
			Equation: "y = 0.1 * x", Coefficient: fp(0.1),
			Description: "As demand increases, market price tends to increase",
		},
	}

	supplyPrice = pattern{
		re: regexp.MustCompile(`supply.*(?:increase|rise|higher).*price.*(?:decrease|lower|drop|fall)`),
		concepts: []Concept{
			{
				ID: "supply", Label: "Supply", Unit: "units",
				MinValue: fp(0), MaxValue: fp(1000), DefaultValue: fp(500),
				Description: "Quantity of goods available in the market",
			},
			{
				ID: "market_price", Label: "Market Price", Unit: "$",
				MinValue: fp(0), MaxValue: fp(100), DefaultValue: fp(50),
				Description: "The selling price determined by market forces",
			},
		},
		relationship: Relationship{
			Source: "supply", Target: "market_price", Type: "inverse",
			Equation: "y = 100 - 0.1 * x", Coefficient: fp(-0.1),
			Description: "As supply increases, market price tends to decrease",
		},
	}

	boylesLaw = pattern{
		re: regexp.MustCompile(`volume.*(?:increase|rise|higher|expand).*pressure.*(?:decrease|lower|drop)`),
		concepts: []Concept{
			{
				ID: "volume", Label: "Volume", Unit: "L",
				MinValue: fp(1), MaxValue: fp(10), DefaultValue: fp(5),
				Description: "The space occupied by a gas",
			},
			{
				ID: "gas_pressure", Label: "Gas Pressure", Unit: "atm",
				MinValue: fp(0.1), MaxValue: fp(10), DefaultValue: fp(1),
				Description: "Pressure exerted by gas molecules",
			},
		},
		relationship: Relationship{
			Source: "volume", Target: "gas_pressure", Type: "inverse",
			Equation: "y = 5 / x", Coefficient: fp(-1),
			Description: "As volume increases, pressure decreases (Boyle's Law: PV = constant)",
		},
	}

	exerciseHeartRate = pattern{
		re: regexp.MustCompile(`exercise.*(?:increase|more|intense).*heart.*rate.*(?:increase|rise|higher|faster)`),
		concepts: []Concept{
			{
				ID: "exercise_intensity", Label: "Exercise Intensity", Unit: "%",
				MinValue: fp(0), MaxValue: fp(100), DefaultValue: fp(50),
				Description: "The level of physical exertion",
			},
			{
				ID: "heart_rate", Label: "Heart Rate", Unit: "bpm",
				MinValue: fp(60), MaxValue: fp(200), DefaultValue: fp(70),
				Description: "Number of heartbeats per minute",
			},
		},
		relationship: Relationship{
			Source: "exercise_intensity", Target: "heart_rate", Type: "direct",
			Equation: "y = 60 + 1.4 * x", Coefficient: fp(1.4),
			Description: "As exercise intensity increases, heart rate increases",
		},
	}
)

// causalPatterns lists the recognized patterns plus reversed phrasings
// that map to the same extraction.
var causalPatterns = []pattern{
	gayLussac,
	altitudePressure,
	demandPrice,
	supplyPrice,
	boylesLaw,
	exerciseHeartRate,
	{
		re:           regexp.MustCompile(`pressure.*(?:decrease|lower|drop).*altitude.*(?:increase|higher)`),
		concepts:     altitudePressure.concepts,
		relationship: altitudePressure.relationship,
	},
	{
		re:           regexp.MustCompile(`price.*(?:increase|rise).*demand.*(?:increase|higher)`),
		concepts:     demandPrice.concepts,
		relationship: demandPrice.relationship,
	},
}

// causalKeywords flag sentences that assert causation without matching
// a known pattern. Those sentences need the LLM for extraction.
var causalKeywords = []*regexp.Regexp{
	regexp.MustCompile(`causes?\b`),
	regexp.MustCompile(`leads?\s+to`),
	regexp.MustCompile(`results?\s+in`),
	regexp.MustCompile(`increases?\b`),
	regexp.MustCompile(`decreases?\b`),
	regexp.MustCompile(`affects?\b`),
	regexp.MustCompile(`when.*then`),
	regexp.MustCompile(`if.*then`),
	regexp.MustCompile(`because\b`),
	regexp.MustCompile(`therefore\b`),
	regexp.MustCompile(`consequently\b`),
	regexp.MustCompile(`hence\b`),
}
