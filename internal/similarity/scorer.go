// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package similarity

import (
	"strings"

	"contact-dedupe/internal/contact"
)

// Weights holds the contribution of each field signal to the pairwise
// match confidence.
type Weights struct {
	Email        float64
	FullName     float64
	FirstLast    float64
	Organization float64
	Street       float64
	Locality     float64
	PostalCode   float64
	Country      float64
}

// DefaultWeights returns the standard signal weights.
func DefaultWeights() Weights {
	return Weights{
		Email:        1.0,
		FullName:     1.0,
		FirstLast:    0.9,
		Organization: 0.3,
		Street:       0.3,
		Locality:     0.2,
		PostalCode:   0.3,
		Country:      0.1,
	}
}

// Scorer computes pairwise match confidence between two contacts from
// weighted per-field similarity. The result is a heuristic confidence,
// monotonic in agreement but not a calibrated probability.
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer with the given weights.
func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// Score returns an additive weighted confidence in [0,1] for a and b.
func (s *Scorer) Score(a, b *contact.Contact) float64 {
	score := 0.0

	// Email: exact match, case-insensitive
	if anyEmailMatch(a.Emails, b.Emails) {
		score += s.weights.Email
	}

	// Full name: fuzzy, only counted above 0.9
	if a.FullName != "" && b.FullName != "" {
		if sim := Ratio(a.FullName, b.FullName); sim > 0.9 {
			score += s.weights.FullName * sim
		}
	}

	// First + last combined: both pair similarities must clear 0.8
	if a.FirstName != "" && b.FirstName != "" && a.LastName != "" && b.LastName != "" {
		firstSim := Ratio(a.FirstName, b.FirstName)
		lastSim := Ratio(a.LastName, b.LastName)
		if firstSim > 0.8 && lastSim > 0.8 {
			score += s.weights.FirstLast * (firstSim + lastSim) / 2
		}
	}

	// Organization
	if a.Organization != "" && b.Organization != "" {
		if sim := Ratio(a.Organization, b.Organization); sim > 0.8 {
			score += s.weights.Organization * sim
		}
	}

	// Address components, each counted above 0.8
	for _, addrA := range a.Addresses {
		for _, addrB := range b.Addresses {
			score += s.componentScore(addrA.Street, addrB.Street, s.weights.Street)
			score += s.componentScore(addrA.Locality, addrB.Locality, s.weights.Locality)
			score += s.componentScore(addrA.PostalCode, addrB.PostalCode, s.weights.PostalCode)
			score += s.componentScore(addrA.Country, addrB.Country, s.weights.Country)
		}
	}

	if score > 1 {
		score = 1
	}
	return score
}

func (s *Scorer) componentScore(a, b string, weight float64) float64 {
	if a == "" || b == "" {
		return 0
	}
	sim := Ratio(a, b)
	if sim <= 0.8 {
		return 0
	}
	return weight * sim
}

func anyEmailMatch(a, b []string) bool {
	for _, ea := range a {
		for _, eb := range b {
			if ea != "" && strings.EqualFold(ea, eb) {
				return true
			}
		}
	}
	return false
}
