// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package dedupe

import (
	"regexp"
	"strings"

	"contact-dedupe/internal/contact"
	"contact-dedupe/internal/normalize/phone"
	"contact-dedupe/internal/similarity"
)

// titleRE strips honorific titles and roman numerals from names before
// part matching. Longer alternatives come first so "professor" is not
// eaten as "prof".
var titleRE = regexp.MustCompile(`\b(professor|prof|dr|mrs|mr|ms|phd|md|iii|ii|iv|i|v)\b\.?\s*`)

// DetectorConfig holds the decision thresholds.
type DetectorConfig struct {
	// PartSimilarity is the minimum fuzzy similarity for two name
	// tokens to count as matching.
	PartSimilarity float64
	// OrgSimilarity is the minimum organization similarity for a
	// name-only match to survive when both records have organizations.
	OrgSimilarity float64
}

// DefaultDetectorConfig returns the standard thresholds.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{PartSimilarity: 0.8, OrgSimilarity: 0.8}
}

// Detector makes binary duplicate decisions for candidate pairs.
// Decisions are memoized per unordered pair of batch indices for the
// lifetime of one run; records are immutable during detection so the
// memo is never invalidated.
type Detector struct {
	phones *phone.Normalizer
	cfg    DetectorConfig
	memo   map[pairKey]bool
}

type pairKey struct{ low, high int }

func makePairKey(i, j int) pairKey {
	if i > j {
		i, j = j, i
	}
	return pairKey{low: i, high: j}
}

// NewDetector creates a detector using the given phone normalizer for
// phone-intersection evidence.
func NewDetector(phones *phone.Normalizer, cfg DetectorConfig) *Detector {
	return &Detector{phones: phones, cfg: cfg, memo: make(map[pairKey]bool)}
}

// Match decides whether the contacts at indices i and j of the batch
// represent the same entity. A pair matches when the phones intersect
// and at least a third of the name parts agree, or when at least two
// thirds of the name parts agree. A name-only match is rejected when
// both records carry organizations that disagree.
func (d *Detector) Match(batch []contact.Contact, i, j int) bool {
	key := makePairKey(i, j)
	if cached, ok := d.memo[key]; ok {
		return cached
	}
	result := d.decide(&batch[i], &batch[j])
	d.memo[key] = result
	return result
}

func (d *Detector) decide(a, b *contact.Contact) bool {
	ratio := d.nameMatchRatio(a.DisplayName(), b.DisplayName())
	phoneHit := d.phones.AnyMatch(a.Phones, b.Phones)

	matched := (phoneHit && ratio >= 1.0/3.0) || ratio >= 2.0/3.0
	if !matched {
		return false
	}

	// Organization cross-check: without phone evidence, diverging
	// organizations veto a name-based match.
	if !phoneHit && a.Organization != "" && b.Organization != "" {
		if similarity.Ratio(a.Organization, b.Organization) < d.cfg.OrgSimilarity {
			return false
		}
	}
	return true
}

// nameMatchRatio counts matching name parts between two names and
// divides by the larger part count. Parts of up to 2 characters are
// ignored; titles are stripped first.
func (d *Detector) nameMatchRatio(name1, name2 string) float64 {
	parts1 := nameParts(name1)
	parts2 := nameParts(name2)

	total := len(parts1)
	if len(parts2) > total {
		total = len(parts2)
	}
	if total == 0 {
		return 0
	}

	matching := 0
	for _, p1 := range parts1 {
		for _, p2 := range parts2 {
			if p1 == p2 || similarity.Ratio(p1, p2) > d.cfg.PartSimilarity {
				matching++
			}
		}
	}
	return float64(matching) / float64(total)
}

func nameParts(name string) []string {
	cleaned := titleRE.ReplaceAllString(strings.ToLower(name), "")
	var parts []string
	for _, tok := range strings.Fields(cleaned) {
		if len(tok) > 2 {
			parts = append(parts, tok)
		}
	}
	return parts
}
