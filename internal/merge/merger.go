// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package merge consolidates clusters of duplicate contacts into
// single records with a per-record merge confidence.
package merge

import (
	"context"
	"math"
	"sort"
	"strings"

	"contact-dedupe/internal/contact"
	"contact-dedupe/internal/normalize/address"
	"contact-dedupe/internal/normalize/name"
	"contact-dedupe/internal/normalize/phone"
	"contact-dedupe/internal/similarity"
)

// Merger combines duplicate contacts field by field.
type Merger struct {
	names  *name.Normalizer
	phones *phone.Normalizer
	addrs  *address.Processor
	scorer *similarity.Scorer
}

// NewMerger wires the field normalizers used during consolidation.
func NewMerger(names *name.Normalizer, phones *phone.Normalizer, addrs *address.Processor, scorer *similarity.Scorer) *Merger {
	return &Merger{names: names, phones: phones, addrs: addrs, scorer: scorer}
}

// MergeCluster consolidates one cluster into a single contact. A
// singleton cluster is returned as a copy with zero confidence; the
// record never went through a pairwise comparison so no confidence can
// be claimed for it, and a confidence carried over from a previous
// run's CSV output is deliberately reset rather than trusted.
func (m *Merger) MergeCluster(ctx context.Context, cluster []contact.Contact) contact.Contact {
	if len(cluster) == 0 {
		return contact.Contact{}
	}
	if len(cluster) == 1 {
		out := cluster[0].Clone()
		out.MatchConfidence = 0
		return out
	}

	merged := contact.Contact{}
	firstNames := map[string]bool{}
	lastNames := map[string]bool{}
	scores := make([]float64, 0, len(cluster))

	var emails []string
	var phones []string
	var addresses []contact.Address

	for i := range cluster {
		c := &cluster[i]
		first, last := c.FirstName, c.LastName
		if first == "" && last == "" && c.FullName != "" {
			first, last = m.names.SplitFullName(c.FullName)
		}
		for _, n := range splitNameList(first) {
			firstNames[n] = true
		}
		for _, n := range splitNameList(last) {
			lastNames[n] = true
		}

		emails = append(emails, c.Emails...)
		phones = append(phones, c.Phones...)
		addresses = append(addresses, c.Addresses...)

		if c.Organization != "" && len(c.Organization) > len(merged.Organization) {
			merged.Organization = c.Organization
		}

		scores = append(scores, m.scorer.Score(&cluster[0], c))
	}

	merged.FirstName = m.foldNames(firstNames)
	merged.LastName = m.foldNames(lastNames)
	merged.FullName = strings.TrimSpace(merged.FirstName + " " + merged.LastName)
	merged.Emails = dedupeEmails(emails)
	merged.Phones = m.phones.NormalizeList(phones...)
	merged.Addresses = m.addrs.Merge(ctx, addresses)
	merged.MatchConfidence = geometricMean(scores)

	if merged.FullName == "" {
		merged.FullName = m.names.PseudoName(&merged)
	}
	return merged
}

// foldNames merges a set of name values pairwise. The set is sorted
// first so the result does not depend on map iteration order.
func (m *Merger) foldNames(set map[string]bool) string {
	if len(set) == 0 {
		return ""
	}
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)

	merged := names[0]
	for _, n := range names[1:] {
		merged = m.names.Merge([]string{merged, n})
	}
	return merged
}

func splitNameList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// dedupeEmails keeps the first appearance of each address, comparing
// case-insensitively.
func dedupeEmails(emails []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range emails {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		key := strings.ToLower(e)
		if !seen[key] {
			seen[key] = true
			out = append(out, e)
		}
	}
	return out
}

func geometricMean(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	product := 1.0
	for _, s := range scores {
		product *= s
	}
	return math.Pow(product, 1.0/float64(len(scores)))
}
