// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package report builds the merge audit trail: one entry per output
// contact describing which original records fed it and with what
// confidence.
package report

import (
	"sort"
	"strings"

	"contact-dedupe/internal/contact"
	"contact-dedupe/internal/normalize/phone"
)

// Entry is one row of the merge report.
type Entry struct {
	OriginalNames  string
	MergedName     string
	OriginalPhones string
	MergedPhones   string
	Confidence     float64
	GroupSize      int
}

// BuildEntries pairs each merged contact with the cluster members it
// came from. Merged contacts and groups must be parallel slices, as
// produced by the merge step.
func BuildEntries(merged []contact.Contact, groups [][]contact.Contact, phones *phone.Normalizer) []Entry {
	entries := make([]Entry, 0, len(merged))
	for i := range merged {
		var members []contact.Contact
		if i < len(groups) {
			members = groups[i]
		}

		names := map[string]bool{}
		var originalPhones []string
		for j := range members {
			if n := members[j].DisplayName(); n != "" {
				names[n] = true
			}
			originalPhones = append(originalPhones, members[j].Phones...)
		}

		entries = append(entries, Entry{
			OriginalNames:  joinSorted(setKeys(names)),
			MergedName:     merged[i].DisplayName(),
			OriginalPhones: joinSorted(phones.NormalizeList(originalPhones...)),
			MergedPhones:   joinSorted(append([]string(nil), merged[i].Phones...)),
			Confidence:     merged[i].MatchConfidence,
			GroupSize:      len(members),
		})
	}
	return entries
}

func setKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

func joinSorted(values []string) string {
	sort.Strings(values)
	return strings.Join(values, ", ")
}
