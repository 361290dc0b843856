// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package dedupe finds clusters of duplicate contacts: blocking index,
// pairwise decision policy and connected-component grouping.
package dedupe

import (
	"strings"

	"contact-dedupe/internal/contact"
)

// Index blocks contacts into candidate buckets by name prefix so
// detection avoids comparing all pairs. Bucket values are indices into
// the batch the index was built from.
type Index struct {
	buckets map[string][]int
}

// BuildIndex creates the blocking index for a batch. Contacts whose
// best-available name is empty get no bucket membership.
func BuildIndex(batch []contact.Contact) *Index {
	idx := &Index{buckets: make(map[string][]int)}
	for i := range batch {
		key := indexKey(batch[i].DisplayName())
		if key == "" {
			continue
		}
		idx.buckets[key] = append(idx.buckets[key], i)
	}
	return idx
}

// Candidates returns the contacts sharing the name's bucket key or any
// single-character-deletion variant of it, which tolerates one typo in
// the key. Order of first appearance is preserved.
func (x *Index) Candidates(name string) []int {
	key := indexKey(name)
	if key == "" {
		return nil
	}
	var out []int
	seen := map[int]bool{}
	collect := func(k string) {
		for _, i := range x.buckets[k] {
			if !seen[i] {
				seen[i] = true
				out = append(out, i)
			}
		}
	}
	collect(key)
	runes := []rune(key)
	for i := range runes {
		variant := string(runes[:i]) + string(runes[i+1:])
		if variant != "" {
			collect(variant)
		}
	}
	return out
}

// indexKey is the lowercased first 3 characters of a name.
func indexKey(name string) string {
	runes := []rune(strings.ToLower(strings.TrimSpace(name)))
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return string(runes)
}
