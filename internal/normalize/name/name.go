// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package name normalizes, capitalizes and merges person and
// organization names.
package name

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"contact-dedupe/internal/contact"
	"contact-dedupe/internal/similarity"
)

// Config holds the token sets and thresholds for name normalization.
type Config struct {
	// Honorific prefixes (Dr, Prof, ...) in canonical casing
	Prefixes []string
	// Generational and professional suffixes (Jr, MD, ...) in canonical casing
	Suffixes []string
	// Lower-case particles (von, van, de, ...)
	Particles []string
	// Minimum fuzzy similarity for two name parts to be treated as
	// variants of the same name during merging
	NicknameSimilarity float64
}

// DefaultConfig returns the standard token sets.
func DefaultConfig() Config {
	return Config{
		Prefixes:           []string{"Dr", "Prof", "Mr", "Mrs", "Ms"},
		Suffixes:           []string{"II", "III", "IV", "MD", "PhD", "Jr", "Sr"},
		Particles:          []string{"von", "van", "de", "la", "das", "dos", "der", "den"},
		NicknameSimilarity: 0.8,
	}
}

// Normalizer cleans, cases and merges names.
type Normalizer struct {
	prefixes    map[string]string // upper, dot-stripped -> canonical casing
	suffixes    map[string]string // upper -> canonical casing
	particles   map[string]bool   // lower
	nicknameSim float64
}

// New creates a Normalizer from the given configuration.
func New(cfg Config) *Normalizer {
	n := &Normalizer{
		prefixes:    make(map[string]string, len(cfg.Prefixes)),
		suffixes:    make(map[string]string, len(cfg.Suffixes)),
		particles:   make(map[string]bool, len(cfg.Particles)),
		nicknameSim: cfg.NicknameSimilarity,
	}
	for _, p := range cfg.Prefixes {
		n.prefixes[strings.ToUpper(strings.TrimRight(p, "."))] = p
	}
	for _, s := range cfg.Suffixes {
		n.suffixes[strings.ToUpper(strings.TrimRight(s, "."))] = s
	}
	for _, p := range cfg.Particles {
		n.particles[strings.ToLower(p)] = true
	}
	if n.nicknameSim == 0 {
		n.nicknameSim = 0.8
	}
	return n
}

// Clean collapses whitespace and strips recognized honorific prefixes
// and suffixes when they occur as whole tokens. Internal capitalization
// is preserved.
func (n *Normalizer) Clean(name string) string {
	if name == "" {
		return name
	}
	var kept []string
	for _, tok := range strings.Fields(name) {
		key := strings.ToUpper(strings.TrimRight(tok, "."))
		if _, isPrefix := n.prefixes[key]; isPrefix {
			continue
		}
		if _, isSuffix := n.suffixes[key]; isSuffix {
			continue
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

// Capitalize applies per-token casing rules: hyphen-joined sub-tokens
// are recapitalized individually, known prefixes and suffixes are
// rendered in their canonical casing, particles are forced lower-case,
// and every other token gets a leading capital with the rest preserved.
func (n *Normalizer) Capitalize(name string) string {
	if name == "" {
		return name
	}
	toks := strings.Fields(name)
	for i, tok := range toks {
		toks[i] = n.capitalizeToken(tok)
	}
	return strings.Join(toks, " ")
}

func (n *Normalizer) capitalizeToken(tok string) string {
	if strings.Contains(tok, "-") {
		sub := strings.Split(tok, "-")
		for i, s := range sub {
			if s != "" {
				sub[i] = n.capitalizeToken(s)
			}
		}
		return strings.Join(sub, "-")
	}
	key := strings.ToUpper(strings.TrimRight(tok, "."))
	if canonical, ok := n.suffixes[key]; ok {
		return canonical
	}
	if canonical, ok := n.prefixes[key]; ok {
		if strings.HasSuffix(tok, ".") {
			return canonical + "."
		}
		return canonical
	}
	if n.particles[strings.ToLower(tok)] {
		return strings.ToLower(tok)
	}
	runes := []rune(tok)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// Merge combines any number of name strings into one that preserves all
// distinguishing parts without duplication. Blank inputs contribute
// nothing; if every input is blank the result is the empty string.
func (n *Normalizer) Merge(names []string) string {
	var (
		ordinary   []string
		prefixes   []string
		suffixes   []string
		seen       = map[string]bool{}
		prefixSeen = map[string]bool{}
		suffixSeen = map[string]bool{}
		// lowercased part -> minimum position it held in any input
		positions = map[string]int{}
	)

	addPart := func(part string) {
		key := strings.ToLower(part)
		if seen[key] {
			return
		}
		if isInitial(part) && !keepInitial(part, ordinary) {
			return
		}
		for i, existing := range ordinary {
			if n.isVariant(existing, part) {
				// Keep the longer, more specific form
				if len(part) > len(existing) {
					delete(seen, strings.ToLower(existing))
					ordinary[i] = part
					seen[key] = true
				}
				return
			}
			if n.isVariant(part, existing) {
				return
			}
		}
		ordinary = append(ordinary, part)
		seen[key] = true
	}

	for _, raw := range names {
		parts := tokenizeName(normalizeOrder(raw))
		for pos, part := range parts {
			key := strings.ToLower(part)
			if _, ok := positions[key]; !ok {
				positions[key] = pos
			} else if pos < positions[key] {
				positions[key] = pos
			}
		}
		for _, part := range parts {
			upperKey := strings.ToUpper(strings.TrimRight(part, "."))
			switch {
			case contains(n.prefixes, upperKey):
				if !prefixSeen[upperKey] {
					prefixSeen[upperKey] = true
					prefixes = append(prefixes, part)
				}
			case contains(n.suffixes, upperKey):
				if !suffixSeen[upperKey] {
					suffixSeen[upperKey] = true
					suffixes = append(suffixes, part)
				}
			default:
				addPart(part)
			}
		}
	}

	// Stable order by the minimum position each part held in its inputs
	sort.SliceStable(ordinary, func(i, j int) bool {
		return positionOf(positions, ordinary[i]) < positionOf(positions, ordinary[j])
	})

	assembled := strings.Join(append(append(prefixes, ordinary...), suffixes...), " ")
	return n.Capitalize(assembled)
}

// isVariant reports whether short is a nickname or spelling variant of
// long: a substring or prefix of it, or fuzzy-similar above the
// nickname threshold.
func (n *Normalizer) isVariant(short, long string) bool {
	s := strings.ToLower(strings.TrimRight(short, "."))
	l := strings.ToLower(strings.TrimRight(long, "."))
	if s == "" || l == "" {
		return false
	}
	return strings.Contains(l, s) ||
		strings.HasPrefix(l, s) ||
		similarity.Ratio(s, l) > n.nicknameSim
}

// SplitFullName splits a display name into first and last components.
// A "Last, First" form is reordered first; everything before the final
// token counts as the first name.
func (n *Normalizer) SplitFullName(full string) (first, last string) {
	parts := strings.Fields(normalizeOrder(full))
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
	}
}

// PseudoName synthesizes a display name for a contact with no name
// fields: the title-cased, separator-stripped email local part, then
// the first phone number verbatim, then the organization, then the
// literal "Unknown Contact".
func (n *Normalizer) PseudoName(c *contact.Contact) string {
	if len(c.Emails) > 0 {
		if local, _, ok := strings.Cut(c.Emails[0], "@"); ok && local != "" {
			return titleCaseLocal(local)
		}
	}
	if len(c.Phones) > 0 && c.Phones[0] != "" {
		return c.Phones[0]
	}
	if c.Organization != "" {
		return c.Organization
	}
	return "Unknown Contact"
}

// normalizeOrder converts "Last, First" into "First Last" when the
// input contains a comma with exactly two parts.
func normalizeOrder(name string) string {
	if !strings.Contains(name, ",") {
		return name
	}
	parts := strings.Split(name, ",")
	if len(parts) != 2 {
		return name
	}
	return strings.TrimSpace(parts[1]) + " " + strings.TrimSpace(parts[0])
}

// tokenizeName splits a name into word parts, joining trailing and
// leading hyphen fragments with the adjacent word so "Winter-" +
// "Depression" becomes "Winter-Depression".
func tokenizeName(name string) []string {
	var parts []string
	var current []string
	for _, tok := range strings.Fields(name) {
		switch {
		case strings.HasSuffix(tok, "-"):
			current = append(current, strings.TrimSuffix(tok, "-"))
		case strings.HasPrefix(tok, "-"):
			current = append(current, strings.TrimPrefix(tok, "-"))
			parts = append(parts, strings.Join(current, "-"))
			current = nil
		default:
			if len(current) > 0 {
				current = append(current, tok)
				parts = append(parts, strings.Join(current, "-"))
				current = nil
			} else {
				parts = append(parts, tok)
			}
		}
	}
	if len(current) > 0 {
		parts = append(parts, strings.Join(current, "-"))
	}
	return parts
}

// isInitial reports whether a token is a single letter, optionally
// followed by a period.
func isInitial(tok string) bool {
	tok = strings.TrimRight(tok, ".")
	if len(tok) != 1 {
		return false
	}
	return unicode.IsLetter(rune(tok[0]))
}

// keepInitial reports whether an initial is still worth keeping given
// the parts retained so far: it is dropped once a longer part starting
// with the same letter exists.
func keepInitial(initial string, parts []string) bool {
	letter := strings.ToLower(strings.TrimRight(initial, "."))
	for _, part := range parts {
		if len(part) > 1 && strings.HasPrefix(strings.ToLower(part), letter) {
			return false
		}
	}
	return true
}

func titleCaseLocal(local string) string {
	words := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func positionOf(positions map[string]int, part string) int {
	if pos, ok := positions[strings.ToLower(part)]; ok {
		return pos
	}
	return math.MaxInt
}

func contains(m map[string]string, key string) bool {
	_, ok := m[key]
	return ok
}
