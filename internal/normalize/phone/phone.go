// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package phone canonicalizes phone numbers and decides equivalence
// across formatting and country-code variants.
package phone

import (
	"sort"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Config holds phone normalization settings.
type Config struct {
	// DefaultRegion is the ISO region used when a number carries no
	// country code ("US", "GB", ...).
	DefaultRegion string
	// CountryPrefixes lists the calling codes reconciled between
	// international and local formats.
	CountryPrefixes []string
}

// DefaultConfig returns US-region settings with the standard calling
// code table.
func DefaultConfig() Config {
	return Config{
		DefaultRegion: "US",
		CountryPrefixes: []string{
			"1", "20", "212", "234", "27", "30", "31", "32", "33", "34",
			"36", "39", "40", "41", "43", "44", "45", "46", "47", "48",
			"49", "51", "52", "54", "55", "56", "57", "58", "61", "64",
			"81", "82", "84", "852", "855", "86", "886", "91", "92", "95",
			"966", "971", "972", "974",
		},
	}
}

// listSeparators are tried in order; the first one present in the
// input is used to split a delimiter-joined phone string.
var listSeparators = []string{",", ";", "\n", "/", "|"}

// Normalizer canonicalizes phone numbers for comparison.
type Normalizer struct {
	region string
	// longest-first so "852" wins over "85"-style overlaps
	prefixes []string
}

// New creates a Normalizer from the given configuration.
func New(cfg Config) *Normalizer {
	prefixes := append([]string(nil), cfg.CountryPrefixes...)
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })
	region := cfg.DefaultRegion
	if region == "" {
		region = "US"
	}
	return &Normalizer{region: region, prefixes: prefixes}
}

// Strip removes every character except digits and a leading '+', and
// converts a leading "00" into "+".
func Strip(phone string) string {
	var b strings.Builder
	for i, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && i == 0 {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if strings.HasPrefix(s, "00") {
		s = "+" + s[2:]
	}
	return s
}

// Canonical returns the E.164 form of a phone number, or the empty
// string when the number cannot be parsed. An empty result means the
// number cannot be compared, not that an error occurred.
func (n *Normalizer) Canonical(phone string) string {
	stripped := Strip(phone)
	if stripped == "" {
		return ""
	}
	parsed, err := phonenumbers.Parse(stripped, n.region)
	if err != nil || !phonenumbers.IsPossibleNumber(parsed) {
		return ""
	}
	return phonenumbers.Format(parsed, phonenumbers.E164)
}

// NormalizeList flattens, canonicalizes and deduplicates phone values.
// Each value may itself be a delimiter-joined list. Parseable numbers
// are stored in E.164 form; unparseable ones keep their stripped
// literal form. Order of first occurrence is preserved.
func (n *Normalizer) NormalizeList(values ...string) []string {
	var out []string
	seen := map[string]bool{}
	for _, value := range values {
		for _, raw := range SplitList(value) {
			stripped := Strip(raw)
			if stripped == "" {
				continue
			}
			canonical := n.Canonical(raw)
			key := canonical
			if key == "" {
				key = stripped
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}

// SplitList splits a possibly delimiter-joined phone string on the
// first separator found among comma, semicolon, newline, slash and
// pipe. A string without separators comes back as a single element.
func SplitList(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, sep := range listSeparators {
		if strings.Contains(value, sep) {
			parts := strings.Split(value, sep)
			out := make([]string, 0, len(parts))
			for _, p := range parts {
				if p = strings.TrimSpace(p); p != "" {
					out = append(out, p)
				}
			}
			return out
		}
	}
	return []string{value}
}

// Equivalent reports whether two phone numbers denote the same line.
// Canonical forms are compared first, then '+'-stripped forms, then
// country-prefix and leading-zero reconciliation ("+44 20 ..." matches
// "020 ..."). Numbers that fail to parse are never equivalent to
// anything unless their stripped literal forms are byte-identical.
func (n *Normalizer) Equivalent(a, b string) bool {
	sa, sb := Strip(a), Strip(b)
	if sa == "" || sb == "" {
		return false
	}

	ca, cb := n.Canonical(a), n.Canonical(b)
	if ca == "" && cb == "" {
		// Unparseable numbers only match themselves literally
		return sa == sb
	}
	if ca != "" && ca == cb {
		return true
	}
	// Reconcile the stripped literals first: canonicalization against the
	// default region can swallow a local leading zero that the prefix
	// rules need to see.
	if n.reconcile(sa, sb) {
		return true
	}
	return ca != "" && cb != "" && n.reconcile(ca, cb)
}

// reconcile compares two stripped or canonical forms after removing
// '+' signs and reconciling a country calling code on one side against
// a local leading zero on the other.
func (n *Normalizer) reconcile(a, b string) bool {
	bareA := strings.TrimPrefix(a, "+")
	bareB := strings.TrimPrefix(b, "+")
	if bareA == bareB {
		return true
	}
	return n.prefixMatch(bareA, bareB) || n.prefixMatch(bareB, bareA)
}

// prefixMatch checks whether intl, with one of the configured country
// codes removed, equals local modulo a leading zero.
func (n *Normalizer) prefixMatch(intl, local string) bool {
	for _, prefix := range n.prefixes {
		if !strings.HasPrefix(intl, prefix) {
			continue
		}
		rest := strings.TrimPrefix(intl, prefix)
		rest = strings.TrimPrefix(rest, "0")
		if strings.HasPrefix(local, "0") {
			if rest == local[1:] {
				return true
			}
		} else if rest == local {
			return true
		}
	}
	return false
}

// AnyMatch reports whether any number in the first list is equivalent
// to any number in the second.
func (n *Normalizer) AnyMatch(phones1, phones2 []string) bool {
	for _, p1 := range phones1 {
		for _, p2 := range phones2 {
			if n.Equivalent(p1, p2) {
				return true
			}
		}
	}
	return false
}
