// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package similarity

import (
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips diacritics so "José" and "Jose" compare equal.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lower-cases a string and removes diacritic marks, producing the
// comparison key used by Ratio.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Ratio returns a normalized edit-distance similarity in [0,1] between
// two strings, case- and accent-insensitive. Identical strings score 1,
// completely different strings approach 0. An empty input scores 0
// against anything, including another empty string.
func Ratio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	fa, fb := Fold(a), Fold(b)
	if fa == fb {
		return 1
	}
	distance := levenshtein.ComputeDistance(fa, fb)
	longest := len([]rune(fa))
	if l := len([]rune(fb)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	return 1 - float64(distance)/float64(longest)
}
