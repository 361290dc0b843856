// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"contact-dedupe/internal/report"
)

// Formatter implements text-based output formatting
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":  color.New(color.FgGreen),
			"yellow": color.New(color.FgYellow),
			"red":    color.New(color.FgRed),
			"cyan":   color.New(color.FgCyan),
			"white":  color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable merge summary with colors"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(entries []report.Entry, options report.FormatterOptions) (string, error) {
	if options.NoColor {
		color.NoColor = true
	}

	filtered := report.FilterEntries(entries, options)

	var sb strings.Builder
	sb.WriteString(f.colors["white"].Sprint("Merge Report"))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")

	mergedGroups := 0
	for _, e := range entries {
		if e.GroupSize > 1 {
			mergedGroups++
		}
	}
	if options.SourceCount > 0 {
		sb.WriteString(fmt.Sprintf("Records in: %d, records out: %d, merged groups: %d\n\n",
			options.SourceCount, len(entries), mergedGroups))
	} else {
		sb.WriteString(fmt.Sprintf("Records out: %d, merged groups: %d\n\n", len(entries), mergedGroups))
	}

	if len(filtered) == 0 {
		sb.WriteString("No merges performed.\n")
		return sb.String(), nil
	}

	for _, e := range filtered {
		if e.GroupSize > 1 {
			sb.WriteString(f.colors["cyan"].Sprintf("%s", e.MergedName))
			sb.WriteString(fmt.Sprintf("  (%d records, confidence %s)\n",
				e.GroupSize, f.confidenceColor(e.Confidence).Sprintf("%.2f", e.Confidence)))
			sb.WriteString(fmt.Sprintf("  from: %s\n", e.OriginalNames))
			if e.OriginalPhones != "" {
				sb.WriteString(fmt.Sprintf("  phones: %s\n", e.MergedPhones))
			}
		} else if options.Verbose {
			sb.WriteString(fmt.Sprintf("%s  (unchanged)\n", e.MergedName))
		}
	}
	return sb.String(), nil
}

// confidenceColor maps a merge confidence to a traffic-light color.
func (f *Formatter) confidenceColor(confidence float64) *color.Color {
	switch {
	case confidence >= 0.9:
		return f.colors["green"]
	case confidence >= 0.6:
		return f.colors["yellow"]
	default:
		return f.colors["red"]
	}
}
