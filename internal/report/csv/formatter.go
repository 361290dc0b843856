// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"encoding/csv"
	"fmt"
	"strings"

	"contact-dedupe/internal/report"
)

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Comma-separated values for spreadsheet import"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Format(entries []report.Entry, options report.FormatterOptions) (string, error) {
	entries = report.FilterEntries(entries, options)

	var sb strings.Builder
	w := csv.NewWriter(&sb)

	header := []string{
		"Original Names",
		"Merged Name",
		"Original Phone Numbers",
		"Merged Phone Numbers",
		"Match Confidence",
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("failed to write report header: %w", err)
	}

	for _, e := range entries {
		row := []string{
			e.OriginalNames,
			e.MergedName,
			e.OriginalPhones,
			e.MergedPhones,
			fmt.Sprintf("%.2f", e.Confidence),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("failed to write report row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush report: %w", err)
	}
	return sb.String(), nil
}
