// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"strings"
	"testing"

	"contact-dedupe/internal/report"
)

func TestFormat(t *testing.T) {
	f := NewFormatter()
	entries := []report.Entry{
		{
			OriginalNames:  "John Smith, Johnny Smith",
			MergedName:     "Johnny Smith",
			OriginalPhones: "+12125550100",
			MergedPhones:   "+12125550100",
			Confidence:     0.92,
			GroupSize:      2,
		},
	}

	out, err := f.Format(entries, report.FormatterOptions{})
	if err != nil {
		t.Fatalf("Format: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[0] != "Original Names,Merged Name,Original Phone Numbers,Merged Phone Numbers,Match Confidence" {
		t.Errorf("header = %q", lines[0])
	}
	// Comma-joined name lists must be quoted.
	if !strings.Contains(lines[1], `"John Smith, Johnny Smith"`) {
		t.Errorf("row = %q", lines[1])
	}
	if !strings.HasSuffix(lines[1], "0.92") {
		t.Errorf("confidence formatting, row = %q", lines[1])
	}
}

func TestFormatMergedOnly(t *testing.T) {
	f := NewFormatter()
	entries := []report.Entry{
		{MergedName: "A", GroupSize: 2},
		{MergedName: "B", GroupSize: 1},
	}

	out, err := f.Format(entries, report.FormatterOptions{MergedOnly: true})
	if err != nil {
		t.Fatalf("Format: %v", err)
	}
	if strings.Contains(out, "B") {
		t.Errorf("singleton must be filtered, got %q", out)
	}
}

func TestFormatterMetadata(t *testing.T) {
	f := NewFormatter()
	if f.Name() != "csv" || f.FileExtension() != ".csv" {
		t.Errorf("unexpected metadata: %s %s", f.Name(), f.FileExtension())
	}
}
