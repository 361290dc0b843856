// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"testing"

	"contact-dedupe/internal/contact"
	"contact-dedupe/internal/normalize/phone"
)

func TestBuildEntries(t *testing.T) {
	phones := phone.New(phone.DefaultConfig())

	merged := []contact.Contact{
		{FullName: "Johnny Smith", Phones: []string{"+12125550100"}, MatchConfidence: 0.92},
		{FullName: "Mary Jones"},
	}
	groups := [][]contact.Contact{
		{
			{FullName: "John Smith", Phones: []string{"+1 212 555 0100"}},
			{FullName: "Johnny Smith", Phones: []string{"(212) 555-0100"}},
		},
		{
			{FullName: "Mary Jones"},
		},
	}

	entries := BuildEntries(merged, groups, phones)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	e := entries[0]
	if e.OriginalNames != "John Smith, Johnny Smith" {
		t.Errorf("OriginalNames = %q", e.OriginalNames)
	}
	if e.MergedName != "Johnny Smith" {
		t.Errorf("MergedName = %q", e.MergedName)
	}
	if e.OriginalPhones != "+12125550100" {
		t.Errorf("duplicate phones must collapse to one canonical form, got %q", e.OriginalPhones)
	}
	if e.GroupSize != 2 {
		t.Errorf("GroupSize = %d", e.GroupSize)
	}
	if e.Confidence != 0.92 {
		t.Errorf("Confidence = %v", e.Confidence)
	}

	if entries[1].GroupSize != 1 || entries[1].OriginalNames != "Mary Jones" {
		t.Errorf("singleton entry malformed: %+v", entries[1])
	}
}

func TestBuildEntriesDuplicateNamesCollapse(t *testing.T) {
	phones := phone.New(phone.DefaultConfig())
	merged := []contact.Contact{{FullName: "Ann Lee"}}
	groups := [][]contact.Contact{
		{
			{FullName: "Ann Lee"},
			{FullName: "Ann Lee"},
			{FullName: "Ann  Lee"},
		},
	}
	entries := BuildEntries(merged, groups, phones)
	if entries[0].OriginalNames != "Ann  Lee, Ann Lee" {
		t.Errorf("names must deduplicate and sort, got %q", entries[0].OriginalNames)
	}
}

func TestFilterEntries(t *testing.T) {
	entries := []Entry{
		{MergedName: "A", GroupSize: 3},
		{MergedName: "B", GroupSize: 1},
	}

	all := FilterEntries(entries, FormatterOptions{})
	if len(all) != 2 {
		t.Errorf("without MergedOnly all entries pass, got %d", len(all))
	}

	mergedOnly := FilterEntries(entries, FormatterOptions{MergedOnly: true})
	if len(mergedOnly) != 1 || mergedOnly[0].MergedName != "A" {
		t.Errorf("MergedOnly must drop singletons, got %v", mergedOnly)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if _, ok := r.Get("csv"); ok {
		t.Error("empty registry must not resolve names")
	}
	r.Register(stubFormatter{})
	if _, ok := r.Get("stub"); !ok {
		t.Error("registered formatter not found")
	}
	if names := r.List(); len(names) != 1 || names[0] != "stub" {
		t.Errorf("List = %v", names)
	}
}

type stubFormatter struct{}

func (stubFormatter) Format([]Entry, FormatterOptions) (string, error) { return "", nil }
func (stubFormatter) Name() string                                    { return "stub" }
func (stubFormatter) Description() string                             { return "stub formatter" }
func (stubFormatter) FileExtension() string                           { return ".stub" }
