// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package dedupe

import (
	"testing"

	"contact-dedupe/internal/contact"
	"contact-dedupe/internal/normalize/phone"
)

func newTestDetector() *Detector {
	return NewDetector(phone.New(phone.DefaultConfig()), DefaultDetectorConfig())
}

func TestIndexBuckets(t *testing.T) {
	batch := []contact.Contact{
		{FullName: "John Smith"},
		{FullName: "Johnny Smith"},
		{FullName: "Mary Jones"},
		{FullName: ""},
	}
	idx := BuildIndex(batch)

	got := idx.Candidates("John Smith")
	if len(got) < 2 {
		t.Fatalf("expected johns in one bucket, got %v", got)
	}
	found := map[int]bool{}
	for _, i := range got {
		found[i] = true
	}
	if !found[0] || !found[1] {
		t.Errorf("bucket should contain records 0 and 1, got %v", got)
	}
	if found[2] {
		t.Errorf("Mary Jones should not share the joh bucket")
	}
}

func TestIndexTypoVariants(t *testing.T) {
	batch := []contact.Contact{
		{FullName: "Jo"},
	}
	idx := BuildIndex(batch)

	// "joe" is not a bucket, but deleting its middle character yields
	// "jo", so the shorter-keyed record still surfaces.
	got := idx.Candidates("Joe")
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("expected deletion variant to surface Jo, got %v", got)
	}
}

func TestIndexEmptyName(t *testing.T) {
	idx := BuildIndex([]contact.Contact{{FullName: ""}})
	if got := idx.Candidates(""); len(got) != 0 {
		t.Errorf("empty names must not be indexed, got %v", got)
	}
}

func TestDetectorTwoThirdsNameMatch(t *testing.T) {
	det := newTestDetector()
	batch := []contact.Contact{
		{FullName: "Dr. James Robert Wilson"},
		{FullName: "James Wilson"},
	}
	if !det.Match(batch, 0, 1) {
		t.Error("two of two parts match on the shorter side; 2/3 of the longer")
	}
}

func TestDetectorPhoneCorroboration(t *testing.T) {
	det := newTestDetector()
	batch := []contact.Contact{
		{FullName: "James Robert Wilson", Phones: []string{"+1 555 123 4567"}},
		{FullName: "James Taylor Andrews", Phones: []string{"555-123-4567"}},
		{FullName: "James Taylor Andrews"},
	}
	if !det.Match(batch, 0, 1) {
		t.Error("one of three parts with a shared phone should match")
	}
	if det.Match(batch, 0, 2) {
		t.Error("one of three parts without phone evidence must not match")
	}
}

func TestDetectorTitleStripping(t *testing.T) {
	det := newTestDetector()
	batch := []contact.Contact{
		{FullName: "Prof. Dr. Anna Schmidt PhD"},
		{FullName: "Anna Schmidt"},
	}
	if !det.Match(batch, 0, 1) {
		t.Error("titles must not count as name parts")
	}
}

func TestDetectorOrganizationVeto(t *testing.T) {
	det := newTestDetector()
	batch := []contact.Contact{
		{FullName: "Thomas Anderson", Organization: "Metacortex"},
		{FullName: "Thomas Anderson", Organization: "Nebuchadnezzar Inc"},
		{FullName: "Thomas Anderson", Organization: "Metacortex Corp", Phones: []string{"555 0100"}},
		{FullName: "Thomas Anderson", Organization: "Nebuchadnezzar Inc", Phones: []string{"555 0100"}},
	}
	if det.Match(batch, 0, 1) {
		t.Error("same name but diverging organizations must not match")
	}
	if !det.Match(batch, 2, 3) {
		t.Error("shared phone overrides an organization mismatch")
	}
}

func TestDetectorShortTokensIgnored(t *testing.T) {
	det := newTestDetector()
	batch := []contact.Contact{
		{FullName: "J B Smithson"},
		{FullName: "Smithson"},
	}
	if !det.Match(batch, 0, 1) {
		t.Error("initials must not dilute the match ratio")
	}
}

func TestDetectorMemoization(t *testing.T) {
	det := newTestDetector()
	batch := []contact.Contact{
		{FullName: "John Smith"},
		{FullName: "John Smith"},
	}
	first := det.Match(batch, 0, 1)
	second := det.Match(batch, 1, 0)
	if first != second {
		t.Error("decision must be symmetric and cached per unordered pair")
	}
	if len(det.memo) != 1 {
		t.Errorf("expected one memo entry, got %d", len(det.memo))
	}
}

func TestClusterPartition(t *testing.T) {
	batch := []contact.Contact{
		{FullName: "John Smith", Phones: []string{"+1 212 555 0100"}},
		{FullName: "Johnny Smith", Phones: []string{"212-555-0100"}},
		{FullName: "Mary Jones"},
		{FullName: "John Smith"},
	}
	idx := BuildIndex(batch)
	det := newTestDetector()
	clusters := Cluster(batch, idx, det)

	seen := map[int]int{}
	for _, cl := range clusters {
		for _, i := range cl {
			seen[i]++
		}
	}
	if len(seen) != len(batch) {
		t.Fatalf("every record must be clustered, got %v", clusters)
	}
	for i, n := range seen {
		if n != 1 {
			t.Errorf("record %d appears %d times", i, n)
		}
	}

	// The three Smiths end up together, Mary alone.
	var smiths []int
	for _, cl := range clusters {
		for _, i := range cl {
			if i == 0 {
				smiths = cl
			}
		}
	}
	if len(smiths) != 3 {
		t.Errorf("expected the Smith variants in one cluster, got %v", clusters)
	}
}

func TestClusterSingletonOrdering(t *testing.T) {
	batch := []contact.Contact{
		{FullName: "Alpha Person"},
		{FullName: "Beta Person"},
	}
	idx := BuildIndex(batch)
	det := newTestDetector()
	clusters := Cluster(batch, idx, det)
	if len(clusters) != 2 {
		t.Fatalf("expected two singleton clusters, got %v", clusters)
	}
	if clusters[0][0] != 0 || clusters[1][0] != 1 {
		t.Errorf("clusters must follow batch order, got %v", clusters)
	}
}
