// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package fileio

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"contact-dedupe/internal/contact"
	"contact-dedupe/internal/normalize/name"
)

func newTestCodec() *Codec {
	return NewCodec(name.New(name.DefaultConfig()))
}

const sampleVCard = `BEGIN:VCARD
VERSION:4.0
FN:John Smith
N:Smith;John;;;
ORG:ACME Corporation;Engineering
EMAIL:john@example.com
TEL:+1 212 555 0100
ADR:;;123 Main Street;Springfield;IL;62701;USA
END:VCARD
`

func TestReadVCard(t *testing.T) {
	c := newTestCodec()
	contacts, err := c.readVCard(strings.NewReader(sampleVCard))
	if err != nil {
		t.Fatalf("readVCard: %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(contacts))
	}

	ct := contacts[0]
	if ct.FullName != "John Smith" || ct.FirstName != "John" || ct.LastName != "Smith" {
		t.Errorf("names = %q %q %q", ct.FullName, ct.FirstName, ct.LastName)
	}
	if ct.Organization != "ACME Corporation" {
		t.Errorf("Organization = %q", ct.Organization)
	}
	if len(ct.Emails) != 1 || ct.Emails[0] != "john@example.com" {
		t.Errorf("Emails = %v", ct.Emails)
	}
	if len(ct.Phones) != 1 || ct.Phones[0] != "+1 212 555 0100" {
		t.Errorf("Phones = %v", ct.Phones)
	}
	if len(ct.Addresses) != 1 {
		t.Fatalf("Addresses = %v", ct.Addresses)
	}
	a := ct.Addresses[0]
	if a.Street != "123 Main Street" || a.Locality != "Springfield" || a.PostalCode != "62701" {
		t.Errorf("address = %+v", a)
	}
	if a.Verdict != contact.VerdictUnprocessed {
		t.Errorf("Verdict = %q", a.Verdict)
	}
}

func TestVCardRoundTrip(t *testing.T) {
	c := newTestCodec()
	in := []contact.Contact{
		{
			FullName:     "Jane Doe",
			FirstName:    "Jane",
			LastName:     "Doe",
			Organization: "ACME",
			Emails:       []string{"jane@example.com"},
			Phones:       []string{"+12125550100"},
			Addresses: []contact.Address{
				{Street: "1 Oak Lane", Locality: "Springfield", Country: "USA"},
			},
		},
	}

	var buf bytes.Buffer
	if err := c.WriteVCard(&buf, in); err != nil {
		t.Fatalf("WriteVCard: %v", err)
	}
	out, err := c.readVCard(&buf)
	if err != nil {
		t.Fatalf("readVCard: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(out))
	}
	if out[0].FullName != "Jane Doe" || out[0].Organization != "ACME" {
		t.Errorf("round trip lost fields: %+v", out[0])
	}
	if len(out[0].Addresses) != 1 || out[0].Addresses[0].Street != "1 Oak Lane" {
		t.Errorf("round trip lost address: %+v", out[0].Addresses)
	}
}

func TestReadCSVHeaderSynonyms(t *testing.T) {
	c := newTestCodec()
	input := "Name,Company,Primary Email,Mobile,Home Address\n" +
		"John Smith,ACME,john@example.com,\"+1 212 555 0100, +1 212 555 0101\",123 Main St\n"

	contacts, err := c.readCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("readCSV: %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(contacts))
	}

	ct := contacts[0]
	if ct.FullName != "John Smith" {
		t.Errorf("FullName = %q", ct.FullName)
	}
	if ct.Organization != "ACME" {
		t.Errorf("Organization = %q", ct.Organization)
	}
	if len(ct.Phones) != 2 {
		t.Errorf("multi-valued phone cell must split, got %v", ct.Phones)
	}
	if len(ct.Addresses) != 1 || ct.Addresses[0].OriginalText != "123 Main St" {
		t.Errorf("Addresses = %v", ct.Addresses)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	c := newTestCodec()
	in := []contact.Contact{
		{
			FullName:        "Jane Doe",
			FirstName:       "Jane",
			LastName:        "Doe",
			Emails:          []string{"jane@example.com", "jd@work.example"},
			MatchConfidence: 0.92,
		},
	}

	var buf bytes.Buffer
	if err := c.WriteCSV(&buf, in); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	out, err := c.readCSV(&buf)
	if err != nil {
		t.Fatalf("readCSV: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(out))
	}
	if out[0].FullName != "Jane Doe" || len(out[0].Emails) != 2 {
		t.Errorf("round trip lost fields: %+v", out[0])
	}
	if out[0].MatchConfidence != 0.92 {
		t.Errorf("MatchConfidence = %v", out[0].MatchConfidence)
	}
}

func TestReadFileBackfillsNames(t *testing.T) {
	c := newTestCodec()
	dir := t.TempDir()
	path := filepath.Join(dir, "contacts.csv")
	data := "Email\njane.doe@example.com\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	contacts, err := c.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(contacts) != 1 {
		t.Fatalf("expected 1 contact, got %d", len(contacts))
	}
	if contacts[0].FullName != "Jane Doe" {
		t.Errorf("pseudo-name not synthesized, FullName = %q", contacts[0].FullName)
	}
	if contacts[0].FirstName != "Jane" || contacts[0].LastName != "Doe" {
		t.Errorf("split missing: %q %q", contacts[0].FirstName, contacts[0].LastName)
	}
}

func TestReadFileUnsupportedFormat(t *testing.T) {
	c := newTestCodec()
	dir := t.TempDir()
	path := filepath.Join(dir, "contacts.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := c.ReadFile(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestReadFileMalformedVCard(t *testing.T) {
	c := newTestCodec()
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.vcf")
	if err := os.WriteFile(path, []byte("BEGIN:VCARD\nFN\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := c.ReadFile(path); err == nil {
		t.Error("malformed vCard must be a hard error")
	}
}

func TestReadInputsExpandsDirectories(t *testing.T) {
	c := newTestCodec()
	dir := t.TempDir()

	files := map[string]string{
		"a.csv":      "Name\nAlpha One\n",
		"b.vcf":      "BEGIN:VCARD\nVERSION:4.0\nFN:Beta Two\nEND:VCARD\n",
		"notes.txt":  "ignored",
		"nested.csv": "Name\nGamma Three\n",
	}
	for fn, content := range files {
		if err := os.WriteFile(filepath.Join(dir, fn), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	contacts, err := c.ReadInputs([]string{dir})
	if err != nil {
		t.Fatalf("ReadInputs: %v", err)
	}
	if len(contacts) != 3 {
		t.Errorf("expected 3 contacts from 3 matching files, got %d", len(contacts))
	}
}

func TestWriteOutputs(t *testing.T) {
	c := newTestCodec()
	dir := filepath.Join(t.TempDir(), "out")
	contacts := []contact.Contact{
		{FullName: "Jane Doe", FirstName: "Jane", LastName: "Doe"},
	}

	if err := c.WriteOutputs(dir, contacts); err != nil {
		t.Fatalf("WriteOutputs: %v", err)
	}
	for _, fn := range []string{"contacts.csv", "contacts.vcf"} {
		if _, err := os.Stat(filepath.Join(dir, fn)); err != nil {
			t.Errorf("missing %s: %v", fn, err)
		}
	}
}
