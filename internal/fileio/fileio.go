// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package fileio reads and writes address books. Supported formats are
// vCard (.vcf, .vcard) and CSV with header synonym mapping; a merged
// batch is written back in both formats.
package fileio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"contact-dedupe/internal/contact"
	"contact-dedupe/internal/normalize/name"
)

// ErrUnsupportedFormat marks files whose extension is not a known
// address book format.
var ErrUnsupportedFormat = fmt.Errorf("unsupported file format")

// Codec converts between files and the canonical contact shape.
type Codec struct {
	names *name.Normalizer
}

// NewCodec creates a codec; the name normalizer backfills missing name
// fields on load.
func NewCodec(names *name.Normalizer) *Codec {
	return &Codec{names: names}
}

// ReadInputs loads every given path. Directories are expanded one
// level deep to their .vcf, .vcard and .csv entries. A malformed file
// is a hard error; an empty result set is not.
func (c *Codec) ReadInputs(paths []string) ([]contact.Contact, error) {
	files, err := expandPaths(paths)
	if err != nil {
		return nil, err
	}

	var contacts []contact.Contact
	for _, file := range files {
		batch, err := c.ReadFile(file)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, batch...)
	}
	return contacts, nil
}

// ReadFile loads a single address book file, dispatching on extension.
func (c *Codec) ReadFile(path string) ([]contact.Contact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var contacts []contact.Contact
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vcf", ".vcard":
		contacts, err = c.readVCard(f)
	case ".csv":
		contacts, err = c.readCSV(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	for i := range contacts {
		c.backfillNames(&contacts[i])
	}
	return contacts, nil
}

// WriteOutputs writes the merged batch as contacts.csv and
// contacts.vcf under dir, creating it if needed.
func (c *Codec) WriteOutputs(dir string, contacts []contact.Contact) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	csvPath := filepath.Join(dir, "contacts.csv")
	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", csvPath, err)
	}
	if err := c.WriteCSV(f, contacts); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", csvPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", csvPath, err)
	}

	vcfPath := filepath.Join(dir, "contacts.vcf")
	f, err = os.Create(vcfPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", vcfPath, err)
	}
	if err := c.WriteVCard(f, contacts); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", vcfPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", vcfPath, err)
	}
	return nil
}

// backfillNames fills the name fields a source file left empty: the
// full name from first/last or a pseudo-name, first/last by splitting
// the full name.
func (c *Codec) backfillNames(ct *contact.Contact) {
	if ct.FullName == "" {
		ct.FullName = strings.TrimSpace(ct.FirstName + " " + ct.LastName)
	}
	if ct.FullName == "" {
		ct.FullName = c.names.PseudoName(ct)
	}
	if ct.FirstName == "" && ct.LastName == "" && ct.FullName != "" {
		ct.FirstName, ct.LastName = c.names.SplitFullName(ct.FullName)
	}
}

func expandPaths(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
		}
		var found []string
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(entry.Name())) {
			case ".vcf", ".vcard", ".csv":
				found = append(found, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

// splitListField splits a multi-valued CSV cell on commas and
// semicolons.
func splitListField(value string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ';'
	}) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
