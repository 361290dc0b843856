// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package fileio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"contact-dedupe/internal/contact"
)

// csvFields are the canonical output columns. Reading accepts the
// synonyms listed per field.
var csvFields = []struct {
	name     string
	synonyms []string
}{
	{"Full Name", []string{"name", "displayname"}},
	{"FirstName", []string{"first name", "given name"}},
	{"LastName", []string{"last name", "family name"}},
	{"Organization", []string{"company", "business"}},
	{"Email", []string{"e-mail", "e-mail address", "e-mail 1", "primary email"}},
	{"Telephone", []string{"phone", "primary phone", "mobile", "cell"}},
	{"Address", []string{"home address", "primary address"}},
	{"MatchConfidence", []string{"match confidence", "confidence"}},
}

func (c *Codec) readCSV(r io.Reader) ([]contact.Contact, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("malformed CSV header: %w", err)
	}
	columns := mapHeader(header)

	var contacts []contact.Contact
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed CSV row: %w", err)
		}
		contacts = append(contacts, rowToContact(row, columns))
	}
	return contacts, nil
}

// mapHeader resolves each column index to a canonical field name;
// unrecognized headers map to the empty string and are ignored.
func mapHeader(header []string) []string {
	columns := make([]string, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		for _, field := range csvFields {
			if key == strings.ToLower(field.name) {
				columns[i] = field.name
				break
			}
			for _, syn := range field.synonyms {
				if key == syn {
					columns[i] = field.name
					break
				}
			}
			if columns[i] != "" {
				break
			}
		}
	}
	return columns
}

func rowToContact(row []string, columns []string) contact.Contact {
	var ct contact.Contact
	for i, value := range row {
		if i >= len(columns) {
			break
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch columns[i] {
		case "Full Name":
			ct.FullName = value
		case "FirstName":
			ct.FirstName = value
		case "LastName":
			ct.LastName = value
		case "Organization":
			ct.Organization = value
		case "Email":
			ct.Emails = append(ct.Emails, splitListField(value)...)
		case "Telephone":
			ct.Phones = append(ct.Phones, splitListField(value)...)
		case "Address":
			ct.Addresses = append(ct.Addresses, contact.Address{
				OriginalText: value,
				Verdict:      contact.VerdictUnprocessed,
			})
		case "MatchConfidence":
			if conf, err := strconv.ParseFloat(value, 64); err == nil {
				ct.MatchConfidence = conf
			}
		}
	}
	return ct
}

// WriteCSV writes the contacts with the canonical column set.
func (c *Codec) WriteCSV(w io.Writer, contacts []contact.Contact) error {
	writer := csv.NewWriter(w)

	header := make([]string, len(csvFields))
	for i, field := range csvFields {
		header[i] = field.name
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range contacts {
		ct := &contacts[i]
		var addresses []string
		for j := range ct.Addresses {
			if label := addressText(&ct.Addresses[j]); label != "" {
				addresses = append(addresses, label)
			}
		}
		row := []string{
			ct.FullName,
			ct.FirstName,
			ct.LastName,
			ct.Organization,
			strings.Join(ct.Emails, ", "),
			strings.Join(ct.Phones, ", "),
			strings.Join(addresses, "; "),
			strconv.FormatFloat(ct.MatchConfidence, 'f', 2, 64),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

func addressText(a *contact.Address) string {
	if label := a.Label(); label != "" {
		return label
	}
	return a.OriginalText
}
