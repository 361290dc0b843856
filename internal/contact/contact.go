// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package contact

import "strings"

// Verdict classifies the outcome of address enrichment for one Address.
// Values other than the constants below are granularity levels passed
// through from the validation service (PREMISE, ROUTE, ...).
type Verdict string

const (
	// VerdictUnprocessed means no enrichment was attempted or the service
	// returned no usable components.
	VerdictUnprocessed Verdict = "UNPROCESSED"

	// VerdictFailed means enrichment was attempted and failed (network
	// error, auth error, malformed response). The address is otherwise
	// untouched.
	VerdictFailed Verdict = "FAILED"
)

// Address represents one postal address attached to a contact.
type Address struct {
	POBox      string
	Extended   string
	Street     string
	Locality   string
	Region     string
	PostalCode string
	Country    string

	// OriginalText preserves the untouched source text for auditing,
	// regardless of what cleaning or enrichment did to the fields above.
	OriginalText string

	Verdict    Verdict
	IsBusiness bool
	IsComplete bool
}

// Label returns the display form of the address: the comma-join of the
// non-empty core components. Two addresses with identical components
// always produce identical labels, so Label doubles as the deduplication
// key when merging address lists.
func (a Address) Label() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Street, a.Locality, a.Region, a.PostalCode, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Contact is the canonical record the engine operates on. Instances are
// never mutated once detection starts; merging produces new values.
type Contact struct {
	FullName  string
	FirstName string
	LastName  string

	Organization string

	Emails []string
	Phones []string

	Addresses []Address

	// MatchConfidence is set only on records produced by a merge; it is
	// zero on raw input records and on pass-through singletons.
	MatchConfidence float64
}

// DisplayName returns the best available name for a contact: the full
// name, then first+last, then organization, then the first email's local
// part, then the first phone number, then "Unknown".
func (c *Contact) DisplayName() string {
	if c.FullName != "" {
		return c.FullName
	}
	if c.FirstName != "" || c.LastName != "" {
		return strings.TrimSpace(strings.Join(nonEmpty(c.FirstName, c.LastName), " "))
	}
	if c.Organization != "" {
		return c.Organization
	}
	if len(c.Emails) > 0 {
		if local, _, ok := strings.Cut(c.Emails[0], "@"); ok && local != "" {
			return local
		}
		return c.Emails[0]
	}
	if len(c.Phones) > 0 {
		return c.Phones[0]
	}
	return "Unknown"
}

// Clone returns a deep copy of the contact. Merge output is always built
// on clones so the original batch stays intact for the audit report.
func (c *Contact) Clone() Contact {
	out := *c
	out.Emails = append([]string(nil), c.Emails...)
	out.Phones = append([]string(nil), c.Phones...)
	out.Addresses = append([]Address(nil), c.Addresses...)
	return out
}

func nonEmpty(values ...string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
