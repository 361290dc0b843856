// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package address cleans free-text addresses and, when a validation
// service is configured, enriches them into structured components.
package address

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/biter777/countries"

	"contact-dedupe/internal/contact"
	"contact-dedupe/internal/enrich"
)

// Mode selects how much address processing happens.
type Mode int

const (
	// ModeNone passes addresses through untouched.
	ModeNone Mode = iota
	// ModeCleanOnly applies string cleanup but never calls the service.
	ModeCleanOnly
	// ModeFull applies cleanup and the enrichment call.
	ModeFull
)

// ParseMode converts a configuration string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "none":
		return ModeNone, nil
	case "clean":
		return ModeCleanOnly, nil
	case "full":
		return ModeFull, nil
	default:
		return ModeNone, fmt.Errorf("unknown address validation mode %q", s)
	}
}

var (
	whitespaceRE    = regexp.MustCompile(`\s+`)
	duplicateComma  = regexp.MustCompile(`,\s*,`)
	trailingCommaRE = regexp.MustCompile(`,\s*$`)
)

// abbreviations expanded when the option is on; keys are compared
// against lower-cased, dot-stripped tokens.
var abbreviations = map[string]string{
	"st":   "street",
	"rd":   "road",
	"ave":  "avenue",
	"blvd": "boulevard",
	"ln":   "lane",
	"hwy":  "highway",
	"apt":  "apartment",
}

// Processor normalizes addresses according to the active mode.
type Processor struct {
	mode         Mode
	service      enrich.Service
	expandAbbrev bool
}

// NewProcessor creates an address processor. The service may be nil;
// enrichment then degrades to a FAILED verdict in ModeFull.
func NewProcessor(mode Mode, service enrich.Service, expandAbbrev bool) *Processor {
	return &Processor{mode: mode, service: service, expandAbbrev: expandAbbrev}
}

// Mode returns the active processing mode.
func (p *Processor) Mode() Mode { return p.mode }

// Clean collapses whitespace, converts newlines to comma separators and
// removes duplicate and trailing commas. Abbreviation expansion is
// applied when enabled.
func (p *Processor) Clean(text string) string {
	if text == "" {
		return text
	}
	cleaned := strings.ReplaceAll(text, "\n", ", ")
	cleaned = whitespaceRE.ReplaceAllString(cleaned, " ")
	cleaned = duplicateComma.ReplaceAllString(cleaned, ",")
	cleaned = trailingCommaRE.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)
	if p.expandAbbrev {
		cleaned = expandAbbreviations(cleaned)
	}
	return cleaned
}

// ToStructured converts free text into an Address with the text as the
// street line and an UNPROCESSED verdict. The raw input is preserved
// in OriginalText.
func (p *Processor) ToStructured(text string) contact.Address {
	street := text
	if p.mode != ModeNone {
		street = p.Clean(text)
	}
	return contact.Address{
		Street:       street,
		OriginalText: text,
		Verdict:      contact.VerdictUnprocessed,
	}
}

// Process applies the active mode to one address. An address carrying
// only free text (OriginalText with no structured fields) is promoted
// through ToStructured first so cleaning and enrichment operate on it.
// In ModeFull the enrichment call may rewrite the structured fields;
// every failure path returns the pre-enrichment address with a FAILED
// verdict and never an error.
func (p *Processor) Process(ctx context.Context, a contact.Address) contact.Address {
	if a.Verdict == "" {
		a.Verdict = contact.VerdictUnprocessed
	}
	if p.mode == ModeNone {
		return a
	}

	if !hasComponents(&a) && strings.TrimSpace(a.OriginalText) != "" {
		a = p.ToStructured(a.OriginalText)
	}

	a.Street = p.Clean(a.Street)
	a.Locality = p.Clean(a.Locality)
	a.Region = p.Clean(a.Region)
	a.Country = p.Clean(a.Country)

	if p.mode == ModeCleanOnly {
		return a
	}
	return p.enrichAddress(ctx, a)
}

func hasComponents(a *contact.Address) bool {
	return a.Street != "" || a.Locality != "" || a.Region != "" ||
		a.PostalCode != "" || a.Country != ""
}

func (p *Processor) enrichAddress(ctx context.Context, a contact.Address) contact.Address {
	line := joinNonEmpty(", ", a.Street, a.Locality, a.PostalCode, a.Country)
	if line == "" {
		return a
	}

	if p.service == nil {
		a.Verdict = contact.VerdictFailed
		return a
	}

	result, err := p.service.Validate(ctx, line, RegionHint(a.Country))
	if err != nil {
		a.Verdict = contact.VerdictFailed
		return a
	}
	if len(result.Components) == 0 {
		// The call worked but gave nothing back; keep what we had.
		a.Verdict = contact.VerdictUnprocessed
		return a
	}

	var route, houseNumber string
	for _, comp := range result.Components {
		switch comp.Type {
		case "route":
			route = comp.Text
		case "street_number":
			houseNumber = comp.Text
		case "locality":
			a.Locality = comp.Text
		case "postal_code":
			a.PostalCode = comp.Text
		case "country":
			a.Country = comp.Text
		}
	}
	street := route
	if route != "" && houseNumber != "" {
		street = route + " " + houseNumber
	}
	a.Street = street

	a.Verdict = contact.Verdict(result.Granularity)
	if result.Granularity == "" {
		a.Verdict = contact.VerdictUnprocessed
	}
	a.IsBusiness = result.Business
	a.IsComplete = result.AddressComplete
	return a
}

// Merge processes each address per the active mode, then keeps the
// first occurrence per distinct label. Addresses with no content at
// all are dropped.
func (p *Processor) Merge(ctx context.Context, addresses []contact.Address) []contact.Address {
	var out []contact.Address
	seen := map[string]bool{}
	for _, a := range addresses {
		processed := p.Process(ctx, a)
		key := processed.Label()
		if key == "" {
			key = strings.TrimSpace(processed.OriginalText)
		}
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, processed)
	}
	return out
}

// RegionHint resolves a country name to its ISO alpha-2 code for the
// validation request. Unrecognized names produce no hint rather than
// an error.
func RegionHint(country string) string {
	if country == "" {
		return ""
	}
	code := countries.ByName(country)
	if code == countries.Unknown {
		return ""
	}
	return code.Alpha2()
}

func expandAbbreviations(text string) string {
	toks := strings.Split(text, " ")
	for i, tok := range toks {
		trimmed := strings.TrimRight(tok, ".,")
		expansion, ok := abbreviations[strings.ToLower(trimmed)]
		if !ok {
			continue
		}
		if len(trimmed) > 0 && unicode.IsUpper(rune(trimmed[0])) {
			expansion = strings.ToUpper(expansion[:1]) + expansion[1:]
		}
		toks[i] = expansion + tok[len(trimmed):]
	}
	return strings.Join(toks, " ")
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
