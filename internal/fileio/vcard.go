// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package fileio

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-vcard"

	"contact-dedupe/internal/contact"
)

func (c *Codec) readVCard(r io.Reader) ([]contact.Contact, error) {
	dec := vcard.NewDecoder(r)
	var contacts []contact.Contact
	for {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed vCard: %w", err)
		}
		contacts = append(contacts, cardToContact(card))
	}
	return contacts, nil
}

func cardToContact(card vcard.Card) contact.Contact {
	ct := contact.Contact{
		FullName: strings.TrimSpace(card.Value(vcard.FieldFormattedName)),
	}

	if n := card.Name(); n != nil {
		ct.FirstName = strings.TrimSpace(n.GivenName)
		ct.LastName = strings.TrimSpace(n.FamilyName)
	}

	if org := card.Value(vcard.FieldOrganization); org != "" {
		// ORG is a semicolon-separated unit hierarchy; the company is
		// the first unit.
		ct.Organization = strings.TrimSpace(strings.SplitN(org, ";", 2)[0])
	}

	for _, email := range card.Values(vcard.FieldEmail) {
		if e := strings.TrimSpace(email); e != "" {
			ct.Emails = append(ct.Emails, e)
		}
	}
	for _, tel := range card.Values(vcard.FieldTelephone) {
		if t := strings.TrimSpace(tel); t != "" {
			ct.Phones = append(ct.Phones, t)
		}
	}

	for _, adr := range card.Addresses() {
		addr := contact.Address{
			POBox:      strings.TrimSpace(adr.PostOfficeBox),
			Extended:   strings.TrimSpace(adr.ExtendedAddress),
			Street:     strings.TrimSpace(adr.StreetAddress),
			Locality:   strings.TrimSpace(adr.Locality),
			Region:     strings.TrimSpace(adr.Region),
			PostalCode: strings.TrimSpace(adr.PostalCode),
			Country:    strings.TrimSpace(adr.Country),
			Verdict:    contact.VerdictUnprocessed,
		}
		addr.OriginalText = addr.Label()
		if addr.OriginalText == "" {
			continue
		}
		ct.Addresses = append(ct.Addresses, addr)
	}
	return ct
}

// WriteVCard encodes the contacts as a version 4.0 vCard stream.
func (c *Codec) WriteVCard(w io.Writer, contacts []contact.Contact) error {
	enc := vcard.NewEncoder(w)
	for i := range contacts {
		card := contactToCard(&contacts[i])
		if err := enc.Encode(card); err != nil {
			return fmt.Errorf("failed to encode vCard for %q: %w", contacts[i].DisplayName(), err)
		}
	}
	return nil
}

func contactToCard(ct *contact.Contact) vcard.Card {
	card := make(vcard.Card)
	card.SetValue(vcard.FieldFormattedName, ct.DisplayName())

	if ct.FirstName != "" || ct.LastName != "" {
		card.AddName(&vcard.Name{
			GivenName:  ct.FirstName,
			FamilyName: ct.LastName,
		})
	}
	if ct.Organization != "" {
		card.SetValue(vcard.FieldOrganization, ct.Organization)
	}
	for _, email := range ct.Emails {
		card.AddValue(vcard.FieldEmail, email)
	}
	for _, tel := range ct.Phones {
		card.AddValue(vcard.FieldTelephone, tel)
	}
	for i := range ct.Addresses {
		a := &ct.Addresses[i]
		card.AddAddress(&vcard.Address{
			PostOfficeBox:   a.POBox,
			ExtendedAddress: a.Extended,
			StreetAddress:   a.Street,
			Locality:        a.Locality,
			Region:          a.Region,
			PostalCode:      a.PostalCode,
			Country:         a.Country,
		})
	}

	vcard.ToV4(card)
	return card
}
