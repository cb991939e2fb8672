// Package hub3 builds the HUB-3 (HRVHUB30) structured payment payload, the
// newline-delimited text record Croatian banking apps read out of a PDF417
// symbol. The field order and count are fixed by the standard.
package hub3

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	// Header is the fixed first field of every payload.
	Header = "HRVHUB30"

	// Currency is the fixed currency token.
	Currency = "EUR"

	// amountWidth is the zero-padded width of the minor-unit amount field.
	amountWidth = 15

	// descriptionLimit caps the sanitized payment description.
	descriptionLimit = 35
)

// ErrNegativeAmount rejects payloads for negative amounts; the standard does
// not define them and callers are expected to validate upstream.
var ErrNegativeAmount = errors.New("hub3: negative amount")

// Params carry everything needed to build a payload.
type Params struct {
	AmountEUR    float64
	IBAN         string
	Model        string
	Reference    string
	ReceiverName string
	Description  string
}

// Encode renders the 14-field HRVHUB30 payload. The amount is converted to
// minor units with round-half-up. Model and Reference may legitimately be
// empty. Deterministic; no I/O.
func Encode(p Params) (string, error) {
	if p.AmountEUR < 0 {
		return "", ErrNegativeAmount
	}
	cents := int64(math.Floor(p.AmountEUR*100 + 0.5))
	amountField := strconv.FormatInt(cents, 10)
	if pad := amountWidth - len(amountField); pad > 0 {
		amountField = strings.Repeat("0", pad) + amountField
	}

	iban := stripWhitespace(p.IBAN)
	receiver := Sanitize(p.ReceiverName)
	description := Sanitize(p.Description)
	if len(description) > descriptionLimit {
		description = description[:descriptionLimit]
	}

	fields := []string{
		Header,
		Currency,
		amountField,
		"",
		"",
		"",
		receiver,
		"",
		"",
		iban,
		p.Model,
		p.Reference,
		"",
		description,
	}
	return strings.Join(fields, "\n"), nil
}

var diacritics = strings.NewReplacer(
	"č", "c", "ć", "c", "š", "s", "đ", "d", "ž", "z",
	"Č", "C", "Ć", "C", "Š", "S", "Đ", "D", "Ž", "Z",
	"–", "-", "—", "-",
)

// Sanitize transliterates Croatian diacritics to unaccented Latin, replaces
// en/em dashes with a hyphen and drops every remaining character outside the
// printable ASCII range. Idempotent.
func Sanitize(s string) string {
	s = diacritics.Replace(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= ' ' && r <= '~' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
