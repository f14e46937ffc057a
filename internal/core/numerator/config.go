// Package numerator provides domain contracts for document auto-numbering.
package numerator

import (
	"fmt"
	"strconv"
	"strings"
)

// Document types with their own per-year counters.
const (
	DocInvoice = "invoice"
	DocOffer   = "offer"
)

// Config describes how one document type is numbered.
type Config struct {
	// DocType is the counter key (one counter per doc type and year)
	DocType string

	// Separator between the year and the sequence ("" for none)
	Separator string

	// PadWidth is the minimum sequence width; wider values are never truncated
	PadWidth int
}

// InvoiceConfig numbers invoices as YYYY-NNNN.
func InvoiceConfig() Config {
	return Config{DocType: DocInvoice, Separator: "-", PadWidth: 4}
}

// OfferConfig numbers offers as YYYYNNNNN.
func OfferConfig() Config {
	return Config{DocType: DocOffer, Separator: "", PadWidth: 5}
}

// ConfigFor returns the numbering config of a document type.
func ConfigFor(docType string) (Config, error) {
	switch docType {
	case DocInvoice:
		return InvoiceConfig(), nil
	case DocOffer:
		return OfferConfig(), nil
	default:
		return Config{}, fmt.Errorf("unknown document type %q", docType)
	}
}

// Format renders a document number for the year and sequence value.
func (c Config) Format(year int, seq int64) string {
	return fmt.Sprintf("%04d%s%0*d", year, c.Separator, c.PadWidth, seq)
}

// Parse splits a number produced by Format back into year and sequence.
func (c Config) Parse(number string) (int, int64, error) {
	if len(number) < 4+len(c.Separator)+1 {
		return 0, 0, fmt.Errorf("invalid %s number %q", c.DocType, number)
	}
	if c.Separator != "" && number[4:4+len(c.Separator)] != c.Separator {
		return 0, 0, fmt.Errorf("invalid %s number %q: missing separator", c.DocType, number)
	}

	year, err := strconv.Atoi(number[:4])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid %s number %q: year: %w", c.DocType, number, err)
	}

	rest := number[4+len(c.Separator):]
	if strings.ContainsAny(rest, "+-") {
		return 0, 0, fmt.Errorf("invalid %s number %q: sequence", c.DocType, number)
	}
	seq, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid %s number %q: sequence: %w", c.DocType, number, err)
	}
	return year, seq, nil
}

// SequenceIn parses number and returns its sequence, failing when it
// belongs to a year other than year.
func (c Config) SequenceIn(year int, number string) (int64, error) {
	y, seq, err := c.Parse(number)
	if err != nil {
		return 0, err
	}
	if y != year {
		return 0, fmt.Errorf("%s number %q is not from %d", c.DocType, number, year)
	}
	return seq, nil
}
