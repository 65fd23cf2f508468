package billing

import (
	"fmt"
	"strconv"
	"strings"
)

// Invoice numbers follow INV<year>-<4-digit sequence>, unique and strictly
// increasing within a calendar year. The zero-padded sequence keeps
// lexicographic and numeric order aligned for the allocator's MAX query.

// FormatNumber renders a number, e.g. FormatNumber(2025, 7) -> "INV2025-0007".
func FormatNumber(year, seq int) string {
	return fmt.Sprintf("INV%d-%04d", year, seq)
}

// YearPrefix returns the LIKE prefix for all numbers of a year, e.g. "INV2025-".
func YearPrefix(year int) string {
	return fmt.Sprintf("INV%d-", year)
}

// ParseNumber extracts year and sequence from an invoice number.
func ParseNumber(number string) (year, seq int, err error) {
	rest, ok := strings.CutPrefix(number, "INV")
	if !ok {
		return 0, 0, fmt.Errorf("parse invoice number %q: missing INV prefix", number)
	}
	yearStr, seqStr, ok := strings.Cut(rest, "-")
	if !ok {
		return 0, 0, fmt.Errorf("parse invoice number %q: missing separator", number)
	}
	year, err = strconv.Atoi(yearStr)
	if err != nil {
		return 0, 0, fmt.Errorf("parse invoice number %q: bad year: %w", number, err)
	}
	seq, err = strconv.Atoi(seqStr)
	if err != nil {
		return 0, 0, fmt.Errorf("parse invoice number %q: bad sequence: %w", number, err)
	}
	return year, seq, nil
}

// NextNumber computes the successor of the highest existing number for a year.
// lastNumber empty means no invoice exists for that year yet.
func NextNumber(year int, lastNumber string) (string, error) {
	if lastNumber == "" {
		return FormatNumber(year, 1), nil
	}
	_, seq, err := ParseNumber(lastNumber)
	if err != nil {
		return "", err
	}
	return FormatNumber(year, seq+1), nil
}

// DocumentFileName returns the stored/download filename for an invoice PDF.
func DocumentFileName(invoiceNumber string) string {
	return fmt.Sprintf("invoice_%s.pdf", invoiceNumber)
}
