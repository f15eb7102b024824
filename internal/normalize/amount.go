// Package normalize provides tolerant parsing for heterogeneous
// spreadsheet-derived fields: currency amounts, multi-format dates,
// storage-safe keys, and loosely typed boolean flags.
package normalize

import (
	"strings"

	"github.com/shopspring/decimal"
)

var amountCleaner = strings.NewReplacer(
	"$", "",
	",", "",
	" ", "",
	" ", "",
)

// Amount parses a currency cell into a Decimal. Currency symbols and
// thousands separators are stripped; accounting-style parentheses negate.
// Blank or unparseable input yields zero, never an error, so ingestion
// does not abort on a single bad cell.
func Amount(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = amountCleaner.Replace(s)
	if s == "" || s == "-" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if negative {
		d = d.Neg()
	}
	return d
}
