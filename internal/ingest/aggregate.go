package ingest

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ridgepoint/commission-cli/internal/fetcher"
	"github.com/ridgepoint/commission-cli/internal/normalize"
)

// Totals is the pass-1 aggregate for one order number: the decimal-exact
// sum of its commissionable line items. Shipping and card-processing fee
// lines never contribute.
type Totals struct {
	Revenue    decimal.Decimal
	OrderValue decimal.Decimal
	LineCount  int
}

// Fee-line heuristics, matched case-insensitively as substrings of the
// description and part number.
var (
	shippingMarkers = []string{"shipping", "freight"}
	ccMarkers       = []string{"cc processing", "credit card", "cc fee"}
)

// lineFlags classifies a line as a shipping or card-processing fee line.
func lineFlags(partNumber, description string) (shipping, cc bool) {
	text := strings.ToLower(partNumber + " " + description)
	for _, m := range shippingMarkers {
		if strings.Contains(text, m) {
			shipping = true
			break
		}
	}
	for _, m := range ccMarkers {
		if strings.Contains(text, m) {
			cc = true
			break
		}
	}
	return shipping, cc
}

// Aggregate is the pure first pass over an extract: per order-number
// revenue and order-value totals with fee lines excluded. Rows without an
// order number are ignored here; pass 2 counts them as skipped.
func Aggregate(rows []fetcher.Row) map[string]Totals {
	totals := make(map[string]Totals)
	for _, row := range rows {
		orderNumber := normalize.Key(firstNonEmpty(row, colOrderNumber))
		if orderNumber == "" {
			continue
		}

		shipping, cc := lineFlags(
			firstNonEmpty(row, colPartNumber),
			firstNonEmpty(row, colDescription),
		)
		if shipping || cc {
			continue
		}

		amount := normalize.Amount(firstNonEmpty(row, colLineAmount))
		orderValue := amount
		if raw := firstNonEmpty(row, colOrderValue); raw != "" {
			orderValue = normalize.Amount(raw)
		}

		t := totals[orderNumber]
		t.Revenue = t.Revenue.Add(amount)
		t.OrderValue = t.OrderValue.Add(orderValue)
		t.LineCount++
		totals[orderNumber] = t
	}
	return totals
}
