// Package commission resolves rate tables and computes per-order
// commission records plus the per-rep monthly summaries.
package commission

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ridgepoint/commission-cli/internal/model"
)

// Built-in tier defaults, applied whenever a title's rate table does not
// carry its own tier for the segment.
var (
	defaultDistributorTier = model.RateTier{
		New:         decimal.NewFromInt(8),
		RepTransfer: decimal.NewFromInt(8),
		SixMonth:    decimal.NewFromInt(5),
		TwelveMonth: decimal.NewFromInt(3),
	}
	defaultWholesaleTier = model.RateTier{
		New:         decimal.NewFromInt(10),
		RepTransfer: decimal.NewFromInt(10),
		SixMonth:    decimal.NewFromInt(7),
		TwelveMonth: decimal.NewFromInt(5),
	}
	defaultFlatPct = decimal.NewFromInt(5)
)

// ResolveRate returns the commission percentage for a (segment, status)
// pair under a title's rate table. Segment matching is a case-insensitive
// substring test, so "Sub-Distributor" resolves through the distributor
// tier. ok is false only when no table exists for the title at all; the
// caller skips the order.
func ResolveRate(rate *model.CommissionRate, segment model.AccountType, status model.CustomerStatus) (decimal.Decimal, bool) {
	if rate == nil {
		return decimal.Zero, false
	}

	seg := strings.ToLower(string(segment))
	switch {
	case strings.Contains(seg, "distributor"):
		tier := defaultDistributorTier
		if rate.Distributor != nil {
			tier = *rate.Distributor
		}
		return tierPct(tier, status), true
	case strings.Contains(seg, "wholesale"):
		tier := defaultWholesaleTier
		if rate.Wholesale != nil {
			tier = *rate.Wholesale
		}
		return tierPct(tier, status), true
	default:
		if !rate.DefaultPct.IsZero() {
			return rate.DefaultPct, true
		}
		return defaultFlatPct, true
	}
}

func tierPct(tier model.RateTier, status model.CustomerStatus) decimal.Decimal {
	switch status {
	case model.StatusRepTransfer:
		return tier.RepTransfer
	case model.Status6Month:
		return tier.SixMonth
	case model.Status12Month:
		return tier.TwelveMonth
	default:
		return tier.New
	}
}
