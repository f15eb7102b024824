// Package bonus computes quarterly bonus payouts against weighted quota
// buckets. Pure arithmetic, no I/O; the ledger is not consulted.
package bonus

import (
	"github.com/shopspring/decimal"

	"github.com/ridgepoint/commission-cli/internal/money"
)

// Config is one bucket's slice of the quarterly plan plus the global
// floor and cap.
type Config struct {
	MaxBudget        decimal.Decimal // whole-quarter bonus budget
	BucketWeight     decimal.Decimal // this bucket's share, 0..1
	SubWeight        decimal.Decimal // optional sub-goal share, 0..1; zero means 1
	MinAttainment    decimal.Decimal // cliff floor, e.g. 0.75
	MaxAttainmentCap decimal.Decimal // over-performance cap, e.g. 1.25
}

// Payout is the computed result. Attainment is raw and unclamped for
// display; the clamp and cliff apply only to the paid amount.
type Payout struct {
	Attainment decimal.Decimal
	BucketMax  decimal.Decimal
	Payout     decimal.Decimal
}

// ComputePayout applies the plan formula:
//
//	attainment = actual / goal            (0 when goal is 0)
//	bucketMax  = maxBudget * bucketWeight * subWeight
//	payout     = attainment >= floor ? bucketMax * min(attainment, cap) : 0
//
// Below the floor pays nothing. A cliff, not a ramp.
func ComputePayout(goal, actual decimal.Decimal, cfg Config) Payout {
	var attainment decimal.Decimal
	if goal.IsPositive() {
		attainment = actual.Div(goal)
	}

	subWeight := cfg.SubWeight
	if subWeight.IsZero() {
		subWeight = decimal.NewFromInt(1)
	}
	bucketMax := cfg.MaxBudget.Mul(cfg.BucketWeight).Mul(subWeight)

	var paid decimal.Decimal
	if attainment.GreaterThanOrEqual(cfg.MinAttainment) {
		clamped := attainment
		if cfg.MaxAttainmentCap.IsPositive() && clamped.GreaterThan(cfg.MaxAttainmentCap) {
			clamped = cfg.MaxAttainmentCap
		}
		paid = bucketMax.Mul(clamped)
	}

	return Payout{
		Attainment: attainment,
		BucketMax:  money.Round2(bucketMax),
		Payout:     money.Round2(paid),
	}
}
