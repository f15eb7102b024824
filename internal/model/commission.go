package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateTier maps customer status to a commission percentage within a segment.
type RateTier struct {
	New         decimal.Decimal `json:"new" yaml:"new"`
	RepTransfer decimal.Decimal `json:"rep_transfer" yaml:"rep_transfer"`
	SixMonth    decimal.Decimal `json:"6month" yaml:"6month"`
	TwelveMonth decimal.Decimal `json:"12month" yaml:"12month"`
}

// RepTransferRule is the optional flat-fee override applied to
// rep-transfer orders for a given title.
type RepTransferRule struct {
	Enabled         bool            `json:"enabled" yaml:"enabled"`
	FlatFee         decimal.Decimal `json:"flat_fee" yaml:"flat_fee"`
	PercentFallback decimal.Decimal `json:"percent_fallback" yaml:"percent_fallback"`
	UseGreater      bool            `json:"use_greater" yaml:"use_greater"`
}

// CommissionRate is one per-title rate table: (segment, status) -> percent,
// plus optional special rules.
type CommissionRate struct {
	Title       string           `json:"title"`
	Distributor *RateTier        `json:"distributor,omitempty"`
	Wholesale   *RateTier        `json:"wholesale,omitempty"`
	DefaultPct  decimal.Decimal  `json:"default_pct"` // fallback for unrecognized segments
	RepTransfer *RepTransferRule `json:"rep_transfer_rule,omitempty"`
}

// CommissionPolicy holds the global calculation toggles.
type CommissionPolicy struct {
	ExcludeShipping bool `json:"exclude_shipping"`
	UseOrderValue   bool `json:"use_order_value"`
}

// DefaultPolicy applies when no policy document is stored.
func DefaultPolicy() CommissionPolicy {
	return CommissionPolicy{ExcludeShipping: true, UseOrderValue: true}
}

// CommissionRecord is one computed commission, keyed by
// (salesPerson, commissionMonth, orderID). The classification inputs are
// stored for auditability. Immutable once written except PaidStatus.
type CommissionRecord struct {
	SalesPerson     string          `json:"sales_person"`
	CommissionMonth string          `json:"commission_month"`
	OrderID         string          `json:"order_id"`
	CustomerID      string          `json:"customer_id"`
	CustomerSegment AccountType     `json:"customer_segment"`
	CustomerStatus  CustomerStatus  `json:"customer_status"`
	RatePct         decimal.Decimal `json:"rate_pct"`
	OrderAmount     decimal.Decimal `json:"order_amount"`
	Amount          decimal.Decimal `json:"amount"`
	PaidStatus      string          `json:"paid_status"` // pending | paid, not computed here
	CalculatedAt    time.Time       `json:"calculated_at"`
}

// MonthlySummary aggregates a rep's month. Recomputed as a full overwrite
// on every calculation run so re-runs stay consistent.
type MonthlySummary struct {
	SalesPerson     string          `json:"sales_person"`
	CommissionMonth string          `json:"commission_month"`
	TotalOrders     int             `json:"total_orders"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	CalculatedAt    time.Time       `json:"calculated_at"`
}

// BonusEntry is one weighted quota bucket in a rep's quarterly plan.
// Attainment and Payout are recomputed on every goal/actual edit.
type BonusEntry struct {
	SalesPerson string          `json:"sales_person"`
	Quarter     string          `json:"quarter"` // "2026-Q1"
	Bucket      string          `json:"bucket"`
	SubGoal     string          `json:"sub_goal,omitempty"`
	GoalValue   decimal.Decimal `json:"goal_value"`
	ActualValue decimal.Decimal `json:"actual_value"`
	Attainment  decimal.Decimal `json:"attainment"` // raw, unclamped
	BucketMax   decimal.Decimal `json:"bucket_max"`
	Payout      decimal.Decimal `json:"payout"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
