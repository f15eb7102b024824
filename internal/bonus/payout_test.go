package bonus

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func planConfig() Config {
	return Config{
		MaxBudget:        decimal.NewFromInt(10000),
		BucketWeight:     decimal.NewFromFloat(0.4),
		MinAttainment:    decimal.NewFromFloat(0.75),
		MaxAttainmentCap: decimal.NewFromFloat(1.25),
	}
}

func TestComputePayout_Cliff(t *testing.T) {
	goal := decimal.NewFromInt(100000)

	below := ComputePayout(goal, decimal.NewFromInt(74999), planConfig())
	assert.True(t, below.Payout.IsZero(), "one dollar under the floor pays nothing")
	assert.Equal(t, "0.74999", below.Attainment.String(), "raw attainment still reported")

	at := ComputePayout(goal, decimal.NewFromInt(75000), planConfig())
	// bucketMax = 10000 * 0.4 = 4000; 4000 * 0.75 = 3000
	assert.Equal(t, "3000.00", at.Payout.StringFixed(2))
	assert.Equal(t, "4000.00", at.BucketMax.StringFixed(2))
}

func TestComputePayout_CapClamp(t *testing.T) {
	got := ComputePayout(decimal.NewFromInt(100000), decimal.NewFromInt(200000), planConfig())

	assert.Equal(t, "2", got.Attainment.String(), "display value is unclamped")
	// 4000 * 1.25, not 4000 * 2.
	assert.Equal(t, "5000.00", got.Payout.StringFixed(2))
}

func TestComputePayout_FullAttainment(t *testing.T) {
	got := ComputePayout(decimal.NewFromInt(50000), decimal.NewFromInt(50000), planConfig())
	assert.Equal(t, "1", got.Attainment.String())
	assert.Equal(t, "4000.00", got.Payout.StringFixed(2))
}

func TestComputePayout_ZeroGoal(t *testing.T) {
	got := ComputePayout(decimal.Zero, decimal.NewFromInt(5000), planConfig())
	assert.True(t, got.Attainment.IsZero())
	assert.True(t, got.Payout.IsZero())
}

func TestComputePayout_SubWeight(t *testing.T) {
	cfg := planConfig()
	cfg.SubWeight = decimal.NewFromFloat(0.5)

	got := ComputePayout(decimal.NewFromInt(100), decimal.NewFromInt(100), cfg)
	// bucketMax = 10000 * 0.4 * 0.5 = 2000
	assert.Equal(t, "2000.00", got.BucketMax.StringFixed(2))
	assert.Equal(t, "2000.00", got.Payout.StringFixed(2))
}

func TestComputePayout_DecimalExactness(t *testing.T) {
	cfg := Config{
		MaxBudget:        decimal.NewFromInt(10000),
		BucketWeight:     decimal.NewFromFloat(0.1),
		SubWeight:        decimal.NewFromFloat(0.3),
		MinAttainment:    decimal.NewFromFloat(0.75),
		MaxAttainmentCap: decimal.NewFromFloat(1.25),
	}

	// 10000 * 0.1 * 0.3 = 300 exactly; float64 would give 300.00000000000006.
	got := ComputePayout(decimal.NewFromInt(100), decimal.NewFromInt(100), cfg)
	assert.Equal(t, "300.00", got.BucketMax.StringFixed(2))
}
