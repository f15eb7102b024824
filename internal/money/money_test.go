package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSum_Exact(t *testing.T) {
	// 0.1 + 0.2 drifts in float64; must be exact here.
	a := decimal.RequireFromString("0.1")
	b := decimal.RequireFromString("0.2")
	assert.True(t, Sum(a, b).Equal(decimal.RequireFromString("0.3")))
}

func TestSum_ManyLineItems(t *testing.T) {
	items := make([]decimal.Decimal, 1000)
	for i := range items {
		items[i] = decimal.RequireFromString("19.99")
	}
	assert.Equal(t, "19990", Sum(items...).String())
}

func TestSum_Empty(t *testing.T) {
	assert.True(t, Sum().IsZero())
}

func TestPercent(t *testing.T) {
	amount := decimal.RequireFromString("100")
	pct := decimal.RequireFromString("10")
	assert.Equal(t, "10", Percent(amount, pct).String())
}

func TestPercent_NoIntermediateRounding(t *testing.T) {
	amount := decimal.RequireFromString("33.33")
	pct := decimal.RequireFromString("7.5")
	assert.Equal(t, "2.49975", Percent(amount, pct).String())
}

func TestRound2_HalfUp(t *testing.T) {
	assert.Equal(t, "2.50", Round2(decimal.RequireFromString("2.495")).StringFixed(2))
	assert.Equal(t, "2.49", Round2(decimal.RequireFromString("2.494")).StringFixed(2))
}
