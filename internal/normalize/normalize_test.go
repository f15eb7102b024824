package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAmount_Plain(t *testing.T) {
	assert.Equal(t, "100.5", Amount("100.50").String())
}

func TestAmount_CurrencySymbol(t *testing.T) {
	assert.Equal(t, "1234.56", Amount("$1,234.56").String())
}

func TestAmount_Parentheses(t *testing.T) {
	assert.Equal(t, "-42.1", Amount("($42.10)").String())
}

func TestAmount_Garbage(t *testing.T) {
	assert.True(t, Amount("n/a").IsZero())
	assert.True(t, Amount("").IsZero())
	assert.True(t, Amount("   ").IsZero())
	assert.True(t, Amount("-").IsZero())
}

func TestFlexibleDate_Serial(t *testing.T) {
	// 45000 days past 1899-12-30 is 2023-03-15.
	parts, ok := FlexibleDate("45000")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), parts.Date)
	assert.Equal(t, "2023-03", parts.MonthKey)
	assert.Equal(t, 2023, parts.Year)
}

func TestFlexibleDate_SerialOutOfRange(t *testing.T) {
	_, ok := FlexibleDate("12")
	assert.False(t, ok)
}

func TestFlexibleDate_ISO(t *testing.T) {
	parts, ok := FlexibleDate("2026-02-01")
	assert.True(t, ok)
	assert.Equal(t, "2026-02", parts.MonthKey)
}

func TestFlexibleDate_USSlash(t *testing.T) {
	parts, ok := FlexibleDate("3/7/2026")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC), parts.Date)
}

func TestFlexibleDate_TwoDigitYear(t *testing.T) {
	parts, ok := FlexibleDate("3/7/26")
	assert.True(t, ok)
	assert.Equal(t, 2026, parts.Year)

	// 2-digit years always land in 2000+, even past the stdlib's 68 cutoff.
	parts, ok = FlexibleDate("1/1/99")
	assert.True(t, ok)
	assert.Equal(t, 2099, parts.Year)
}

func TestFlexibleDate_Dash(t *testing.T) {
	parts, ok := FlexibleDate("03-07-2026")
	assert.True(t, ok)
	assert.Equal(t, "2026-03", parts.MonthKey)
}

func TestFlexibleDate_Unparseable(t *testing.T) {
	_, ok := FlexibleDate("not a date")
	assert.False(t, ok)
	_, ok = FlexibleDate("")
	assert.False(t, ok)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "ACME_WEST", Key(" ACME/WEST "))
	assert.Equal(t, "A_B_C", Key(`A/B\C`))
	assert.Equal(t, "CUST-001", Key("CUST-001"))
}

func TestBoolean_TruthyEncodings(t *testing.T) {
	for _, v := range []any{true, "true", "TRUE", "checked", "Checked", "yes", "1", 1, int64(1), float64(1)} {
		assert.True(t, Boolean(v), "%v should be truthy", v)
	}
}

func TestBoolean_Falsy(t *testing.T) {
	for _, v := range []any{false, "false", "", "unchecked", "0", 0, nil, "no"} {
		assert.False(t, Boolean(v), "%v should be falsy", v)
	}
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2026-03", MonthKey(2026, 3))
	assert.Equal(t, "2026-11", MonthKey(2026, 11))
}
