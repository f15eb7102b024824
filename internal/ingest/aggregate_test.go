package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgepoint/commission-cli/internal/fetcher"
)

func TestAggregate_ExcludesFeeLines(t *testing.T) {
	rows := []fetcher.Row{
		{"SO Number": "SO-1", "Total Price": "100.00", "Part Description": "Widget"},
		{"SO Number": "SO-1", "Total Price": "15.00", "Part Description": "SHIPPING charge"},
		{"SO Number": "SO-1", "Total Price": "2.50", "Part Number": "CC-FEE", "Part Description": "CC Processing"},
		{"SO Number": "SO-2", "Total Price": "50.00", "Part Description": "Gadget"},
	}

	totals := Aggregate(rows)
	require.Len(t, totals, 2)

	assert.Equal(t, "100", totals["SO-1"].Revenue.String())
	assert.Equal(t, "100", totals["SO-1"].OrderValue.String())
	assert.Equal(t, 1, totals["SO-1"].LineCount)
	assert.Equal(t, "50", totals["SO-2"].Revenue.String())
}

func TestAggregate_DecimalExact(t *testing.T) {
	// 0.1 + 0.2 style inputs that drift under float64 addition.
	rows := []fetcher.Row{
		{"SO Number": "SO-9", "Total Price": "0.10"},
		{"SO Number": "SO-9", "Total Price": "0.20"},
		{"SO Number": "SO-9", "Total Price": "1,234.56"},
	}

	totals := Aggregate(rows)
	assert.Equal(t, "1234.86", totals["SO-9"].Revenue.String())
}

func TestAggregate_HeaderFallbacks(t *testing.T) {
	rows := []fetcher.Row{
		{"Order Number": "SO-3", "Amount": "$42.00"},
	}

	totals := Aggregate(rows)
	require.Contains(t, totals, "SO-3")
	assert.Equal(t, "42", totals["SO-3"].Revenue.String())
}

func TestAggregate_DistinctOrderValueColumn(t *testing.T) {
	rows := []fetcher.Row{
		{"SO Number": "SO-4", "Total Price": "90.00", "Order Value": "100.00"},
	}

	totals := Aggregate(rows)
	assert.Equal(t, "90", totals["SO-4"].Revenue.String())
	assert.Equal(t, "100", totals["SO-4"].OrderValue.String())
}

func TestAggregate_IgnoresRowsWithoutOrderNumber(t *testing.T) {
	rows := []fetcher.Row{
		{"Total Price": "999.00"},
	}
	assert.Empty(t, Aggregate(rows))
}

func TestLineFlags(t *testing.T) {
	shipping, cc := lineFlags("", "Ground Shipping")
	assert.True(t, shipping)
	assert.False(t, cc)

	shipping, cc = lineFlags("FREIGHT-01", "")
	assert.True(t, shipping)
	assert.False(t, cc)

	shipping, cc = lineFlags("", "Credit Card surcharge")
	assert.False(t, shipping)
	assert.True(t, cc)

	shipping, cc = lineFlags("W-100", "Widget, blue")
	assert.False(t, shipping)
	assert.False(t, cc)
}
