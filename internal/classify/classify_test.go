package classify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridgepoint/commission-cli/internal/model"
	"github.com/ridgepoint/commission-cli/internal/store"
)

func seedPriorOrder(t *testing.T, st *store.Memory, customerID, rep string, date time.Time) {
	t.Helper()
	b := st.Batch()
	b.UpsertOrder(context.Background(), &model.SalesOrder{
		OrderID:         "prior-" + customerID,
		OrderNumber:     "SO-PRIOR",
		CustomerID:      customerID,
		SalesPersonCode: rep,
		PostingDate:     &date,
	})
	require.NoError(t, b.Close(context.Background()))
}

func TestClassify_NoHistory(t *testing.T) {
	st := store.NewMemory()
	got := Classify(context.Background(), st, "C1", "JDOE", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, model.StatusNew, got)
}

func TestClassify_RepTransfer(t *testing.T) {
	st := store.NewMemory()
	orderDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	seedPriorOrder(t, st, "C1", "ASMITH", orderDate.AddDate(0, 0, -40))

	got := Classify(context.Background(), st, "C1", "JDOE", orderDate)
	assert.Equal(t, model.StatusRepTransfer, got)
}

func TestClassify_RepMatchIsCaseInsensitive(t *testing.T) {
	st := store.NewMemory()
	orderDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	seedPriorOrder(t, st, "C1", "jdoe ", orderDate.AddDate(0, 0, -40))

	got := Classify(context.Background(), st, "C1", "JDOE", orderDate)
	assert.Equal(t, model.Status6Month, got)
}

func TestClassify_TenureBoundaries(t *testing.T) {
	cases := []struct {
		days int
		want model.CustomerStatus
	}{
		{181, model.Status6Month},  // floor(181/30) = 6
		{182, model.Status6Month},  // still 6 whole months
		{209, model.Status6Month},  // last day of month 6
		{210, model.Status12Month}, // floor(210/30) = 7
		{359, model.Status12Month}, // floor(359/30) = 11
		{360, model.StatusNew},     // 12 whole months, relationship lapsed
		{500, model.StatusNew},
		{1, model.Status6Month},
	}

	orderDate := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	for _, tc := range cases {
		st := store.NewMemory()
		seedPriorOrder(t, st, "C1", "JDOE", orderDate.AddDate(0, 0, -tc.days))

		got := Classify(context.Background(), st, "C1", "JDOE", orderDate)
		assert.Equal(t, tc.want, got, "gap of %d days", tc.days)
	}
}

func TestClassify_OnlyLatestPriorOrderCounts(t *testing.T) {
	st := store.NewMemory()
	orderDate := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	old := orderDate.AddDate(-2, 0, 0)
	recent := orderDate.AddDate(0, 0, -30)
	b := st.Batch()
	b.UpsertOrder(context.Background(), &model.SalesOrder{
		OrderID: "old", CustomerID: "C1", SalesPersonCode: "JDOE", PostingDate: &old,
	})
	b.UpsertOrder(context.Background(), &model.SalesOrder{
		OrderID: "recent", CustomerID: "C1", SalesPersonCode: "JDOE", PostingDate: &recent,
	})
	require.NoError(t, b.Close(context.Background()))

	got := Classify(context.Background(), st, "C1", "JDOE", orderDate)
	assert.Equal(t, model.Status6Month, got, "two-year-old order is shadowed by the recent one")
}

func TestClassify_LookupErrorFailsOpen(t *testing.T) {
	st := &erroringStore{Memory: store.NewMemory()}
	got := Classify(context.Background(), st, "C1", "JDOE", time.Now())
	assert.Equal(t, FailOpenStatus, got)
}

type erroringStore struct {
	*store.Memory
}

func (s *erroringStore) LatestOrderBefore(context.Context, string, time.Time) (*model.SalesOrder, error) {
	return nil, assert.AnError
}
