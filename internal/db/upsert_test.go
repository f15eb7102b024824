package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBulkUpsert_EmptyRows(t *testing.T) {
	n, err := BulkUpsert(context.Background(), nil, UpsertConfig{
		Table:        "customers",
		Columns:      []string{"customer_id", "name"},
		ConflictKeys: []string{"customer_id"},
	}, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBulkUpsert_NoColumns(t *testing.T) {
	_, err := BulkUpsert(context.Background(), nil, UpsertConfig{
		Table:        "customers",
		ConflictKeys: []string{"customer_id"},
	}, [][]any{{"C1"}})
	assert.Error(t, err)
}

func TestBulkUpsert_NoConflictKeys(t *testing.T) {
	_, err := BulkUpsert(context.Background(), nil, UpsertConfig{
		Table:   "customers",
		Columns: []string{"customer_id"},
	}, [][]any{{"C1"}})
	assert.Error(t, err)
}

func TestBulkUpsert_MergesThroughTempTable(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_tmp_upsert_customers"`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_customers"}, []string{"customer_id", "account_type", "account_type_source"}).
		WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "customers" .* ON CONFLICT \("customer_id"\) DO UPDATE SET`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()
	mock.ExpectRollback()

	n, err := BulkUpsert(context.Background(), mock, UpsertConfig{
		Table:        "customers",
		Columns:      []string{"customer_id", "account_type", "account_type_source"},
		ConflictKeys: []string{"customer_id"},
	}, [][]any{
		{"C1", "Wholesale", "copper"},
		{"C2", "Retail", "fishbowl"},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
