package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func TestRowsFromBytes_CSV(t *testing.T) {
	data := []byte("SO Number,Customer ID,Amount\nSO-1,CUST-9, 100.00 \nSO-2,CUST-9,50\n")

	rows, err := RowsFromBytes(context.Background(), data, ".csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "SO-1", rows[0]["SO Number"])
	assert.Equal(t, "100.00", rows[0]["Amount"], "cells are trimmed")
	assert.Equal(t, "CUST-9", rows[1]["Customer ID"])
}

func TestRowsFromBytes_CSVShortRow(t *testing.T) {
	data := []byte("A,B,C\n1,2\n")

	rows, err := RowsFromBytes(context.Background(), data, ".csv")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	_, ok := rows[0]["C"]
	assert.False(t, ok, "missing trailing cell is an absent key")
}

func TestRowsFromBytes_HeaderOnly(t *testing.T) {
	rows, err := RowsFromBytes(context.Background(), []byte("A,B,C\n"), ".csv")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRowsFromBytes_Empty(t *testing.T) {
	_, err := RowsFromBytes(context.Background(), nil, ".csv")
	assert.Error(t, err)
}

func TestRowsFromBytes_SniffsXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.xlsx")
	writeTestWorkbook(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// No extension hint; the ZIP signature decides.
	rows, err := RowsFromBytes(context.Background(), data, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "SO-7", rows[0]["SO Number"])
	assert.Equal(t, "42", rows[0]["Amount"])
}

func TestRows_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte("X\n1\n"), 0o644))

	rows, err := Rows(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0]["X"])
}

func writeTestWorkbook(t *testing.T, path string) {
	t.Helper()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)

	header := sheet.AddRow()
	header.AddCell().SetString("SO Number")
	header.AddCell().SetString("Amount")

	row := sheet.AddRow()
	row.AddCell().SetString("SO-7")
	row.AddCell().SetString("42")

	require.NoError(t, f.Save(path))
}
