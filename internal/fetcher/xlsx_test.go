package fetcher

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func createTestXLSX(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				row.AddCell().SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "extract.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadXLSX_Basic(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Orders": {
			{"SO Number", "Total Price"},
			{"SO-1", "100.00"},
			{"SO-2", "50.00"},
		},
	})

	rows, err := ReadXLSX(path, SheetOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"SO Number", "Total Price"}, rows[0])
	assert.Equal(t, []string{"SO-2", "50.00"}, rows[2])
}

func TestReadXLSX_SkipRows(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Orders": {
			{"Commission Export 2026-03"},
			{"SO Number", "Total Price"},
			{"SO-1", "100.00"},
		},
	})

	rows, err := ReadXLSX(path, SheetOptions{SkipRows: 1})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"SO Number", "Total Price"}, rows[0])
}

func TestReadXLSX_SheetByName(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Cover":  {{"Monthly export"}},
		"Orders": {{"SO Number"}, {"SO-1"}},
	})

	rows, err := ReadXLSX(path, SheetOptions{Name: "Orders"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"SO-1"}, rows[1])
}

func TestReadXLSX_SheetNameNotFound(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{"Orders": {{"SO Number"}}})

	_, err := ReadXLSX(path, SheetOptions{Name: "Missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestReadXLSX_SheetIndexOutOfRange(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{"Orders": {{"SO Number"}}})

	_, err := ReadXLSX(path, SheetOptions{Index: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestReadXLSX_NotASpreadsheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extract.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("SO Number,Total Price\n"), 0o644))

	_, err := ReadXLSX(path, SheetOptions{})
	require.Error(t, err)
}
