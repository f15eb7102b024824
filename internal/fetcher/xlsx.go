package fetcher

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// SheetOptions selects which worksheet of an extract workbook to decode.
// ERP exports occasionally carry a cover sheet ahead of the data.
type SheetOptions struct {
	Index    int    // default first sheet
	Name     string // overrides Index when set
	SkipRows int    // leading non-data rows above the header
}

// ReadXLSX decodes one worksheet into raw string rows, header included.
func ReadXLSX(path string, opts SheetOptions) ([][]string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "xlsx: open file")
	}

	sheet, err := pickSheet(f, opts)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for i, row := range sheet.Rows {
		if i < opts.SkipRows {
			continue
		}
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func pickSheet(f *xlsx.File, opts SheetOptions) (*xlsx.Sheet, error) {
	if opts.Name != "" {
		sheet, ok := f.Sheet[opts.Name]
		if !ok {
			return nil, eris.Errorf("xlsx: sheet %q not found", opts.Name)
		}
		return sheet, nil
	}
	if opts.Index >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (workbook has %d sheets)", opts.Index, len(f.Sheets))
	}
	return f.Sheets[opts.Index], nil
}
