package fetcher

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Row is one spreadsheet row keyed by header string. Missing cells are
// absent keys; callers use ordered header-fallback lookups per field.
type Row map[string]string

// xlsxMagic is the ZIP local-file-header signature; XLSX files are ZIP
// containers. Delimited text never starts with it.
var xlsxMagic = []byte{0x50, 0x4b, 0x03, 0x04}

// Rows decodes a tabular extract into header-keyed row objects. The format
// is sniffed from content (extension as a hint only), so callers accept
// both delimited-text and binary spreadsheet uploads transparently.
func Rows(ctx context.Context, path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "fetcher: read %s", path)
	}
	return RowsFromBytes(ctx, data, filepath.Ext(path))
}

// RowsFromBytes decodes an in-memory upload. ext is an optional extension
// hint (".csv", ".xlsx"); content sniffing wins when they disagree.
func RowsFromBytes(ctx context.Context, data []byte, ext string) ([]Row, error) {
	if len(data) == 0 {
		return nil, eris.New("fetcher: empty file")
	}

	if bytes.HasPrefix(data, xlsxMagic) {
		return rowsFromXLSX(data)
	}
	if strings.EqualFold(ext, ".xlsx") {
		return nil, eris.New("fetcher: file has .xlsx extension but is not a spreadsheet container")
	}
	return rowsFromCSV(ctx, data)
}

func rowsFromCSV(ctx context.Context, data []byte) ([]Row, error) {
	headerCh := make(chan []string, 1)
	rowCh, errCh := StreamCSV(ctx, bytes.NewReader(data), CSVOptions{
		HasHeader: true,
		HeaderCh:  headerCh,
		TrimSpace: true,
	})

	var header []string
	var rows []Row
	for cells := range rowCh {
		if header == nil {
			header = <-headerCh
		}
		rows = append(rows, zipRow(header, cells))
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	// Header-only files produce zero rows; the caller decides whether
	// that is fatal.
	return rows, nil
}

func rowsFromXLSX(data []byte) ([]Row, error) {
	tmp, err := os.CreateTemp("", "commission-import-*.xlsx")
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: create temp xlsx")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, eris.Wrap(err, "fetcher: write temp xlsx")
	}
	tmp.Close()

	raw, err := ReadXLSX(tmp.Name(), SheetOptions{})
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	header := raw[0]
	rows := make([]Row, 0, len(raw)-1)
	for _, cells := range raw[1:] {
		rows = append(rows, zipRow(header, cells))
	}
	return rows, nil
}

func zipRow(header, cells []string) Row {
	row := make(Row, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" || i >= len(cells) {
			continue
		}
		row[h] = strings.TrimSpace(cells[i])
	}
	return row
}
