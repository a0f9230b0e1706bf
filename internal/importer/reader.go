package importer

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbook decodes raw .xlsx/.xls bytes into worksheets of header-keyed
// rows. The first row of each sheet is taken as the header row; header text
// is used verbatim, leading and trailing spaces included. Sheets without
// data rows are kept in the result with an empty row slice.
//
// Returns a *DecodeError when the bytes are not a spreadsheet container.
func ReadWorkbook(data []byte) ([]Worksheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	defer f.Close()

	sheetList := f.GetSheetList()
	sheets := make([]Worksheet, 0, len(sheetList))

	for _, name := range sheetList {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		sheets = append(sheets, Worksheet{Name: name, Rows: keyRows(rows)})
	}

	return sheets, nil
}

// keyRows converts positional rows into RawRows keyed by the header row.
// Cells past the end of a short row are absent, not empty: the distinction
// matters downstream (absent room -> nil, empty room -> "").
func keyRows(rows [][]string) []RawRow {
	if len(rows) < 2 {
		return nil
	}

	header := rows[0]
	keyed := make([]RawRow, 0, len(rows)-1)

	for _, row := range rows[1:] {
		raw := make(RawRow, len(header))
		for i, h := range header {
			if h == "" || i >= len(row) {
				continue
			}
			raw[h] = row[i]
		}
		keyed = append(keyed, raw)
	}

	return keyed
}
