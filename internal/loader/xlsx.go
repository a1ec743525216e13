package loader

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// LoadXLSX reads header-mapped candidate records from the first sheet of
// an XLSX workbook.
func LoadXLSX(ctx context.Context, path string) (*Result, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "loader: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return &Result{}, nil
	}
	sheet := f.Sheets[0]

	result := &Result{}
	var idx map[string]int
	for i, row := range sheet.Rows {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "loader: context cancelled")
		}

		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}

		if i == 0 {
			idx = headerIndex(cells)
			continue
		}
		if isEmpty(cells) {
			continue
		}

		rec, warnings := recordFromRow(cells, idx, i+1)
		result.Warnings = append(result.Warnings, warnings...)
		result.Records = append(result.Records, rec)
	}
	return result, nil
}
