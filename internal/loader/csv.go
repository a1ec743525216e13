package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
)

// LoadCSV reads header-mapped candidate records from a CSV stream. Rows
// that fail to parse produce warnings and are skipped.
func LoadCSV(ctx context.Context, r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return &Result{}, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "loader: read csv header")
	}
	idx := headerIndex(header)

	result := &Result{}
	rowNum := 1
	for {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "loader: context cancelled")
		}

		row, err := reader.Read()
		if err == io.EOF {
			return result, nil
		}
		rowNum++
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		if isEmpty(row) {
			continue
		}

		rec, warnings := recordFromRow(row, idx, rowNum)
		result.Warnings = append(result.Warnings, warnings...)
		result.Records = append(result.Records, rec)
	}
}
