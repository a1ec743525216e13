// Package loader reads candidate records from CSV, JSON, and XLSX files.
// Malformed rows are skipped with a warning instead of failing the batch.
package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadqual/internal/model"
)

// Result is a loaded batch plus the per-row problems encountered.
type Result struct {
	Records  []model.CandidateRecord
	Warnings []string
}

// Load reads candidate records from a file, dispatching on extension.
func Load(ctx context.Context, path string) (*Result, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "loader: open csv")
		}
		defer f.Close()
		return LoadCSV(ctx, f)
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "loader: open json")
		}
		defer f.Close()
		return LoadJSON(ctx, f)
	case ".xlsx":
		return LoadXLSX(ctx, path)
	default:
		return nil, eris.Errorf("loader: unsupported file type %q", filepath.Ext(path))
	}
}
