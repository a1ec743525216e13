package loader

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadqual/internal/model"
)

// LoadJSON decodes a JSON array of candidate records streaming, so large
// batches never need to fit in memory twice.
func LoadJSON(ctx context.Context, r io.Reader) (*Result, error) {
	decoder := json.NewDecoder(r)

	tok, err := decoder.Token()
	if err != nil {
		if err == io.EOF {
			return &Result{}, nil
		}
		return nil, eris.Wrap(err, "loader: read opening token")
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != '[' {
		return nil, eris.Errorf("loader: expected JSON array, got %v", tok)
	}

	result := &Result{}
	for decoder.More() {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "loader: context cancelled")
		}
		var rec model.CandidateRecord
		if err := decoder.Decode(&rec); err != nil {
			return nil, eris.Wrap(err, "loader: decode record")
		}
		result.Records = append(result.Records, rec)
	}

	if _, err := decoder.Token(); err != nil && err != io.EOF {
		return nil, eris.Wrap(err, "loader: read closing token")
	}
	return result, nil
}
