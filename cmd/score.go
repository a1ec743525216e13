package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadqual/internal/compliance"
	"github.com/sells-group/leadqual/internal/model"
	"github.com/sells-group/leadqual/internal/scorer"
)

var scoreFile string

// scoreCmd scores a single record without running the full pipeline,
// useful for tuning weights against known leads.
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a single candidate record from JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if scoreFile != "" {
			f, err := os.Open(scoreFile)
			if err != nil {
				return eris.Wrap(err, "open record file")
			}
			defer f.Close()
			r = f
		}

		var rec model.CandidateRecord
		if err := json.NewDecoder(r).Decode(&rec); err != nil {
			return eris.Wrap(err, "decode record")
		}

		screen := compliance.NewScreen(&cfg.Compliance, &cfg.Tables)
		result := scorer.NewLeadScorer(cfg, screen).Score(&rec, rec.Source)

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal result")
		}
		cmd.Println(string(out))
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreFile, "file", "f", "", "record JSON file (default: stdin)")
	rootCmd.AddCommand(scoreCmd)
}
