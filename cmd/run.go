package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadqual/internal/loader"
	"github.com/sells-group/leadqual/internal/pipeline"
)

var (
	runInput    string
	runOutput   string
	runReport   string
	runParallel bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Qualify a batch of candidate records from a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if runParallel {
			cfg.Pipeline.EnableParallel = true
		}

		batch, err := loader.Load(ctx, runInput)
		if err != nil {
			return err
		}
		for _, w := range batch.Warnings {
			zap.L().Warn("input row skipped or degraded", zap.String("detail", w))
		}
		if len(batch.Records) == 0 {
			return eris.Errorf("no records loaded from %s", runInput)
		}

		result, err := pipeline.New(cfg).Run(ctx, batch.Records)
		if err != nil {
			return eris.Wrap(err, "run pipeline")
		}

		if runOutput != "" {
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return eris.Wrap(err, "marshal result")
			}
			if err := os.WriteFile(runOutput, data, 0o644); err != nil {
				return eris.Wrap(err, "write output")
			}
		}

		if runReport != "" {
			if err := os.WriteFile(runReport, []byte(pipeline.FormatReport(result)), 0o644); err != nil {
				return eris.Wrap(err, "write report")
			}
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), pipeline.FormatReport(result))
		}

		if !result.Success {
			return eris.Errorf("run %s finished with errors", result.RunID)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runInput, "input", "i", "", "input file (.csv, .json, or .xlsx)")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "write full JSON result to file")
	runCmd.Flags().StringVar(&runReport, "report", "", "write markdown report to file (default: stdout)")
	runCmd.Flags().BoolVar(&runParallel, "parallel", false, "force parallel stage execution")
	_ = runCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(runCmd)
}
