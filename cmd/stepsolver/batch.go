package main

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/njchilds90/stepsolver/internal/batch"
)

func batchCmd(a *app) *cobra.Command {
	var asJSON, noProgress bool
	cmd := &cobra.Command{
		Use:   "batch FILE",
		Short: "Solve every input in a file concurrently",
		Long: `Batch solves a list of inputs and prints the outcomes in file order.

FILE may be plain text with one input per line (blank lines and lines
starting with # are skipped), a JSON array or {"inputs": [...]} object,
a TOML file with inputs = [...], or a YAML file with an inputs list.
Use - to read lines from stdin.`,
		Example: `  stepsolver batch homework.txt
  stepsolver batch --workers 8 --json problems.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := batch.LoadFile(args[0])
			if err != nil {
				return err
			}

			opts := batch.Options{Workers: a.v.GetInt("batch.workers")}
			if !noProgress && !asJSON {
				opts.Progress = cmd.ErrOrStderr()
			}
			items, summary, runErr := batch.Run(cmd.Context(), a.solver(), inputs, opts)

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				for _, it := range items {
					if err := enc.Encode(it); err != nil {
						return fmt.Errorf("failed to encode item %d: %w", it.Index, err)
					}
				}
			} else {
				r := a.renderer(w)
				for i, it := range items {
					if i > 0 {
						fmt.Fprintln(w)
					}
					fmt.Fprint(w, r.Header(it.Input))
					fmt.Fprint(w, r.Outcome(it.Outcome))
				}
			}

			slog.Info("Batch complete",
				"total", summary.Total,
				"solved", summary.Solved,
				"failed", summary.Failed,
				"skipped", summary.Skipped,
				"duration", summary.Duration)
			if runErr != nil {
				return fmt.Errorf("batch interrupted: %w", runErr)
			}
			return nil
		},
	}
	cmd.Flags().Int("workers", 0, "number of parallel workers (default: number of CPUs)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print one JSON object per input")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "hide the progress bar")
	_ = a.v.BindPFlag("batch.workers", cmd.Flags().Lookup("workers"))
	return cmd
}
