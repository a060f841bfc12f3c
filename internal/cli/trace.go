package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/grifola/internal/dcg"
	"github.com/roach88/grifola/internal/harness"
	"github.com/roach88/grifola/internal/tracestore"
)

// NewTraceCommand creates the `trace` subcommand: run a scenario with
// every engine event recorded to a SQLite trace database, then print
// the per-kind event tally.
func NewTraceCommand(opts *RootOptions) *cobra.Command {
	var dbPath string
	var metricsPath string

	cmd := &cobra.Command{
		Use:   "trace <scenario.cue>",
		Short: "Run a scenario and record the engine trace to SQLite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := LoadScenario(args[0])
			if err != nil {
				return err
			}

			store, err := tracestore.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := tracestore.NewRecorder(cmd.Context(), store, sc.Name)
			if err != nil {
				return err
			}

			engOpts, err := engineOptions(opts)
			if err != nil {
				return err
			}
			engOpts = append(engOpts, dcg.WithSink(rec))

			if opts.Verbose {
				slog.Info("tracing scenario", "name", sc.Name, "db", dbPath, "run", rec.RunID())
			}

			result, err := harness.Run(sc, engOpts...)
			if err != nil {
				return fmt.Errorf("run scenario %s: %w", sc.Name, err)
			}
			if err := rec.Err(); err != nil {
				return fmt.Errorf("record trace: %w", err)
			}

			counts, err := store.CountByKind(cmd.Context(), rec.RunID())
			if err != nil {
				return err
			}

			if err := writeMetricsFile(metricsPath, result); err != nil {
				return err
			}
			return writeTrace(cmd.OutOrStdout(), opts.Format, sc, result, rec.RunID(), counts)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "grifola-trace.db", "trace database path")
	cmd.Flags().StringVar(&metricsPath, "metrics", "",
		"write counters in Prometheus text format to this file")
	return cmd
}
