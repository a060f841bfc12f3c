package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/grifola/internal/dcg"
	"github.com/roach88/grifola/internal/harness"
	"github.com/roach88/grifola/internal/stats"
)

// NewRunCommand creates the `run` subcommand: execute a scenario and
// print its phase outputs plus engine counters.
func NewRunCommand(opts *RootOptions) *cobra.Command {
	var metricsPath string

	cmd := &cobra.Command{
		Use:   "run <scenario.cue>",
		Short: "Run a scenario file against a fresh engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := LoadScenario(args[0])
			if err != nil {
				return err
			}

			engOpts, err := engineOptions(opts)
			if err != nil {
				return err
			}

			if opts.Verbose {
				slog.Info("running scenario", "name", sc.Name, "app", sc.App,
					"mutations", len(sc.Mutations))
			}

			result, err := harness.Run(sc, engOpts...)
			if err != nil {
				return fmt.Errorf("run scenario %s: %w", sc.Name, err)
			}

			if err := writeMetricsFile(metricsPath, result); err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), opts.Format, sc, result)
		},
	}

	cmd.Flags().StringVar(&metricsPath, "metrics", "",
		"write counters in Prometheus text format to this file")
	return cmd
}

// writeMetricsFile exports the run's counters in Prometheus text
// exposition format. A blank path skips the export.
func writeMetricsFile(path string, result *harness.Result) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics file %s: %w", path, err)
	}
	defer f.Close()

	counters := result.Counters
	if err := stats.WriteMetrics(f, &counters); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}

// engineOptions derives engine options from the global flags.
func engineOptions(opts *RootOptions) ([]dcg.Option, error) {
	if opts.Config == "" {
		return nil, nil
	}
	cfg, err := dcg.LoadConfig(opts.Config)
	if err != nil {
		return nil, err
	}
	return []dcg.Option{dcg.WithConfig(cfg)}, nil
}
