package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the engine release version, overridable at link time.
var Version = "0.1.0-dev"

// NewVersionCommand creates the `version` subcommand.
func NewVersionCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the grifola version",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format == "json" {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "{\"version\":%q}\n", Version)
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), Version)
			return err
		},
	}
}
