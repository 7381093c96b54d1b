package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matiasleandrokruk/zephyrtools/internal/version"
)

func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), map[string]string{
					"version":    version.Version,
					"commit":     version.Commit,
					"build_time": version.BuildTime,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
			return nil
		},
	}
}
