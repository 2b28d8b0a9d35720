package commands

import (
	"context"
	"probate-records/lib/telemetry"

	"github.com/spf13/cobra"
)

var verbose *bool

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output and dump solving service requests.")
}

var rootCmd = &cobra.Command{
	Use:   "probate-cli",
	Short: "probate-cli collects probate case records filed on a given day into a CSV file.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExecuteContext runs the command line, errors have already been shown to
// the user when it returns.
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(err)
	}
	return err
}
