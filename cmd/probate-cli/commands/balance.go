package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var balanceApiKey *string

func init() {
	balanceApiKey = balanceCmd.Flags().String("api-key", "", "The Anti-Captcha API key, prompted for when not configured.")
	rootCmd.AddCommand(balanceCmd)
}

var balanceCmd = &cobra.Command{
	Use:   "balance [--api-key KEY]",
	Short: "Prints the balance of an Anti-Captcha account.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig()
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
		apiKey := cfg.ApiKey
		if cmd.Flags().Changed("api-key") {
			apiKey = *balanceApiKey
		}
		if apiKey == "" {
			apiKey, err = promptApiKey()
			if err != nil {
				return fmt.Errorf("failed to read api key: %w", err)
			}
		}

		solver, err := newSolver(apiKey)
		if err != nil {
			return err
		}
		balance, err := solver.Balance(cmd.Context())
		if err != nil {
			return err
		}
		printSuccess(fmt.Sprintf("Balance: $%.4f", balance))
		return nil
	},
}
