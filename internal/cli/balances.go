package cli

import (
	"github.com/spf13/cobra"

	"log-power-tracker/internal/app"
)

var (
	balancesMin    int64
	balancesRecord bool
)

var balancesCmd = &cobra.Command{
	Use:   "balances",
	Short: "List live power holdings across all channels",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.BalancesOptions{
			MinAmount: balancesMin,
			Record:    balancesRecord,
		}
		return getApp().Balances(cmd.Context(), opts)
	},
}

func init() {
	balancesCmd.Flags().Int64Var(&balancesMin, "min", 0, "Hide channels below this amount")
	balancesCmd.Flags().BoolVar(&balancesRecord, "record", false, "Merge fetched balances into the aggregate store")
}
