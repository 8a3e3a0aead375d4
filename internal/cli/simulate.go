package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"log-power-tracker/internal/app"
)

var (
	simulateChannel string
	simulateAmount  int64
	simulateMethod  string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate-claim",
	Short: "模拟一次 claim 并触发通知",
	RunE: func(cmd *cobra.Command, args []string) error {
		if simulateChannel == "" {
			return errors.New("--channel 必须指定")
		}
		if simulateAmount <= 0 {
			return errors.New("--amount 必须大于 0")
		}

		opts := app.SimulateOptions{
			ChannelID: simulateChannel,
			Amount:    simulateAmount,
			Method:    simulateMethod,
		}
		return getApp().SimulateClaim(cmd.Context(), opts)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulateChannel, "channel", "", "频道 ID")
	simulateCmd.Flags().Int64Var(&simulateAmount, "amount", 0, "claim 数值")
	simulateCmd.Flags().StringVar(&simulateMethod, "method", "test", "claim 类型")
}
