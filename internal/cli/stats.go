package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"log-power-tracker/internal/app"
)

var (
	statsChannel string
	statsRange   string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print derived statistics for a channel's series",
	RunE: func(cmd *cobra.Command, args []string) error {
		if statsChannel == "" {
			return errors.New("--channel is required")
		}

		opts := app.StatsOptions{
			ChannelID: statsChannel,
		}
		if statsRange != "" {
			d, err := parseRange(statsRange)
			if err != nil {
				return err
			}
			opts.Range = d
		}

		return getApp().Stats(cmd.Context(), opts)
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsChannel, "channel", "", "Channel ID")
	statsCmd.Flags().StringVar(&statsRange, "range", "", "Trailing window, e.g. 30m, 3h, 24h (defaults to all samples)")
}
