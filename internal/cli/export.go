package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"log-power-tracker/internal/app"
)

var (
	exportChannel   string
	exportRange     string
	exportMode      string
	exportCSVPath   string
	exportPNGPath   string
	exportSVGPath   string
	exportMaxPoints int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a channel's series as CSV, PNG, and/or SVG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ExportOptions{
			ChannelID: exportChannel,
			Mode:      exportMode,
			CSVPath:   exportCSVPath,
			PNGPath:   exportPNGPath,
			SVGPath:   exportSVGPath,
			MaxPoints: exportMaxPoints,
		}

		if exportRange != "" {
			d, err := parseRange(exportRange)
			if err != nil {
				return err
			}
			opts.Range = d
		}

		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportChannel, "channel", "", "Channel ID")
	exportCmd.Flags().StringVar(&exportRange, "range", "", "Trailing window, e.g. 30m, 3h, 24h (defaults to all samples)")
	exportCmd.Flags().StringVar(&exportMode, "mode", "line", "Chart mode for SVG output (line or bar)")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write PNG chart")
	exportCmd.Flags().StringVar(&exportSVGPath, "svg", "", "Path to write SVG chart")
	exportCmd.Flags().IntVar(&exportMaxPoints, "max-points", 0, "Maximum data points to export (defaults to config)")
}

func parseRange(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid --range value: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("--range must be positive")
	}
	return d, nil
}
