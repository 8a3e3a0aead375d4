package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"log-power-tracker/internal/series"
	"log-power-tracker/internal/stats"
)

// Stats prints derived statistics for a channel's series.
func (a *App) Stats(ctx context.Context, opts StatsOptions) error {
	if opts.ChannelID == "" {
		return errors.New("--channel is required")
	}

	st, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	samples, err := st.Samples(ctx, opts.ChannelID)
	if err != nil {
		return err
	}
	window := samples
	if opts.Range > 0 {
		window = series.Window(samples, opts.Range.Milliseconds())
	}

	values := make([]int64, len(window))
	for i, s := range window {
		values[i] = s.V
	}
	summary := stats.Compute(stats.Floats(values))

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "Channel\t%s\n", opts.ChannelID)
	fmt.Fprintf(writer, "Samples\t%d\n", summary.Count)
	if summary.Range != nil {
		fmt.Fprintf(writer, "Range\t%.0f\n", *summary.Range)
	} else {
		fmt.Fprintln(writer, "Range\t-")
	}
	if summary.Std != nil {
		fmt.Fprintf(writer, "Std Dev\t%.2f\n", *summary.Std)
	} else {
		fmt.Fprintln(writer, "Std Dev\t-")
	}

	if len(window) > 0 {
		first := window[0]
		last := window[len(window)-1]
		delta := last.V - first.V
		if pct, ok := stats.PercentChange(first.V, last.V); ok {
			fmt.Fprintf(writer, "Change\t%+d (%s%%)\n", delta, pct.StringFixed(2))
		} else {
			fmt.Fprintf(writer, "Change\t%+d\n", delta)
		}
		fmt.Fprintf(writer, "Latest\t%d @ %s\n", last.V, time.UnixMilli(last.T).UTC().Format(time.RFC3339))

		rangeMs := opts.Range.Milliseconds()
		if rangeMs <= 0 {
			rangeMs = last.T - first.T
		}
		buckets := series.Bucketize(window, rangeMs)
		fmt.Fprintf(writer, "Buckets\t%d (width %s)\n", len(buckets), time.Duration(series.BucketWidth(rangeMs))*time.Millisecond)
	}

	claims, err := st.Claims(ctx)
	if err != nil {
		return err
	}
	var claimCount int
	var claimTotal, claim24h int64
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, c := range claims {
		if c.ChannelID != opts.ChannelID {
			continue
		}
		claimCount++
		claimTotal += c.Amount
		if c.Timestamp.After(cutoff) {
			claim24h += c.Amount
		}
	}
	fmt.Fprintf(writer, "Claims\t%d\n", claimCount)
	fmt.Fprintf(writer, "Claimed\t%d\n", claimTotal)
	fmt.Fprintf(writer, "Claimed (24h)\t%d\n", claim24h)

	writer.Flush()
	return nil
}
