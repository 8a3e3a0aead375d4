package app

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"
)

// Show prints the channel leaderboard and the most recent claims.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	st, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	agg, err := st.Aggregates(ctx)
	if err != nil {
		return err
	}

	if len(agg.Channels) == 0 {
		fmt.Fprintln(os.Stdout, "no channels tracked yet")
	} else {
		keys := make([]string, 0, len(agg.Channels))
		for key := range agg.Channels {
			keys = append(keys, key)
		}
		sort.Slice(keys, func(i, j int) bool {
			return agg.Channels[keys[i]].Power > agg.Channels[keys[j]].Power
		})

		writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(writer, "Channel\tName\tPower\tLast Seen (UTC)")
		for _, key := range keys {
			ch := agg.Channels[key]
			lastSeen := ""
			if ch.LastSeen > 0 {
				lastSeen = time.UnixMilli(ch.LastSeen).UTC().Format(time.RFC3339)
			}
			fmt.Fprintf(writer, "%s\t%s\t%d\t%s\n", ch.ChannelID, sanitizeInline(ch.Name), ch.Power, lastSeen)
		}
		writer.Flush()
	}

	claims, err := st.Claims(ctx)
	if err != nil {
		return err
	}
	if len(claims) == 0 {
		fmt.Fprintln(os.Stdout, "no claims recorded")
		return nil
	}
	if opts.Limit > 0 && len(claims) > opts.Limit {
		claims = claims[:opts.Limit]
	}

	fmt.Fprintln(os.Stdout)
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Time (UTC)\tChannel\tAmount\tMethod")
	for _, c := range claims {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%d\t%s\n",
			c.Timestamp.UTC().Format(time.RFC3339),
			sanitizeInline(c.ChannelName),
			c.Amount,
			c.Method,
		)
	}
	writer.Flush()
	return nil
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return cleaned
}
