package app

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"log-power-tracker/internal/store"
)

// Balances fetches the live account-wide holdings listing and prints it.
// With Record set, every entry is merged into the aggregate store the same
// way a polled balance reading would be.
func (a *App) Balances(ctx context.Context, opts BalancesOptions) error {
	balances, err := a.newFetcher().FetchBalances(ctx)
	if err != nil {
		return err
	}

	filtered := balances[:0]
	for _, b := range balances {
		if b.Amount >= opts.MinAmount {
			filtered = append(filtered, b)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].Amount > filtered[j].Amount
	})

	if len(filtered) == 0 {
		fmt.Fprintln(os.Stdout, "no balances above threshold")
		return nil
	}

	var total int64
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Channel\tName\tPower")
	for _, b := range filtered {
		total += b.Amount
		fmt.Fprintf(writer, "%s\t%s\t%d\n", b.ChannelID, sanitizeInline(b.ChannelName), b.Amount)
	}
	fmt.Fprintf(writer, "\tTotal\t%d\n", total)
	writer.Flush()

	if !opts.Record {
		return nil
	}

	st, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	recorded := 0
	for _, b := range filtered {
		obs := store.Observation{
			ChannelID: b.ChannelID,
			Name:      b.ChannelName,
			AvatarURL: b.ChannelImageURL,
			Power:     b.Amount,
		}
		if err := st.MergeObservation(ctx, obs); err != nil {
			a.Logger.Warn().Err(err).Str("channel", b.ChannelID).Msg("skipping balance entry")
			continue
		}
		recorded++
	}
	a.Logger.Info().Int("channels", recorded).Msg("balances merged into aggregates")
	return nil
}
