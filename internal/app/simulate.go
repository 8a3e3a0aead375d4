package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"log-power-tracker/internal/alerting"
	"log-power-tracker/internal/store"
)

// SimulateClaim injects a synthetic claim, exercising the full append
// and notification path without hitting the upstream API.
func (a *App) SimulateClaim(ctx context.Context, opts SimulateOptions) error {
	if opts.ChannelID == "" {
		return errors.New("--channel is required")
	}
	if opts.Amount < 0 {
		return errors.New("--amount cannot be negative")
	}
	method := methodLabel(opts.Method)

	st, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	now := time.Now()
	id := store.DeriveClaimID(strings.ToUpper(method), now.UTC().Format(time.RFC3339Nano), opts.Amount)
	entry := store.ClaimEntry{
		Timestamp: now,
		ChannelID: opts.ChannelID,
		Amount:    opts.Amount,
		Method:    method,
	}

	added, err := st.AppendClaim(ctx, id, entry)
	if err != nil {
		return err
	}
	if !added {
		return fmt.Errorf("claim %s already recorded", id)
	}

	a.Logger.Info().Str("channel", opts.ChannelID).Int64("amount", opts.Amount).Msg("simulated claim recorded")

	if notifier := a.newNotifier(); notifier != nil {
		note := alerting.Notification{
			Timestamp: now,
			ChannelID: opts.ChannelID,
			Amount:    opts.Amount,
			Method:    method,
		}
		if err := notifier.Notify(ctx, note); err != nil {
			return fmt.Errorf("notify: %w", err)
		}
	}
	return nil
}

func methodLabel(claimType string) string {
	if claimType == "" {
		return "claim"
	}
	return strings.ToLower(claimType)
}
