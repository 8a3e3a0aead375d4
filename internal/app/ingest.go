package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"log-power-tracker/internal/store"
)

// IngestBatch is the file format accepted by Ingest. It mirrors the
// message shapes a browser-side scraper emits: raw samples, direct
// channel observations, a ranking-page batch, and claim events.
type IngestBatch struct {
	Samples []struct {
		ChannelID string `json:"channelId"`
		Amount    int64  `json:"amount"`
		T         int64  `json:"t"`
	} `json:"samples"`
	Observations []struct {
		ChannelID string `json:"channelId"`
		Name      string `json:"name"`
		Avatar    string `json:"avatar"`
		Count     int64  `json:"count"`
	} `json:"observations"`
	Ranking []struct {
		ChannelID string `json:"channelId"`
		Name      string `json:"name"`
		Avatar    string `json:"avatar"`
		Power     int64  `json:"power"`
	} `json:"ranking"`
	Claims []struct {
		ClaimID   string `json:"claimId"`
		ChannelID string `json:"channelId"`
		ClaimType string `json:"claimType"`
		CreatedAt string `json:"createdAt"`
		Amount    int64  `json:"amount"`
	} `json:"claims"`
}

// Ingest applies a scraped batch file to the store.
func (a *App) Ingest(ctx context.Context, path string) error {
	if path == "" {
		return errors.New("a batch file path is required")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read batch: %w", err)
	}
	var batch IngestBatch
	if err := json.Unmarshal(raw, &batch); err != nil {
		return fmt.Errorf("decode batch: %w", err)
	}

	st, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	for _, s := range batch.Samples {
		at := time.Time{}
		if s.T > 0 {
			at = time.UnixMilli(s.T)
		}
		if err := st.RecordSample(ctx, s.ChannelID, s.Amount, at); err != nil {
			return fmt.Errorf("record sample: %w", err)
		}
	}

	for _, o := range batch.Observations {
		obs := store.Observation{
			ChannelID: o.ChannelID,
			Name:      o.Name,
			AvatarURL: o.Avatar,
			Power:     o.Count,
		}
		if err := st.MergeObservation(ctx, obs); err != nil {
			if errors.Is(err, store.ErrNoChannel) {
				a.Logger.Warn().Str("name", o.Name).Msg("observation without channel id skipped")
				continue
			}
			return fmt.Errorf("merge observation: %w", err)
		}
	}

	if len(batch.Ranking) > 0 {
		items := make([]store.Observation, 0, len(batch.Ranking))
		for _, r := range batch.Ranking {
			items = append(items, store.Observation{
				ChannelID: r.ChannelID,
				Name:      r.Name,
				AvatarURL: r.Avatar,
				Power:     r.Power,
			})
		}
		if err := st.MergeRankingBatch(ctx, items); err != nil {
			return fmt.Errorf("merge ranking batch: %w", err)
		}
	}

	appended := 0
	for _, c := range batch.Claims {
		id := c.ClaimID
		if id == "" {
			id = store.DeriveClaimID(c.ClaimType, c.CreatedAt, c.Amount)
		}
		entry := store.ClaimEntry{
			ChannelID: c.ChannelID,
			Amount:    c.Amount,
			Method:    methodLabel(c.ClaimType),
		}
		added, err := st.AppendClaim(ctx, id, entry)
		if err != nil {
			return fmt.Errorf("append claim: %w", err)
		}
		if added {
			appended++
		}
	}

	a.Logger.Info().
		Int("samples", len(batch.Samples)).
		Int("observations", len(batch.Observations)).
		Int("ranking", len(batch.Ranking)).
		Int("claims", appended).
		Msg("batch ingested")
	return nil
}
