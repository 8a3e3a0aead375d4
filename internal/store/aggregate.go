package store

import (
	"context"
	"errors"
)

// ErrNoChannel reports a direct channel observation without a channel ID.
var ErrNoChannel = errors.New("store: observation has no channel id")

// MergeObservation applies a direct channel reading. The badge count is an
// accumulated total, so the stored power is overwritten rather than added.
func (s *Store) MergeObservation(ctx context.Context, obs Observation) error {
	if obs.ChannelID == "" {
		return ErrNoChannel
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	agg, err := s.readAggregates(ctx)
	if err != nil {
		return err
	}

	prev := agg.Channels[obs.ChannelID]
	next := prev
	next.ChannelID = obs.ChannelID
	if obs.Name != "" {
		next.Name = obs.Name
	}
	if obs.AvatarURL != "" {
		next.AvatarURL = obs.AvatarURL
	}
	next.Power = obs.Power
	next.LastSeen = s.nowMillis()
	agg.Channels[obs.ChannelID] = next
	agg.UpdatedAt = s.nowMillis()

	return s.writeDoc(ctx, KeyAggregates, agg)
}

// MergeRankingBatch applies a parsed ranking page. Each item's power is a
// delta, so it adds onto the stored total. Items without a channel ID fall
// back to the display name as the map key; items with neither are skipped.
func (s *Store) MergeRankingBatch(ctx context.Context, items []Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	agg, err := s.readAggregates(ctx)
	if err != nil {
		return err
	}

	for _, item := range items {
		key := item.ChannelID
		if key == "" {
			key = item.Name
		}
		if key == "" {
			continue
		}
		prev := agg.Channels[key]
		next := prev
		if item.Name != "" {
			next.Name = item.Name
		}
		if item.ChannelID != "" {
			next.ChannelID = item.ChannelID
		}
		if item.AvatarURL != "" {
			next.AvatarURL = item.AvatarURL
		}
		next.Power = prev.Power + item.Power
		next.LastSeen = s.nowMillis()
		agg.Channels[key] = next
	}
	agg.UpdatedAt = s.nowMillis()

	return s.writeDoc(ctx, KeyAggregates, agg)
}

// Aggregates returns the full aggregate document.
func (s *Store) Aggregates(ctx context.Context) (AggregateMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readAggregates(ctx)
}

func (s *Store) readAggregates(ctx context.Context) (AggregateMap, error) {
	agg := AggregateMap{}
	if _, err := s.readDoc(ctx, KeyAggregates, &agg); err != nil {
		return AggregateMap{}, err
	}
	if agg.Channels == nil {
		agg.Channels = make(map[string]ChannelAggregate)
	}
	return agg, nil
}
