package store

import (
	"context"
	"time"
)

// RecordSample appends a power reading to a channel's time series.
// A reading with an empty channel ID is dropped. A reading that repeats
// the latest stored value within the dedupe window is skipped to keep
// idle streams from flooding the series.
func (s *Store) RecordSample(ctx context.Context, channelID string, amount int64, at time.Time) error {
	if channelID == "" {
		s.logger.Debug().Msg("sample without channel id dropped")
		return nil
	}
	if at.IsZero() {
		at = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	samples := SampleSet{}
	if _, err := s.readDoc(ctx, KeySamples, &samples); err != nil {
		return err
	}

	arr := samples[channelID]
	point := Sample{T: at.UnixMilli(), V: amount}
	if last := lastSample(arr); last != nil && last.V == amount && point.T-last.T < sampleDedupeWindow.Milliseconds() {
		return nil
	}
	arr = append(arr, point)
	if overflow := len(arr) - sampleCap; overflow > 0 {
		arr = arr[overflow:]
	}
	samples[channelID] = arr

	return s.writeDoc(ctx, KeySamples, samples)
}

// Samples returns a channel's series in ascending time order. An unknown
// channel yields an empty slice.
func (s *Store) Samples(ctx context.Context, channelID string) ([]Sample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	samples := SampleSet{}
	if _, err := s.readDoc(ctx, KeySamples, &samples); err != nil {
		return nil, err
	}
	arr := samples[channelID]
	if arr == nil {
		return []Sample{}, nil
	}
	return arr, nil
}

func lastSample(arr []Sample) *Sample {
	if len(arr) == 0 {
		return nil
	}
	return &arr[len(arr)-1]
}
