package series

import (
	"time"

	"log-power-tracker/internal/store"
)

// Bucket aggregates the samples of one fixed-width time window in
// open/high/low/close form.
type Bucket struct {
	BucketStart int64
	Open        int64
	High        int64
	Low         int64
	Close       int64
	SampleCount int
}

// BucketWidth selects the bucket width for a range via a fixed step
// table. Finer buckets for shorter ranges; the thresholds are part of
// the contract.
func BucketWidth(rangeMs int64) int64 {
	switch {
	case rangeMs <= 30*time.Minute.Milliseconds():
		return time.Minute.Milliseconds()
	case rangeMs <= 2*time.Hour.Milliseconds():
		return 5 * time.Minute.Milliseconds()
	case rangeMs <= 12*time.Hour.Milliseconds():
		return 15 * time.Minute.Milliseconds()
	case rangeMs <= 48*time.Hour.Milliseconds():
		return 30 * time.Minute.Milliseconds()
	default:
		return time.Hour.Milliseconds()
	}
}

// Bucketize folds an ascending sample sequence into sparse OHLC buckets.
// Windows without samples produce no bucket.
func Bucketize(samples []store.Sample, rangeMs int64) []Bucket {
	width := BucketWidth(rangeMs)
	buckets := make([]Bucket, 0)

	for _, s := range samples {
		key := s.T / width * width
		if n := len(buckets); n > 0 && buckets[n-1].BucketStart == key {
			b := &buckets[n-1]
			if s.V > b.High {
				b.High = s.V
			}
			if s.V < b.Low {
				b.Low = s.V
			}
			b.Close = s.V
			b.SampleCount++
			continue
		}
		buckets = append(buckets, Bucket{
			BucketStart: key,
			Open:        s.V,
			High:        s.V,
			Low:         s.V,
			Close:       s.V,
			SampleCount: 1,
		})
	}
	return buckets
}

// Window returns the trailing portion of samples whose timestamps fall
// within rangeMs of the newest sample.
func Window(samples []store.Sample, rangeMs int64) []store.Sample {
	if len(samples) == 0 || rangeMs <= 0 {
		return samples
	}
	cutoff := samples[len(samples)-1].T - rangeMs
	for i, s := range samples {
		if s.T >= cutoff {
			return samples[i:]
		}
	}
	return samples[:0]
}
