package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"log-power-tracker/internal/kv"
)

// Storage keys. The names are shared with the browser-side tooling that
// reads the same documents, so they stay as-is.
const (
	KeySamples    = "chzzkTs"
	KeyAggregates = "chzzkAgg"
	KeyClaimLog   = "powerLogs"
	KeySeenClaims = "chzzkSeenClaimIds"
)

const (
	sampleCap          = 3000
	claimLogCap        = 1000
	seenClaimCap       = 2000
	sampleDedupeWindow = 10 * time.Second
)

// ClaimHook is invoked after a new claim entry has been persisted.
type ClaimHook func(ClaimEntry)

// Store layers the tracker's document model over a flat key-value backend.
// Writes are read-modify-write under an in-process mutex; concurrent
// writers through separate processes follow last-write-wins semantics.
type Store struct {
	kv     kv.Store
	logger zerolog.Logger
	now    func() time.Time

	mu         sync.Mutex
	claimHooks []ClaimHook
}

// Options configures a Store.
type Options struct {
	KV     kv.Store
	Logger zerolog.Logger
	// Now overrides the clock, primarily for tests.
	Now func() time.Time
}

// New wires a key-value backend into a Store.
func New(opts Options) *Store {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		kv:     opts.KV,
		logger: opts.Logger.With().Str("component", "store").Logger(),
		now:    now,
	}
}

// OnClaim registers a hook fired for every newly appended claim entry.
func (s *Store) OnClaim(hook ClaimHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claimHooks = append(s.claimHooks, hook)
}

// Watch exposes the backend's change feed.
func (s *Store) Watch(ctx context.Context) (<-chan string, error) {
	return s.kv.Watch(ctx)
}

// Reset clears every tracker document.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range []string{KeySamples, KeyAggregates, KeyClaimLog, KeySeenClaims} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("reset %s: %w", key, err)
		}
	}
	return nil
}

func (s *Store) readDoc(ctx context.Context, key string, target interface{}) (bool, error) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) writeDoc(ctx context.Context, key string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (s *Store) nowMillis() int64 {
	return s.now().UnixMilli()
}
