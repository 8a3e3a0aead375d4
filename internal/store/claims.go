package store

import (
	"context"
	"fmt"
)

// DeriveClaimID reconstructs a stable identifier for upstream claims that
// carry no ID of their own.
func DeriveClaimID(claimType string, createdAt string, amount int64) string {
	if claimType == "" {
		claimType = "CLAIM"
	}
	return fmt.Sprintf("%s-%s-%d", claimType, createdAt, amount)
}

// AppendClaim records a claim entry under its identifier. Entries whose
// ID has been seen before are skipped, making the call idempotent against
// upstream re-delivery. It reports whether the entry was newly stored.
func (s *Store) AppendClaim(ctx context.Context, id string, entry ClaimEntry) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("append claim: empty id")
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}

	s.mu.Lock()

	seen := []string{}
	if _, err := s.readDoc(ctx, KeySeenClaims, &seen); err != nil {
		s.mu.Unlock()
		return false, err
	}
	for _, existing := range seen {
		if existing == id {
			s.mu.Unlock()
			return false, nil
		}
	}

	logs := []ClaimEntry{}
	if _, err := s.readDoc(ctx, KeyClaimLog, &logs); err != nil {
		s.mu.Unlock()
		return false, err
	}
	logs = append([]ClaimEntry{entry}, logs...)
	if len(logs) > claimLogCap {
		logs = logs[:claimLogCap]
	}
	if err := s.writeDoc(ctx, KeyClaimLog, logs); err != nil {
		s.mu.Unlock()
		return false, err
	}

	seen = append(seen, id)
	if overflow := len(seen) - seenClaimCap; overflow > 0 {
		seen = seen[overflow:]
	}
	if err := s.writeDoc(ctx, KeySeenClaims, seen); err != nil {
		s.mu.Unlock()
		return false, err
	}

	hooks := make([]ClaimHook, len(s.claimHooks))
	copy(hooks, s.claimHooks)
	s.mu.Unlock()

	for _, hook := range hooks {
		hook(entry)
	}
	return true, nil
}

// Claims returns the claim log, most recent first.
func (s *Store) Claims(ctx context.Context) ([]ClaimEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs := []ClaimEntry{}
	if _, err := s.readDoc(ctx, KeyClaimLog, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
