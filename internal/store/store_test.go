package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"log-power-tracker/internal/kv"
)

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time { return c.current }

func (c *fakeClock) Advance(d time.Duration) { c.current = c.current.Add(d) }

func newTestStore() (*Store, *fakeClock) {
	clock := &fakeClock{current: time.UnixMilli(1_700_000_000_000)}
	s := New(Options{
		KV:     kv.NewMemory(),
		Logger: zerolog.Nop(),
		Now:    clock.Now,
	})
	return s, clock
}

func TestRecordSampleDedupe(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore()

	if err := s.RecordSample(ctx, "ch1", 100, clock.Now()); err != nil {
		t.Fatalf("RecordSample: %v", err)
	}

	// same value 5s later is dropped
	clock.Advance(5 * time.Second)
	if err := s.RecordSample(ctx, "ch1", 100, clock.Now()); err != nil {
		t.Fatalf("RecordSample: %v", err)
	}
	arr, err := s.Samples(ctx, "ch1")
	if err != nil {
		t.Fatalf("Samples: %v", err)
	}
	if len(arr) != 1 {
		t.Fatalf("去重失败: %d 个样本", len(arr))
	}

	// same value 11s after the stored point is kept
	clock.Advance(6 * time.Second)
	if err := s.RecordSample(ctx, "ch1", 100, clock.Now()); err != nil {
		t.Fatalf("RecordSample: %v", err)
	}
	arr, _ = s.Samples(ctx, "ch1")
	if len(arr) != 2 {
		t.Fatalf("样本数 = %d", len(arr))
	}

	// a different value inside the window is kept
	clock.Advance(time.Second)
	if err := s.RecordSample(ctx, "ch1", 101, clock.Now()); err != nil {
		t.Fatalf("RecordSample: %v", err)
	}
	arr, _ = s.Samples(ctx, "ch1")
	if len(arr) != 3 {
		t.Fatalf("样本数 = %d", len(arr))
	}
}

func TestRecordSampleMissingChannel(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore()
	if err := s.RecordSample(ctx, "", 100, clock.Now()); err != nil {
		t.Fatalf("空 channel 应为 no-op: %v", err)
	}
}

func TestRecordSampleCap(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore()

	for i := 0; i < sampleCap+10; i++ {
		if err := s.RecordSample(ctx, "ch1", int64(i), clock.Now()); err != nil {
			t.Fatalf("RecordSample #%d: %v", i, err)
		}
		clock.Advance(time.Second)
	}
	arr, err := s.Samples(ctx, "ch1")
	if err != nil {
		t.Fatalf("Samples: %v", err)
	}
	if len(arr) != sampleCap {
		t.Fatalf("样本数 = %d, 期望 %d", len(arr), sampleCap)
	}
	// oldest entries trimmed, newest kept
	if arr[0].V != 10 {
		t.Fatalf("最旧样本 = %d", arr[0].V)
	}
	if arr[len(arr)-1].V != int64(sampleCap+9) {
		t.Fatalf("最新样本 = %d", arr[len(arr)-1].V)
	}
}

func TestSamplesUnknownChannel(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()
	arr, err := s.Samples(ctx, "nobody")
	if err != nil {
		t.Fatalf("Samples: %v", err)
	}
	if len(arr) != 0 {
		t.Fatalf("期望空序列, 得到 %d", len(arr))
	}
}

func TestAppendClaimIdempotent(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore()

	entry := ClaimEntry{
		Timestamp:   clock.Now(),
		ChannelID:   "ch1",
		ChannelName: "Streamer",
		Amount:      25,
		Method:      "daily",
	}
	added, err := s.AppendClaim(ctx, "DAILY-2026-01-01-25", entry)
	if err != nil {
		t.Fatalf("AppendClaim: %v", err)
	}
	if !added {
		t.Fatal("首次写入应返回 true")
	}

	added, err = s.AppendClaim(ctx, "DAILY-2026-01-01-25", entry)
	if err != nil {
		t.Fatalf("AppendClaim repeat: %v", err)
	}
	if added {
		t.Fatal("重复 ID 不应再次写入")
	}

	logs, err := s.Claims(ctx)
	if err != nil {
		t.Fatalf("Claims: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("日志条数 = %d", len(logs))
	}
}

func TestAppendClaimOrderAndCap(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore()

	total := claimLogCap + 50
	for i := 0; i < total; i++ {
		entry := ClaimEntry{ChannelID: "ch1", Amount: int64(i), Method: "claim"}
		if _, err := s.AppendClaim(ctx, fmt.Sprintf("id-%d", i), entry); err != nil {
			t.Fatalf("AppendClaim #%d: %v", i, err)
		}
		clock.Advance(time.Second)
	}

	logs, err := s.Claims(ctx)
	if err != nil {
		t.Fatalf("Claims: %v", err)
	}
	if len(logs) != claimLogCap {
		t.Fatalf("日志条数 = %d, 期望 %d", len(logs), claimLogCap)
	}
	if logs[0].Amount != int64(total-1) {
		t.Fatalf("最新条目在前: got %d", logs[0].Amount)
	}
	if logs[len(logs)-1].Amount != int64(total-claimLogCap) {
		t.Fatalf("最旧保留条目 = %d", logs[len(logs)-1].Amount)
	}
}

func TestSeenClaimsCap(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	for i := 0; i < seenClaimCap+5; i++ {
		if _, err := s.AppendClaim(ctx, fmt.Sprintf("id-%d", i), ClaimEntry{ChannelID: "c", Amount: 1}); err != nil {
			t.Fatalf("AppendClaim #%d: %v", i, err)
		}
	}

	// the oldest seen ID was evicted, so the same claim lands again
	added, err := s.AppendClaim(ctx, "id-0", ClaimEntry{ChannelID: "c", Amount: 1})
	if err != nil {
		t.Fatalf("AppendClaim: %v", err)
	}
	if !added {
		t.Fatal("被淘汰的 ID 应可重新写入")
	}
	// a recent ID is still deduplicated
	added, err = s.AppendClaim(ctx, fmt.Sprintf("id-%d", seenClaimCap+4), ClaimEntry{ChannelID: "c", Amount: 1})
	if err != nil {
		t.Fatalf("AppendClaim: %v", err)
	}
	if added {
		t.Fatal("近期 ID 不应重复写入")
	}
}

func TestClaimHookFires(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	var got []ClaimEntry
	s.OnClaim(func(e ClaimEntry) { got = append(got, e) })

	if _, err := s.AppendClaim(ctx, "a", ClaimEntry{ChannelID: "c", Amount: 7}); err != nil {
		t.Fatalf("AppendClaim: %v", err)
	}
	if _, err := s.AppendClaim(ctx, "a", ClaimEntry{ChannelID: "c", Amount: 7}); err != nil {
		t.Fatalf("AppendClaim: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("hook 触发次数 = %d", len(got))
	}
	if got[0].Amount != 7 {
		t.Fatalf("hook entry amount = %d", got[0].Amount)
	}
}

func TestMergeObservationOverwrites(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	if err := s.MergeObservation(ctx, Observation{ChannelID: "ch1", Name: "A", Power: 50}); err != nil {
		t.Fatalf("MergeObservation: %v", err)
	}
	if err := s.MergeObservation(ctx, Observation{ChannelID: "ch1", Power: 10}); err != nil {
		t.Fatalf("MergeObservation: %v", err)
	}

	agg, err := s.Aggregates(ctx)
	if err != nil {
		t.Fatalf("Aggregates: %v", err)
	}
	ch := agg.Channels["ch1"]
	if ch.Power != 10 {
		t.Fatalf("power = %d, 期望覆盖为 10", ch.Power)
	}
	if ch.Name != "A" {
		t.Fatalf("旧名称应保留: %q", ch.Name)
	}
}

func TestMergeObservationNoChannel(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()
	if err := s.MergeObservation(ctx, Observation{Name: "A", Power: 5}); err != ErrNoChannel {
		t.Fatalf("期望 ErrNoChannel, 得到 %v", err)
	}
}

func TestMergeRankingBatchAdds(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore()

	if err := s.MergeRankingBatch(ctx, []Observation{{ChannelID: "ch1", Name: "A", Power: 10}}); err != nil {
		t.Fatalf("MergeRankingBatch: %v", err)
	}
	if err := s.MergeRankingBatch(ctx, []Observation{
		{ChannelID: "ch1", Power: 5},
		{Name: "B", Power: 3},
		{Power: 99}, // no key, skipped
	}); err != nil {
		t.Fatalf("MergeRankingBatch: %v", err)
	}

	agg, err := s.Aggregates(ctx)
	if err != nil {
		t.Fatalf("Aggregates: %v", err)
	}
	if got := agg.Channels["ch1"].Power; got != 15 {
		t.Fatalf("ch1 power = %d, 期望 10+5=15", got)
	}
	if got := agg.Channels["B"].Power; got != 3 {
		t.Fatalf("以名称为键的条目 power = %d", got)
	}
	if len(agg.Channels) != 2 {
		t.Fatalf("channels = %d", len(agg.Channels))
	}
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s, clock := newTestStore()

	_ = s.RecordSample(ctx, "ch1", 1, clock.Now())
	_, _ = s.AppendClaim(ctx, "x", ClaimEntry{ChannelID: "ch1", Amount: 1})
	_ = s.MergeObservation(ctx, Observation{ChannelID: "ch1", Power: 1})

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	arr, _ := s.Samples(ctx, "ch1")
	if len(arr) != 0 {
		t.Fatalf("样本未清空: %d", len(arr))
	}
	logs, _ := s.Claims(ctx)
	if len(logs) != 0 {
		t.Fatalf("日志未清空: %d", len(logs))
	}
	agg, _ := s.Aggregates(ctx)
	if len(agg.Channels) != 0 {
		t.Fatalf("聚合未清空: %d", len(agg.Channels))
	}
}

func TestDeriveClaimID(t *testing.T) {
	if got := DeriveClaimID("DAILY", "2026-01-02T03:04:05Z", 25); got != "DAILY-2026-01-02T03:04:05Z-25" {
		t.Fatalf("DeriveClaimID = %s", got)
	}
	if got := DeriveClaimID("", "ts", 1); got != "CLAIM-ts-1" {
		t.Fatalf("DeriveClaimID fallback = %s", got)
	}
}
