package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
)

func TestFetchLogPower(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/service/v1/channels/ch1/log-power" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":{"amount":1234,"active":true,"claims":[
			{"claimId":"c-1","claimType":"DAILY","createdAt":"2026-01-01T00:00:00Z","amount":25},
			{"id":"fallback-id","claimType":"VIEW","timestamp":"2026-01-01T01:00:00Z","amount":10}
		]}}`))
	}))
	defer srv.Close()

	c := NewChzzk(ChzzkOptions{BaseURL: srv.URL}, zerolog.Nop())
	got, err := c.FetchLogPower(context.Background(), "ch1")
	if err != nil {
		t.Fatalf("FetchLogPower: %v", err)
	}
	if got.Amount == nil || *got.Amount != 1234 {
		t.Fatalf("amount = %v", got.Amount)
	}
	if !got.Active {
		t.Fatal("active 应为 true")
	}
	if len(got.Claims) != 2 {
		t.Fatalf("claims = %d", len(got.Claims))
	}
	if got.Claims[0].ClaimID != "c-1" {
		t.Fatalf("claimId = %s", got.Claims[0].ClaimID)
	}
	if got.Claims[1].ClaimID != "fallback-id" {
		t.Fatalf("id 回退失败: %s", got.Claims[1].ClaimID)
	}
	if got.Claims[1].CreatedAt != "2026-01-01T01:00:00Z" {
		t.Fatalf("timestamp 回退失败: %s", got.Claims[1].CreatedAt)
	}
}

func TestFetchLogPowerMissingAmount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":{"claims":[]}}`))
	}))
	defer srv.Close()

	c := NewChzzk(ChzzkOptions{BaseURL: srv.URL}, zerolog.Nop())
	got, err := c.FetchLogPower(context.Background(), "ch1")
	if err != nil {
		t.Fatalf("FetchLogPower: %v", err)
	}
	if got.Amount != nil {
		t.Fatalf("缺失 amount 应为 nil, 得到 %d", *got.Amount)
	}
	if !got.Active {
		t.Fatal("缺省 active 应为 true")
	}
}

func TestFetchLogPowerEmptyChannel(t *testing.T) {
	c := NewChzzk(ChzzkOptions{}, zerolog.Nop())
	got, err := c.FetchLogPower(context.Background(), "")
	if err != nil {
		t.Fatalf("空 channel 应为 no-op: %v", err)
	}
	if got.Amount != nil || len(got.Claims) != 0 {
		t.Fatal("空 channel 应返回空结果")
	}
}

func TestFetchLogPowerHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"code":429,"message":"rate limited"}`))
	}))
	defer srv.Close()

	c := NewChzzk(ChzzkOptions{BaseURL: srv.URL}, zerolog.Nop())
	if _, err := c.FetchLogPower(context.Background(), "ch1"); err == nil {
		t.Fatal("期望错误")
	}
}

func TestFetchChannelCached(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"content":{"channelId":"ch1","channelName":"Streamer","channelImageUrl":"https://img","verifiedMark":true}}`))
	}))
	defer srv.Close()

	c := NewChzzk(ChzzkOptions{BaseURL: srv.URL}, zerolog.Nop())
	for i := 0; i < 3; i++ {
		info, err := c.FetchChannel(context.Background(), "ch1")
		if err != nil {
			t.Fatalf("FetchChannel: %v", err)
		}
		if info.ChannelName != "Streamer" || !info.VerifiedMark {
			t.Fatalf("info = %+v", info)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("缓存未生效, 请求 %d 次", hits.Load())
	}
}

func TestFetchBalances(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/service/v1/log-power/balances" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"content":{"data":[
			{"channelId":"ch1","channelName":"Streamer","channelImageUrl":"https://img","amount":500},
			{"channelIdHash":"hash-2","channelName":"Other","amount":120}
		]}}`))
	}))
	defer srv.Close()

	c := NewChzzk(ChzzkOptions{BaseURL: srv.URL}, zerolog.Nop())
	got, err := c.FetchBalances(context.Background())
	if err != nil {
		t.Fatalf("FetchBalances: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("balances = %d", len(got))
	}
	if got[0].ChannelID != "ch1" || got[0].Amount != 500 {
		t.Fatalf("balances[0] = %+v", got[0])
	}
	if got[1].ChannelID != "hash-2" {
		t.Fatalf("channelIdHash 回退失败: %+v", got[1])
	}
}

func TestFetchChannelNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":null}`))
	}))
	defer srv.Close()

	c := NewChzzk(ChzzkOptions{BaseURL: srv.URL}, zerolog.Nop())
	if _, err := c.FetchChannel(context.Background(), "ghost"); err == nil {
		t.Fatal("期望 not found 错误")
	}
}
