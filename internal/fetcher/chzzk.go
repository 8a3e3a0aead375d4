package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ChzzkOptions parameterise the Chzzk API client.
type ChzzkOptions struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Chzzk fetches channel profiles and log-power snapshots from the
// public service API. Channel profiles rarely change, so they are
// cached for the lifetime of the client.
type Chzzk struct {
	opts    ChzzkOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string

	mu           sync.Mutex
	channelCache map[string]ChannelInfo
}

// NewChzzk constructs a Chzzk API client.
func NewChzzk(opts ChzzkOptions, logger zerolog.Logger) *Chzzk {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.chzzk.naver.com"
	}

	return &Chzzk{
		opts:         opts,
		logger:       logger.With().Str("component", "chzzk_fetcher").Logger(),
		client:       &http.Client{Timeout: timeout},
		baseURL:      baseURL,
		channelCache: make(map[string]ChannelInfo),
	}
}

type logPowerResponse struct {
	Content struct {
		Amount *int64 `json:"amount"`
		Active *bool  `json:"active"`
		Claims []struct {
			ClaimID   string `json:"claimId"`
			ID        string `json:"id"`
			ClaimType string `json:"claimType"`
			CreatedAt string `json:"createdAt"`
			Timestamp string `json:"timestamp"`
			Amount    int64  `json:"amount"`
		} `json:"claims"`
	} `json:"content"`
}

// FetchLogPower retrieves the current power snapshot for a channel.
func (c *Chzzk) FetchLogPower(ctx context.Context, channelID string) (LogPower, error) {
	result := LogPower{Active: true}
	if channelID == "" {
		return result, nil
	}

	endpoint := fmt.Sprintf("%s/service/v1/channels/%s/log-power", c.baseURL, channelID)
	payload, err := c.getJSON(ctx, endpoint)
	if err != nil {
		return result, err
	}

	var decoded logPowerResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return result, fmt.Errorf("decode log-power: %w", err)
	}

	result.Amount = decoded.Content.Amount
	if decoded.Content.Active != nil {
		result.Active = *decoded.Content.Active
	}
	for _, raw := range decoded.Content.Claims {
		claim := Claim{
			ClaimID:   raw.ClaimID,
			ClaimType: raw.ClaimType,
			CreatedAt: raw.CreatedAt,
			Amount:    raw.Amount,
		}
		if claim.ClaimID == "" {
			claim.ClaimID = raw.ID
		}
		if claim.CreatedAt == "" {
			claim.CreatedAt = raw.Timestamp
		}
		result.Claims = append(result.Claims, claim)
	}
	return result, nil
}

type channelResponse struct {
	Content *struct {
		ChannelID       string `json:"channelId"`
		ChannelName     string `json:"channelName"`
		ChannelImageURL string `json:"channelImageUrl"`
		VerifiedMark    bool   `json:"verifiedMark"`
	} `json:"content"`
}

// FetchChannel retrieves the public channel profile, served from cache
// after the first hit.
func (c *Chzzk) FetchChannel(ctx context.Context, channelID string) (ChannelInfo, error) {
	if channelID == "" {
		return ChannelInfo{}, fmt.Errorf("channel id required")
	}

	c.mu.Lock()
	if cached, ok := c.channelCache[channelID]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	endpoint := fmt.Sprintf("%s/service/v1/channels/%s", c.baseURL, channelID)
	payload, err := c.getJSON(ctx, endpoint)
	if err != nil {
		return ChannelInfo{}, err
	}

	var decoded channelResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return ChannelInfo{}, fmt.Errorf("decode channel: %w", err)
	}
	if decoded.Content == nil {
		return ChannelInfo{}, fmt.Errorf("channel %s not found", channelID)
	}

	info := ChannelInfo{
		ChannelID:       decoded.Content.ChannelID,
		ChannelName:     decoded.Content.ChannelName,
		ChannelImageURL: decoded.Content.ChannelImageURL,
		VerifiedMark:    decoded.Content.VerifiedMark,
	}
	c.mu.Lock()
	c.channelCache[channelID] = info
	c.mu.Unlock()
	return info, nil
}

type balancesResponse struct {
	Content struct {
		Data []struct {
			ChannelID       string `json:"channelId"`
			ChannelIDHash   string `json:"channelIdHash"`
			ChannelName     string `json:"channelName"`
			ChannelImageURL string `json:"channelImageUrl"`
			Amount          int64  `json:"amount"`
		} `json:"data"`
	} `json:"content"`
}

// FetchBalances retrieves the account-wide holdings listing.
func (c *Chzzk) FetchBalances(ctx context.Context) ([]Balance, error) {
	endpoint := fmt.Sprintf("%s/service/v1/log-power/balances", c.baseURL)
	payload, err := c.getJSON(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var decoded balancesResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return nil, fmt.Errorf("decode balances: %w", err)
	}

	balances := make([]Balance, 0, len(decoded.Content.Data))
	for _, raw := range decoded.Content.Data {
		id := raw.ChannelID
		if id == "" {
			id = raw.ChannelIDHash
		}
		balances = append(balances, Balance{
			ChannelID:       id,
			ChannelName:     raw.ChannelName,
			ChannelImageURL: raw.ChannelImageURL,
			Amount:          raw.Amount,
		})
	}
	return balances, nil
}

func (c *Chzzk) getJSON(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(c.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", "logwatcher/1.0")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, parseHTTPError(resp.StatusCode, payload)
	}
	return payload, nil
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func parseHTTPError(status int, payload []byte) error {
	var apiErr errorResponse
	if err := json.Unmarshal(payload, &apiErr); err == nil && apiErr.Message != "" {
		return fmt.Errorf("chzzk api error (%d): %s", status, apiErr.Message)
	}
	if len(payload) > 0 {
		return fmt.Errorf("chzzk api error (%d): %s", status, strings.TrimSpace(string(payload)))
	}
	return fmt.Errorf("chzzk api error (%d)", status)
}

var (
	_ PowerFetcher   = (*Chzzk)(nil)
	_ ChannelFetcher = (*Chzzk)(nil)
	_ BalanceFetcher = (*Chzzk)(nil)
)
