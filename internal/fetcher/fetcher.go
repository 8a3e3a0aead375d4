package fetcher

import "context"

// LogPower is the per-channel power snapshot served by the upstream API.
// Amount is nil when the endpoint omitted it (viewer not participating).
type LogPower struct {
	Amount *int64
	Active bool
	Claims []Claim
}

// Claim is one acquisition event as delivered by the upstream API.
type Claim struct {
	ClaimID   string
	ClaimType string
	CreatedAt string
	Amount    int64
}

// ChannelInfo is the public channel profile.
type ChannelInfo struct {
	ChannelID       string
	ChannelName     string
	ChannelImageURL string
	VerifiedMark    bool
}

// Balance is one entry of the account-wide holdings listing.
type Balance struct {
	ChannelID       string
	ChannelName     string
	ChannelImageURL string
	Amount          int64
}

// PowerFetcher retrieves a channel's current power balance and pending
// claims.
type PowerFetcher interface {
	FetchLogPower(ctx context.Context, channelID string) (LogPower, error)
}

// BalanceFetcher retrieves the holdings listing across all channels.
type BalanceFetcher interface {
	FetchBalances(ctx context.Context) ([]Balance, error)
}

// ChannelFetcher retrieves channel profile metadata.
type ChannelFetcher interface {
	FetchChannel(ctx context.Context, channelID string) (ChannelInfo, error)
}
