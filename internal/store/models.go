package store

import "time"

// Sample is one time-series point: millisecond timestamp and power amount.
type Sample struct {
	T int64 `json:"t"`
	V int64 `json:"v"`
}

// SampleSet maps channel IDs to their ascending sample slices.
type SampleSet map[string][]Sample

// ClaimEntry records a single power acquisition, most recent first in storage.
type ClaimEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	ChannelID   string    `json:"channelId"`
	ChannelName string    `json:"channelName"`
	AvatarURL   string    `json:"channelImageUrl"`
	Verified    bool      `json:"verifiedMark"`
	Amount      int64     `json:"amount"`
	Method      string    `json:"method"`
}

// ChannelAggregate is the per-channel accumulated state.
type ChannelAggregate struct {
	Name      string `json:"name"`
	ChannelID string `json:"channelId"`
	AvatarURL string `json:"avatar"`
	Power     int64  `json:"power"`
	LastSeen  int64  `json:"lastSeen"`
}

// AggregateMap is the full aggregate document keyed by channel ID.
type AggregateMap struct {
	Channels  map[string]ChannelAggregate `json:"channels"`
	UpdatedAt int64                       `json:"updatedAt"`
}

// Observation is one parsed channel reading fed into the aggregate store.
type Observation struct {
	Name      string
	ChannelID string
	AvatarURL string
	Power     int64
}
