package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"log-power-tracker/internal/alerting"
	"log-power-tracker/internal/config"
	"log-power-tracker/internal/fetcher"
	"log-power-tracker/internal/scheduler"
	"log-power-tracker/internal/store"
)

// Service orchestrates polling, persistence, and alerting for the
// configured channels.
type Service struct {
	scheduler *scheduler.Scheduler
	power     fetcher.PowerFetcher
	channels  fetcher.ChannelFetcher
	store     *store.Store
	notifier  alerting.Notifier
	logger    zerolog.Logger

	watched        []string
	sampleInterval time.Duration
	claimInterval  time.Duration
	alertsOn       bool
	minAmount      int64
}

// New constructs the polling service.
func New(cfg *config.Config, sched *scheduler.Scheduler, power fetcher.PowerFetcher, channels fetcher.ChannelFetcher, st *store.Store, notifier alerting.Notifier, logger zerolog.Logger) *Service {
	return &Service{
		scheduler:      sched,
		power:          power,
		channels:       channels,
		store:          st,
		notifier:       notifier,
		logger:         logger.With().Str("component", "service").Logger(),
		watched:        cfg.Chzzk.Channels,
		sampleInterval: cfg.Scheduler.SampleInterval,
		claimInterval:  cfg.Scheduler.ClaimInterval,
		alertsOn:       cfg.Alerting.Enabled,
		minAmount:      cfg.Alerting.MinAmount,
	}
}

// Run registers the recurring tasks and blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.scheduler == nil {
		return fmt.Errorf("scheduler not configured")
	}
	if len(s.watched) == 0 {
		return fmt.Errorf("no channels configured")
	}
	s.scheduler.Add("sample", s.sampleInterval, s.SampleTick)
	s.scheduler.Add("claims", s.claimInterval, s.ClaimTick)
	return s.scheduler.Run(ctx)
}

// SampleTick 对每个频道采样一次当前 power 值。
func (s *Service) SampleTick(ctx context.Context) error {
	var firstErr error
	for _, channelID := range s.watched {
		if err := s.sampleChannel(ctx, channelID); err != nil {
			s.logger.Warn().Err(err).Str("channel", channelID).Msg("sample failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *Service) sampleChannel(ctx context.Context, channelID string) error {
	snapshot, err := s.power.FetchLogPower(ctx, channelID)
	if err != nil {
		return fmt.Errorf("fetch log-power: %w", err)
	}
	if !snapshot.Active {
		s.logger.Warn().Str("channel", channelID).Msg("log power inactive for channel")
	}
	if snapshot.Amount == nil {
		// No balance this cycle is not an error; the next poll retries.
		s.logger.Debug().Str("channel", channelID).Msg("no amount in snapshot")
		return nil
	}

	now := time.Now()
	if err := s.store.RecordSample(ctx, channelID, *snapshot.Amount, now); err != nil {
		return fmt.Errorf("record sample: %w", err)
	}

	obs := store.Observation{ChannelID: channelID, Power: *snapshot.Amount}
	if info, infoErr := s.channels.FetchChannel(ctx, channelID); infoErr == nil {
		obs.Name = info.ChannelName
		obs.AvatarURL = info.ChannelImageURL
	}
	if err := s.store.MergeObservation(ctx, obs); err != nil {
		return fmt.Errorf("merge observation: %w", err)
	}

	s.logger.Debug().Str("channel", channelID).Int64("amount", *snapshot.Amount).Msg("sample recorded")
	return nil
}

// ClaimTick 拉取并记录每个频道的新 claim。
func (s *Service) ClaimTick(ctx context.Context) error {
	var firstErr error
	for _, channelID := range s.watched {
		if err := s.pollClaims(ctx, channelID); err != nil {
			s.logger.Warn().Err(err).Str("channel", channelID).Msg("claim poll failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *Service) pollClaims(ctx context.Context, channelID string) error {
	snapshot, err := s.power.FetchLogPower(ctx, channelID)
	if err != nil {
		return fmt.Errorf("fetch log-power: %w", err)
	}
	if len(snapshot.Claims) == 0 {
		return nil
	}

	var info fetcher.ChannelInfo
	if got, infoErr := s.channels.FetchChannel(ctx, channelID); infoErr == nil {
		info = got
	}

	for _, claim := range snapshot.Claims {
		id := claim.ClaimID
		if id == "" {
			id = store.DeriveClaimID(claim.ClaimType, claim.CreatedAt, claim.Amount)
		}

		entry := store.ClaimEntry{
			Timestamp:   time.Now(),
			ChannelID:   channelID,
			ChannelName: info.ChannelName,
			AvatarURL:   info.ChannelImageURL,
			Verified:    info.VerifiedMark,
			Amount:      claim.Amount,
			Method:      methodOf(claim.ClaimType),
		}
		added, appendErr := s.store.AppendClaim(ctx, id, entry)
		if appendErr != nil {
			return fmt.Errorf("append claim: %w", appendErr)
		}
		if !added {
			continue
		}

		s.logger.Info().Str("channel", channelID).
			Str("method", entry.Method).
			Int64("amount", entry.Amount).
			Msg("claim recorded")

		if s.alertsOn && s.notifier != nil && entry.Amount >= s.minAmount {
			note := alerting.Notification{
				Timestamp:   entry.Timestamp,
				ChannelID:   channelID,
				ChannelName: entry.ChannelName,
				Amount:      entry.Amount,
				Method:      entry.Method,
			}
			if notifyErr := s.notifier.Notify(ctx, note); notifyErr != nil {
				s.logger.Error().Err(notifyErr).Msg("notify failed")
			}
		}
	}
	return nil
}

func methodOf(claimType string) string {
	if claimType == "" {
		return "claim"
	}
	return strings.ToLower(claimType)
}
