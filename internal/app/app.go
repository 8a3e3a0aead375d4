package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"log-power-tracker/internal/alerting"
	"log-power-tracker/internal/config"
	"log-power-tracker/internal/fetcher"
	"log-power-tracker/internal/kv"
	"log-power-tracker/internal/scheduler"
	"log-power-tracker/internal/service"
	"log-power-tracker/internal/store"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger

	// memKV backs the memory backend so every command issued through
	// the same App handle shares one in-process dataset.
	memKV *kv.Memory
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newFetcher() *fetcher.Chzzk {
	return fetcher.NewChzzk(fetcher.ChzzkOptions{
		BaseURL:   a.Config.Chzzk.BaseURL,
		Timeout:   a.Config.Chzzk.RequestTimeout,
		UserAgent: a.Config.Chzzk.UserAgent,
	}, a.Logger)
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}
	return nil
}

func (a *App) openKV(ctx context.Context) (kv.Store, error) {
	switch a.Config.Storage.Backend {
	case "postgres":
		pool, err := kv.NewPool(ctx, a.Config.Storage.Postgres)
		if err != nil {
			return nil, err
		}
		return kv.NewPostgres(ctx, pool)
	case "redis":
		return kv.NewRedis(ctx, a.Config.Storage.Redis)
	case "memory", "":
		if a.memKV == nil {
			a.Logger.Warn().Msg("memory backend selected; data will not survive the process")
			a.memKV = kv.NewMemory()
		}
		return a.memKV, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", a.Config.Storage.Backend)
	}
}

func (a *App) openStore(ctx context.Context) (*store.Store, func(), error) {
	backend, err := a.openKV(ctx)
	if err != nil {
		return nil, nil, err
	}
	st := store.New(store.Options{KV: backend, Logger: a.Logger})
	return st, backend.Close, nil
}

// Run executes the long-running polling service.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	sched := scheduler.New(scheduler.Options{
		StartupDelay: a.Config.Scheduler.StartupDelay,
	}, a.Logger)

	chzzk := a.newFetcher()
	notifier := a.newNotifier()

	svc := service.New(a.Config, sched, chzzk, chzzk, st, notifier, a.Logger)

	a.Logger.Info().Strs("channels", a.Config.Chzzk.Channels).Msg("starting tracking service")
	err = svc.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		a.Logger.Error().Err(err).Msg("service terminated with error")
		return err
	}

	a.Logger.Info().Msg("tracking service stopped")
	return nil
}

// Reset wipes every tracker document from the backend.
func (a *App) Reset(ctx context.Context) error {
	st, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := st.Reset(ctx); err != nil {
		return err
	}
	a.Logger.Info().Msg("tracker state cleared")
	return nil
}

// ExportOptions hold parameters for exporting a channel's series.
type ExportOptions struct {
	ChannelID string
	Range     time.Duration
	Mode      string
	CSVPath   string
	PNGPath   string
	SVGPath   string
	MaxPoints int
}

// BalancesOptions configure the balances command.
type BalancesOptions struct {
	MinAmount int64
	Record    bool
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
}

// StatsOptions configure the stats command.
type StatsOptions struct {
	ChannelID string
	Range     time.Duration
}

// SimulateOptions configure the simulate-claim command.
type SimulateOptions struct {
	ChannelID string
	Amount    int64
	Method    string
}
