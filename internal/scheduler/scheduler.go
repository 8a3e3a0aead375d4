package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// TaskFunc is invoked on every interval tick.
type TaskFunc func(ctx context.Context) error

// Task is one named recurring job.
type Task struct {
	Name     string
	Interval time.Duration
	Run      TaskFunc

	running atomic.Bool
}

// Options tune scheduler behaviour.
type Options struct {
	StartupDelay time.Duration
}

// Scheduler drives recurring tasks until its context is cancelled. A
// task whose previous invocation is still in flight is skipped for that
// tick rather than overlapped.
type Scheduler struct {
	opts   Options
	logger zerolog.Logger
	tasks  []*Task
}

// New constructs a Scheduler instance.
func New(opts Options, logger zerolog.Logger) *Scheduler {
	return &Scheduler{opts: opts, logger: logger.With().Str("component", "scheduler").Logger()}
}

// Add registers a recurring task. Must be called before Run.
func (s *Scheduler) Add(name string, interval time.Duration, run TaskFunc) {
	if interval <= 0 {
		panic("scheduler task interval must be positive")
	}
	s.tasks = append(s.tasks, &Task{Name: name, Interval: interval, Run: run})
}

// Run blocks, driving every registered task until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.opts.StartupDelay > 0 {
		timer := time.NewTimer(s.opts.StartupDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	var wg sync.WaitGroup
	for _, task := range s.tasks {
		wg.Add(1)
		go func(t *Task) {
			defer wg.Done()
			s.runTask(ctx, t)
		}(task)
	}
	wg.Wait()
	return ctx.Err()
}

func (s *Scheduler) runTask(ctx context.Context, t *Task) {
	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()

	s.execute(ctx, t)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.execute(ctx, t)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, t *Task) {
	if !t.running.CompareAndSwap(false, true) {
		s.logger.Debug().Str("task", t.Name).Msg("previous run still in flight, skipping tick")
		return
	}
	defer t.running.Store(false)

	if err := t.Run(ctx); err != nil {
		s.logger.Error().Err(err).Str("task", t.Name).Msg("task execution failed")
	}
}
