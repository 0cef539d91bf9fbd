// Package engine owns one session of the task lifecycle: the task store, the
// daily rollover, reminder evaluation and the timers that drive them.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/taskmaster/internal/analytics"
	"github.com/julianstephens/taskmaster/internal/clock"
	"github.com/julianstephens/taskmaster/internal/constants"
	"github.com/julianstephens/taskmaster/internal/logger"
	"github.com/julianstephens/taskmaster/internal/notifier"
	"github.com/julianstephens/taskmaster/internal/reminders"
	"github.com/julianstephens/taskmaster/internal/rollover"
	"github.com/julianstephens/taskmaster/internal/taskstore"
)

var ErrAlreadyRunning = errors.New("engine already running")

type Options struct {
	// ReminderInterval is how often rollover and reminders are evaluated.
	ReminderInterval time.Duration
	// RolloverSpec is a six-field cron spec (with seconds) for the midnight rollover.
	RolloverSpec string
}

func (o Options) withDefaults() Options {
	if o.ReminderInterval <= 0 {
		o.ReminderInterval = constants.DefaultReminderInterval
	}
	if o.RolloverSpec == "" {
		o.RolloverSpec = constants.DefaultRolloverSpec
	}
	return o
}

type Engine struct {
	store     *taskstore.Store
	clock     clock.Clock
	rollover  *rollover.Manager
	reminders *reminders.Scheduler
	stats     *analytics.Aggregator
	opts      Options

	mu      sync.Mutex
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	pending sync.WaitGroup
}

func New(store *taskstore.Store, clk clock.Clock, n notifier.Notifier, opts Options) *Engine {
	return &Engine{
		store:     store,
		clock:     clk,
		rollover:  rollover.New(store, clk),
		reminders: reminders.New(store, clk, n),
		stats:     analytics.New(store, clk),
		opts:      opts.withDefaults(),
	}
}

// TickResult reports what one evaluation cycle did.
type TickResult struct {
	Rollover rollover.Result
	Notices  []reminders.Notice
}

// Open prunes stale history and applies any pending rollover. Every session
// calls it on startup; reminder evaluation is left to Start.
func (e *Engine) Open(ctx context.Context) {
	if _, err := e.rollover.Prune(ctx); err != nil {
		logger.Warn("Startup history prune failed", "error", err)
	}
	e.checkRollover(ctx)
}

// Start opens the session, runs one evaluation cycle and schedules the
// periodic and midnight jobs. Jobs never overlap with themselves.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cron != nil {
		return ErrAlreadyRunning
	}

	e.Open(ctx)
	e.Tick(ctx)

	jobCtx, cancel := context.WithCancel(ctx)
	loc := e.clock.Now().Location()
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithSeconds(),
		cron.WithLogger(cronLogger{}),
		cron.WithChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{})),
	)

	interval := fmt.Sprintf("@every %s", e.opts.ReminderInterval)
	if _, err := c.AddFunc(interval, func() { e.Tick(jobCtx) }); err != nil {
		cancel()
		return fmt.Errorf("failed to schedule reminder evaluation: %w", err)
	}
	if _, err := c.AddFunc(e.opts.RolloverSpec, func() { e.checkRollover(jobCtx) }); err != nil {
		cancel()
		return fmt.Errorf("failed to schedule rollover %q: %w", e.opts.RolloverSpec, err)
	}

	c.Start()
	e.cron, e.ctx, e.cancel = c, jobCtx, cancel
	logger.Info("Engine started", "interval", e.opts.ReminderInterval, "rollover", e.opts.RolloverSpec, "location", loc)
	return nil
}

// Stop cancels all timers, waits for running jobs and pending announcements.
// It is safe to call on an engine that was never started.
func (e *Engine) Stop() {
	e.mu.Lock()
	c, cancel := e.cron, e.cancel
	e.cron, e.ctx, e.cancel = nil, nil, nil
	e.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
		cancel()
		logger.Info("Engine stopped")
	}
	e.pending.Wait()
}

// Tick runs one evaluation cycle: rollover first, then reminders.
func (e *Engine) Tick(ctx context.Context) TickResult {
	var res TickResult
	res.Rollover = e.checkRollover(ctx)
	res.Notices = e.reminders.Evaluate(ctx)
	return res
}

func (e *Engine) checkRollover(ctx context.Context) rollover.Result {
	res, err := e.rollover.Evaluate(ctx)
	if err != nil {
		logger.Error("Rollover failed", "error", err)
	}
	return res
}

func (e *Engine) baseContext() context.Context {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ctx != nil {
		return e.ctx
	}
	return context.Background()
}

// Store exposes the underlying task store.
func (e *Engine) Store() *taskstore.Store {
	return e.store
}

func (e *Engine) Clock() clock.Clock {
	return e.clock
}
