// Package notifier delivers local notifications through a pluggable backend.
// Delivery is best-effort: callers log failures and move on.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/julianstephens/taskmaster/internal/constants"
	"github.com/julianstephens/taskmaster/internal/logger"
)

// ErrPermissionDenied is returned when notifications are disabled.
var ErrPermissionDenied = errors.New("notification permission denied")

type Notifier interface {
	Deliver(ctx context.Context, title, body string) error
}

// Func adapts a plain function to Notifier.
type Func func(ctx context.Context, title, body string) error

func (f Func) Deliver(ctx context.Context, title, body string) error {
	return f(ctx, title, body)
}

// Config selects and tunes the backend built by New.
type Config struct {
	Backend        string
	Enabled        bool
	RatePerMinute  int
	TelegramToken  string
	TelegramChatID int64
	// TelegramEndpoint overrides the Bot API endpoint format string.
	TelegramEndpoint string
}

// New builds the configured backend wrapped in a Throttle and a Gate. A
// telegram backend that cannot be built falls back to Log so task operations
// keep working without notifications.
func New(cfg Config) (*Gate, error) {
	var backend Notifier
	enabled := cfg.Enabled

	switch cfg.Backend {
	case constants.NotifierTray, "":
		backend = NewTray()
	case constants.NotifierTelegram:
		endpoint := cfg.TelegramEndpoint
		if endpoint == "" {
			endpoint = tgbotapi.APIEndpoint
		}
		tg, err := NewTelegramWithEndpoint(cfg.TelegramToken, endpoint, cfg.TelegramChatID)
		if err != nil {
			logger.Warn("Telegram notifier unavailable, logging notifications instead", "error", err)
			backend = Log{}
			break
		}
		backend = tg
	case constants.NotifierLog:
		backend = Log{}
	case constants.NotifierNone:
		backend = Log{}
		enabled = false
	default:
		return nil, fmt.Errorf("unknown notifier backend %q", cfg.Backend)
	}

	perMinute := cfg.RatePerMinute
	if perMinute <= 0 {
		perMinute = constants.NotifyRatePerMinute
	}
	return NewGate(NewThrottle(backend, perMinute), enabled), nil
}

// Log writes notifications to the application log instead of showing them.
type Log struct{}

func (Log) Deliver(ctx context.Context, title, body string) error {
	logger.Info("Notification", "title", title, "body", body)
	return nil
}

// Gate refuses delivery while notifications are disabled.
type Gate struct {
	next    Notifier
	enabled atomic.Bool
}

func NewGate(next Notifier, enabled bool) *Gate {
	g := &Gate{next: next}
	g.enabled.Store(enabled)
	return g
}

func (g *Gate) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *Gate) Enabled() bool {
	return g.enabled.Load()
}

func (g *Gate) Deliver(ctx context.Context, title, body string) error {
	if !g.enabled.Load() {
		return ErrPermissionDenied
	}
	return g.next.Deliver(ctx, title, body)
}

// Throttle spaces out deliveries to at most perMinute per minute, allowing an
// initial burst of the same size. Deliver blocks until a token is available or
// ctx is done.
type Throttle struct {
	next    Notifier
	limiter *rate.Limiter
}

func NewThrottle(next Notifier, perMinute int) *Throttle {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &Throttle{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
	}
}

func (t *Throttle) Deliver(ctx context.Context, title, body string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("notification throttled: %w", err)
	}
	return t.next.Deliver(ctx, title, body)
}

// Notice is one delivered notification.
type Notice struct {
	Title string
	Body  string
}

// Recorder keeps every notification it receives. Err, when set, is returned
// from Deliver after recording.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
	Err     error
}

func (r *Recorder) Deliver(ctx context.Context, title, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, Notice{Title: title, Body: body})
	return r.Err
}

// Notices returns a copy of what has been delivered so far.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = nil
}
