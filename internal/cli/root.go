package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/taskmaster/internal/backup"
	"github.com/julianstephens/taskmaster/internal/clock"
	"github.com/julianstephens/taskmaster/internal/config"
	"github.com/julianstephens/taskmaster/internal/constants"
	"github.com/julianstephens/taskmaster/internal/engine"
	"github.com/julianstephens/taskmaster/internal/logger"
	"github.com/julianstephens/taskmaster/internal/models"
	"github.com/julianstephens/taskmaster/internal/notifier"
	"github.com/julianstephens/taskmaster/internal/storage"
	"github.com/julianstephens/taskmaster/internal/storage/postgres"
	"github.com/julianstephens/taskmaster/internal/storage/sqlite"
	"github.com/julianstephens/taskmaster/internal/taskstore"
)

// Store is a storage backend that can be initialized in place.
type Store interface {
	storage.Adapter
	Init() error
	GetConfigPath() string
}

// Context is handed to every command's Run method.
type Context struct {
	Ctx    context.Context
	Config *config.Config
	Out    io.Writer

	// Store and Engine are opened on first use by Session. Tests may set them
	// directly.
	Store    Store
	Engine   *engine.Engine
	Notifier *notifier.Gate
}

// ConfirmFunc asks the user a yes/no question. Swapped in tests.
var ConfirmFunc = func(title, description string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		WithTheme(huh.ThemeDracula()).
		Run()
	return ok, err
}

// OpenStorage selects PostgreSQL for postgres:// DSNs and sqlite otherwise.
// Connection strings with embedded passwords are rejected.
func OpenStorage(dsn string) (Store, error) {
	if storage.IsPostgresDSN(dsn) {
		if err := postgres.ValidateConnString(dsn); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w; store the connection string with 'taskmaster secret set %s' or use .pgpass/PGPASSWORD instead",
					err, constants.DefaultKeyringUser)
			}
			return nil, err
		}
		return postgres.New(dsn), nil
	}
	return sqlite.NewStore(dsn), nil
}

// IsSQLite reports whether the configured backend is a local sqlite file.
func (c *Context) IsSQLite() bool {
	return !storage.IsPostgresDSN(c.Config.Storage.DSN)
}

// Clock builds the configured clock.
func (c *Context) Clock() (clock.Clock, error) {
	tz := ""
	if c.Config != nil {
		tz = c.Config.Timezone
	}
	return clock.NewSystem(tz)
}

// Session opens storage, loads the task store and builds an engine without
// starting its timers. Stale history is pruned and a pending rollover applied
// before the engine is returned.
func (c *Context) Session() (*engine.Engine, error) {
	if c.Engine != nil {
		return c.Engine, nil
	}

	clk, err := c.Clock()
	if err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}

	if c.Store == nil {
		store, err := OpenStorage(c.Config.Storage.DSN)
		if err != nil {
			return nil, err
		}
		if err := store.Init(); err != nil {
			return nil, fmt.Errorf("failed to open storage: %w", err)
		}
		c.Store = store
	}

	if c.Notifier == nil {
		n, err := notifier.New(c.Config.NotifierSettings())
		if err != nil {
			return nil, fmt.Errorf("failed to set up notifications: %w", err)
		}
		c.Notifier = n
	}

	ts := taskstore.Open(c.Ctx, c.Store, clk)
	c.Engine = engine.New(ts, clk, c.Notifier, engine.Options{
		ReminderInterval: c.Config.Scheduler.ReminderInterval,
		RolloverSpec:     c.Config.Scheduler.RolloverSpec,
	})
	c.Engine.Open(c.Ctx)
	return c.Engine, nil
}

// Close waits for pending notifications and closes storage.
func (c *Context) Close() error {
	if c.Engine != nil {
		c.Engine.Stop()
		c.Engine = nil
	}
	if c.Store != nil {
		err := c.Store.Close()
		c.Store = nil
		return err
	}
	return nil
}

// PerformAutomaticBackup backs up a sqlite database and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if !c.IsSQLite() {
		return
	}
	mgr := backup.NewManager(c.Config.Storage.DSN)
	if _, err := mgr.Create(c.Ctx); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Confirm asks before a destructive action unless yes is set.
func (c *Context) Confirm(yes bool, title, description string) (bool, error) {
	if yes {
		return true, nil
	}
	return ConfirmFunc(title, description)
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.writer(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.writer(), args...)
}

func (c *Context) writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// ParseDay accepts "today", "tomorrow", "+N" (days from today) or YYYY-MM-DD
// and returns local midnight of that day.
func ParseDay(s string, now time.Time) (models.Date, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	today := clock.StartOfDay(now)

	switch {
	case s == "" || s == "today":
		return models.NewDate(today), nil
	case s == "tomorrow":
		return models.NewDate(today.AddDate(0, 0, 1)), nil
	case strings.HasPrefix(s, "+"):
		var n int
		if _, err := fmt.Sscanf(s, "+%d", &n); err != nil || n < 0 {
			return models.Date{}, fmt.Errorf("%w: invalid day offset %q", models.ErrInvalid, s)
		}
		return models.NewDate(today.AddDate(0, 0, n)), nil
	}

	t, err := time.ParseInLocation(constants.DateFormat, s, now.Location())
	if err != nil {
		return models.Date{}, fmt.Errorf("%w: invalid date %q (expected YYYY-MM-DD, today, tomorrow or +N)", models.ErrInvalid, s)
	}
	return models.NewDate(t), nil
}

// Truncate shortens s to n runes with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// ShortID is the prefix of an id shown in listings.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Checkbox renders a completion marker.
func Checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// ResolveID matches a full id or a unique prefix of one among ids.
func ResolveID(prefix string, ids []string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("%w: id cannot be empty", models.ErrInvalid)
	}
	var match string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", fmt.Errorf("%w: id prefix %q is ambiguous", models.ErrInvalid, prefix)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("%s: %w", prefix, taskstore.ErrNotFound)
	}
	return match, nil
}
