package system

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/julianstephens/taskmaster/internal/backup"
	"github.com/julianstephens/taskmaster/internal/cli"
	"github.com/julianstephens/taskmaster/internal/clock"
	"github.com/julianstephens/taskmaster/internal/constants"
	"github.com/julianstephens/taskmaster/internal/keyring"
	"github.com/julianstephens/taskmaster/internal/migration"
	"github.com/julianstephens/taskmaster/internal/models"
	"github.com/julianstephens/taskmaster/internal/notifier"
	"github.com/julianstephens/taskmaster/internal/storage"
	"github.com/julianstephens/taskmaster/internal/storage/sqlite"
	"github.com/julianstephens/taskmaster/migrations"
)

// Seams for checks that depend on the host.
var (
	keyringAvailableFunc = keyring.IsAvailable
	trayRunningFunc      = notifier.TrayRunning
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	fail := func(name string, err error) {
		ctx.Printf("❌ %s: FAIL\n", name)
		ctx.Printf("   Error: %v\n", err)
		hasError = true
	}
	warn := func(name string, err error) {
		ctx.Printf("⚠ %s: WARNING\n", name)
		ctx.Printf("   %v\n", err)
	}
	pass := func(name string) {
		ctx.Printf("✓ %s: OK\n", name)
	}
	skip := func(name string) {
		ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", name)
	}

	if ctx.Config.File != "" {
		ctx.Printf("ℹ Config file: %s\n", ctx.Config.File)
	} else {
		ctx.Println("ℹ Config file: none (using defaults and environment)")
	}

	dbReachable := false
	if err := checkDBReachable(ctx); err != nil {
		fail("Database reachable", err)
	} else {
		pass("Database reachable")
		dbReachable = true
	}

	if dbReachable {
		if err := checkSchemaVersion(ctx); err != nil {
			fail("Schema version", err)
		} else {
			pass("Schema version")
		}
		if err := checkStoredData(ctx); err != nil {
			fail("Stored data", err)
		} else {
			pass("Stored data")
		}
		if err := checkRecords(ctx); err != nil {
			warn("Record validation", err)
		} else {
			pass("Record validation")
		}
	} else {
		skip("Schema version")
		skip("Stored data")
		skip("Record validation")
	}

	if ctx.IsSQLite() {
		if err := checkBackupsPresent(ctx); err != nil {
			warn("Backups present", err)
		} else {
			pass("Backups present")
		}
	}

	if err := checkClockTimezone(ctx); err != nil {
		fail("Clock/timezone", err)
	} else {
		pass("Clock/timezone")
	}

	if err := checkNotifier(ctx); err != nil {
		warn("Notifications", err)
	} else {
		pass("Notifications")
	}

	if !keyringAvailableFunc() {
		warn("OS keyring", errors.New("keyring unavailable; secrets must come from config or environment"))
	} else {
		pass("OS keyring")
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if ctx.Store != nil {
		return nil
	}
	store, err := cli.OpenStorage(ctx.Config.Storage.DSN)
	if err != nil {
		return err
	}
	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	ctx.Store = store
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		// postgres migrations are validated by Init
		return nil
	}
	db := sqliteStore.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	sub, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return err
	}
	runner, err := migration.NewRunner(db, sub, migration.DriverSQLite)
	if err != nil {
		return err
	}
	if err := runner.ValidateVersion(); err != nil {
		return err
	}

	current, err := runner.GetCurrentVersion()
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}
	latest, err := runner.GetLatestVersion()
	if err != nil {
		return fmt.Errorf("failed to get latest schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

// checkStoredData confirms every key that exists holds valid JSON.
func checkStoredData(ctx *cli.Context) error {
	var bad []string
	for _, key := range constants.AllKeys {
		raw, err := ctx.Store.Get(ctx.Ctx, key)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		if !json.Valid(raw) {
			bad = append(bad, key)
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("unparsable keys %v will load as empty", bad)
	}
	return nil
}

// checkRecords counts records that load but would be rejected on insert.
func checkRecords(ctx *cli.Context) error {
	var reminders []models.Reminder
	var history []models.TaskHistory
	readJSON(ctx, constants.KeyReminders, &reminders)
	readJSON(ctx, constants.KeyTaskHistory, &history)

	badReminders := 0
	for i := range reminders {
		if reminders[i].Validate() != nil {
			badReminders++
		}
	}
	badHistory := 0
	for i := range history {
		if history[i].Validate() != nil {
			badHistory++
		}
	}
	if badReminders+badHistory > 0 {
		return fmt.Errorf("%d malformed reminder(s) and %d malformed history entr(ies); they are ignored at runtime",
			badReminders, badHistory)
	}
	return nil
}

func readJSON(ctx *cli.Context, key string, v interface{}) {
	raw, err := ctx.Store.Get(ctx.Ctx, key)
	if err != nil {
		return
	}
	_ = json.Unmarshal(raw, v)
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := backup.NewManager(ctx.Config.Storage.DSN)
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'taskmaster backup create'")
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	clk, err := clock.NewSystem(ctx.Config.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", ctx.Config.Timezone, err)
	}
	now := clk.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkNotifier(ctx *cli.Context) error {
	n := ctx.Config.Notifier
	if !n.Enabled || n.Backend == constants.NotifierNone {
		return errors.New("notifications are disabled")
	}
	switch n.Backend {
	case constants.NotifierTray:
		if err := trayRunningFunc(); err != nil {
			return fmt.Errorf("tray app not reachable: %w", err)
		}
	case constants.NotifierTelegram:
		if ctx.Config.Telegram.Token == "" {
			return fmt.Errorf("telegram token missing; run 'taskmaster secret set %s'", keyring.SecretTelegram)
		}
		if ctx.Config.Telegram.ChatID == 0 {
			return errors.New("telegram.chat_id is not set")
		}
	}
	return nil
}
