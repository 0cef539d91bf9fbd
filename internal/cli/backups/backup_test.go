package backups

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/taskmaster/internal/cli"
	"github.com/julianstephens/taskmaster/internal/config"
	"github.com/julianstephens/taskmaster/internal/constants"
	"github.com/julianstephens/taskmaster/internal/storage"
	"github.com/julianstephens/taskmaster/internal/storage/sqlite"
)

func writeValue(t *testing.T, dbPath, value string) {
	t.Helper()
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	defer store.Close()
	err := store.Set(context.Background(), storage.Entry{Key: constants.KeyLastResetDate, Value: []byte(value)})
	if err != nil {
		t.Fatalf("failed to write value: %v", err)
	}
}

func readValue(t *testing.T, dbPath string) string {
	t.Helper()
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()
	v, err := store.Get(context.Background(), constants.KeyLastResetDate)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	return string(v)
}

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "taskmaster.db")
	writeValue(t, dbPath, `"2024-05-10"`)

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Ctx:    context.Background(),
		Config: &config.Config{Storage: config.StorageConfig{DSN: dbPath}},
		Out:    out,
	}
	t.Cleanup(func() { _ = ctx.Close() })
	return ctx, out, dbPath
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, out, _ := setupTestContext(t)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No backups found.") {
		t.Errorf("list output = %q", out.String())
	}

	out.Reset()
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Backup created: taskmaster-") {
		t.Errorf("create output = %q", out.String())
	}

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "Available backups (1 total") {
		t.Errorf("list output = %q", out.String())
	}
}

func TestBackupRestore(t *testing.T) {
	ctx, out, dbPath := setupTestContext(t)

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	name := strings.TrimSpace(strings.TrimPrefix(out.String(), "✓ Backup created:"))

	writeValue(t, dbPath, `"2024-05-11"`)

	out.Reset()
	if err := (&BackupRestoreCmd{BackupFile: name, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "✓ Database restored successfully!") {
		t.Errorf("restore output = %q", out.String())
	}
	if got := readValue(t, dbPath); got != `"2024-05-10"` {
		t.Errorf("restored value = %s, want the backed up one", got)
	}
}

func TestBackupRestoreCancelled(t *testing.T) {
	ctx, out, dbPath := setupTestContext(t)
	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	name := strings.TrimSpace(strings.TrimPrefix(out.String(), "✓ Backup created:"))
	writeValue(t, dbPath, `"2024-05-11"`)

	orig := cli.ConfirmFunc
	cli.ConfirmFunc = func(string, string) (bool, error) { return false, nil }
	t.Cleanup(func() { cli.ConfirmFunc = orig })

	out.Reset()
	if err := (&BackupRestoreCmd{BackupFile: name}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "Restore cancelled.") {
		t.Errorf("output = %q", out.String())
	}
	if got := readValue(t, dbPath); got != `"2024-05-11"` {
		t.Errorf("value = %s, database should be untouched", got)
	}
}

func TestBackupRestoreMissingFile(t *testing.T) {
	ctx, _, _ := setupTestContext(t)
	err := (&BackupRestoreCmd{BackupFile: "taskmaster-20200101-000000.db", Yes: true}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "backup file not found") {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestBackupRequiresSQLite(t *testing.T) {
	ctx := &cli.Context{
		Ctx:    context.Background(),
		Config: &config.Config{Storage: config.StorageConfig{DSN: "postgres://localhost/db"}},
		Out:    &bytes.Buffer{},
	}
	if err := (&BackupCreateCmd{}).Run(ctx); !errors.Is(err, errNotSQLite) {
		t.Errorf("err = %v, want errNotSQLite", err)
	}
}
