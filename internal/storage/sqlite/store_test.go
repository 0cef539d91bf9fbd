package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/julianstephens/taskmaster/internal/storage"
)

func setupTestSQLiteStore(t *testing.T) (*Store, func()) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	store := NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	return store, func() { store.Close() }
}

func TestStoreImplementsAdapter(t *testing.T) {
	var _ storage.Adapter = (*Store)(nil)
}

func TestGetMissingKey(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	if _, err := store.Get(context.Background(), "dailyTasks"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetAndOverwrite(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()
	ctx := context.Background()

	err := store.Set(ctx,
		storage.Entry{Key: "dailyTasks", Value: []byte(`[]`)},
		storage.Entry{Key: "lastResetDate", Value: []byte(`"2024-05-01"`)},
	)
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := store.Set(ctx, storage.Entry{Key: "lastResetDate", Value: []byte(`"2024-05-02"`)}); err != nil {
		t.Fatalf("Set (overwrite) failed: %v", err)
	}

	got, err := store.Get(ctx, "lastResetDate")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `"2024-05-02"` {
		t.Errorf("got %s, want overwritten value", got)
	}

	got, err = store.Get(ctx, "dailyTasks")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `[]` {
		t.Errorf("got %s", got)
	}
}

func TestReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	first := NewStore(dbPath)
	if err := first.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := first.Set(ctx, storage.Entry{Key: "reminders", Value: []byte(`[{"id":"r1"}]`)}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	first.Close()

	second := NewStore(dbPath)
	if err := second.Init(); err != nil {
		t.Fatalf("re-Init failed: %v", err)
	}
	defer second.Close()

	got, err := second.Get(ctx, "reminders")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `[{"id":"r1"}]` {
		t.Errorf("got %s", got)
	}
	if second.GetConfigPath() != dbPath {
		t.Errorf("GetConfigPath() = %s", second.GetConfigPath())
	}
}

func TestSetCancelledContext(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.Set(ctx, storage.Entry{Key: "a", Value: []byte("1")}); err == nil {
		t.Error("expected error for cancelled context")
	}
}
