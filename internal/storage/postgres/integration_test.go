package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/julianstephens/taskmaster/internal/storage"
)

func setupIntegrationStore(t *testing.T) *Store {
	connStr := os.Getenv("TASKMASTER_TEST_POSTGRES")
	if connStr == "" {
		t.Skip("TASKMASTER_TEST_POSTGRES not set, skipping PostgreSQL integration test")
	}

	store := New(connStr)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() {
		store.db.Exec("DELETE FROM kv WHERE key LIKE 'it_%'")
		store.Close()
	})
	return store
}

func TestIntegrationGetSet(t *testing.T) {
	store := setupIntegrationStore(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, "it_missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	err := store.Set(ctx,
		storage.Entry{Key: "it_a", Value: []byte(`[]`)},
		storage.Entry{Key: "it_b", Value: []byte(`"2024-05-01"`)},
	)
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(ctx, storage.Entry{Key: "it_b", Value: []byte(`"2024-05-02"`)}); err != nil {
		t.Fatalf("Set (overwrite) failed: %v", err)
	}

	got, err := store.Get(ctx, "it_b")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `"2024-05-02"` {
		t.Errorf("got %s", got)
	}
}
