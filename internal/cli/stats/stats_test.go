package stats

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/taskmaster/internal/cli"
	"github.com/julianstephens/taskmaster/internal/clock"
	"github.com/julianstephens/taskmaster/internal/config"
	"github.com/julianstephens/taskmaster/internal/engine"
	"github.com/julianstephens/taskmaster/internal/models"
	"github.com/julianstephens/taskmaster/internal/notifier"
	"github.com/julianstephens/taskmaster/internal/storage"
	"github.com/julianstephens/taskmaster/internal/taskstore"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer, *clock.Manual) {
	t.Helper()
	// Wednesday
	clk := clock.NewManual(time.Date(2024, 5, 15, 9, 0, 0, 0, time.UTC))
	store := taskstore.Open(context.Background(), storage.NewMemory(), clk)
	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Ctx:    context.Background(),
		Config: &config.Config{},
		Out:    out,
		Engine: engine.New(store, clk, &notifier.Recorder{}, engine.Options{}),
	}
	t.Cleanup(func() { _ = ctx.Close() })
	return ctx, out, clk
}

func TestBar(t *testing.T) {
	tests := []struct {
		completed, total int
		filled           int
	}{
		{0, 0, 0},
		{0, 4, 0},
		{1, 2, 5},
		{2, 2, 10},
		{3, 2, 10},
	}
	for _, tt := range tests {
		bar := Bar(tt.completed, tt.total, 10)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("Bar(%d, %d) filled = %d, want %d", tt.completed, tt.total, got, tt.filled)
		}
		if got := strings.Count(bar, "█") + strings.Count(bar, "░"); got != 10 {
			t.Errorf("Bar(%d, %d) width = %d", tt.completed, tt.total, got)
		}
	}
}

func TestStatsAndHistory(t *testing.T) {
	ctx, out, clk := setupTestContext(t)
	e := ctx.Engine

	a, _ := e.AddDailyTask(ctx.Ctx, models.Task{Title: "a"})
	_, _ = e.AddDailyTask(ctx.Ctx, models.Task{Title: "b"})
	_ = e.ToggleCompletion(ctx.Ctx, a.ID, models.KindDaily)

	out.Reset()
	if err := (&HistoryCmd{}).Run(ctx); err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out.String(), "No history yet") {
		t.Errorf("history output = %q", out.String())
	}

	clk.Set(time.Date(2024, 5, 16, 8, 0, 0, 0, time.UTC))

	out.Reset()
	if err := (&StatsCmd{}).Run(ctx); err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Sun", "Wed", "Thu", "Sat", "1/2", "0/2", "Weekly completion: 25%"} {
		if !strings.Contains(got, want) {
			t.Errorf("stats output missing %q:\n%s", want, got)
		}
	}

	out.Reset()
	if err := (&HistoryCmd{}).Run(ctx); err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out.String(), "2024-05-15   1/2") {
		t.Errorf("history output = %q", out.String())
	}
}

func TestReset(t *testing.T) {
	ctx, out, _ := setupTestContext(t)
	e := ctx.Engine

	if err := (&ResetCmd{Yes: true}).Run(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if !strings.Contains(out.String(), "No completed") {
		t.Errorf("output = %q", out.String())
	}

	a, _ := e.AddDailyTask(ctx.Ctx, models.Task{Title: "a"})
	_ = e.ToggleCompletion(ctx.Ctx, a.ID, models.KindDaily)

	if err := (&ResetCmd{Yes: true}).Run(ctx); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if models.CountCompleted(e.DailyTasks(ctx.Ctx)) != 0 {
		t.Error("tasks still completed after reset")
	}
}
