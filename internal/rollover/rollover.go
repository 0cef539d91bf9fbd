// Package rollover moves the daily task list from one calendar day to the
// next: it snapshots yesterday's completion into history, resets the tasks
// and prunes history past the retention window.
package rollover

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/julianstephens/taskmaster/internal/clock"
	"github.com/julianstephens/taskmaster/internal/constants"
	"github.com/julianstephens/taskmaster/internal/logger"
	"github.com/julianstephens/taskmaster/internal/models"
	"github.com/julianstephens/taskmaster/internal/taskstore"
)

type State int32

const (
	StateCurrentDay State = iota
	StateTransitioning
)

func (s State) String() string {
	if s == StateTransitioning {
		return "transitioning"
	}
	return "current-day"
}

// Result describes what one evaluation did.
type Result struct {
	RolledOver bool
	From       string
	To         string
	Snapshot   *models.TaskHistory
	Pruned     int
}

type Manager struct {
	store *taskstore.Store
	clock clock.Clock
	state atomic.Int32
}

func New(store *taskstore.Store, clk clock.Clock) *Manager {
	return &Manager{store: store, clock: clk}
}

func (m *Manager) State() State {
	return State(m.state.Load())
}

// cutoff is the oldest history date that is kept.
func cutoff(today time.Time) string {
	return today.AddDate(0, 0, -constants.HistoryRetentionDays).Format(constants.DateFormat)
}

// Evaluate performs a rollover if the clock's date differs from the stored
// last reset date. Running it again on the same day is a no-op. A gap of
// several days produces a single snapshot for the last known date.
func (m *Manager) Evaluate(ctx context.Context) (Result, error) {
	now := m.clock.Now()
	today := now.Format(constants.DateFormat)

	if m.store.LastResetDate() == today {
		return Result{}, nil
	}

	m.state.Store(int32(StateTransitioning))
	defer m.state.Store(int32(StateCurrentDay))

	var res Result
	err := m.store.Update(ctx, func(st *taskstore.State) error {
		// re-check under the writer lock; another caller may have won
		if st.LastResetDate == today {
			return nil
		}
		res = Result{RolledOver: true, From: st.LastResetDate, To: today}

		if len(st.Daily) > 0 {
			h := models.TaskHistory{
				Date:      st.LastResetDate,
				Completed: models.CountCompleted(st.Daily),
				Total:     len(st.Daily),
			}
			st.UpsertHistory(h)
			res.Snapshot = &h
		}

		for i := range st.Daily {
			st.Daily[i].Completed = false
			d := models.NewDate(now)
			st.Daily[i].Date = &d
		}

		st.LastResetDate = today
		res.Pruned = st.PruneHistory(cutoff(now))
		return nil
	}, constants.KeyTaskHistory, constants.KeyDailyTasks, constants.KeyLastResetDate)
	if err != nil {
		return Result{}, err
	}

	if res.RolledOver {
		logger.Info("Rolled over daily tasks", "from", res.From, "to", res.To, "pruned", res.Pruned)
	}
	return res, nil
}

// Prune removes history entries older than the retention window. It returns
// the number of entries removed.
func (m *Manager) Prune(ctx context.Context) (int, error) {
	limit := cutoff(m.clock.Now())

	stale := false
	for _, h := range m.store.Snapshot().History {
		if h.Date < limit {
			stale = true
			break
		}
	}
	if !stale {
		return 0, nil
	}

	removed := 0
	err := m.store.Update(ctx, func(st *taskstore.State) error {
		removed = st.PruneHistory(limit)
		return nil
	}, constants.KeyTaskHistory)
	if err != nil {
		return 0, err
	}
	logger.Debug("Pruned task history", "removed", removed, "cutoff", limit)
	return removed, nil
}
