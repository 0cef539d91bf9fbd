// Package analytics derives completion statistics from the task store. Every
// result is computed from the current snapshot on each call.
package analytics

import (
	"math"
	"time"

	"github.com/julianstephens/taskmaster/internal/clock"
	"github.com/julianstephens/taskmaster/internal/constants"
	"github.com/julianstephens/taskmaster/internal/models"
	"github.com/julianstephens/taskmaster/internal/taskstore"
)

type Aggregator struct {
	store *taskstore.Store
	clock clock.Clock
}

func New(store *taskstore.Store, clk clock.Clock) *Aggregator {
	return &Aggregator{store: store, clock: clk}
}

// WeekStart returns midnight of the Sunday starting t's week.
func WeekStart(t time.Time) time.Time {
	day := clock.StartOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// CompletionStats returns one slot per day Sun..Sat of the current week.
// History entries win; today without history uses live daily-task counts;
// every other day is (0, 0).
func (a *Aggregator) CompletionStats() []models.DayStat {
	now := a.clock.Now()
	today := now.Format(constants.DateFormat)
	st := a.store.Snapshot()

	byDate := make(map[string]models.TaskHistory, len(st.History))
	for _, h := range st.History {
		byDate[h.Date] = h
	}

	start := WeekStart(now)
	stats := make([]models.DayStat, 7)
	for i := range stats {
		day := start.AddDate(0, 0, i)
		date := day.Format(constants.DateFormat)
		stat := models.DayStat{Name: day.Weekday().String()[:3], Date: date}

		if h, ok := byDate[date]; ok {
			stat.Completed, stat.Total = h.Completed, h.Total
		} else if date == today {
			stat.Completed = models.CountCompleted(st.Daily)
			stat.Total = len(st.Daily)
			if stat.Total < stat.Completed {
				stat.Total = stat.Completed
			}
		}
		stats[i] = stat
	}
	return stats
}

// WeeklyRate is the share of daily tasks completed this week, in [0, 1].
func (a *Aggregator) WeeklyRate() float64 {
	completed, total := 0, 0
	for _, s := range a.CompletionStats() {
		completed += s.Completed
		total += s.Total
	}
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total)
}

// ProjectProgress is the rounded percentage of completed project tasks.
func ProjectProgress(p models.Project) int {
	if len(p.Tasks) == 0 {
		return 0
	}
	done := 0
	for _, t := range p.Tasks {
		if t.Completed {
			done++
		}
	}
	return int(math.Round(float64(done) * 100 / float64(len(p.Tasks))))
}

// DaysRemaining counts whole days from now until the project's end date,
// never less than zero.
func DaysRemaining(p models.Project, now time.Time) int {
	y, m, d := p.EndDate.In(now.Location()).Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	days := clock.DaysBetween(end, now)
	if days < 0 {
		return 0
	}
	return days
}
