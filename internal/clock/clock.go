// Package clock supplies wall-clock time to the engine. Everything that reasons
// about "today" or "now" takes a Clock so tests can pin or advance time.
package clock

import (
	"sync"
	"time"

	"github.com/julianstephens/taskmaster/internal/constants"
)

// Clock returns the current instant in the clock's local time zone.
type Clock interface {
	Now() time.Time
}

// System reads the real time in Location (time.Local when nil).
type System struct {
	Location *time.Location
}

// NewSystem returns a system clock for the given IANA zone name. "Local" and ""
// select the process time zone.
func NewSystem(timezone string) (*System, error) {
	if timezone == "" || timezone == "Local" {
		return &System{Location: time.Local}, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &System{Location: loc}, nil
}

func (s *System) Now() time.Time {
	if s == nil || s.Location == nil {
		return time.Now()
	}
	return time.Now().In(s.Location)
}

// Manual is a settable clock for tests.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

func NewManual(now time.Time) *Manual {
	return &Manual{now: now}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// Today formats the clock's current calendar date as YYYY-MM-DD.
func Today(c Clock) string {
	return c.Now().Format(constants.DateFormat)
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// HoursBetween returns the number of whole hours from start to end, truncated
// toward zero. Negative when end is before start.
func HoursBetween(end, start time.Time) int {
	return int(end.Sub(start) / time.Hour)
}

// DaysBetween returns the number of full days from start to end. Days are
// counted on the calendar in end's location, and a trailing partial day is not
// counted, so 6 days 23 hours is 6. Negative when end is before start.
func DaysBetween(end, start time.Time) int {
	sign := 1
	if end.Before(start) {
		end, start = start, end
		sign = -1
	}
	start = start.In(end.Location())

	days := calendarDays(end, start)
	if start.AddDate(0, 0, days).After(end) {
		days--
	}
	return sign * days
}

// calendarDays is the difference between the calendar dates of a and b.
func calendarDays(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ua.Sub(ub).Hours() / 24)
}
