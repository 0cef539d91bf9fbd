package models

import (
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/taskmaster/internal/constants"
)

type Reminder struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        Date   `json:"date"`
	Time        string `json:"time"` // HH:MM format
	Description string `json:"description"`
}

func (r *Reminder) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return invalid("reminder title cannot be empty")
	}
	if r.Date.IsZero() || strings.TrimSpace(r.Time) == "" {
		return invalid("reminder requires both a date and a time")
	}
	if _, err := time.Parse(constants.TimeFormat, r.Time); err != nil {
		return invalid("invalid reminder time %q (expected HH:MM)", r.Time)
	}
	return nil
}

// Deadline combines the reminder's calendar day in loc with its HH:MM time.
// Malformed records yield Epoch.
func (r *Reminder) Deadline(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	if r.Date.IsZero() {
		return Epoch
	}
	hm, err := time.Parse(constants.TimeFormat, strings.TrimSpace(r.Time))
	if err != nil {
		return Epoch
	}
	y, m, d := r.Date.In(loc).Date()
	return time.Date(y, m, d, hm.Hour(), hm.Minute(), 0, 0, loc)
}

// ReminderFilter selects reminders relative to the start of today.
type ReminderFilter string

const (
	FilterAll      ReminderFilter = "all"
	FilterUpcoming ReminderFilter = "upcoming"
	FilterPast     ReminderFilter = "past"
)

// ParseReminderFilter defaults to FilterAll for empty input.
func ParseReminderFilter(s string) (ReminderFilter, error) {
	switch ReminderFilter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterUpcoming:
		return FilterUpcoming, nil
	case FilterPast:
		return FilterPast, nil
	}
	return "", invalid("unknown reminder filter %q (expected all, upcoming or past)", s)
}

// FilterReminders returns the reminders matching filter, sorted by deadline.
// Upcoming means the deadline is after the start of now's day, past means it
// is before it.
func FilterReminders(reminders []Reminder, filter ReminderFilter, now time.Time) []Reminder {
	loc := now.Location()
	y, m, d := now.Date()
	startOfToday := time.Date(y, m, d, 0, 0, 0, 0, loc)

	out := make([]Reminder, 0, len(reminders))
	for _, r := range reminders {
		deadline := r.Deadline(loc)
		switch filter {
		case FilterUpcoming:
			if !deadline.After(startOfToday) {
				continue
			}
		case FilterPast:
			if !deadline.Before(startOfToday) {
				continue
			}
		}
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Deadline(loc).Before(out[j].Deadline(loc))
	})
	return out
}

// ReminderGroup holds the reminders falling on one calendar date.
type ReminderGroup struct {
	Date      string     `json:"date"`
	Reminders []Reminder `json:"reminders"`
}

// GroupRemindersByDate groups already sorted reminders by calendar date,
// keeping their order.
func GroupRemindersByDate(reminders []Reminder, loc *time.Location) []ReminderGroup {
	var groups []ReminderGroup
	for _, r := range reminders {
		day := r.Date.Day(loc)
		if n := len(groups); n > 0 && groups[n-1].Date == day {
			groups[n-1].Reminders = append(groups[n-1].Reminders, r)
			continue
		}
		groups = append(groups, ReminderGroup{Date: day, Reminders: []Reminder{r}})
	}
	return groups
}
