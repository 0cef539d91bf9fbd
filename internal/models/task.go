package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/taskmaster/internal/constants"
)

// Kind names one of the three task collections.
type Kind string

const (
	KindDaily   Kind = "daily"
	KindPlanned Kind = "planned"
	KindFree    Kind = "free"
)

// ParseKind converts user input into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindDaily:
		return KindDaily, nil
	case KindPlanned:
		return KindPlanned, nil
	case KindFree:
		return KindFree, nil
	}
	return "", invalid("unknown task kind %q (expected daily, planned or free)", s)
}

type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Completed   bool   `json:"completed"`
	Date        *Date  `json:"date,omitempty"`
	StartTime   string `json:"startTime,omitempty"` // HH:MM or h:mm AM/PM
	EndTime     string `json:"endTime,omitempty"`
	Description string `json:"description,omitempty"`
}

func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return invalid("task title cannot be empty")
	}
	return nil
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	if t.Date != nil {
		d := *t.Date
		t.Date = &d
	}
	return t
}

// PlannedTask is a task scheduled into a week of a project.
type PlannedTask struct {
	Task
	Week int `json:"week"` // 1-based

	// ProjectTitle is a copy of the owning project's title taken when the task
	// was created. It is not updated when the project is renamed.
	ProjectTitle string `json:"projectTitle"`
}

func (p *PlannedTask) Validate() error {
	if err := p.Task.Validate(); err != nil {
		return err
	}
	if p.Week < 1 {
		return invalid("week must be a positive number, got %d", p.Week)
	}
	return nil
}

func (p PlannedTask) Clone() PlannedTask {
	p.Task = p.Task.Clone()
	return p
}

// ParseTimeOfDay parses "15:04" or "3:04 PM" onto ref's calendar day. Empty or
// unparsable input yields Epoch.
func ParseTimeOfDay(s string, ref time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return Epoch
	}

	layout := constants.TimeFormat
	upper := strings.ToUpper(s)
	if strings.HasSuffix(upper, "AM") || strings.HasSuffix(upper, "PM") {
		layout = constants.TimeFormat12h
		// accept "9:30PM" as well as "9:30 PM"
		if !strings.Contains(upper, " ") {
			upper = upper[:len(upper)-2] + " " + upper[len(upper)-2:]
		}
		s = upper
	} else if !strings.Contains(s, ":") {
		return Epoch
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return Epoch
	}
	y, m, d := ref.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, ref.Location())
}

// SortDailyTasks returns tasks ordered uncompleted first, then by start time.
// Tasks without a parsable start time sort first within their group.
func SortDailyTasks(tasks []Task, ref time.Time) []Task {
	sorted := make([]Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Completed != sorted[j].Completed {
			return !sorted[i].Completed
		}
		ti := ParseTimeOfDay(sorted[i].StartTime, ref)
		tj := ParseTimeOfDay(sorted[j].StartTime, ref)
		return ti.Before(tj)
	})
	return sorted
}

// FormatTimeRange renders "09:00 - 10:30", "09:00" or "" for display.
func FormatTimeRange(start, end string) string {
	switch {
	case start != "" && end != "":
		return fmt.Sprintf("%s - %s", start, end)
	case start != "":
		return start
	default:
		return end
	}
}
