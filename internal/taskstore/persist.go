package taskstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/taskmaster/internal/clock"
	"github.com/julianstephens/taskmaster/internal/constants"
	"github.com/julianstephens/taskmaster/internal/logger"
	"github.com/julianstephens/taskmaster/internal/models"
	"github.com/julianstephens/taskmaster/internal/storage"
)

// load reads every key, substituting defaults for missing or corrupt values.
func load(ctx context.Context, adapter storage.Adapter, clk clock.Clock) *State {
	st := &State{}

	st.Daily, _ = readKey[[]models.Task](ctx, adapter, constants.KeyDailyTasks)
	st.Free, _ = readKey[[]models.Task](ctx, adapter, constants.KeyFreeTasks)
	st.Reminders, _ = readKey[[]models.Reminder](ctx, adapter, constants.KeyReminders)
	st.History, _ = readKey[[]models.TaskHistory](ctx, adapter, constants.KeyTaskHistory)
	st.Projects, _ = readKey[[]models.Project](ctx, adapter, constants.KeyProjects)

	// Projects own their tasks; the flat key only contributes tasks that no
	// project claims.
	flat, _ := readKey[[]models.PlannedTask](ctx, adapter, constants.KeyPlannedTasks)
	owned := make(map[string]bool)
	for _, p := range st.Projects {
		for _, t := range p.Tasks {
			owned[t.ID] = true
		}
	}
	for _, t := range flat {
		if !owned[t.ID] {
			st.Unassigned = append(st.Unassigned, t)
		}
	}

	last, ok := readKey[string](ctx, adapter, constants.KeyLastResetDate)
	if ok {
		if _, err := time.Parse(constants.DateFormat, last); err != nil {
			logger.Warn("Ignoring malformed last reset date", "value", last)
			last = ""
		}
	}
	if last == "" {
		last = clock.Today(clk)
	}
	st.LastResetDate = last

	return st
}

// readKey decodes key and reports whether a usable value was found. A value
// that fails to decode yields the zero value, never a partial result.
func readKey[T any](ctx context.Context, adapter storage.Adapter, key string) (T, bool) {
	var zero T
	data, err := adapter.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logger.Error("Failed to read key, using default", "key", key, "error", err)
		}
		return zero, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		logger.Warn("Corrupt value, using default", "key", key, "error", err)
		return zero, false
	}
	return v, true
}

func encode(st *State, key string) ([]byte, error) {
	var v interface{}
	switch key {
	case constants.KeyDailyTasks:
		v = nonNil(st.Daily)
	case constants.KeyFreeTasks:
		v = nonNil(st.Free)
	case constants.KeyPlannedTasks:
		v = st.Planned()
	case constants.KeyReminders:
		v = nonNil(st.Reminders)
	case constants.KeyTaskHistory:
		v = nonNil(st.History)
	case constants.KeyProjects:
		projects := make([]models.Project, len(st.Projects))
		for i, p := range st.Projects {
			projects[i] = p
			projects[i].Tasks = nonNil(p.Tasks)
		}
		v = projects
	case constants.KeyLastResetDate:
		v = st.LastResetDate
	default:
		return nil, fmt.Errorf("unknown storage key %q", key)
	}
	return json.Marshal(v)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func persist(ctx context.Context, adapter storage.Adapter, st *State, keys []string) error {
	entries := make([]storage.Entry, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if seen[key] {
			continue
		}
		seen[key] = true
		data, err := encode(st, key)
		if err != nil {
			return err
		}
		entries = append(entries, storage.Entry{Key: key, Value: data})
	}
	return adapter.Set(ctx, entries...)
}
