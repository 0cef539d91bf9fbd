// Package taskstore holds the in-memory task collections and persists every
// change through a storage.Adapter.
//
// Writers are serialized by a mutex. Each write clones the current State,
// applies the change, persists the touched keys in one batch and then
// publishes the clone with a single atomic store, so readers never lock and
// never observe a partial update.
package taskstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/julianstephens/taskmaster/internal/clock"
	"github.com/julianstephens/taskmaster/internal/constants"
	"github.com/julianstephens/taskmaster/internal/logger"
	"github.com/julianstephens/taskmaster/internal/models"
	"github.com/julianstephens/taskmaster/internal/storage"
)

// ErrNotFound is returned when an id does not match any stored record.
var ErrNotFound = errors.New("not found")

type Store struct {
	adapter storage.Adapter
	clock   clock.Clock

	mu    sync.Mutex
	state atomic.Pointer[State]
}

// Open loads every collection from adapter. Missing or corrupt values fall
// back to empty collections; Open never fails because of stored data.
func Open(ctx context.Context, adapter storage.Adapter, clk clock.Clock) *Store {
	s := &Store{adapter: adapter, clock: clk}
	s.state.Store(load(ctx, adapter, clk))
	return s
}

// Snapshot returns the current published state. Callers must treat it as
// read-only.
func (s *Store) Snapshot() *State {
	return s.state.Load()
}

// Update applies fn to a private copy of the state, persists keys and then
// publishes the copy. If fn returns an error nothing changes. Persistence
// failures are logged and the new state is published anyway.
func (s *Store) Update(ctx context.Context, fn func(*State) error, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Load().Clone()
	if err := fn(next); err != nil {
		return err
	}

	if len(keys) > 0 {
		if err := persist(ctx, s.adapter, next, keys); err != nil {
			logger.Error("Failed to persist changes", "keys", keys, "error", err)
		}
	}

	s.state.Store(next)
	return nil
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
}

func (s *Store) DailyTasks() []models.Task {
	return cloneTasks(s.Snapshot().Daily)
}

func (s *Store) FreeTasks() []models.Task {
	return cloneTasks(s.Snapshot().Free)
}

// PlannedTasks returns the flat view of every planned task.
func (s *Store) PlannedTasks() []models.PlannedTask {
	return s.Snapshot().Planned()
}

func (s *Store) Reminders() []models.Reminder {
	return append([]models.Reminder(nil), s.Snapshot().Reminders...)
}

func (s *Store) History() []models.TaskHistory {
	return append([]models.TaskHistory(nil), s.Snapshot().History...)
}

func (s *Store) Projects() []models.Project {
	st := s.Snapshot()
	out := make([]models.Project, len(st.Projects))
	for i, p := range st.Projects {
		out[i] = p.Clone()
	}
	return out
}

func (s *Store) LastResetDate() string {
	return s.Snapshot().LastResetDate
}

func (s *Store) GetProject(id string) (models.Project, error) {
	st := s.Snapshot()
	i := st.projectIndex(id)
	if i < 0 {
		return models.Project{}, notFound("project", id)
	}
	return st.Projects[i].Clone(), nil
}

func (s *Store) newTask(t models.Task) models.Task {
	t.ID = uuid.New().String()
	t.Completed = false
	return t
}

func (s *Store) AddDailyTask(ctx context.Context, t models.Task) (models.Task, error) {
	if err := t.Validate(); err != nil {
		return models.Task{}, err
	}
	t = s.newTask(t)
	if t.Date == nil {
		d := models.NewDate(s.clock.Now())
		t.Date = &d
	}

	err := s.Update(ctx, func(st *State) error {
		st.Daily = append(st.Daily, t)
		return nil
	}, constants.KeyDailyTasks)
	return t, err
}

func (s *Store) AddFreeTask(ctx context.Context, t models.Task) (models.Task, error) {
	if err := t.Validate(); err != nil {
		return models.Task{}, err
	}
	t = s.newTask(t)

	err := s.Update(ctx, func(st *State) error {
		st.Free = append(st.Free, t)
		return nil
	}, constants.KeyFreeTasks)
	return t, err
}

// AddPlannedTask stores a planned task that belongs to no project.
func (s *Store) AddPlannedTask(ctx context.Context, t models.PlannedTask) (models.PlannedTask, error) {
	if err := t.Validate(); err != nil {
		return models.PlannedTask{}, err
	}
	t.Task = s.newTask(t.Task)

	err := s.Update(ctx, func(st *State) error {
		st.Unassigned = append(st.Unassigned, t)
		return nil
	}, constants.KeyPlannedTasks)
	return t, err
}

func (s *Store) AddReminder(ctx context.Context, r models.Reminder) (models.Reminder, error) {
	if err := r.Validate(); err != nil {
		return models.Reminder{}, err
	}
	r.ID = uuid.New().String()

	err := s.Update(ctx, func(st *State) error {
		st.Reminders = append(st.Reminders, r)
		return nil
	}, constants.KeyReminders)
	return r, err
}

func (s *Store) DeleteReminder(ctx context.Context, id string) error {
	return s.Update(ctx, func(st *State) error {
		for i := range st.Reminders {
			if st.Reminders[i].ID == id {
				st.Reminders = append(st.Reminders[:i], st.Reminders[i+1:]...)
				return nil
			}
		}
		return notFound("reminder", id)
	}, constants.KeyReminders)
}

func keysFor(kind models.Kind) []string {
	switch kind {
	case models.KindDaily:
		return []string{constants.KeyDailyTasks}
	case models.KindFree:
		return []string{constants.KeyFreeTasks}
	default:
		return []string{constants.KeyPlannedTasks, constants.KeyProjects}
	}
}

// ToggleCompletion flips the completed flag of the task with id in kind.
func (s *Store) ToggleCompletion(ctx context.Context, id string, kind models.Kind) error {
	return s.Update(ctx, func(st *State) error {
		if kind == models.KindPlanned {
			t := st.plannedTask(id)
			if t == nil {
				return notFound("planned task", id)
			}
			t.Completed = !t.Completed
			return nil
		}

		tasks := st.tasks(kind)
		if tasks == nil {
			return fmt.Errorf("unknown task kind %q", kind)
		}
		for i := range *tasks {
			if (*tasks)[i].ID == id {
				(*tasks)[i].Completed = !(*tasks)[i].Completed
				return nil
			}
		}
		return notFound(string(kind)+" task", id)
	}, keysFor(kind)...)
}

// DeleteTask removes the task with id from kind. Planned tasks are removed
// from whichever project or unassigned list owns them.
func (s *Store) DeleteTask(ctx context.Context, id string, kind models.Kind) error {
	return s.Update(ctx, func(st *State) error {
		if kind == models.KindPlanned {
			for i := range st.Unassigned {
				if st.Unassigned[i].ID == id {
					st.Unassigned = append(st.Unassigned[:i], st.Unassigned[i+1:]...)
					return nil
				}
			}
			for pi := range st.Projects {
				p := &st.Projects[pi]
				if ti := p.TaskIndex(id); ti >= 0 {
					p.Tasks = append(p.Tasks[:ti], p.Tasks[ti+1:]...)
					return nil
				}
			}
			return notFound("planned task", id)
		}

		tasks := st.tasks(kind)
		if tasks == nil {
			return fmt.Errorf("unknown task kind %q", kind)
		}
		for i := range *tasks {
			if (*tasks)[i].ID == id {
				*tasks = append((*tasks)[:i], (*tasks)[i+1:]...)
				return nil
			}
		}
		return notFound(string(kind)+" task", id)
	}, keysFor(kind)...)
}

// UpdateTask replaces the editable fields of a daily or free task. The id
// and completion state are kept.
func (s *Store) UpdateTask(ctx context.Context, kind models.Kind, t models.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	return s.Update(ctx, func(st *State) error {
		tasks := st.tasks(kind)
		if tasks == nil {
			return fmt.Errorf("%w: only daily and free tasks can be edited directly", models.ErrInvalid)
		}
		for i := range *tasks {
			if (*tasks)[i].ID == t.ID {
				t.Completed = (*tasks)[i].Completed
				if t.Date == nil {
					t.Date = (*tasks)[i].Date
				}
				(*tasks)[i] = t
				return nil
			}
		}
		return notFound(string(kind)+" task", t.ID)
	}, keysFor(kind)...)
}

// ResetCompletedTasks marks every daily task as not completed.
func (s *Store) ResetCompletedTasks(ctx context.Context) error {
	now := s.clock.Now()
	return s.Update(ctx, func(st *State) error {
		for i := range st.Daily {
			st.Daily[i].Completed = false
			d := models.NewDate(now)
			st.Daily[i].Date = &d
		}
		return nil
	}, constants.KeyDailyTasks)
}

// AddProject stores p with fresh ids for the project and its tasks and
// returns the project id.
func (s *Store) AddProject(ctx context.Context, p models.Project) (string, error) {
	if err := p.Validate(s.clock.Now().Location()); err != nil {
		return "", err
	}
	p.ID = uuid.New().String()
	tasks := make([]models.PlannedTask, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		if err := t.Validate(); err != nil {
			return "", err
		}
		t.Task = s.newTask(t.Task)
		t.ProjectTitle = p.Title
		tasks = append(tasks, t)
	}
	p.Tasks = tasks

	err := s.Update(ctx, func(st *State) error {
		st.Projects = append(st.Projects, p)
		return nil
	}, constants.KeyProjects, constants.KeyPlannedTasks)
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

// UpdateProject replaces a project's title, description and dates. Its tasks
// are unchanged, including their ProjectTitle snapshots.
func (s *Store) UpdateProject(ctx context.Context, p models.Project) error {
	if err := p.Validate(s.clock.Now().Location()); err != nil {
		return err
	}
	return s.Update(ctx, func(st *State) error {
		i := st.projectIndex(p.ID)
		if i < 0 {
			return notFound("project", p.ID)
		}
		cur := &st.Projects[i]
		cur.Title = p.Title
		cur.Description = p.Description
		cur.StartDate = p.StartDate
		cur.EndDate = p.EndDate
		return nil
	}, constants.KeyProjects)
}

// DeleteProject removes the project and every task it owns.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	return s.Update(ctx, func(st *State) error {
		i := st.projectIndex(id)
		if i < 0 {
			return notFound("project", id)
		}
		st.Projects = append(st.Projects[:i], st.Projects[i+1:]...)
		return nil
	}, constants.KeyProjects, constants.KeyPlannedTasks)
}

func (s *Store) AddTaskToProject(ctx context.Context, projectID string, t models.PlannedTask) (models.PlannedTask, error) {
	if err := t.Validate(); err != nil {
		return models.PlannedTask{}, err
	}
	t.Task = s.newTask(t.Task)

	err := s.Update(ctx, func(st *State) error {
		i := st.projectIndex(projectID)
		if i < 0 {
			return notFound("project", projectID)
		}
		t.ProjectTitle = st.Projects[i].Title
		st.Projects[i].Tasks = append(st.Projects[i].Tasks, t)
		return nil
	}, constants.KeyProjects, constants.KeyPlannedTasks)
	if err != nil {
		return models.PlannedTask{}, err
	}
	return t, nil
}

// UpdateTaskInProject replaces a project task's fields. The id and the
// ProjectTitle snapshot are kept.
func (s *Store) UpdateTaskInProject(ctx context.Context, projectID string, t models.PlannedTask) error {
	if err := t.Validate(); err != nil {
		return err
	}
	return s.Update(ctx, func(st *State) error {
		i := st.projectIndex(projectID)
		if i < 0 {
			return notFound("project", projectID)
		}
		p := &st.Projects[i]
		ti := p.TaskIndex(t.ID)
		if ti < 0 {
			return notFound("project task", t.ID)
		}
		t.ProjectTitle = p.Tasks[ti].ProjectTitle
		p.Tasks[ti] = t
		return nil
	}, constants.KeyProjects, constants.KeyPlannedTasks)
}

func (s *Store) DeleteTaskFromProject(ctx context.Context, projectID, taskID string) error {
	return s.Update(ctx, func(st *State) error {
		i := st.projectIndex(projectID)
		if i < 0 {
			return notFound("project", projectID)
		}
		p := &st.Projects[i]
		ti := p.TaskIndex(taskID)
		if ti < 0 {
			return notFound("project task", taskID)
		}
		p.Tasks = append(p.Tasks[:ti], p.Tasks[ti+1:]...)
		return nil
	}, constants.KeyProjects, constants.KeyPlannedTasks)
}
