package taskstore

import (
	"github.com/julianstephens/taskmaster/internal/models"
)

// State is one immutable snapshot of every collection. A published State is
// never modified; mutations work on a Clone.
type State struct {
	Daily     []models.Task
	Free      []models.Task
	Reminders []models.Reminder
	History   []models.TaskHistory
	Projects  []models.Project

	// Unassigned holds planned tasks created without a project. Tasks added
	// to a project live only in that project's Tasks.
	Unassigned []models.PlannedTask

	LastResetDate string
}

func (s *State) Clone() *State {
	next := &State{
		Daily:         cloneTasks(s.Daily),
		Free:          cloneTasks(s.Free),
		Reminders:     append([]models.Reminder(nil), s.Reminders...),
		History:       append([]models.TaskHistory(nil), s.History...),
		Unassigned:    make([]models.PlannedTask, len(s.Unassigned)),
		Projects:      make([]models.Project, len(s.Projects)),
		LastResetDate: s.LastResetDate,
	}
	for i, t := range s.Unassigned {
		next.Unassigned[i] = t.Clone()
	}
	for i, p := range s.Projects {
		next.Projects[i] = p.Clone()
	}
	return next
}

func cloneTasks(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// Planned is the flat view of every planned task: unassigned tasks first,
// then each project's tasks in project order.
func (s *State) Planned() []models.PlannedTask {
	n := len(s.Unassigned)
	for _, p := range s.Projects {
		n += len(p.Tasks)
	}
	out := make([]models.PlannedTask, 0, n)
	for _, t := range s.Unassigned {
		out = append(out, t.Clone())
	}
	for _, p := range s.Projects {
		for _, t := range p.Tasks {
			out = append(out, t.Clone())
		}
	}
	return out
}

// UpsertHistory replaces the entry for h.Date or appends a new one.
func (s *State) UpsertHistory(h models.TaskHistory) {
	for i := range s.History {
		if s.History[i].Date == h.Date {
			s.History[i] = h
			return
		}
	}
	s.History = append(s.History, h)
}

// PruneHistory drops entries dated strictly before cutoff (YYYY-MM-DD) and
// returns how many were removed.
func (s *State) PruneHistory(cutoff string) int {
	kept := s.History[:0]
	removed := 0
	for _, h := range s.History {
		if h.Date < cutoff {
			removed++
			continue
		}
		kept = append(kept, h)
	}
	s.History = kept
	return removed
}

func (s *State) projectIndex(id string) int {
	for i := range s.Projects {
		if s.Projects[i].ID == id {
			return i
		}
	}
	return -1
}

// plannedTask returns a pointer to the single stored copy of a planned task.
func (s *State) plannedTask(id string) *models.PlannedTask {
	for i := range s.Unassigned {
		if s.Unassigned[i].ID == id {
			return &s.Unassigned[i]
		}
	}
	for pi := range s.Projects {
		if ti := s.Projects[pi].TaskIndex(id); ti >= 0 {
			return &s.Projects[pi].Tasks[ti]
		}
	}
	return nil
}

func (s *State) tasks(kind models.Kind) *[]models.Task {
	switch kind {
	case models.KindDaily:
		return &s.Daily
	case models.KindFree:
		return &s.Free
	}
	return nil
}
