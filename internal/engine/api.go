package engine

import (
	"context"

	"github.com/julianstephens/taskmaster/internal/analytics"
	"github.com/julianstephens/taskmaster/internal/constants"
	"github.com/julianstephens/taskmaster/internal/models"
)

// Every mutation first brings the day up to date so that a change made just
// after midnight lands on the new day.

func (e *Engine) AddDailyTask(ctx context.Context, t models.Task) (models.Task, error) {
	e.checkRollover(ctx)
	return e.store.AddDailyTask(ctx, t)
}

func (e *Engine) AddPlannedTask(ctx context.Context, t models.PlannedTask) (models.PlannedTask, error) {
	e.checkRollover(ctx)
	return e.store.AddPlannedTask(ctx, t)
}

func (e *Engine) AddFreeTask(ctx context.Context, t models.Task) (models.Task, error) {
	e.checkRollover(ctx)
	return e.store.AddFreeTask(ctx, t)
}

// AddReminder stores r and sends the "Reminder Set" confirmation in the
// background. Stop waits for outstanding confirmations.
func (e *Engine) AddReminder(ctx context.Context, r models.Reminder) (models.Reminder, error) {
	e.checkRollover(ctx)
	saved, err := e.store.AddReminder(ctx, r)
	if err != nil {
		return saved, err
	}

	base := e.baseContext()
	e.pending.Add(1)
	go func() {
		defer e.pending.Done()
		actx, cancel := context.WithTimeout(base, constants.AnnounceTimeout)
		defer cancel()
		_ = e.reminders.Announce(actx, saved)
	}()
	return saved, nil
}

func (e *Engine) DeleteReminder(ctx context.Context, id string) error {
	e.checkRollover(ctx)
	return e.store.DeleteReminder(ctx, id)
}

func (e *Engine) ToggleCompletion(ctx context.Context, id string, kind models.Kind) error {
	e.checkRollover(ctx)
	return e.store.ToggleCompletion(ctx, id, kind)
}

func (e *Engine) DeleteTask(ctx context.Context, id string, kind models.Kind) error {
	e.checkRollover(ctx)
	return e.store.DeleteTask(ctx, id, kind)
}

func (e *Engine) UpdateTask(ctx context.Context, kind models.Kind, t models.Task) error {
	e.checkRollover(ctx)
	return e.store.UpdateTask(ctx, kind, t)
}

func (e *Engine) ResetCompletedTasks(ctx context.Context) error {
	e.checkRollover(ctx)
	return e.store.ResetCompletedTasks(ctx)
}

func (e *Engine) AddProject(ctx context.Context, p models.Project) (string, error) {
	e.checkRollover(ctx)
	return e.store.AddProject(ctx, p)
}

func (e *Engine) UpdateProject(ctx context.Context, p models.Project) error {
	e.checkRollover(ctx)
	return e.store.UpdateProject(ctx, p)
}

func (e *Engine) DeleteProject(ctx context.Context, id string) error {
	e.checkRollover(ctx)
	return e.store.DeleteProject(ctx, id)
}

func (e *Engine) GetProject(id string) (models.Project, error) {
	return e.store.GetProject(id)
}

func (e *Engine) AddTaskToProject(ctx context.Context, projectID string, t models.PlannedTask) (models.PlannedTask, error) {
	e.checkRollover(ctx)
	return e.store.AddTaskToProject(ctx, projectID, t)
}

func (e *Engine) UpdateTaskInProject(ctx context.Context, projectID string, t models.PlannedTask) error {
	e.checkRollover(ctx)
	return e.store.UpdateTaskInProject(ctx, projectID, t)
}

func (e *Engine) DeleteTaskFromProject(ctx context.Context, projectID, taskID string) error {
	e.checkRollover(ctx)
	return e.store.DeleteTaskFromProject(ctx, projectID, taskID)
}

// DailyTasks returns today's tasks, uncompleted first and then by start time.
func (e *Engine) DailyTasks(ctx context.Context) []models.Task {
	e.checkRollover(ctx)
	return models.SortDailyTasks(e.store.DailyTasks(), e.clock.Now())
}

func (e *Engine) PlannedTasks() []models.PlannedTask {
	return e.store.PlannedTasks()
}

func (e *Engine) FreeTasks() []models.Task {
	return e.store.FreeTasks()
}

// Reminders returns the reminders matching filter, sorted by deadline.
func (e *Engine) Reminders(filter models.ReminderFilter) []models.Reminder {
	return models.FilterReminders(e.store.Reminders(), filter, e.clock.Now())
}

func (e *Engine) Projects() []models.Project {
	return e.store.Projects()
}

func (e *Engine) History() []models.TaskHistory {
	return e.store.History()
}

func (e *Engine) LastResetDate() string {
	return e.store.LastResetDate()
}

func (e *Engine) CompletionStats(ctx context.Context) []models.DayStat {
	e.checkRollover(ctx)
	return e.stats.CompletionStats()
}

func (e *Engine) WeeklyRate(ctx context.Context) float64 {
	e.checkRollover(ctx)
	return e.stats.WeeklyRate()
}

// ProjectSummary is a project with its derived progress figures.
type ProjectSummary struct {
	models.Project
	Progress      int `json:"progress"`
	DaysRemaining int `json:"daysRemaining"`
}

func (e *Engine) Summarize(p models.Project) ProjectSummary {
	return ProjectSummary{
		Project:       p,
		Progress:      analytics.ProjectProgress(p),
		DaysRemaining: analytics.DaysRemaining(p, e.clock.Now()),
	}
}
