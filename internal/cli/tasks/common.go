package tasks

import (
	"fmt"
	"time"

	"github.com/julianstephens/taskmaster/internal/cli"
	"github.com/julianstephens/taskmaster/internal/engine"
	"github.com/julianstephens/taskmaster/internal/models"
)

func validateTimeOfDay(label, s string) error {
	if s == "" {
		return nil
	}
	if models.ParseTimeOfDay(s, time.Now()).Equal(models.Epoch) {
		return fmt.Errorf("invalid %s time %q (expected HH:MM or h:mm AM/PM)", label, s)
	}
	return nil
}

func taskIDs(e *engine.Engine, kind models.Kind) []string {
	var ids []string
	switch kind {
	case models.KindDaily:
		for _, t := range e.Store().DailyTasks() {
			ids = append(ids, t.ID)
		}
	case models.KindFree:
		for _, t := range e.FreeTasks() {
			ids = append(ids, t.ID)
		}
	case models.KindPlanned:
		for _, t := range e.PlannedTasks() {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

func findTask(e *engine.Engine, kind models.Kind, id string) models.Task {
	switch kind {
	case models.KindDaily:
		for _, t := range e.Store().DailyTasks() {
			if t.ID == id {
				return t
			}
		}
	case models.KindFree:
		for _, t := range e.FreeTasks() {
			if t.ID == id {
				return t
			}
		}
	case models.KindPlanned:
		for _, t := range e.PlannedTasks() {
			if t.ID == id {
				return t.Task
			}
		}
	}
	return models.Task{}
}

func toggle(ctx *cli.Context, kind models.Kind, prefix string) error {
	e, err := ctx.Session()
	if err != nil {
		return err
	}
	id, err := cli.ResolveID(prefix, taskIDs(e, kind))
	if err != nil {
		return err
	}
	if err := e.ToggleCompletion(ctx.Ctx, id, kind); err != nil {
		return fmt.Errorf("failed to toggle task: %w", err)
	}

	t := findTask(e, kind, id)
	state := "not completed"
	if t.Completed {
		state = "completed"
	}
	ctx.Printf("✓ %s marked %s\n", t.Title, state)
	return nil
}

func remove(ctx *cli.Context, kind models.Kind, prefix string, yes bool) error {
	e, err := ctx.Session()
	if err != nil {
		return err
	}
	id, err := cli.ResolveID(prefix, taskIDs(e, kind))
	if err != nil {
		return err
	}
	t := findTask(e, kind, id)

	ok, err := ctx.Confirm(yes, fmt.Sprintf("Delete %s task %q?", kind, t.Title), "This cannot be undone.")
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Delete cancelled.")
		return nil
	}

	if err := e.DeleteTask(ctx.Ctx, id, kind); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	ctx.Printf("Deleted task: %s (ID: %s)\n", t.Title, id)
	return nil
}

// edit applies the non-empty fields to a daily or free task.
func edit(ctx *cli.Context, kind models.Kind, prefix, title, start, end, description string) error {
	e, err := ctx.Session()
	if err != nil {
		return err
	}
	id, err := cli.ResolveID(prefix, taskIDs(e, kind))
	if err != nil {
		return err
	}

	t := findTask(e, kind, id)
	if title != "" {
		t.Title = title
	}
	if start != "" {
		t.StartTime = start
	}
	if end != "" {
		t.EndTime = end
	}
	if description != "" {
		t.Description = description
	}

	if err := e.UpdateTask(ctx.Ctx, kind, t); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	ctx.Printf("✓ Updated task: %s\n", t.Title)
	return nil
}
