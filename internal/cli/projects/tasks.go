package projects

import (
	"fmt"

	"github.com/julianstephens/taskmaster/internal/cli"
	"github.com/julianstephens/taskmaster/internal/models"
)

type TaskAddCmd struct {
	Project     string `arg:"" help:"Project ID or unique prefix."`
	Title       string `arg:"" help:"Task title."`
	Week        int    `short:"w" help:"Week number (1-based)." default:"1"`
	Description string `short:"d" help:"Optional description."`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Session()
	if err != nil {
		return err
	}
	p, err := resolveProject(e, c.Project)
	if err != nil {
		return err
	}
	t, err := e.AddTaskToProject(ctx.Ctx, p.ID, models.PlannedTask{
		Task: models.Task{Title: c.Title, Description: c.Description},
		Week: c.Week,
	})
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	ctx.Printf("Added task to %s: %s, week %d (ID: %s)\n", p.Title, t.Title, t.Week, t.ID)
	return nil
}

type TaskEditCmd struct {
	Project     string `arg:"" help:"Project ID or unique prefix."`
	ID          string `arg:"" help:"Task ID or unique prefix."`
	Title       string `short:"t" help:"New title."`
	Week        int    `short:"w" help:"New week number."`
	Description string `short:"d" help:"New description."`
}

func (c *TaskEditCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Session()
	if err != nil {
		return err
	}
	p, err := resolveProject(e, c.Project)
	if err != nil {
		return err
	}
	t, err := resolveTask(p, c.ID)
	if err != nil {
		return err
	}

	if c.Title != "" {
		t.Title = c.Title
	}
	if c.Week != 0 {
		t.Week = c.Week
	}
	if c.Description != "" {
		t.Description = c.Description
	}
	if err := e.UpdateTaskInProject(ctx.Ctx, p.ID, t); err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	ctx.Printf("✓ Updated task: %s\n", t.Title)
	return nil
}

type TaskDeleteCmd struct {
	Project string `arg:"" help:"Project ID or unique prefix."`
	ID      string `arg:"" help:"Task ID or unique prefix."`
	Yes     bool   `short:"y" help:"Skip confirmation."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Session()
	if err != nil {
		return err
	}
	p, err := resolveProject(e, c.Project)
	if err != nil {
		return err
	}
	t, err := resolveTask(p, c.ID)
	if err != nil {
		return err
	}

	ok, err := ctx.Confirm(c.Yes, fmt.Sprintf("Delete task %q from %s?", t.Title, p.Title), "")
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Delete cancelled.")
		return nil
	}
	if err := e.DeleteTaskFromProject(ctx.Ctx, p.ID, t.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	ctx.Printf("Deleted task: %s\n", t.Title)
	return nil
}

func resolveTask(p models.Project, prefix string) (models.PlannedTask, error) {
	ids := make([]string, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		ids = append(ids, t.ID)
	}
	id, err := cli.ResolveID(prefix, ids)
	if err != nil {
		return models.PlannedTask{}, err
	}
	return p.Tasks[p.TaskIndex(id)], nil
}
