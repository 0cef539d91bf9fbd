package tasks

import (
	"fmt"

	"github.com/julianstephens/taskmaster/internal/cli"
	"github.com/julianstephens/taskmaster/internal/models"
)

type PlannedAddCmd struct {
	Title       string `arg:"" help:"Task title."`
	Week        int    `short:"w" help:"Week number (1-based)." default:"1"`
	Project     string `short:"p" help:"Project ID or prefix to add the task to."`
	Description string `short:"d" help:"Optional description."`
}

func (c *PlannedAddCmd) Validate() error {
	if c.Week < 1 {
		return fmt.Errorf("week must be at least 1")
	}
	return nil
}

func (c *PlannedAddCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Session()
	if err != nil {
		return err
	}
	task := models.PlannedTask{
		Task: models.Task{Title: c.Title, Description: c.Description},
		Week: c.Week,
	}

	if c.Project == "" {
		saved, err := e.AddPlannedTask(ctx.Ctx, task)
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}
		ctx.Printf("Added planned task: %s, week %d (ID: %s)\n", saved.Title, saved.Week, saved.ID)
		return nil
	}

	var ids []string
	for _, p := range e.Projects() {
		ids = append(ids, p.ID)
	}
	projectID, err := cli.ResolveID(c.Project, ids)
	if err != nil {
		return err
	}
	saved, err := e.AddTaskToProject(ctx.Ctx, projectID, task)
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	ctx.Printf("Added task to %s: %s, week %d (ID: %s)\n", saved.ProjectTitle, saved.Title, saved.Week, saved.ID)
	return nil
}

type PlannedListCmd struct {
	Week int `short:"w" help:"Only show tasks for this week."`
}

func (c *PlannedListCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Session()
	if err != nil {
		return err
	}
	tasks := e.PlannedTasks()
	if len(tasks) == 0 {
		ctx.Println("No planned tasks.")
		return nil
	}

	ctx.Printf("%-5s %-8s %-4s %-20s %s\n", "", "ID", "Week", "Project", "Title")
	for _, t := range tasks {
		if c.Week > 0 && t.Week != c.Week {
			continue
		}
		project := t.ProjectTitle
		if project == "" {
			project = "-"
		}
		ctx.Printf("%-5s %-8s %-4d %-20s %s\n", cli.Checkbox(t.Completed), cli.ShortID(t.ID), t.Week,
			cli.Truncate(project, 20), cli.Truncate(t.Title, 50))
	}
	return nil
}

type PlannedToggleCmd struct {
	ID string `arg:"" help:"Task ID or unique prefix."`
}

func (c *PlannedToggleCmd) Run(ctx *cli.Context) error {
	return toggle(ctx, models.KindPlanned, c.ID)
}

type PlannedDeleteCmd struct {
	ID  string `arg:"" help:"Task ID or unique prefix."`
	Yes bool   `short:"y" help:"Skip confirmation."`
}

func (c *PlannedDeleteCmd) Run(ctx *cli.Context) error {
	return remove(ctx, models.KindPlanned, c.ID, c.Yes)
}
