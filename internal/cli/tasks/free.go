package tasks

import (
	"fmt"

	"github.com/julianstephens/taskmaster/internal/cli"
	"github.com/julianstephens/taskmaster/internal/models"
)

type FreeAddCmd struct {
	Title       string `arg:"" help:"Task title."`
	Description string `short:"d" help:"Optional description."`
}

func (c *FreeAddCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Session()
	if err != nil {
		return err
	}
	t, err := e.AddFreeTask(ctx.Ctx, models.Task{Title: c.Title, Description: c.Description})
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	ctx.Printf("Added free task: %s (ID: %s)\n", t.Title, t.ID)
	return nil
}

type FreeListCmd struct {
	Pending bool `short:"p" help:"Only show tasks that are not completed."`
}

func (c *FreeListCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Session()
	if err != nil {
		return err
	}
	tasks := e.FreeTasks()
	if len(tasks) == 0 {
		ctx.Println("No free tasks.")
		return nil
	}
	for _, t := range tasks {
		if c.Pending && t.Completed {
			continue
		}
		ctx.Printf("  %s %-8s  %s\n", cli.Checkbox(t.Completed), cli.ShortID(t.ID), cli.Truncate(t.Title, 60))
	}
	return nil
}

type FreeToggleCmd struct {
	ID string `arg:"" help:"Task ID or unique prefix."`
}

func (c *FreeToggleCmd) Run(ctx *cli.Context) error {
	return toggle(ctx, models.KindFree, c.ID)
}

type FreeEditCmd struct {
	ID          string `arg:"" help:"Task ID or unique prefix."`
	Title       string `short:"t" help:"New title."`
	Description string `short:"d" help:"New description."`
}

func (c *FreeEditCmd) Run(ctx *cli.Context) error {
	return edit(ctx, models.KindFree, c.ID, c.Title, "", "", c.Description)
}

type FreeDeleteCmd struct {
	ID  string `arg:"" help:"Task ID or unique prefix."`
	Yes bool   `short:"y" help:"Skip confirmation."`
}

func (c *FreeDeleteCmd) Run(ctx *cli.Context) error {
	return remove(ctx, models.KindFree, c.ID, c.Yes)
}
