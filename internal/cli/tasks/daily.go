package tasks

import (
	"fmt"

	"github.com/julianstephens/taskmaster/internal/cli"
	"github.com/julianstephens/taskmaster/internal/models"
)

type DailyAddCmd struct {
	Title       string `arg:"" help:"Task title."`
	Start       string `short:"s" help:"Start time (HH:MM or h:mm AM/PM)."`
	End         string `short:"e" help:"End time (HH:MM or h:mm AM/PM)."`
	Description string `short:"d" help:"Optional description."`
}

func (c *DailyAddCmd) Validate() error {
	if err := validateTimeOfDay("start", c.Start); err != nil {
		return err
	}
	return validateTimeOfDay("end", c.End)
}

func (c *DailyAddCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Session()
	if err != nil {
		return err
	}
	t, err := e.AddDailyTask(ctx.Ctx, models.Task{
		Title:       c.Title,
		StartTime:   c.Start,
		EndTime:     c.End,
		Description: c.Description,
	})
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	ctx.Printf("Added daily task: %s (ID: %s)\n", t.Title, t.ID)
	return nil
}

type DailyListCmd struct{}

func (c *DailyListCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Session()
	if err != nil {
		return err
	}
	tasks := e.DailyTasks(ctx.Ctx)
	if len(tasks) == 0 {
		ctx.Println("No daily tasks. Add one with 'taskmaster daily add'.")
		return nil
	}

	ctx.Printf("Daily tasks for %s (%d/%d done):\n\n", e.LastResetDate(), models.CountCompleted(tasks), len(tasks))
	for _, t := range tasks {
		ctx.Printf("  %s %-8s  %-15s  %s\n", cli.Checkbox(t.Completed), cli.ShortID(t.ID),
			models.FormatTimeRange(t.StartTime, t.EndTime), cli.Truncate(t.Title, 50))
	}
	return nil
}

type DailyToggleCmd struct {
	ID string `arg:"" help:"Task ID or unique prefix."`
}

func (c *DailyToggleCmd) Run(ctx *cli.Context) error {
	return toggle(ctx, models.KindDaily, c.ID)
}

type DailyEditCmd struct {
	ID          string `arg:"" help:"Task ID or unique prefix."`
	Title       string `short:"t" help:"New title."`
	Start       string `short:"s" help:"New start time."`
	End         string `short:"e" help:"New end time."`
	Description string `short:"d" help:"New description."`
}

func (c *DailyEditCmd) Validate() error {
	if err := validateTimeOfDay("start", c.Start); err != nil {
		return err
	}
	return validateTimeOfDay("end", c.End)
}

func (c *DailyEditCmd) Run(ctx *cli.Context) error {
	return edit(ctx, models.KindDaily, c.ID, c.Title, c.Start, c.End, c.Description)
}

type DailyDeleteCmd struct {
	ID  string `arg:"" help:"Task ID or unique prefix."`
	Yes bool   `short:"y" help:"Skip confirmation."`
}

func (c *DailyDeleteCmd) Run(ctx *cli.Context) error {
	return remove(ctx, models.KindDaily, c.ID, c.Yes)
}
