package reminders

import (
	"fmt"
	"time"

	"github.com/julianstephens/taskmaster/internal/cli"
	"github.com/julianstephens/taskmaster/internal/constants"
	"github.com/julianstephens/taskmaster/internal/models"
)

type ReminderAddCmd struct {
	Title       string `arg:"" help:"Reminder title."`
	Date        string `short:"D" help:"Due date (YYYY-MM-DD, today, tomorrow or +N)." required:""`
	Time        string `short:"t" help:"Due time (HH:MM)." required:""`
	Description string `short:"d" help:"Optional description."`
}

func (c *ReminderAddCmd) Validate() error {
	if _, err := time.Parse(constants.TimeFormat, c.Time); err != nil {
		return fmt.Errorf("invalid time %q (expected HH:MM)", c.Time)
	}
	return nil
}

func (c *ReminderAddCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Session()
	if err != nil {
		return err
	}
	day, err := cli.ParseDay(c.Date, e.Clock().Now())
	if err != nil {
		return err
	}

	r, err := e.AddReminder(ctx.Ctx, models.Reminder{
		Title:       c.Title,
		Date:        day,
		Time:        c.Time,
		Description: c.Description,
	})
	if err != nil {
		return fmt.Errorf("failed to add reminder: %w", err)
	}
	ctx.Printf("✓ Reminder set: %s on %s at %s (ID: %s)\n", r.Title, r.Date.Day(nil), r.Time, r.ID)
	return nil
}

type ReminderListCmd struct {
	Filter string `short:"f" help:"Which reminders to show (all|upcoming|past)." default:"upcoming"`
}

func (c *ReminderListCmd) Validate() error {
	_, err := models.ParseReminderFilter(c.Filter)
	return err
}

func (c *ReminderListCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Session()
	if err != nil {
		return err
	}
	filter, err := models.ParseReminderFilter(c.Filter)
	if err != nil {
		return err
	}

	now := e.Clock().Now()
	reminders := e.Reminders(filter)
	if len(reminders) == 0 {
		ctx.Printf("No %s reminders.\n", filter)
		return nil
	}

	for _, group := range models.GroupRemindersByDate(reminders, now.Location()) {
		label := group.Date
		if d, err := time.ParseInLocation(constants.DateFormat, group.Date, now.Location()); err == nil {
			label = d.Format("Mon, " + constants.DisplayDateFormat)
		}
		ctx.Printf("%s\n", label)
		for _, r := range group.Reminders {
			ctx.Printf("  %s  %-8s  %s\n", r.Time, cli.ShortID(r.ID), cli.Truncate(r.Title, 60))
		}
	}
	return nil
}

type ReminderDeleteCmd struct {
	ID  string `arg:"" help:"Reminder ID or unique prefix."`
	Yes bool   `short:"y" help:"Skip confirmation."`
}

func (c *ReminderDeleteCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Session()
	if err != nil {
		return err
	}

	all := e.Reminders(models.FilterAll)
	ids := make([]string, 0, len(all))
	for _, r := range all {
		ids = append(ids, r.ID)
	}
	id, err := cli.ResolveID(c.ID, ids)
	if err != nil {
		return err
	}

	var title string
	for _, r := range all {
		if r.ID == id {
			title = r.Title
		}
	}
	ok, err := ctx.Confirm(c.Yes, fmt.Sprintf("Delete reminder %q?", title), "")
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Delete cancelled.")
		return nil
	}

	if err := e.DeleteReminder(ctx.Ctx, id); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	ctx.Printf("✓ Reminder deleted: %s\n", title)
	return nil
}
