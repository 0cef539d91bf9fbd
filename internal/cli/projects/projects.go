package projects

import (
	"fmt"

	"github.com/julianstephens/taskmaster/internal/cli"
	"github.com/julianstephens/taskmaster/internal/engine"
	"github.com/julianstephens/taskmaster/internal/models"
)

func resolveProject(e *engine.Engine, prefix string) (models.Project, error) {
	projects := e.Projects()
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	id, err := cli.ResolveID(prefix, ids)
	if err != nil {
		return models.Project{}, err
	}
	return e.GetProject(id)
}

type ProjectAddCmd struct {
	Title       string `arg:"" help:"Project title."`
	Start       string `short:"s" help:"Start date (YYYY-MM-DD, today, tomorrow or +N)." default:"today"`
	End         string `short:"e" help:"End date (YYYY-MM-DD, today, tomorrow or +N)." required:""`
	Description string `short:"d" help:"Optional description."`
}

func (c *ProjectAddCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Session()
	if err != nil {
		return err
	}
	now := e.Clock().Now()
	start, err := cli.ParseDay(c.Start, now)
	if err != nil {
		return err
	}
	end, err := cli.ParseDay(c.End, now)
	if err != nil {
		return err
	}

	id, err := e.AddProject(ctx.Ctx, models.Project{
		Title:       c.Title,
		Description: c.Description,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		return fmt.Errorf("failed to add project: %w", err)
	}
	ctx.Printf("Added project: %s (ID: %s)\n", c.Title, id)
	return nil
}

type ProjectListCmd struct{}

func (c *ProjectListCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Session()
	if err != nil {
		return err
	}
	projects := e.Projects()
	if len(projects) == 0 {
		ctx.Println("No projects.")
		return nil
	}

	ctx.Printf("%-8s %-30s %-23s %8s %10s\n", "ID", "Title", "Dates", "Progress", "Days left")
	for _, p := range projects {
		s := e.Summarize(p)
		dates := fmt.Sprintf("%s..%s", p.StartDate.Day(nil), p.EndDate.Day(nil))
		ctx.Printf("%-8s %-30s %-23s %7d%% %10d\n", cli.ShortID(p.ID), cli.Truncate(p.Title, 30), dates, s.Progress, s.DaysRemaining)
	}
	return nil
}

type ProjectShowCmd struct {
	ID string `arg:"" help:"Project ID or unique prefix."`
}

func (c *ProjectShowCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Session()
	if err != nil {
		return err
	}
	p, err := resolveProject(e, c.ID)
	if err != nil {
		return err
	}
	s := e.Summarize(p)

	ctx.Printf("%s\n", p.Title)
	if p.Description != "" {
		ctx.Printf("%s\n", p.Description)
	}
	ctx.Printf("%s to %s, %d%% complete, %d days remaining\n", p.StartDate.Day(nil), p.EndDate.Day(nil), s.Progress, s.DaysRemaining)

	for _, group := range p.TasksByWeek() {
		ctx.Printf("\nWeek %d\n", group.Week)
		for _, t := range group.Tasks {
			ctx.Printf("  %s %-8s  %s\n", cli.Checkbox(t.Completed), cli.ShortID(t.ID), t.Title)
		}
	}
	return nil
}

type ProjectUpdateCmd struct {
	ID          string `arg:"" help:"Project ID or unique prefix."`
	Title       string `short:"t" help:"New title."`
	Start       string `short:"s" help:"New start date."`
	End         string `short:"e" help:"New end date."`
	Description string `short:"d" help:"New description."`
}

func (c *ProjectUpdateCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Session()
	if err != nil {
		return err
	}
	p, err := resolveProject(e, c.ID)
	if err != nil {
		return err
	}

	now := e.Clock().Now()
	if c.Title != "" {
		p.Title = c.Title
	}
	if c.Description != "" {
		p.Description = c.Description
	}
	if c.Start != "" {
		if p.StartDate, err = cli.ParseDay(c.Start, now); err != nil {
			return err
		}
	}
	if c.End != "" {
		if p.EndDate, err = cli.ParseDay(c.End, now); err != nil {
			return err
		}
	}

	if err := e.UpdateProject(ctx.Ctx, p); err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	ctx.Printf("✓ Updated project: %s\n", p.Title)
	return nil
}

type ProjectDeleteCmd struct {
	ID  string `arg:"" help:"Project ID or unique prefix."`
	Yes bool   `short:"y" help:"Skip confirmation."`
}

func (c *ProjectDeleteCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Session()
	if err != nil {
		return err
	}
	p, err := resolveProject(e, c.ID)
	if err != nil {
		return err
	}

	desc := fmt.Sprintf("Its %d planned task(s) will be deleted too.", len(p.Tasks))
	ok, err := ctx.Confirm(c.Yes, fmt.Sprintf("Delete project %q?", p.Title), desc)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Delete cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if err := e.DeleteProject(ctx.Ctx, p.ID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	ctx.Printf("Deleted project: %s and %d task(s)\n", p.Title, len(p.Tasks))
	return nil
}
