package stats

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/taskmaster/internal/cli"
	"github.com/julianstephens/taskmaster/internal/models"
)

const barWidth = 24

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	dayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Width(4)

	todayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true).
			Width(4)

	filledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	countStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Bar renders completed/total as a fixed-width bar.
func Bar(completed, total, width int) string {
	filled := 0
	if total > 0 {
		filled = int(math.Round(float64(completed) / float64(total) * float64(width)))
	}
	if filled > width {
		filled = width
	}
	return filledStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", width-filled))
}

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Session()
	if err != nil {
		return err
	}
	days := e.CompletionStats(ctx.Ctx)
	today := e.LastResetDate()

	ctx.Println(titleStyle.Render("This week"))
	for _, d := range days {
		style := dayStyle
		if d.Date == today {
			style = todayStyle
		}
		ctx.Printf("%s %s %s\n", style.Render(d.Name), Bar(d.Completed, d.Total, barWidth),
			countStyle.Render(fmt.Sprintf("%d/%d", d.Completed, d.Total)))
	}
	ctx.Printf("\nWeekly completion: %.0f%%\n", e.WeeklyRate(ctx.Ctx)*100)
	return nil
}

type HistoryCmd struct{}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Session()
	if err != nil {
		return err
	}
	history := e.History()
	if len(history) == 0 {
		ctx.Println("No history yet. Entries are recorded at each daily rollover.")
		return nil
	}

	ctx.Printf("%-12s %s\n", "Date", "Completed")
	for i := len(history) - 1; i >= 0; i-- {
		h := history[i]
		ctx.Printf("%-12s %d/%d\n", h.Date, h.Completed, h.Total)
	}
	return nil
}

type ResetCmd struct {
	Yes bool `short:"y" help:"Skip confirmation."`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Session()
	if err != nil {
		return err
	}
	done := models.CountCompleted(e.DailyTasks(ctx.Ctx))
	if done == 0 {
		ctx.Println("No completed daily tasks to reset.")
		return nil
	}

	ok, err := ctx.Confirm(c.Yes, fmt.Sprintf("Reset %d completed daily task(s)?", done), "Today's history is not affected.")
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Reset cancelled.")
		return nil
	}
	if err := e.ResetCompletedTasks(ctx.Ctx); err != nil {
		return fmt.Errorf("failed to reset tasks: %w", err)
	}
	ctx.Printf("✓ Reset %d task(s)\n", done)
	return nil
}
