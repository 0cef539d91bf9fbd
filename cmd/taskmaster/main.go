package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/taskmaster/internal/cli"
	"github.com/julianstephens/taskmaster/internal/cli/backups"
	"github.com/julianstephens/taskmaster/internal/cli/projects"
	"github.com/julianstephens/taskmaster/internal/cli/reminders"
	"github.com/julianstephens/taskmaster/internal/cli/stats"
	"github.com/julianstephens/taskmaster/internal/cli/system"
	"github.com/julianstephens/taskmaster/internal/cli/tasks"
	"github.com/julianstephens/taskmaster/internal/config"
	"github.com/julianstephens/taskmaster/internal/constants"
	apperrors "github.com/julianstephens/taskmaster/internal/errors"
	"github.com/julianstephens/taskmaster/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path. Defaults to config.yaml in ~/.config/taskmaster or the working directory." type:"path"`
	Debug   bool   `help:"Log debug output to stderr."`

	Daily struct {
		Add    tasks.DailyAddCmd    `cmd:"" help:"Add a daily task."`
		List   tasks.DailyListCmd   `cmd:"" help:"List today's daily tasks." default:"1"`
		Toggle tasks.DailyToggleCmd `cmd:"" help:"Toggle a daily task's completion."`
		Edit   tasks.DailyEditCmd   `cmd:"" help:"Edit a daily task."`
		Delete tasks.DailyDeleteCmd `cmd:"" help:"Delete a daily task."`
	} `cmd:"" help:"Manage daily tasks."`
	Planned struct {
		Add    tasks.PlannedAddCmd    `cmd:"" help:"Add a planned task."`
		List   tasks.PlannedListCmd   `cmd:"" help:"List planned tasks." default:"1"`
		Toggle tasks.PlannedToggleCmd `cmd:"" help:"Toggle a planned task's completion."`
		Delete tasks.PlannedDeleteCmd `cmd:"" help:"Delete a planned task."`
	} `cmd:"" help:"Manage planned tasks."`
	Free struct {
		Add    tasks.FreeAddCmd    `cmd:"" help:"Add a free task."`
		List   tasks.FreeListCmd   `cmd:"" help:"List free tasks." default:"1"`
		Toggle tasks.FreeToggleCmd `cmd:"" help:"Toggle a free task's completion."`
		Edit   tasks.FreeEditCmd   `cmd:"" help:"Edit a free task."`
		Delete tasks.FreeDeleteCmd `cmd:"" help:"Delete a free task."`
	} `cmd:"" help:"Manage free tasks."`
	Reminder struct {
		Add    reminders.ReminderAddCmd    `cmd:"" help:"Add a reminder."`
		List   reminders.ReminderListCmd   `cmd:"" help:"List reminders." default:"1"`
		Delete reminders.ReminderDeleteCmd `cmd:"" help:"Delete a reminder."`
	} `cmd:"" help:"Manage reminders."`
	Project struct {
		Add    projects.ProjectAddCmd    `cmd:"" help:"Create a project."`
		List   projects.ProjectListCmd   `cmd:"" help:"List projects." default:"1"`
		Show   projects.ProjectShowCmd   `cmd:"" help:"Show a project's tasks by week."`
		Update projects.ProjectUpdateCmd `cmd:"" help:"Update a project's details."`
		Delete projects.ProjectDeleteCmd `cmd:"" help:"Delete a project and its tasks."`
		Task   struct {
			Add    projects.TaskAddCmd    `cmd:"" help:"Add a task to a project."`
			Edit   projects.TaskEditCmd   `cmd:"" help:"Edit a project task."`
			Delete projects.TaskDeleteCmd `cmd:"" help:"Delete a project task."`
		} `cmd:"" help:"Manage a project's tasks."`
	} `cmd:"" help:"Manage projects."`
	Stats   stats.StatsCmd   `cmd:"" help:"Show completion stats for the current week."`
	History stats.HistoryCmd `cmd:"" help:"Show daily completion history."`
	Reset   stats.ResetCmd   `cmd:"" help:"Mark every daily task incomplete."`
	Run     system.RunCmd    `cmd:"" help:"Run the scheduler (rollover and reminders) until interrupted."`
	Backup  struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Secret struct {
		Set    system.SecretSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
		Delete system.SecretDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
		Status system.SecretStatusCmd `cmd:"" help:"Show which secrets are stored." default:"1"`
	} `cmd:"" help:"Manage secrets in the OS keyring."`
	Doctor system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal task manager: daily, planned and free tasks with reminders"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	if CLI.Debug {
		cfg.Log.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Log.Debug, ConfigDir: cfg.Dir()}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	appCtx := &cli.Context{
		Ctx:    ctx,
		Config: cfg,
		Out:    os.Stdout,
	}

	err = kctx.Run(appCtx)
	if closeErr := appCtx.Close(); closeErr != nil {
		logger.Warn("Failed to close storage", "error", closeErr)
	}
	stop()
	apperrors.Fatal(err)
}
