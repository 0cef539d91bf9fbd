package system

import (
	"fmt"

	"github.com/julianstephens/taskmaster/internal/cli"
	"github.com/julianstephens/taskmaster/internal/httpapi"
	"github.com/julianstephens/taskmaster/internal/logger"
)

// RunCmd keeps a session open: timers fire rollovers and reminders until the
// process is interrupted.
type RunCmd struct {
	Listen string `short:"l" help:"Serve the JSON API on this address (e.g. 127.0.0.1:7420). Overrides http.listen."`
}

func (c *RunCmd) Run(ctx *cli.Context) error {
	e, err := ctx.Session()
	if err != nil {
		return err
	}

	ctx.PerformAutomaticBackup()
	if err := e.Start(ctx.Ctx); err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	defer e.Stop()
	logger.SetConsole(true)

	addr := c.Listen
	if addr == "" && ctx.Config != nil {
		addr = ctx.Config.HTTP.Listen
	}

	ctx.Printf("taskmaster running (day %s). Press Ctrl+C to stop.\n", e.LastResetDate())
	if addr != "" {
		ctx.Printf("API listening on http://%s\n", addr)
		if err := httpapi.NewServer(e).Run(ctx.Ctx, addr); err != nil {
			return fmt.Errorf("http api: %w", err)
		}
		return nil
	}

	<-ctx.Ctx.Done()
	logger.Info("Shutting down")
	return nil
}
