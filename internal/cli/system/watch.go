package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/shiftwake/internal/cli"
	"github.com/julianstephens/shiftwake/internal/constants"
	"github.com/julianstephens/shiftwake/internal/watcher"
)

// WatchCmd keeps running and notifies when the configured checkpoint is reached.
type WatchCmd struct {
	Schedule string `help:"Cron expression for how often to check." default:"* * * * *"`
	Serve    bool   `help:"Also serve the local API."`
	Addr     string `help:"API listen address (defaults to the api_addr setting)."`
}

func (c *WatchCmd) Run(ctx *cli.Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := watcher.New(ctx.Store, ctx.Calc(), newSender())
	if err := w.Start(sigCtx, c.Schedule); err != nil {
		return err
	}
	defer w.Stop()

	if c.Serve {
		fmt.Printf("Watching for alarms (%s) and serving the API. Press Ctrl+C to stop.\n", c.Schedule)
		return serve(sigCtx, ctx, c.Addr)
	}

	fmt.Printf("Watching for alarms (%s). Press Ctrl+C to stop.\n", orDefault(c.Schedule, constants.WatchCronSpec))
	<-sigCtx.Done()
	fmt.Println("\nStopping watcher.")
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
