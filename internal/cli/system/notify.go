package system

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/shiftwake/internal/cli"
	"github.com/julianstephens/shiftwake/internal/notifier"
	"github.com/julianstephens/shiftwake/internal/watcher"
)

// newSender is replaced in tests.
var newSender = func() notifier.Sender { return notifier.New() }

// dryRunSender prints instead of contacting the tray app.
type dryRunSender struct{}

func (dryRunSender) Notify(_ context.Context, text string) error {
	fmt.Println("[DryRun] " + text)
	return nil
}

type NotifyCmd struct {
	DryRun bool `help:"Print notifications to stdout instead of sending them."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !settings.NotificationsEnabled {
		if c.DryRun {
			fmt.Println("Notifications are disabled in settings.")
		}
		return nil
	}

	var sender notifier.Sender = dryRunSender{}
	if !c.DryRun {
		sender = newSender()
	}

	runCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	due, err := watcher.New(ctx.Store, ctx.Calc(), sender).RunOnce(runCtx)
	if err != nil {
		return err
	}
	if due == nil && c.DryRun {
		fmt.Println("No checkpoint is due.")
	}
	return nil
}
