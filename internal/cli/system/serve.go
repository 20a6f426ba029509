package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/shiftwake/internal/api"
	"github.com/julianstephens/shiftwake/internal/cli"
	"github.com/julianstephens/shiftwake/internal/constants"
)

// ServeCmd exposes the timeline, catalog and plan as a local JSON API.
type ServeCmd struct {
	Addr string `help:"Listen address (defaults to the api_addr setting)."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(sigCtx, ctx, c.Addr)
}

func serve(runCtx context.Context, ctx *cli.Context, addr string) error {
	if addr == "" {
		settings, err := ctx.Store.GetSettings()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		addr = orDefault(settings.APIAddr, constants.DefaultAPIAddr)
	}

	fmt.Printf("Serving %s on http://%s\n", constants.APIPrefix, addr)
	return api.New(ctx.Store, ctx.Calc()).ListenAndServe(runCtx, addr)
}
