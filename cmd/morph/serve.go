package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/born-ml/morpho/internal/server"
)

func serveCommand(ui UI) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address"},
			&cli.Int64Flag{Name: "max-inflight", Usage: "concurrent analyze requests"},
		},
		Action: func(c *cli.Context) error {
			an, cfg, logger, err := setup(c, ui)
			if err != nil {
				return err
			}
			if c.IsSet("addr") {
				cfg.Server.Addr = c.String("addr")
			}
			if c.IsSet("max-inflight") {
				cfg.Server.MaxInflight = c.Int64("max-inflight")
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(an, cfg.Server, logger).ListenAndServe(ctx)
		},
	}
}
