package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/furnistore/internal/client/bootstrap"
	"github.com/dmitrijs2005/furnistore/internal/client/web"
	"github.com/dmitrijs2005/furnistore/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "serve [flags]",
		Short:              "Serve the back-office console on localhost",
		Long:               "Serve the back-office console.\n\nThe listen address comes from web_addr or FURNI_WEB_ADDR.\n\n" + configUsage,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if wantsHelp(args) {
				return cmd.Help()
			}

			cfg, log, err := loadConfig(args, logging.BackendZap, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if z, ok := log.(*logging.ZapLogger); ok {
				defer func() { _ = z.Sync() }()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			notices := web.NewNotices()
			rt, err := bootstrap.Open(ctx, cfg, log, notices, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer rt.Close()

			rt.Session.Initialize(ctx)

			gin.SetMode(gin.ReleaseMode)
			return web.New(rt, notices, log).Run(ctx, cfg.WebAddr)
		},
	}
}
