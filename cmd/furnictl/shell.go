package main

import (
	"github.com/dmitrijs2005/furnistore/internal/client/bootstrap"
	"github.com/dmitrijs2005/furnistore/internal/client/cli"
	"github.com/dmitrijs2005/furnistore/internal/logging"
	"github.com/spf13/cobra"
)

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "shell [flags]",
		Short:              "Start the interactive shell",
		Long:               "Start the interactive shell.\n\n" + configUsage,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if wantsHelp(args) {
				return cmd.Help()
			}

			cfg, log, err := loadConfig(args, logging.BackendSlog, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			app := cli.NewApp(cmd.InOrStdin(), cmd.OutOrStdout(), log)

			rt, err := bootstrap.Open(ctx, cfg, log, app, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer rt.Close()

			app.Attach(rt)
			return app.Run(ctx)
		},
	}
}
