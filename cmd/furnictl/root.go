package main

import (
	"io"
	"slices"

	"github.com/dmitrijs2005/furnistore/internal/buildinfo"
	"github.com/dmitrijs2005/furnistore/internal/client/config"
	"github.com/dmitrijs2005/furnistore/internal/logging"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "furnictl",
		Short:        "Furniture store client",
		Long:         "Shell and back-office console for the furniture store API.",
		SilenceUsage: true,
	}

	root.AddCommand(newShellCmd(), newServeCmd(), &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	})
	return root
}

// Subcommands take Go-style flags (-a, -i, -s, -c) handled by the config
// package, so cobra's own parsing is switched off for them.
func wantsHelp(args []string) bool {
	return slices.Contains(args, "-h") || slices.Contains(args, "--help") || slices.Contains(args, "-help")
}

const configUsage = `Flags:
  -a string   base URL of the storefront API
  -i int      session expiry check interval (seconds)
  -s string   path of the local session database
  -c string   JSON config file (also FURNI_CONFIG)
`

func loadConfig(args []string, defaultBackend string, logOut io.Writer) (*config.Config, logging.Logger, error) {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return nil, nil, err
	}
	if cfg.LogBackend == "" {
		cfg.LogBackend = defaultBackend
	}
	log, err := logging.New(cfg.LogBackend, cfg.LogLevel, logOut)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
