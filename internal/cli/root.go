package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/on-the-ground/react_ive_go/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
}

// NewRootCommand creates the root command for the reactive CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "reactive",
		Short: "Reactive effect synchronization demos",
		Long: `Exercises the react_ive_go core: debounced async resources with
stale-result suppression, persistent slots with debounced flushing, and
outside-interaction guards.`,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a config.yaml (optional)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	cmd.AddCommand(NewFetchCommand(opts))
	cmd.AddCommand(NewSlotCommand(opts))
	cmd.AddCommand(NewDemoCommand(opts))

	return cmd
}

// loadConfig reads the optional config file plus environment, then builds
// the logger it describes; --verbose forces debug level.
func loadConfig(opts *RootOptions) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	logCfg := cfg.Log
	if opts.Verbose {
		logCfg.Level = "debug"
	}
	logger, err := logCfg.Build()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
