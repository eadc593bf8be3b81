// Package main is the playground command: a users screen driven by a
// Model-View-Intent store, usable as a terminal UI or headless.
package main

import (
	"fmt"
	"os"

	"playground/internal/config"
	"playground/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose    bool
	configPath string

	cfg    *config.Config
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "playground",
	Short: "A users screen driven by a Model-View-Intent store",
	Long: `playground shows a list of users behind a simulated network fetch.

Every key press becomes an event handled by a single store, which publishes
state snapshots and one-shot effects (dialogs, snackbars) back to the view.
Sessions are journaled so their state can be replayed later.

Run without arguments for the terminal UI.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runInteractive,
}

// setup loads the config and builds the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}

	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}

	l, err := logging.New(c.Logging, verbose)
	if err != nil {
		return err
	}

	cfg, logger = c, l
	logger.For(logging.CategoryBoot).Debug("config loaded",
		zap.String("path", path),
		zap.String("command", cmd.Name()))
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: .playground/config.yaml)")

	runCmd.Flags().DurationVar(&runWait, "wait", 0, "How long to keep streaming after the last event (default: fetch delay plus a margin when loading)")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
