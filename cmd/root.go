package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/codebench/internal/config"
	"github.com/abhisek/codebench/internal/logging"
	"github.com/abhisek/codebench/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "codebench",
	Short: "Practice coding problems in your terminal",
	Long:  "codebench is a terminal workbench for coding practice: read a problem, write a solution, run the tests and submit.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CODEBENCH_DB)")
	rootCmd.PersistentFlags().String("problems", "", "Directory of extra problem banks (overrides CODEBENCH_PROBLEMS)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default $XDG_CONFIG_HOME/codebench/config.yaml)")
	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome screen")

	rootCmd.AddCommand(problemsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and environment, then applies flag
// overrides, which take the highest priority.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if p, _ := cmd.Flags().GetString("problems"); p != "" {
		cfg.ProblemsDir = p
	}
	return cfg, nil
}

// openStore opens the configured database, or the default XDG path.
func openStore(cfg config.Config) (*store.Store, error) {
	path := cfg.DBPath
	if path == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		path = p
	} else if err := store.EnsureDir(path); err != nil {
		return nil, err
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// openLogger opens the log file. Logging is best effort: a failure yields a
// discarding logger.
func openLogger(cfg config.Config) (*slog.Logger, func() error) {
	noop := func() error { return nil }
	path := cfg.LogPath
	if path == "" {
		p, err := logging.DefaultPath()
		if err != nil {
			return logging.Discard(), noop
		}
		path = p
	}
	logger, closeFn, err := logging.Open(path, cfg.LogLevel)
	if err != nil {
		return logging.Discard(), noop
	}
	return logger, closeFn
}
