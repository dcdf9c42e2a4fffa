package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/codebench/internal/app"
	"github.com/abhisek/codebench/internal/auth"
	"github.com/abhisek/codebench/internal/config"
	"github.com/abhisek/codebench/internal/editor"
	"github.com/abhisek/codebench/internal/fullscreen"
	"github.com/abhisek/codebench/internal/judge"
	"github.com/abhisek/codebench/internal/problems"
	"github.com/abhisek/codebench/internal/screen"
	"github.com/abhisek/codebench/internal/screens/home"
	"github.com/abhisek/codebench/internal/screens/login"
	"github.com/abhisek/codebench/internal/screens/workbench"
	"github.com/abhisek/codebench/internal/store"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog := openLogger(cfg)
	defer closeLog()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	catalog, err := problems.Load(cfg.ProblemsDir)
	if err != nil {
		return fmt.Errorf("load problems: %w", err)
	}

	runner, closeRunner, err := judge.NewRunner(ctx, judge.RunnerOptions{
		Kind:          cfg.Runner.Kind,
		Image:         cfg.Runner.Image,
		Timeout:       time.Duration(cfg.Runner.TimeoutSeconds) * time.Second,
		MemoryMB:      cfg.Runner.MemoryMB,
		MaxConcurrent: cfg.Runner.MaxConcurrent,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	defer closeRunner()
	catalog.AttachJudges(runner)

	tokens, err := newTokenAuth(ctx, cfg, st)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Could not read saved sign-in:", err)
	}

	skipSplash, _ := cmd.Flags().GetBool("no-splash")
	return app.Run(app.Options{
		Home: home.Options{
			Catalog:  catalog,
			Progress: st.ProgressRepo(),
			History:  st.EventRepo(),
			Attempts: st.EventRepo(),
			Workbench: workbench.Deps{
				Progress:   st.ProgressRepo(),
				Attempts:   st.EventRepo(),
				Settings:   editor.NewKVSettingsStore(st.SettingsRepo(), logger),
				Auth:       tokens,
				Platform:   fullscreen.NewTerminal(),
				Clipboard:  editor.SystemClipboard{},
				Downloader: editor.FileDownloader{Dir: cfg.DownloadsDir},
				Login:      func() screen.Screen { return login.New(tokens, logger) },
				Logger:     logger,
			},
			Logger: logger,
		},
		Identity:    tokens,
		SkipWelcome: skipSplash,
		Logger:      logger,
	})
}

// newTokenAuth loads the saved token. CODEBENCH_AUTH_TOKEN wins over the
// saved one for this process.
func newTokenAuth(ctx context.Context, cfg config.Config, st *store.Store) (*auth.TokenAuth, error) {
	a := auth.NewTokenAuth(st.SettingsRepo(), cfg.Auth.Secret, nil)
	if cfg.Auth.Token != "" {
		a.UseToken(cfg.Auth.Token)
		return a, nil
	}
	return a, a.Load(ctx)
}
