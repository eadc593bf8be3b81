package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"playground/cmd/playground/ui"
	"playground/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runInteractive runs the terminal UI until the user quits.
func runInteractive(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// The UI owns the terminal, so logs only go somewhere when a file is set.
	log := logger
	if cfg.Logging.File == "" {
		log = logging.Nop()
	}

	sess, err := openSession(ctx, cfg, log)
	if err != nil {
		return err
	}

	viewCtx, stopView := context.WithCancel(ctx)
	model := ui.NewHomeModel(viewCtx, sess.store, ui.HomeOptions{
		Styles:          ui.NewStyles(ui.DetectTheme(cfg.UI.DarkMode)),
		SnackbarTimeout: cfg.UI.GetSnackbarTimeout(),
		Logger:          log.For(logging.CategoryUI),
	})

	_, runErr := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	stopView()

	closeErr := sess.Close()
	if id := sess.ID(); id != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "session %s recorded in %s\n", id, cfg.Journal.Path)
	}
	if runErr != nil && ctx.Err() == nil {
		log.For(logging.CategoryUI).Error("ui exited", zap.Error(runErr))
		return fmt.Errorf("ui error: %w", runErr)
	}
	return closeErr
}
