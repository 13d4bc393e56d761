// ABOUTME: Interactive terminal UI command
// ABOUTME: Logs to a file under the config dir so the alternate screen stays clean

package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/freelancehub/freelancehub-cli/internal/logger"
	"github.com/freelancehub/freelancehub-cli/internal/notify"
	"github.com/freelancehub/freelancehub-cli/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Open the interactive terminal UI",
	Run: func(cmd *cobra.Command, args []string) {
		if exitCode := runUI(os.Stderr); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)

	// Bare invocation opens the UI on a terminal and prints help otherwise
	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		if !isatty.IsTerminal(os.Stdout.Fd()) {
			_ = cmd.Help()
			return
		}
		if exitCode := runUI(os.Stderr); exitCode != 0 {
			os.Exit(exitCode)
		}
	}
}

// runUI wires the app with a queued notifier and runs the TUI
func runUI(w io.Writer) int {
	cfg, err := loadConfig()
	if err != nil {
		return fail(w, err)
	}

	closer, err := logger.InitFile(cfg.LogLevel, cfg.LogFormat, cfg.DebugLogPath())
	if err != nil {
		return fail(w, fmt.Errorf("failed to open debug log: %w", err))
	}
	defer closer.Close()

	notes := notify.NewQueue()
	a, err := newApp(cfg, notes)
	if err != nil {
		return fail(w, err)
	}

	backend := "mock data"
	if a.client != nil {
		backend = a.client.BaseURL()
	}
	slog.Info("Starting terminal UI", "backend", backend)

	if err := tui.Run(tui.Deps{
		Auth:     a.auth,
		Projects: a.projects,
		Guard:    a.guard,
		Notes:    notes,
		Backend:  backend,
	}); err != nil {
		return fail(w, err)
	}
	return 0
}
