package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/passport/internal/shared"
	"github.com/desertthunder/passport/internal/ui"
)

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, r.config.Log.Level)
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, ui.Config{
		Auth:            r.auth,
		Playlists:       r.playlists,
		Passport:        r.passport,
		Recommendations: r.recs,
		Router:          r.router,
		Exporter:        r.engine,
		ExportDir:       cmd.String("export-dir"),
		StartPath:       cmd.String("view"),
		Logger:          fileLogger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
