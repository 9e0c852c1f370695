package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gogpu/gg"

	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/apperr"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/export"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/mcpserver"
	"github.com/talyaglobal/v0-tsmartwarehouse-sub004/internal/tui"
)

// stderrLogger is used by front-ends that own stdout.
func (a *application) stderrLogger() *slog.Logger {
	if a.logger != nil {
		return a.logger
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
}

// RunMCP serves the editor tools over stdio until the client disconnects.
func RunMCP(_ context.Context, version string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.stderrLogger()
	slog.SetDefault(logger)
	gg.SetLogger(logger)

	st, err := openStack(app.config, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	logger.Info("MCP server starting on stdio")
	return mcpserver.New(st.service, st.catalog, version).ServeStdio()
}

// RunTUI opens planID in the terminal editor.
func RunTUI(ctx context.Context, planID string, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.stderrLogger()
	slog.SetDefault(logger)

	st, err := openStack(app.config, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	m, err := tui.New(ctx, st.service, st.catalog, planID)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// ExportRequest names a saved plan and where to write it.
type ExportRequest struct {
	PlanID string
	Format string
	Output string // "-" or empty writes to stdout
	Width  int
	Height int
}

// Export renders a saved plan to a file.
func Export(ctx context.Context, req ExportRequest, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.stderrLogger()
	gg.SetLogger(logger)

	st, err := openStack(app.config, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	if _, found, err := st.adapter.Load(ctx, req.PlanID); err != nil {
		return err
	} else if !found {
		return fmt.Errorf("export: plan %q: %w", req.PlanID, apperr.ErrNotFound)
	}
	scene, err := st.service.Scene(ctx, req.PlanID)
	if err != nil {
		return err
	}

	out := os.Stdout
	if req.Output != "" && req.Output != "-" {
		f, err := os.Create(req.Output)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		defer f.Close()
		out = f
	}

	f, err := export.Write(out, req.Format, scene, export.Options{
		Width:  req.Width,
		Height: req.Height,
		Title:  req.PlanID,
	})
	if err != nil {
		return err
	}
	logger.Info("plan exported",
		slog.String("plan", req.PlanID),
		slog.String("format", f.Name),
		slog.String("output", req.Output))
	return nil
}
