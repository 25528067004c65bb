// Package tui is the interactive Bubble Tea front end for a lessons controller.
package tui

import (
	"context"

	"lessons-cli/internal/client"
	"lessons-cli/internal/ordered"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Controller ordered.Controller

	// Remote runs controller operations asynchronously and reloads on start.
	Remote bool
	// Source names where lessons come from, shown in the header.
	Source string
	// Subscribe, when set, feeds change notifications that trigger a reload.
	Subscribe func(ctx context.Context) (<-chan client.Change, error)
	// Theme is auto, light or dark.
	Theme string
}

func Run(ctx context.Context, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)

	m := newAppModel(ctx, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
