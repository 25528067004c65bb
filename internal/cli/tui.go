package cli

import (
	"lessons-cli/internal/ordered"
	"lessons-cli/internal/tui"

	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive list (default when no command is given)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app, local)
		},
	}
	cmd.Flags().BoolVar(&local, "local", false, "Keep the list in memory instead of talking to the API")
	return cmd
}

func runTUI(cmd *cobra.Command, app *App, local bool) error {
	log, err := app.logger(true)
	if err != nil {
		return writeErr(cmd, err)
	}

	opts := tui.Options{Theme: app.cfg.TUI.Theme}
	if local {
		opts.Controller = ordered.NewLocal(ordered.NewState(nil))
		opts.Source = "in-memory"
	} else {
		c, err := app.client()
		if err != nil {
			return writeErr(cmd, err)
		}
		opts.Controller = ordered.NewRemote(ordered.NewState(nil), c, log.WithComponent("ordered"))
		opts.Remote = true
		opts.Source = c.BaseURL()
		opts.Subscribe = c.Subscribe
	}

	log.Info("tui started", "source", opts.Source)
	if err := tui.Run(cmd.Context(), opts); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}
