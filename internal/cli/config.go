package cli

import (
	"lessons-cli/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file := app.v.ConfigFileUsed()
			if file == "" {
				file = config.ConfigFile()
			}
			c := app.cfg
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"file": file,
					"server": map[string]any{
						"addr":    c.Server.Addr,
						"db_path": c.Server.DBPath,
					},
					"client": map[string]any{
						"base_url": c.Client.BaseURL,
						"timeout":  c.Client.Timeout.String(),
					},
					"logging": map[string]any{
						"level": c.Logging.Level,
						"file":  c.Logging.File,
					},
					"tui": map[string]any{
						"theme": c.TUI.Theme,
					},
				},
			})
		},
	}
}
