package cli

import (
	"fmt"
	"os"
	"strings"

	"lessons-cli/internal/client"
	"lessons-cli/internal/config"
	"lessons-cli/internal/format"
	"lessons-cli/internal/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type App struct {
	ConfigFile string
	APIURL     string
	LogLevel   string
	PrettyJSON bool
	Format     string

	v   *viper.Viper
	cfg *config.Config
	log *logging.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "lessons",
		Short:        "Ordered lessons list: TUI, scripting commands and REST server",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the API server
  lessons serve

  # Start the interactive TUI against it
  lessons

  # Scriptable commands
  lessons add "Intro to Go"
  lessons move 2 up

  # Direct lesson lookup (shortcut for: lessons show <lesson-id>)
  lessons lesson-abcd2345
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app, false)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.load(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.log != nil {
			return app.log.Close()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigFile, "config", envOr("LESSONS_CONFIG", ""), "Config file (default: $XDG_CONFIG_HOME/lessons/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.APIURL, "api", "", "API base URL (overrides client.base_url)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (DEBUG|INFO|WARN|ERROR)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("LESSONS_FORMAT", format.JSON), "Output format (json|edn|yaml)")

	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newRmCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// load resolves configuration once flags are parsed. Flags win over the
// environment, which wins over the config file.
func (app *App) load(cmd *cobra.Command) error {
	if !format.Valid(app.Format) {
		return writeErr(cmd, fmt.Errorf("unknown --format %q (want one of %s)", app.Format, strings.Join(format.Formats, ", ")))
	}

	v, err := config.NewViper(app.ConfigFile)
	if err != nil {
		return writeErr(cmd, fmt.Errorf("load config: %w", err))
	}
	flags := cmd.Root().PersistentFlags()
	if err := v.BindPFlag("client.base_url", flags.Lookup("api")); err != nil {
		return writeErr(cmd, err)
	}
	if err := v.BindPFlag("logging.level", flags.Lookup("log-level")); err != nil {
		return writeErr(cmd, err)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.v, app.cfg = v, cfg
	return nil
}

// logger opens the configured log sink. The TUI owns the terminal, so without
// a log file it gets a discarding logger.
func (app *App) logger(forTUI bool) (*logging.Logger, error) {
	if app.log != nil {
		return app.log, nil
	}
	if forTUI && strings.TrimSpace(app.cfg.Logging.File) == "" {
		app.log = logging.Nop()
		return app.log, nil
	}
	l, err := logging.NewFile(app.cfg.Logging.File, app.cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	app.log = l
	return l, nil
}

func (app *App) client() (*client.Client, error) {
	return client.New(app.cfg.Client.BaseURL, client.WithTimeout(app.cfg.Client.Timeout))
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
