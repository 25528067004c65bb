package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"lessons-cli/internal/api"
	"lessons-cli/internal/config"
	"lessons-cli/internal/logging"
	"lessons-cli/internal/store"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(app *App) *cobra.Command {
	var addr string
	var dbPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the lessons REST API",
		Long: strings.TrimSpace(`
Run the REST API backed by a SQLite database.

Besides the JSON endpoints under /lessons, the server streams change events
over a websocket (/lessons/events) and serves a live HTML view at /.
`),
		Example: strings.TrimSpace(`
# Serve on the configured address
lessons serve

# Serve a throwaway database on another port
lessons serve --addr :3001 --db /tmp/lessons.sqlite
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				app.cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("db") {
				app.cfg.Server.DBPath = dbPath
			}
			listenAddr := strings.TrimSpace(app.cfg.Server.Addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("serve: missing --addr"))
			}

			log, err := app.logger(false)
			if err != nil {
				return writeErr(cmd, err)
			}
			watchLogLevel(app.v, log)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			st, err := store.Open(ctx, app.cfg.Server.DBPath)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			srv, err := api.NewServer(st, log.WithComponent("api"))
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}
			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      actualAddr,
					"url":       url,
					"db":        st.Path(),
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
			})
			log.Info("server started", "addr", actualAddr, "db", st.Path())

			return serve(ctx, ln, srv.Handler(), log)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Bind address (host:port or :port; default server.addr)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default server.db_path)")
	return cmd
}

// serve runs h on ln until ctx is done, then shuts down gracefully.
func serve(ctx context.Context, ln net.Listener, h http.Handler, log *logging.Logger) error {
	hs := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := hs.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		// Shutdown does not wait for hijacked websocket connections; their
		// handlers stop because request contexts derive from ctx.
		return hs.Shutdown(sctx)
	})
	return g.Wait()
}

// watchLogLevel applies logging.level changes from the config file while the
// server runs. Without a config file there is nothing to watch.
func watchLogLevel(v *viper.Viper, log *logging.Logger) {
	if v == nil || v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := config.Load(v)
		if err != nil {
			log.Warn("ignoring invalid config change", "file", e.Name, "error", err)
			return
		}
		log.SetLevel(cfg.Logging.Level)
		log.Info("config reloaded", "file", e.Name, "level", cfg.Logging.Level)
	})
	v.WatchConfig()
}
