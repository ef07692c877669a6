package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/mathcfg/internal/history"
	"github.com/msto63/mathcfg/internal/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var (
		host          string
		port          int
		recordHistory bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the WebSocket parse service",
		Long: `Starts the WebSocket parse service.

Endpoints:
  /ws       - WebSocket, requests {"type": "parse"|"tokenize"|"ping", "id", "input"}
  /healthz  - Health report with version information

Examples:
  mathcfg serve
  mathcfg serve --port 9000 --record-history`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := server.ConfigFrom(a.cfg.Server)
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("record-history") {
				cfg.RecordHistory = recordHistory
			}

			var store history.Store
			if cfg.RecordHistory {
				s, err := a.openHistory()
				if err != nil {
					return err
				}
				defer s.Close()
				store = s
			}

			srv, err := server.New(cfg, a.engine, store, a.logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			fmt.Fprintf(cmd.OutOrStdout(), "mathcfg parse service listening on ws://%s/ws\n", cfg.Address())

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (default from config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config)")
	cmd.Flags().BoolVar(&recordHistory, "record-history", false, "record every parse request in the history")
	return cmd
}
