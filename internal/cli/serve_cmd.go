package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/intake/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve intake sessions over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := app.runtime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()
			sessions, err := rt.sessions()
			if err != nil {
				return err
			}

			if addr == "" {
				addr = rt.Config.Server.Addr()
			}
			opts := server.Options{
				Sessions: sessions,
				Logger:   rt.Logger,
				Addr:     addr,
			}
			if rt.Metrics != nil {
				opts.Metrics = rt.Metrics.Handler()
			}
			fmt.Fprintf(cmd.OutOrStdout(), "listening on http://%s\n", addr)
			return server.Start(ctx, opts)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.host and server.port)")
	return cmd
}
