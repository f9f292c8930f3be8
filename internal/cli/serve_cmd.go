package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/cityguide/internal/app"
	"github.com/spf13/cobra"
)

func newServeCmd(state *rootState) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the assistant and suggestion HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return state.withApp(cmd, func(ctx context.Context, a *app.App) error {
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()

				h := a.Config.HTTP
				if addr == "" {
					addr = h.Addr
				}
				return a.HTTPServer().ListenAndServe(ctx, addr, h.ReadTimeout, h.WriteTimeout)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
