package cli

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/inkboard/inkboard/internal/app"
	"github.com/inkboard/inkboard/internal/infrastructure/httpapi"
)

func newServeCommand(container *app.Container) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket board server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			defer container.Close()

			if listen == "" {
				listen = container.Config.Server.Listen
			}
			confirmTTL := time.Duration(container.Config.Server.ConfirmTTLSeconds) * time.Second

			server := httpapi.NewServer(
				container.Interpreter,
				container.Store,
				container.Hub.HandleUpgrade,
				confirmTTL,
				listen,
				container.Logger,
			)
			return server.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default from config)")
	return cmd
}
