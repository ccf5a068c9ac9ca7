package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/josexy/sockswire/auth"
	"github.com/josexy/sockswire/server"
	"github.com/josexy/sockswire/util/logger"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:     "server",
	Short:   "run the proxy server",
	Example: "  sockswire server -l :1080 --udp --proxy-protocol",
	Run: func(cmd *cobra.Command, args []string) {
		if cfg.Server == nil || cfg.Server.Listen == "" {
			cmd.Help()
			return
		}
		if err := startServer(); err != nil {
			logger.Logger.FatalBy(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func startServer() error {
	users := auth.NewStore()
	for _, u := range cfg.Server.Users {
		users.Add(u.Username, u.Password)
	}

	srv := server.New(server.Config{
		Addr:          cfg.Server.Listen,
		Users:         users,
		EnableUDP:     cfg.Server.Udp,
		ProxyProtocol: cfg.Server.ProxyProtocol,
		HTTPFallback:  cfg.Server.HttpFallback,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx)
}
