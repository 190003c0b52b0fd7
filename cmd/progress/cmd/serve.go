/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/progress/pkg/api"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the read-only status API",
	Long: `Serve the task store over HTTP as JSON, with Prometheus metrics on /metrics.
The server only reads the store file, so the CLI can keep changing it meanwhile.

Examples:
  progress serve
  progress serve --bind 0.0.0.0 --port 9000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := container.Config()

		serverConfig := api.ServerConfig{
			Bind:   cfg.Server.Bind,
			Port:   cfg.Server.Port,
			APIKey: cfg.Server.APIKey,
		}
		if cmd.Flags().Changed("bind") {
			serverConfig.Bind, _ = cmd.Flags().GetString("bind")
		}
		if cmd.Flags().Changed("port") {
			serverConfig.Port, _ = cmd.Flags().GetInt("port")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cmd.Printf("🚀 Serving %s on http://%s\n", cfg.StorePath(),
			net.JoinHostPort(serverConfig.Bind, strconv.Itoa(serverConfig.Port)))

		starter := container.GetServerStarter()
		return starter.StartServer(ctx, container.OpenReadOnlyStore(), serverConfig, container.Logger())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind the server to (overrides server.bind)")
	serveCmd.Flags().IntP("port", "p", 8420, "Port to listen on (overrides server.port)")
}
