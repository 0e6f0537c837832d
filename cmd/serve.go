package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/Lumos-Labs-HQ/mockforge/internal/server"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve generation over HTTP",
	Long: `
Start an HTTP API that generates batches on request.

Endpoints:
  POST /generate        {"schema": {...}, "count": N}  (optional ?seed=N)
  GET  /schema/default  the example schema
  GET  /health

Examples:
  mockforge serve
  mockforge serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		srv, err := server.New(cfg)
		if err != nil {
			return err
		}

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-quit
			color.Yellow("🛑 Shutting down...")
			srv.Shutdown()
		}()

		return srv.Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 3000, "Port to run the API on")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}
