package cmd

import (
	"github.com/daveharmswebdev/property-manager-sub008/config"
	"github.com/daveharmswebdev/property-manager-sub008/internal/app"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server and real-time hub",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadConfig()
		app.Start(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
