package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	flagServer string
	flagAPI    string
	flagToken  string
	flagDebug  bool
)

var rootCmd = &cobra.Command{
	Use:   "wbclient",
	Short: "Headless Streamify whiteboard client",
	Long: `wbclient joins Streamify whiteboard rooms from the terminal.

It can draw a polyline into a room, mirror a room into a PNG file and
list the meeting history of the authenticated user.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagServer, "server", envOr("STREAMIFY_WS_URL", "ws://localhost:5001/ws"), "WebSocket endpoint")
	rootCmd.PersistentFlags().StringVar(&flagAPI, "api", envOr("STREAMIFY_API_URL", "http://localhost:5001"), "REST API base URL")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", os.Getenv("STREAMIFY_TOKEN"), "access token")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "verbose logging")

	rootCmd.AddCommand(drawCmd, watchCmd, meetingsCmd)
}

func main() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		printError(err.Error())
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
