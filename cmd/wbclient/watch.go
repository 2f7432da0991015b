package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashwat0010/streamify-chat-app/internal/canvas"
	"github.com/shashwat0010/streamify-chat-app/internal/client"
)

var (
	flagWatchRoom string
	flagWatchSize string
	flagWatchOut  string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Mirror a whiteboard room until interrupted",
	Long: `Mirror a whiteboard room onto a local canvas. On Ctrl+C (or when the
server closes the connection) the canvas is written as PNG.

Examples:
  wbclient watch --room call-1 --size 1280x720 --out board.png`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd.Context())
	},
}

func init() {
	watchCmd.Flags().StringVar(&flagWatchRoom, "room", "", "room id (required)")
	watchCmd.Flags().StringVar(&flagWatchSize, "size", "800x600", "local canvas size")
	watchCmd.Flags().StringVar(&flagWatchOut, "out", "whiteboard.png", "PNG output path")
	watchCmd.MarkFlagRequired("room")
}

func runWatch(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	width, height, err := parseSize(flagWatchSize)
	if err != nil {
		return err
	}

	log := newLogger()
	defer log.Sync()

	surface := canvas.NewSurface(width, height)

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	c, err := client.Dial(dialCtx, flagServer, client.Options{
		Token:   flagToken,
		Applier: canvas.NewApplier(surface),
		Logger:  log,
	})
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.JoinRoom(flagWatchRoom); err != nil {
		return err
	}

	printTitle(fmt.Sprintf("Watching room %s (%dx%d)", flagWatchRoom, width, height))
	printInfo("Press Ctrl+C to stop and save")

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-sigCtx.Done():
	case <-c.Done():
		printInfo("connection closed by server")
	}

	if err := savePNG(surface, flagWatchOut); err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("saved %s (%d painted pixels)", flagWatchOut, surface.CountOpaque()))
	return nil
}
