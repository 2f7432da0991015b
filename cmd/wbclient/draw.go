package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashwat0010/streamify-chat-app/internal/canvas"
	"github.com/shashwat0010/streamify-chat-app/internal/client"
	"github.com/shashwat0010/streamify-chat-app/internal/whiteboard"
)

const dialTimeout = 10 * time.Second

var (
	flagDrawRoom  string
	flagDrawSize  string
	flagDrawFrom  string
	flagDrawTo    []string
	flagDrawColor string
	flagDrawWidth float64
	flagDrawTool  string
	flagDrawClear bool
	flagDrawOut   string
)

var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Draw a polyline into a whiteboard room",
	Long: `Draw a polyline into a whiteboard room. Points are canvas pixels of a
virtual canvas of --size; other members see it scaled to their canvas.

Examples:
  wbclient draw --room call-1 --from 10,10 --to 200,150 --to 390,10
  wbclient draw --room call-1 --tool eraser --from 0,0 --to 400,300 --out local.png
  wbclient draw --room call-1 --clear`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDraw(cmd.Context())
	},
}

func init() {
	drawCmd.Flags().StringVar(&flagDrawRoom, "room", "", "room id (required)")
	drawCmd.Flags().StringVar(&flagDrawSize, "size", "800x600", "virtual canvas size")
	drawCmd.Flags().StringVar(&flagDrawFrom, "from", "", "start point x,y")
	drawCmd.Flags().StringArrayVar(&flagDrawTo, "to", nil, "next point x,y (repeatable)")
	drawCmd.Flags().StringVar(&flagDrawColor, "color", whiteboard.DefaultPenColor, "pen color")
	drawCmd.Flags().Float64Var(&flagDrawWidth, "width", whiteboard.DefaultPenWidth, "pen width")
	drawCmd.Flags().StringVar(&flagDrawTool, "tool", string(whiteboard.ToolPen), "pen | eraser")
	drawCmd.Flags().BoolVar(&flagDrawClear, "clear", false, "clear the room instead of drawing")
	drawCmd.Flags().StringVar(&flagDrawOut, "out", "", "save the local canvas as PNG")
	drawCmd.MarkFlagRequired("room")
}

func runDraw(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	width, height, err := parseSize(flagDrawSize)
	if err != nil {
		return err
	}

	var points []whiteboard.Point
	if !flagDrawClear {
		if flagDrawFrom == "" || len(flagDrawTo) == 0 {
			return errors.New("--from and at least one --to are required")
		}
		points, err = parsePoints(append([]string{flagDrawFrom}, flagDrawTo...))
		if err != nil {
			return err
		}
	}

	log := newLogger()
	defer log.Sync()

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()
	c, err := client.Dial(dialCtx, flagServer, client.Options{Token: flagToken, Logger: log})
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.JoinRoom(flagDrawRoom); err != nil {
		return err
	}

	surface := canvas.NewSurface(width, height)
	r := canvas.NewRenderer(surface, c, flagDrawRoom, log)

	if flagDrawClear {
		if err := r.Clear(); err != nil {
			return err
		}
	} else {
		if err := r.SetTool(whiteboard.Tool(flagDrawTool)); err != nil {
			return err
		}
		if err := r.SetColor(flagDrawColor); err != nil {
			return err
		}
		if err := r.SetLineWidth(flagDrawWidth); err != nil {
			return err
		}
		if err := drawPolyline(r, points); err != nil {
			return err
		}
	}

	// wait until the server has relayed everything
	if err := c.Sync(dialCtx); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	if flagDrawClear {
		printSuccess(fmt.Sprintf("cleared room %s", flagDrawRoom))
	} else {
		printSuccess(fmt.Sprintf("drew %d segment(s) in room %s", len(points)-1, flagDrawRoom))
	}

	if flagDrawOut != "" {
		if err := savePNG(surface, flagDrawOut); err != nil {
			return err
		}
		printInfo("saved " + flagDrawOut)
	}
	return nil
}

func drawPolyline(r *canvas.Renderer, points []whiteboard.Point) error {
	if len(points) < 2 {
		return errors.New("a polyline needs at least two points")
	}
	if err := r.PointerDown(points[0].X, points[0].Y); err != nil {
		return err
	}
	defer r.PointerUp()
	for _, p := range points[1:] {
		if err := r.PointerMove(p.X, p.Y); err != nil {
			return err
		}
	}
	return nil
}

func savePNG(surface *canvas.Surface, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := surface.EncodePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
