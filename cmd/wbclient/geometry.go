package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shashwat0010/streamify-chat-app/internal/whiteboard"
)

// parseSize parses "WIDTHxHEIGHT".
func parseSize(s string) (int, int, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q, want WIDTHxHEIGHT", s)
	}
	width, err := strconv.Atoi(w)
	if err != nil || width <= 0 {
		return 0, 0, fmt.Errorf("invalid width in %q", s)
	}
	height, err := strconv.Atoi(h)
	if err != nil || height <= 0 {
		return 0, 0, fmt.Errorf("invalid height in %q", s)
	}
	return width, height, nil
}

// parsePoint parses "x,y" in canvas pixels.
func parsePoint(s string) (whiteboard.Point, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return whiteboard.Point{}, fmt.Errorf("invalid point %q, want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return whiteboard.Point{}, fmt.Errorf("invalid x in %q", s)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return whiteboard.Point{}, fmt.Errorf("invalid y in %q", s)
	}
	return whiteboard.Point{X: x, Y: y}, nil
}

func parsePoints(raw []string) ([]whiteboard.Point, error) {
	points := make([]whiteboard.Point, 0, len(raw))
	for _, s := range raw {
		p, err := parsePoint(s)
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}
