package whiteboard

import (
	"errors"
	"math"
)

// Tool 드로잉 도구
type Tool string

const (
	ToolPen    Tool = "pen"
	ToolEraser Tool = "eraser"
)

// String 메서드
func (t Tool) String() string {
	return string(t)
}

// Valid reports whether t is a known tool.
func (t Tool) Valid() bool {
	return t == ToolPen || t == ToolEraser
}

const (
	// EraserWidth is the fixed eraser width, independent of the pen width.
	EraserWidth = 10.0

	DefaultPenColor = "#000000"
	DefaultPenWidth = 2.0
)

var (
	ErrUnknownTool     = errors.New("unknown tool")
	ErrBadCoordinate   = errors.New("coordinate is not a finite number")
	ErrBadWidth        = errors.New("line width must be positive")
	ErrMissingRoomID   = errors.New("room id is required")
	ErrMissingSegment  = errors.New("segment data is required")
	ErrCanvasZeroSized = errors.New("canvas has zero width or height")
)

// Segment is one line piece between two normalized points.
// Coordinates are fractions of the emitting canvas width/height.
type Segment struct {
	X0    float64 `json:"x0" msgpack:"x0"`
	Y0    float64 `json:"y0" msgpack:"y0"`
	X1    float64 `json:"x1" msgpack:"x1"`
	Y1    float64 `json:"y1" msgpack:"y1"`
	Color string  `json:"color" msgpack:"color"`
	Width float64 `json:"width" msgpack:"width"`
	Type  Tool    `json:"type" msgpack:"type"`
}

// Validate checks the segment is paintable. It does not clamp coordinates:
// a point slightly outside [0,1] still maps to a sane pixel on the receiver.
func (s Segment) Validate() error {
	if !s.Type.Valid() {
		return ErrUnknownTool
	}
	for _, v := range [...]float64{s.X0, s.Y0, s.X1, s.Y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrBadCoordinate
		}
	}
	if !(s.Width > 0) || math.IsInf(s.Width, 0) {
		return ErrBadWidth
	}
	return nil
}

// DrawRequest is the client payload of a "draw" event.
type DrawRequest struct {
	RoomID ID       `json:"roomId"`
	Data   *Segment `json:"data"`
}

// Validate checks room scope and segment.
func (r DrawRequest) Validate() error {
	if r.RoomID == "" {
		return ErrMissingRoomID
	}
	if r.Data == nil {
		return ErrMissingSegment
	}
	return r.Data.Validate()
}
