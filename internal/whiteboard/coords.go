package whiteboard

// Point is a position on a canvas, either in pixels or normalized.
type Point struct {
	X float64
	Y float64
}

// Normalize converts a client pixel position into fractions of the canvas
// size: (client - origin) / dimension, independently per axis.
func Normalize(clientX, clientY, originX, originY float64, width, height int) (Point, error) {
	if width <= 0 || height <= 0 {
		return Point{}, ErrCanvasZeroSized
	}
	return Point{
		X: (clientX - originX) / float64(width),
		Y: (clientY - originY) / float64(height),
	}, nil
}

// Denormalize maps a normalized point onto a canvas of the given size.
func Denormalize(p Point, width, height int) Point {
	return Point{
		X: p.X * float64(width),
		Y: p.Y * float64(height),
	}
}

// From returns the segment start as a normalized point.
func (s Segment) From() Point { return Point{X: s.X0, Y: s.Y0} }

// To returns the segment end as a normalized point.
func (s Segment) To() Point { return Point{X: s.X1, Y: s.Y1} }
