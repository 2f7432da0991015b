package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/shashwat0010/streamify-chat-app/internal/whiteboard"
)

var (
	// ErrNoSurface is returned when no drawing surface is attached.
	ErrNoSurface = errors.New("no drawing surface")
	// ErrBadColor is returned for colors that are not #rgb or #rrggbb.
	ErrBadColor = errors.New("invalid color")
)

// Style 스트로크 스타일
type Style struct {
	Tool  whiteboard.Tool
	Color color.RGBA
	Width float64
}

// NewStyle builds the paint style for a tool. The eraser ignores color.
func NewStyle(tool whiteboard.Tool, hex string, width float64) (Style, error) {
	if !tool.Valid() {
		return Style{}, whiteboard.ErrUnknownTool
	}
	if !(width > 0) {
		return Style{}, whiteboard.ErrBadWidth
	}
	if tool == whiteboard.ToolEraser {
		return Style{Tool: tool, Width: width}, nil
	}
	c, err := ParseColor(hex)
	if err != nil {
		return Style{}, err
	}
	return Style{Tool: tool, Color: c, Width: width}, nil
}

// ParseColor parses "#rgb" or "#rrggbb" into an opaque color.
func ParseColor(hex string) (color.RGBA, error) {
	s, ok := strings.CutPrefix(hex, "#")
	if !ok {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, hex)
	}
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, hex)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// Surface is a transparent RGBA raster guarded by a mutex.
type Surface struct {
	mu  sync.RWMutex
	img *image.RGBA
}

// NewSurface Surface 생성
func NewSurface(width, height int) *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))}
}

// Size 현재 픽셀 크기
func (s *Surface) Size() (width, height int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize replaces the raster; existing content is discarded.
func (s *Surface) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.img = image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
}

// Clear makes every pixel fully transparent.
func (s *Surface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.img.Pix)
}

// At 픽셀 색상 조회
func (s *Surface) At(x, y int) color.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.img.RGBAAt(x, y)
}

// Stroke paints a round-capped line of the style's width between two pixel
// positions. Pens draw source-over; the eraser clears covered pixels.
func (s *Surface) Stroke(from, to whiteboard.Point, style Style) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := style.Width / 2
	bounds := s.img.Bounds()
	minX := max(int(math.Floor(math.Min(from.X, to.X)-r)), bounds.Min.X)
	maxX := min(int(math.Ceil(math.Max(from.X, to.X)+r)), bounds.Max.X-1)
	minY := max(int(math.Floor(math.Min(from.Y, to.Y)-r)), bounds.Min.Y)
	maxY := min(int(math.Ceil(math.Max(from.Y, to.Y)+r)), bounds.Max.Y-1)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			p := whiteboard.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			if distanceToSegment(p, from, to) > r {
				continue
			}
			if style.Tool == whiteboard.ToolEraser {
				s.img.SetRGBA(x, y, color.RGBA{})
				continue
			}
			s.img.SetRGBA(x, y, over(style.Color, s.img.RGBAAt(x, y)))
		}
	}
}

// over composites premultiplied src onto dst.
func over(src, dst color.RGBA) color.RGBA {
	if src.A == 0xff {
		return src
	}
	inv := uint32(0xff - src.A)
	return color.RGBA{
		R: src.R + uint8(uint32(dst.R)*inv/0xff),
		G: src.G + uint8(uint32(dst.G)*inv/0xff),
		B: src.B + uint8(uint32(dst.B)*inv/0xff),
		A: src.A + uint8(uint32(dst.A)*inv/0xff),
	}
}

func distanceToSegment(p, a, b whiteboard.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}

// CountOpaque returns the number of pixels with non-zero alpha.
func (s *Surface) CountOpaque() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for i := 3; i < len(s.img.Pix); i += 4 {
		if s.img.Pix[i] != 0 {
			n++
		}
	}
	return n
}

// EncodePNG PNG 로 저장
func (s *Surface) EncodePNG(w io.Writer) error {
	s.mu.RLock()
	snapshot := image.NewRGBA(s.img.Bounds())
	copy(snapshot.Pix, s.img.Pix)
	s.mu.RUnlock()

	return png.Encode(w, snapshot)
}
