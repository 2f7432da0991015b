package canvas

import (
	"sync"

	"go.uber.org/zap"

	"github.com/shashwat0010/streamify-chat-app/internal/whiteboard"
)

// Emitter sends locally drawn events to the room.
type Emitter interface {
	EmitDraw(roomID string, seg whiteboard.Segment) error
	EmitClear(roomID string) error
}

// Renderer turns pointer input into local paint plus emitted segments.
type Renderer struct {
	surface *Surface
	emitter Emitter
	roomID  string
	logger  *zap.Logger

	mu        sync.Mutex
	tool      whiteboard.Tool
	color     string
	width     float64
	originX   float64
	originY   float64
	capturing bool
	last      whiteboard.Point
}

// NewRenderer Renderer 생성 (기본: 검정 펜, 두께 2)
func NewRenderer(surface *Surface, emitter Emitter, roomID string, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{
		surface: surface,
		emitter: emitter,
		roomID:  roomID,
		logger:  logger,
		tool:    whiteboard.ToolPen,
		color:   whiteboard.DefaultPenColor,
		width:   whiteboard.DefaultPenWidth,
	}
}

// SetTool 도구 변경
func (r *Renderer) SetTool(tool whiteboard.Tool) error {
	if !tool.Valid() {
		return whiteboard.ErrUnknownTool
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tool = tool
	return nil
}

// SetColor 펜 색상 변경
func (r *Renderer) SetColor(hex string) error {
	if _, err := ParseColor(hex); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.color = hex
	return nil
}

// SetLineWidth sets the pen width. The eraser width stays fixed.
func (r *Renderer) SetLineWidth(width float64) error {
	if !(width > 0) {
		return whiteboard.ErrBadWidth
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.width = width
	return nil
}

// SetOrigin sets the canvas offset within the client coordinate space.
func (r *Renderer) SetOrigin(x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.originX, r.originY = x, y
}

// Capturing 드로잉 중 여부
func (r *Renderer) Capturing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.capturing
}

// PointerDown starts a stroke at the given client position.
func (r *Renderer) PointerDown(clientX, clientY float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, err := r.normalizeLocked(clientX, clientY)
	if err != nil {
		return err
	}
	r.last = p
	r.capturing = true
	return nil
}

// PointerMove paints and emits the segment from the last point while capturing.
func (r *Renderer) PointerMove(clientX, clientY float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.capturing {
		return nil
	}
	cur, err := r.normalizeLocked(clientX, clientY)
	if err != nil {
		return err
	}

	width := r.width
	if r.tool == whiteboard.ToolEraser {
		width = whiteboard.EraserWidth
	}
	seg := whiteboard.Segment{
		X0: r.last.X, Y0: r.last.Y,
		X1: cur.X, Y1: cur.Y,
		Color: r.color,
		Width: width,
		Type:  r.tool,
	}

	style, err := NewStyle(seg.Type, seg.Color, seg.Width)
	if err != nil {
		return err
	}
	w, h := r.surface.Size()
	r.surface.Stroke(whiteboard.Denormalize(r.last, w, h), whiteboard.Denormalize(cur, w, h), style)

	if r.emitter != nil {
		if err := r.emitter.EmitDraw(r.roomID, seg); err != nil {
			r.logger.Warn("emit draw failed", zap.String("room", r.roomID), zap.Error(err))
		}
	}
	r.last = cur
	return nil
}

// PointerUp 드로잉 종료
func (r *Renderer) PointerUp() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.capturing = false
}

// PointerLeave ends the stroke like PointerUp.
func (r *Renderer) PointerLeave() {
	r.PointerUp()
}

// Clear wipes the local surface first, then tells the room.
func (r *Renderer) Clear() error {
	if r.surface == nil {
		return ErrNoSurface
	}
	r.surface.Clear()

	if r.emitter != nil {
		if err := r.emitter.EmitClear(r.roomID); err != nil {
			r.logger.Warn("emit clear failed", zap.String("room", r.roomID), zap.Error(err))
		}
	}
	return nil
}

func (r *Renderer) normalizeLocked(clientX, clientY float64) (whiteboard.Point, error) {
	if r.surface == nil {
		return whiteboard.Point{}, ErrNoSurface
	}
	w, h := r.surface.Size()
	return whiteboard.Normalize(clientX, clientY, r.originX, r.originY, w, h)
}
