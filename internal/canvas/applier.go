package canvas

import (
	"github.com/shashwat0010/streamify-chat-app/internal/whiteboard"
)

// Applier paints segments received from other room members. It never emits.
type Applier struct {
	surface *Surface
}

// NewApplier Applier 생성
func NewApplier(surface *Surface) *Applier {
	return &Applier{surface: surface}
}

// ApplyDraw denormalizes against this surface's current size and paints
// with the transmitted color, width and tool.
func (a *Applier) ApplyDraw(seg whiteboard.Segment) error {
	if a.surface == nil {
		return ErrNoSurface
	}
	if err := seg.Validate(); err != nil {
		return err
	}
	style, err := NewStyle(seg.Type, seg.Color, seg.Width)
	if err != nil {
		return err
	}
	w, h := a.surface.Size()
	a.surface.Stroke(whiteboard.Denormalize(seg.From(), w, h), whiteboard.Denormalize(seg.To(), w, h), style)
	return nil
}

// ApplyClear 캔버스 전체 지우기
func (a *Applier) ApplyClear() error {
	if a.surface == nil {
		return ErrNoSurface
	}
	a.surface.Clear()
	return nil
}
