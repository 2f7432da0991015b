package hub

import (
	"errors"

	"go.uber.org/zap"

	"github.com/shashwat0010/streamify-chat-app/internal/session"
	"github.com/shashwat0010/streamify-chat-app/internal/whiteboard"
)

// Publisher forwards locally relayed frames to other server instances.
type Publisher interface {
	Publish(key RoomKey, senderID string, frame []byte)
}

// Relay fans whiteboard events out to room members.
type Relay struct {
	registry  *Registry
	publisher Publisher
	logger    *zap.Logger
}

// NewRelay Relay 생성. publisher 는 nil 이어도 된다 (단일 인스턴스).
func NewRelay(registry *Registry, publisher Publisher, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{
		registry:  registry,
		publisher: publisher,
		logger:    logger,
	}
}

// SetPublisher wires the cross-instance bridge after construction.
func (r *Relay) SetPublisher(p Publisher) {
	r.publisher = p
}

// Registry 레지스트리 반환
func (r *Relay) Registry() *Registry {
	return r.registry
}

// RelayDraw forwards a segment to every other member of the meeting room.
// A sender outside the room is dropped silently.
func (r *Relay) RelayDraw(sender *session.Session, roomID string, seg whiteboard.Segment) {
	key := MeetingRoom(roomID)
	if !r.registry.IsMember(key, sender.ID) {
		r.logger.Debug("draw from non-member dropped",
			zap.String("session", sender.ID), zap.String("room", roomID))
		return
	}

	frame, err := whiteboard.EncodeFrame(whiteboard.EventDraw, seg)
	if err != nil {
		r.logger.Warn("encode draw frame", zap.Error(err))
		return
	}
	r.fanOut(key, sender.ID, frame)
}

// RelayClear forwards a clear signal to every other member of the meeting room.
func (r *Relay) RelayClear(sender *session.Session, roomID string) {
	key := MeetingRoom(roomID)
	if !r.registry.IsMember(key, sender.ID) {
		r.logger.Debug("clear from non-member dropped",
			zap.String("session", sender.ID), zap.String("room", roomID))
		return
	}

	frame, err := whiteboard.EncodeFrame(whiteboard.EventClearCanvas, nil)
	if err != nil {
		r.logger.Warn("encode clear frame", zap.Error(err))
		return
	}
	r.fanOut(key, sender.ID, frame)
}

// NotifyUser delivers an event to every session joined to the user's room.
func (r *Relay) NotifyUser(userID, eventType string, payload any) {
	frame, err := whiteboard.EncodeFrame(eventType, payload)
	if err != nil {
		r.logger.Warn("encode user notification", zap.String("type", eventType), zap.Error(err))
		return
	}
	r.fanOut(UserRoom(userID), "", frame)
}

func (r *Relay) fanOut(key RoomKey, senderID string, frame []byte) {
	r.DeliverLocal(key, senderID, frame)
	if r.publisher != nil {
		r.publisher.Publish(key, senderID, frame)
	}
}

// DeliverLocal enqueues the frame to local members of the room except senderID.
// It returns the number of sessions the frame was queued for.
func (r *Relay) DeliverLocal(key RoomKey, senderID string, frame []byte) int {
	delivered := 0
	for _, member := range r.registry.Members(key) {
		if member.ID == senderID {
			continue
		}
		if err := member.Enqueue(frame); err != nil {
			if errors.Is(err, session.ErrQueueFull) {
				r.logger.Warn("send buffer full, frame dropped",
					zap.String("session", member.ID), zap.Stringer("room", key))
			}
			continue
		}
		delivered++
	}
	return delivered
}
