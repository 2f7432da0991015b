package handler

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/shashwat0010/streamify-chat-app/internal/config"
	"github.com/shashwat0010/streamify-chat-app/internal/hub"
	"github.com/shashwat0010/streamify-chat-app/internal/presence"
	"github.com/shashwat0010/streamify-chat-app/internal/session"
	"github.com/shashwat0010/streamify-chat-app/internal/whiteboard"
)

const presenceTimeout = 3 * time.Second

var errRecipientRequired = errors.New("recipientId is required")

// SocketHandler 화이트보드/알림 WebSocket 핸들러
type SocketHandler struct {
	relay     *hub.Relay
	presence  presence.Tracker
	cfg       config.WebSocketConfig
	queueSize int
	logger    *zap.Logger
}

// NewSocketHandler SocketHandler 생성. tracker 는 nil 이어도 된다.
func NewSocketHandler(relay *hub.Relay, tracker presence.Tracker, cfg config.WebSocketConfig, queueSize int, logger *zap.Logger) *SocketHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SocketHandler{
		relay:     relay,
		presence:  tracker,
		cfg:       cfg,
		queueSize: queueSize,
		logger:    logger.Named("socket"),
	}
}

// HandleWebSocket runs one connection: a reader that relays events and a
// writer that drains the session queue.
func (h *SocketHandler) HandleWebSocket(c *websocket.Conn) {
	sess := session.New(h.queueSize)
	log := h.logger.With(zap.String("session", sess.ID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("websocket panic recovered", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()

	if userID, ok := c.Locals("userID").(int64); ok && userID != 0 {
		sess.SetUserID(userID)
		h.trackConnect(sess)
	}
	log.Info("connected", zap.Int64("user", sess.UserID()))

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		h.writePump(c, sess)
	}()

	defer func() {
		rooms := h.relay.Registry().LeaveAll(sess)
		sess.Close()
		h.trackDisconnect(sess)
		<-writerDone
		c.Close()
		log.Info("disconnected", zap.Int("rooms", len(rooms)), zap.Duration("duration", sess.Duration()))
	}()

	h.readPump(c, sess, log)
}

func (h *SocketHandler) readPump(c *websocket.Conn, sess *session.Session, log *zap.Logger) {
	if h.cfg.MaxMessageSize > 0 {
		c.SetReadLimit(h.cfg.MaxMessageSize)
	}
	if h.cfg.PongWait > 0 {
		c.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
		c.SetPongHandler(func(string) error {
			return c.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
		})
	}

	for {
		msgType, raw, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("read error", zap.Error(err))
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		if h.cfg.PongWait > 0 {
			c.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
		}
		h.handleMessage(sess, raw)
	}
}

// writePump is the only goroutine writing to the connection.
func (h *SocketHandler) writePump(c *websocket.Conn, sess *session.Session) {
	var ping <-chan time.Time
	if period := h.cfg.PingPeriod(); period > 0 {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		ping = ticker.C
	}

	for {
		select {
		case frame, ok := <-sess.Outbound():
			h.setWriteDeadline(c)
			if !ok {
				c.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, frame); err != nil {
				h.logger.Debug("write failed", zap.String("session", sess.ID), zap.Error(err))
				// unblock the reader so the session is torn down
				c.Close()
				for range sess.Outbound() {
				}
				return
			}
		case <-ping:
			h.setWriteDeadline(c)
			if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				for range sess.Outbound() {
				}
				return
			}
		}
	}
}

func (h *SocketHandler) setWriteDeadline(c *websocket.Conn) {
	if h.cfg.WriteTimeout > 0 {
		c.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
	}
}

// handleMessage dispatches one client frame.
func (h *SocketHandler) handleMessage(sess *session.Session, raw []byte) {
	var env whiteboard.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.logger.Debug("invalid frame ignored", zap.String("session", sess.ID), zap.Error(err))
		return
	}

	switch env.Type {
	case whiteboard.EventJoinRoom:
		roomID, err := decodeID(env.Payload)
		if err != nil {
			h.replyError(sess, env.Type, err)
			return
		}
		if created := h.relay.Registry().Join(sess, hub.MeetingRoom(roomID)); created {
			h.logger.Debug("room created", zap.String("room", roomID))
		}

	case whiteboard.EventLeaveRoom:
		roomID, err := decodeID(env.Payload)
		if err != nil {
			h.replyError(sess, env.Type, err)
			return
		}
		h.relay.Registry().Leave(sess, hub.MeetingRoom(roomID))

	case whiteboard.EventDraw:
		var req whiteboard.DrawRequest
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			h.replyError(sess, env.Type, err)
			return
		}
		if err := req.Validate(); err != nil {
			h.replyError(sess, env.Type, err)
			return
		}
		h.relay.RelayDraw(sess, string(req.RoomID), *req.Data)

	case whiteboard.EventClearCanvas:
		roomID, err := decodeID(env.Payload)
		if err != nil {
			h.replyError(sess, env.Type, err)
			return
		}
		h.relay.RelayClear(sess, roomID)

	case whiteboard.EventJoinUserRoom:
		userID, err := decodeID(env.Payload)
		if err != nil {
			h.replyError(sess, env.Type, err)
			return
		}
		h.relay.Registry().Join(sess, hub.UserRoom(userID))

	case whiteboard.EventSendFriendRequest:
		var req whiteboard.FriendRequestEvent
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			h.replyError(sess, env.Type, err)
			return
		}
		if req.RecipientID == "" {
			h.replyError(sess, env.Type, errRecipientRequired)
			return
		}
		h.relay.NotifyUser(string(req.RecipientID), whiteboard.EventNewFriendRequest, req.SenderData)

	case whiteboard.EventPing:
		if userID := sess.UserID(); userID != 0 && h.presence != nil {
			ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
			if err := h.presence.Heartbeat(ctx, userID); err != nil {
				h.trackConnect(sess)
			}
			cancel()
		}
		h.reply(sess, whiteboard.EventPong, nil)

	default:
		h.logger.Debug("unknown event ignored", zap.String("session", sess.ID), zap.String("type", env.Type))
	}
}

func (h *SocketHandler) reply(sess *session.Session, eventType string, payload any) {
	frame, err := whiteboard.EncodeFrame(eventType, payload)
	if err != nil {
		return
	}
	if err := sess.Enqueue(frame); err != nil && !errors.Is(err, session.ErrClosed) {
		h.logger.Warn("reply dropped", zap.String("session", sess.ID), zap.Error(err))
	}
}

func (h *SocketHandler) replyError(sess *session.Session, eventType string, err error) {
	h.logger.Debug("bad payload", zap.String("session", sess.ID), zap.String("type", eventType), zap.Error(err))
	h.reply(sess, whiteboard.EventError, fiber.Map{"event": eventType, "message": err.Error()})
}

func (h *SocketHandler) trackConnect(sess *session.Session) {
	if h.presence == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
	defer cancel()
	if err := h.presence.Connect(ctx, sess.UserID(), sess.ID); err != nil {
		h.logger.Warn("presence connect failed", zap.Int64("user", sess.UserID()), zap.Error(err))
	}
}

func (h *SocketHandler) trackDisconnect(sess *session.Session) {
	if h.presence == nil || sess.UserID() == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), presenceTimeout)
	defer cancel()
	if err := h.presence.Disconnect(ctx, sess.UserID(), sess.ID); err != nil {
		h.logger.Warn("presence disconnect failed", zap.Int64("user", sess.UserID()), zap.Error(err))
	}
}

func decodeID(raw json.RawMessage) (string, error) {
	id, err := whiteboard.ParseID(raw)
	return string(id), err
}
