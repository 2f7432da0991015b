package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/shashwat0010/streamify-chat-app/internal/whiteboard"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendQueueSize  = 256
)

// ErrClosed is returned when sending on a closed client.
var ErrClosed = errors.New("client closed")

// Applier receives remote canvas events.
type Applier interface {
	ApplyDraw(seg whiteboard.Segment) error
	ApplyClear() error
}

// Options configures Dial. Every field is optional.
type Options struct {
	// Token is sent as a Bearer token so the server can bind the socket to a user.
	Token            string
	Applier          Applier
	OnFriendRequest  func(sender json.RawMessage)
	OnFriendAccepted func(payload json.RawMessage)
	Logger           *zap.Logger
}

// Client is a headless whiteboard participant over one WebSocket.
type Client struct {
	conn *websocket.Conn
	opts Options
	log  *zap.Logger

	outgoing  chan []byte
	pongs     chan struct{}
	done      chan struct{}
	closed    chan struct{}
	closeOnce sync.Once
	syncMu    sync.Mutex
}

// Dial connects to the server's /ws endpoint and starts the pumps.
func Dial(ctx context.Context, serverURL string, opts Options) (*Client, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}

	header := http.Header{}
	if opts.Token != "" {
		header.Set("Authorization", "Bearer "+opts.Token)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), header)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	c := &Client{
		conn:     conn,
		opts:     opts,
		log:      log,
		outgoing: make(chan []byte, sendQueueSize),
		pongs:    make(chan struct{}, 1),
		done:     make(chan struct{}),
		closed:   make(chan struct{}),
	}

	conn.SetReadLimit(maxMessageSize)
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go c.readPump()
	go c.writePump()

	return c, nil
}

// JoinRoom joins a meeting whiteboard room.
func (c *Client) JoinRoom(roomID string) error {
	return c.send(whiteboard.EventJoinRoom, roomID)
}

// LeaveRoom leaves a meeting whiteboard room.
func (c *Client) LeaveRoom(roomID string) error {
	return c.send(whiteboard.EventLeaveRoom, roomID)
}

// JoinUserRoom subscribes to notifications addressed to userID.
func (c *Client) JoinUserRoom(userID string) error {
	return c.send(whiteboard.EventJoinUserRoom, userID)
}

// EmitDraw implements canvas.Emitter.
func (c *Client) EmitDraw(roomID string, seg whiteboard.Segment) error {
	return c.send(whiteboard.EventDraw, whiteboard.DrawRequest{RoomID: whiteboard.ID(roomID), Data: &seg})
}

// EmitClear implements canvas.Emitter.
func (c *Client) EmitClear(roomID string) error {
	return c.send(whiteboard.EventClearCanvas, roomID)
}

// SendFriendRequest relays senderData to the recipient's user room.
func (c *Client) SendFriendRequest(recipientID string, senderData any) error {
	data, err := json.Marshal(senderData)
	if err != nil {
		return err
	}
	return c.send(whiteboard.EventSendFriendRequest, whiteboard.FriendRequestEvent{
		RecipientID: whiteboard.ID(recipientID),
		SenderData:  data,
	})
}

// Sync sends a ping and waits for the pong. The server handles a socket's
// frames in order, so every frame sent before Sync has been processed when
// it returns.
func (c *Client) Sync(ctx context.Context) error {
	c.syncMu.Lock()
	defer c.syncMu.Unlock()

	select {
	case <-c.pongs:
	default:
	}
	if err := c.send(whiteboard.EventPing, nil); err != nil {
		return err
	}

	select {
	case <-c.pongs:
		return nil
	case <-c.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when the connection has ended.
func (c *Client) Done() <-chan struct{} {
	return c.closed
}

// Close sends a close frame and tears the connection down.
func (c *Client) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	select {
	case <-c.closed:
	case <-time.After(writeWait):
		c.conn.Close()
	}
	return nil
}

func (c *Client) send(eventType string, payload any) error {
	frame, err := whiteboard.EncodeFrame(eventType, payload)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return ErrClosed
	case <-c.closed:
		return ErrClosed
	default:
	}
	select {
	case c.outgoing <- frame:
		return nil
	case <-c.done:
		return ErrClosed
	case <-c.closed:
		return ErrClosed
	}
}

// readPump reads messages from the WebSocket connection.
func (c *Client) readPump() {
	defer func() {
		c.conn.Close()
		close(c.closed)
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug("read failed", zap.Error(err))
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.dispatch(data)
	}
}

func (c *Client) dispatch(data []byte) {
	var env whiteboard.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.log.Debug("invalid frame ignored", zap.Error(err))
		return
	}

	switch env.Type {
	case whiteboard.EventDraw:
		if c.opts.Applier == nil {
			return
		}
		var seg whiteboard.Segment
		if err := json.Unmarshal(env.Payload, &seg); err != nil {
			c.log.Debug("bad draw payload", zap.Error(err))
			return
		}
		if err := c.opts.Applier.ApplyDraw(seg); err != nil {
			c.log.Warn("apply draw failed", zap.Error(err))
		}

	case whiteboard.EventClearCanvas:
		if c.opts.Applier == nil {
			return
		}
		if err := c.opts.Applier.ApplyClear(); err != nil {
			c.log.Warn("apply clear failed", zap.Error(err))
		}

	case whiteboard.EventNewFriendRequest:
		if c.opts.OnFriendRequest != nil {
			c.opts.OnFriendRequest(env.Payload)
		}

	case whiteboard.EventFriendAccepted:
		if c.opts.OnFriendAccepted != nil {
			c.opts.OnFriendAccepted(env.Payload)
		}

	case whiteboard.EventPong:
		select {
		case c.pongs <- struct{}{}:
		default:
		}

	case whiteboard.EventError:
		c.log.Warn("server rejected frame", zap.ByteString("payload", env.Payload))
	}
}

// writePump writes messages to the WebSocket connection and sends periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.outgoing:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case <-c.closed:
			return
		}
	}
}
