package handler

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashwat0010/streamify-chat-app/internal/config"
	"github.com/shashwat0010/streamify-chat-app/internal/hub"
	"github.com/shashwat0010/streamify-chat-app/internal/presence"
	"github.com/shashwat0010/streamify-chat-app/internal/session"
	"github.com/shashwat0010/streamify-chat-app/internal/whiteboard"
)

func newSocketHandler(tracker presence.Tracker) *SocketHandler {
	relay := hub.NewRelay(hub.NewRegistry(), nil, nil)
	return NewSocketHandler(relay, tracker, config.WebSocketConfig{}, 16, nil)
}

func frame(t *testing.T, eventType string, payload any) []byte {
	t.Helper()
	data, err := json.Marshal(map[string]any{"type": eventType, "payload": payload})
	require.NoError(t, err)
	return data
}

func received(s *session.Session) []whiteboard.Envelope {
	var out []whiteboard.Envelope
	for {
		select {
		case data := <-s.Outbound():
			var env whiteboard.Envelope
			if json.Unmarshal(data, &env) == nil {
				out = append(out, env)
			}
		default:
			return out
		}
	}
}

var testSegment = whiteboard.Segment{X0: 0.1, Y0: 0.2, X1: 0.3, Y1: 0.4, Color: "#ff0000", Width: 4, Type: whiteboard.ToolPen}

func TestSocket_DrawReachesOtherMembersOnly(t *testing.T) {
	h := newSocketHandler(nil)
	a, b, outsider := session.New(8), session.New(8), session.New(8)

	h.handleMessage(a, frame(t, whiteboard.EventJoinRoom, "room-1"))
	h.handleMessage(b, frame(t, whiteboard.EventJoinRoom, "room-1"))
	h.handleMessage(outsider, frame(t, whiteboard.EventJoinRoom, "room-2"))

	h.handleMessage(a, frame(t, whiteboard.EventDraw, map[string]any{"roomId": "room-1", "data": testSegment}))

	assert.Empty(t, received(a))
	assert.Empty(t, received(outsider))

	got := received(b)
	require.Len(t, got, 1)
	assert.Equal(t, whiteboard.EventDraw, got[0].Type)

	var seg whiteboard.Segment
	require.NoError(t, json.Unmarshal(got[0].Payload, &seg))
	assert.Equal(t, testSegment, seg)
}

func TestSocket_ClearAndLeave(t *testing.T) {
	h := newSocketHandler(nil)
	a, b := session.New(8), session.New(8)

	h.handleMessage(a, frame(t, whiteboard.EventJoinRoom, "room-1"))
	h.handleMessage(b, frame(t, whiteboard.EventJoinRoom, "room-1"))

	h.handleMessage(a, frame(t, whiteboard.EventClearCanvas, "room-1"))
	got := received(b)
	require.Len(t, got, 1)
	assert.Equal(t, whiteboard.EventClearCanvas, got[0].Type)
	assert.Empty(t, received(a))

	h.handleMessage(b, frame(t, whiteboard.EventLeaveRoom, "room-1"))
	h.handleMessage(a, frame(t, whiteboard.EventClearCanvas, "room-1"))
	assert.Empty(t, received(b))
}

func TestSocket_DrawFromNonMemberIsDropped(t *testing.T) {
	h := newSocketHandler(nil)
	a, b := session.New(8), session.New(8)

	h.handleMessage(b, frame(t, whiteboard.EventJoinRoom, "room-1"))
	h.handleMessage(a, frame(t, whiteboard.EventDraw, map[string]any{"roomId": "room-1", "data": testSegment}))

	assert.Empty(t, received(b))
	assert.Empty(t, received(a))
}

func TestSocket_InvalidDrawGetsErrorFrame(t *testing.T) {
	h := newSocketHandler(nil)
	a := session.New(8)

	h.handleMessage(a, frame(t, whiteboard.EventDraw, map[string]any{"roomId": "room-1"}))

	got := received(a)
	require.Len(t, got, 1)
	assert.Equal(t, whiteboard.EventError, got[0].Type)
}

func TestSocket_IgnoresGarbage(t *testing.T) {
	h := newSocketHandler(nil)
	a := session.New(8)

	h.handleMessage(a, []byte("not json"))
	h.handleMessage(a, frame(t, "mystery", nil))

	assert.Empty(t, received(a))
	assert.Zero(t, h.relay.Registry().RoomCount())
}

func TestSocket_FriendRequestNotifiesUserRoom(t *testing.T) {
	h := newSocketHandler(nil)
	recipient, sender := session.New(8), session.New(8)

	// numeric ids are accepted too
	h.handleMessage(recipient, frame(t, whiteboard.EventJoinUserRoom, 42))
	h.handleMessage(sender, frame(t, whiteboard.EventSendFriendRequest, map[string]any{
		"recipientId": "42",
		"senderData":  map[string]any{"id": 7, "fullName": "Ada"},
	}))

	got := received(recipient)
	require.Len(t, got, 1)
	assert.Equal(t, whiteboard.EventNewFriendRequest, got[0].Type)
	assert.JSONEq(t, `{"id":7,"fullName":"Ada"}`, string(got[0].Payload))
	assert.Empty(t, received(sender))
}

func TestSocket_PingRefreshesPresence(t *testing.T) {
	tracker := presence.NewLocal()
	h := newSocketHandler(tracker)
	a := session.New(8)
	a.SetUserID(5)

	h.handleMessage(a, frame(t, whiteboard.EventPing, nil))

	got := received(a)
	require.Len(t, got, 1)
	assert.Equal(t, whiteboard.EventPong, got[0].Type)

	h.trackConnect(a)
	online, err := tracker.OnlineMap(context.Background(), []int64{5})
	require.NoError(t, err)
	assert.True(t, online[5])

	h.trackDisconnect(a)
	online, _ = tracker.OnlineMap(context.Background(), []int64{5})
	assert.False(t, online[5])
}

func TestSocket_NumericIDsMatchStringIDs(t *testing.T) {
	h := newSocketHandler(nil)
	a, b := session.New(8), session.New(8)

	h.handleMessage(a, frame(t, whiteboard.EventJoinRoom, 123))
	h.handleMessage(b, frame(t, whiteboard.EventJoinRoom, "123"))
	assert.Equal(t, 1, h.relay.Registry().RoomCount())

	h.handleMessage(a, frame(t, whiteboard.EventDraw, map[string]any{"roomId": 123, "data": testSegment}))
	assert.Empty(t, received(a))
	got := received(b)
	require.Len(t, got, 1)
	assert.Equal(t, whiteboard.EventDraw, got[0].Type)

	h.handleMessage(b, frame(t, whiteboard.EventClearCanvas, 123))
	got = received(a)
	require.Len(t, got, 1)
	assert.Equal(t, whiteboard.EventClearCanvas, got[0].Type)
}

func TestSocket_FriendRequestWithNumericRecipient(t *testing.T) {
	h := newSocketHandler(nil)
	recipient, sender := session.New(8), session.New(8)

	h.handleMessage(recipient, frame(t, whiteboard.EventJoinUserRoom, 42))
	h.handleMessage(sender, frame(t, whiteboard.EventSendFriendRequest, map[string]any{
		"recipientId": 42,
		"senderData":  map[string]any{"id": 7},
	}))

	assert.Empty(t, received(sender))
	got := received(recipient)
	require.Len(t, got, 1)
	assert.Equal(t, whiteboard.EventNewFriendRequest, got[0].Type)
	assert.JSONEq(t, `{"id":7}`, string(got[0].Payload))
}

func TestSocket_FriendRequestWithoutRecipient(t *testing.T) {
	h := newSocketHandler(nil)
	sender := session.New(8)

	h.handleMessage(sender, frame(t, whiteboard.EventSendFriendRequest, map[string]any{"senderData": map[string]any{"id": 7}}))

	got := received(sender)
	require.Len(t, got, 1)
	assert.Equal(t, whiteboard.EventError, got[0].Type)
}
