package whiteboard_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashwat0010/streamify-chat-app/internal/whiteboard"
)

func TestNormalize_RoundTrip(t *testing.T) {
	sizes := [][2]int{{400, 300}, {800, 600}, {1920, 1080}, {37, 1013}}
	points := [][2]float64{{0, 0}, {12.5, 99}, {200, 150}, {36.999, 1012}}

	for _, size := range sizes {
		for _, p := range points {
			if p[0] > float64(size[0]) || p[1] > float64(size[1]) {
				continue
			}
			n, err := whiteboard.Normalize(p[0], p[1], 0, 0, size[0], size[1])
			require.NoError(t, err)
			back := whiteboard.Denormalize(n, size[0], size[1])
			assert.InDelta(t, p[0], back.X, 1e-9)
			assert.InDelta(t, p[1], back.Y, 1e-9)
		}
	}
}

func TestNormalize_SubtractsOrigin(t *testing.T) {
	n, err := whiteboard.Normalize(250, 180, 50, 30, 400, 300)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, n.X, 1e-12)
	assert.InDelta(t, 0.5, n.Y, 1e-12)
}

func TestNormalize_ZeroSizedCanvas(t *testing.T) {
	_, err := whiteboard.Normalize(1, 1, 0, 0, 0, 300)
	require.ErrorIs(t, err, whiteboard.ErrCanvasZeroSized)
}

func TestSegment_Validate(t *testing.T) {
	ok := whiteboard.Segment{X0: 0.1, Y0: 0.2, X1: 0.3, Y1: 0.4, Color: "#ff0000", Width: 2, Type: whiteboard.ToolPen}
	require.NoError(t, ok.Validate())

	bad := ok
	bad.Type = "spray"
	require.ErrorIs(t, bad.Validate(), whiteboard.ErrUnknownTool)

	bad = ok
	bad.X1 = math.NaN()
	require.ErrorIs(t, bad.Validate(), whiteboard.ErrBadCoordinate)

	bad = ok
	bad.Width = 0
	require.ErrorIs(t, bad.Validate(), whiteboard.ErrBadWidth)
}

func TestDrawRequest_DecodesClientPayload(t *testing.T) {
	raw := `{"roomId":"call-1","data":{"x0":0.5,"y0":0.5,"x1":0.6,"y1":0.5,"color":"#000000","width":10,"type":"eraser"}}`

	var req whiteboard.DrawRequest
	require.NoError(t, json.Unmarshal([]byte(raw), &req))
	require.NoError(t, req.Validate())
	assert.Equal(t, whiteboard.ID("call-1"), req.RoomID)
	assert.Equal(t, whiteboard.ToolEraser, req.Data.Type)
	assert.Equal(t, whiteboard.EraserWidth, req.Data.Width)

	require.ErrorIs(t, whiteboard.DrawRequest{Data: req.Data}.Validate(), whiteboard.ErrMissingRoomID)
	require.ErrorIs(t, whiteboard.DrawRequest{RoomID: "x"}.Validate(), whiteboard.ErrMissingSegment)
}

func TestDrawRequest_NumericRoomID(t *testing.T) {
	var req whiteboard.DrawRequest
	require.NoError(t, json.Unmarshal([]byte(`{"roomId":123,"data":{"x1":1,"color":"#000","width":2,"type":"pen"}}`), &req))
	require.NoError(t, req.Validate())
	assert.Equal(t, whiteboard.ID("123"), req.RoomID)

	req = whiteboard.DrawRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"roomId":null}`), &req))
	assert.ErrorIs(t, req.Validate(), whiteboard.ErrMissingRoomID)

	require.Error(t, json.Unmarshal([]byte(`{"roomId":{"id":1}}`), &req))
}

func TestFriendRequestEvent_NumericRecipient(t *testing.T) {
	var ev whiteboard.FriendRequestEvent
	require.NoError(t, json.Unmarshal([]byte(`{"recipientId":42,"senderData":{"id":7}}`), &ev))
	assert.Equal(t, whiteboard.ID("42"), ev.RecipientID)
	assert.JSONEq(t, `{"id":7}`, string(ev.SenderData))
}

func TestParseID(t *testing.T) {
	cases := []struct {
		raw  string
		want whiteboard.ID
		ok   bool
	}{
		{`"room-1"`, "room-1", true},
		{`42`, "42", true},
		{` 7 `, "7", true},
		{`""`, "", false},
		{`null`, "", false},
		{`{"id":1}`, "", false},
		{``, "", false},
	}

	for _, tc := range cases {
		got, err := whiteboard.ParseID(json.RawMessage(tc.raw))
		if tc.ok {
			require.NoError(t, err, tc.raw)
			assert.Equal(t, tc.want, got)
		} else {
			assert.ErrorIs(t, err, whiteboard.ErrBadID, tc.raw)
		}
	}
}
