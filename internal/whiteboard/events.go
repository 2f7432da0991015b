package whiteboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// Socket event types shared by the server and the headless client.
const (
	EventJoinRoom          = "join-room"
	EventLeaveRoom         = "leave-room"
	EventDraw              = "draw"
	EventClearCanvas       = "clear-canvas"
	EventJoinUserRoom      = "join-user-room"
	EventSendFriendRequest = "send-friend-request"
	EventNewFriendRequest  = "new-friend-request"
	EventFriendAccepted    = "friend-request-accepted"
	EventPing              = "ping"
	EventPong              = "pong"
	EventError             = "error"
)

// Envelope 소켓 메시지 공통 포맷
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// OutboundEnvelope is the server side variant carrying an arbitrary payload.
type OutboundEnvelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// ErrBadID is returned for ids that are neither a non-empty string nor a number.
var ErrBadID = errors.New("id must be a non-empty string or number")

// ID is a room or user id as sent by clients. Browsers send both "42" and 42,
// so either form decodes to its text.
type ID string

// UnmarshalJSON implements json.Unmarshaler. null leaves the id empty.
func (id *ID) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	v, err := ParseID(data)
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// ParseID decodes a bare id payload.
func ParseID(raw json.RawMessage) (ID, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", ErrBadID
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return "", ErrBadID
		}
		return ID(s), nil
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return "", ErrBadID
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return "", ErrBadID
	}
	return ID(n.String()), nil
}

// FriendRequestEvent is the payload of "send-friend-request".
type FriendRequestEvent struct {
	RecipientID ID              `json:"recipientId"`
	SenderData  json.RawMessage `json:"senderData"`
}

// EncodeFrame marshals a server→client frame.
func EncodeFrame(eventType string, payload any) ([]byte, error) {
	return json.Marshal(OutboundEnvelope{Type: eventType, Payload: payload})
}
