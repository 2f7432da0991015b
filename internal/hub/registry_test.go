package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashwat0010/streamify-chat-app/internal/session"
)

func TestJoin_Idempotent(t *testing.T) {
	reg := NewRegistry()
	s := session.New(4)

	assert.True(t, reg.Join(s, MeetingRoom("call-1")))
	assert.False(t, reg.Join(s, MeetingRoom("call-1")))

	assert.Len(t, reg.Members(MeetingRoom("call-1")), 1)
	assert.Equal(t, 1, reg.RoomCount())
}

func TestRoomKinds_DoNotCollide(t *testing.T) {
	reg := NewRegistry()
	a := session.New(4)
	b := session.New(4)

	reg.Join(a, MeetingRoom("42"))
	reg.Join(b, UserRoom("42"))

	assert.True(t, reg.IsMember(MeetingRoom("42"), a.ID))
	assert.False(t, reg.IsMember(MeetingRoom("42"), b.ID))
	assert.True(t, reg.IsMember(UserRoom("42"), b.ID))
	assert.False(t, reg.IsMember(UserRoom("42"), a.ID))
	assert.Equal(t, 2, reg.RoomCount())
}

func TestLeaveAll_RemovesEverywhere(t *testing.T) {
	reg := NewRegistry()
	a := session.New(4)
	b := session.New(4)

	reg.Join(a, MeetingRoom("r1"))
	reg.Join(a, MeetingRoom("r2"))
	reg.Join(a, UserRoom("u1"))
	reg.Join(b, MeetingRoom("r1"))

	left := reg.LeaveAll(a)
	assert.ElementsMatch(t, []RoomKey{MeetingRoom("r1"), MeetingRoom("r2"), UserRoom("u1")}, left)

	assert.Empty(t, reg.RoomsOf(a.ID))
	assert.False(t, reg.IsMember(MeetingRoom("r1"), a.ID))
	assert.True(t, reg.IsMember(MeetingRoom("r1"), b.ID))
	// r2 and u1 were only held by a
	assert.Equal(t, 1, reg.RoomCount())
}

func TestLeave_DropsEmptyRoom(t *testing.T) {
	reg := NewRegistry()
	s := session.New(4)

	reg.Join(s, MeetingRoom("r1"))
	reg.Leave(s, MeetingRoom("r1"))
	reg.Leave(s, MeetingRoom("r1"))

	assert.Zero(t, reg.RoomCount())
	assert.Empty(t, reg.Members(MeetingRoom("r1")))
}

func TestParseRoomKey(t *testing.T) {
	key, err := ParseRoomKey(MeetingRoom("call:with:colons").String())
	require.NoError(t, err)
	assert.Equal(t, MeetingRoom("call:with:colons"), key)

	_, err = ParseRoomKey("chat:1")
	require.Error(t, err)
	_, err = ParseRoomKey("user:")
	require.Error(t, err)
}
