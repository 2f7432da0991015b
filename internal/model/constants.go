package model

// FriendRequestStatus 친구 요청 상태
type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
)

// String 메서드
func (s FriendRequestStatus) String() string {
	return string(s)
}

// Highlight labels written for every saved meeting.
const (
	HighlightStartTime = "00:00"
	HighlightStartNote = "Meeting Start"
	HighlightEndTime   = "End"
	HighlightEndNote   = "Meeting End"
)
