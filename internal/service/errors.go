package service

import "errors"

var (
	ErrSelfRequest          = errors.New("cannot send a friend request to yourself")
	ErrRequestExists        = errors.New("friend request already sent")
	ErrRequestNotFound      = errors.New("friend request not found")
	ErrNotRecipient         = errors.New("not authorized to accept this request")
	ErrMeetingNotFound      = errors.New("meeting not found")
	ErrNotParticipant       = errors.New("not authorized to view this meeting")
	ErrNoCallID             = errors.New("no call id associated with this meeting")
	ErrRecordingUnavailable = errors.New("recording still not available")
	ErrUserNotFound         = errors.New("user not found")
)

// Notifier pushes realtime events to every session of a user.
type Notifier interface {
	NotifyUser(userID, eventType string, payload any)
}
