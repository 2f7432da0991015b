package model

import (
	"time"
)

// User 사용자
type User struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email            string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FullName         string    `gorm:"type:varchar(100);not null" json:"fullName"`
	Bio              string    `gorm:"type:text" json:"bio"`
	ProfilePic       string    `gorm:"type:text" json:"profilePic"`
	NativeLanguage   string    `gorm:"type:varchar(50)" json:"nativeLanguage"`
	LearningLanguage string    `gorm:"type:varchar(50)" json:"learningLanguage"`
	Location         string    `gorm:"type:varchar(100)" json:"location"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"createdAt"`

	// Relations
	Friends []*User `gorm:"many2many:user_friends;joinForeignKey:UserID;joinReferences:FriendID" json:"friends,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// PublicProfile is the subset of a user sent to other users.
type PublicProfile struct {
	ID         int64  `json:"id"`
	FullName   string `json:"fullName"`
	ProfilePic string `json:"profilePic"`
}

// Public 공개 프로필 반환
func (u User) Public() PublicProfile {
	return PublicProfile{ID: u.ID, FullName: u.FullName, ProfilePic: u.ProfilePic}
}

// UserFriend 친구 관계 (양방향 각각 한 행)
type UserFriend struct {
	UserID   int64 `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	FriendID int64 `gorm:"primaryKey;autoIncrement:false" json:"friendId"`
}

func (UserFriend) TableName() string {
	return "user_friends"
}

// FriendRequest 친구 요청
type FriendRequest struct {
	ID          int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	SenderID    int64               `gorm:"not null;index:idx_friend_request_pair" json:"senderId"`
	RecipientID int64               `gorm:"not null;index:idx_friend_request_pair;index" json:"recipientId"`
	Status      FriendRequestStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	CreatedAt   time.Time           `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time           `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relations
	Sender    *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Recipient *User `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
}

func (FriendRequest) TableName() string {
	return "friend_requests"
}

// Meeting 통화 기록
type Meeting struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	CallID       string     `gorm:"type:varchar(255);index" json:"callId"`
	StartTime    time.Time  `gorm:"not null" json:"startTime"`
	EndTime      *time.Time `json:"endTime,omitempty"`
	RecordingURL string     `gorm:"type:text" json:"recordingUrl"`
	Summary      string     `gorm:"type:text" json:"summary"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"createdAt"`

	// Relations
	Participants []*User            `gorm:"many2many:meeting_participants;joinForeignKey:MeetingID;joinReferences:UserID" json:"participants,omitempty"`
	Highlights   []MeetingHighlight `gorm:"foreignKey:MeetingID" json:"highlights,omitempty"`
}

func (Meeting) TableName() string {
	return "meetings"
}

// Duration 회의 시간 (종료 시간이 없으면 0)
func (m Meeting) Duration() time.Duration {
	if m.EndTime == nil || m.EndTime.Before(m.StartTime) {
		return 0
	}
	return m.EndTime.Sub(m.StartTime)
}

// MeetingParticipant 회의 참가자 조인 테이블
type MeetingParticipant struct {
	MeetingID int64 `gorm:"primaryKey;autoIncrement:false" json:"meetingId"`
	UserID    int64 `gorm:"primaryKey;autoIncrement:false" json:"userId"`
}

func (MeetingParticipant) TableName() string {
	return "meeting_participants"
}

// MeetingHighlight 회의 하이라이트
type MeetingHighlight struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	MeetingID int64  `gorm:"not null;index" json:"meetingId"`
	Time      string `gorm:"type:varchar(20);not null" json:"time"`
	Note      string `gorm:"type:text" json:"note"`
}

func (MeetingHighlight) TableName() string {
	return "meeting_highlights"
}
