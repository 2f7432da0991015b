package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashwat0010/streamify-chat-app/internal/model"
)

// Stats 데이터 현황 요약
type Stats struct {
	Users                    int64
	FriendLinks              int64
	PendingRequests          int64
	AcceptedRequests         int64
	Meetings                 int64
	MeetingsWithoutRecording int64
}

// Friendships counts each pair once; links are stored in both directions.
func (s Stats) Friendships() int64 {
	return s.FriendLinks / 2
}

// CollectStats 테이블별 현황 조회
func CollectStats(ctx context.Context, db *gorm.DB) (*Stats, error) {
	db = db.WithContext(ctx)
	var stats Stats

	if err := db.Model(&model.User{}).Count(&stats.Users).Error; err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if err := db.Model(&model.UserFriend{}).Count(&stats.FriendLinks).Error; err != nil {
		return nil, fmt.Errorf("count friend links: %w", err)
	}

	var requests struct {
		Pending  int64
		Accepted int64
	}
	query := `
		SELECT
			COUNT(CASE WHEN status = ? THEN 1 END) AS pending,
			COUNT(CASE WHEN status = ? THEN 1 END) AS accepted
		FROM friend_requests
	`
	if err := db.Raw(query, model.FriendRequestPending, model.FriendRequestAccepted).Scan(&requests).Error; err != nil {
		return nil, fmt.Errorf("friend request stats: %w", err)
	}
	stats.PendingRequests = requests.Pending
	stats.AcceptedRequests = requests.Accepted

	if err := db.Model(&model.Meeting{}).Count(&stats.Meetings).Error; err != nil {
		return nil, fmt.Errorf("count meetings: %w", err)
	}
	if err := db.Model(&model.Meeting{}).
		Where("call_id <> '' AND (recording_url IS NULL OR recording_url = '')").
		Count(&stats.MeetingsWithoutRecording).Error; err != nil {
		return nil, fmt.Errorf("count meetings without recording: %w", err)
	}

	return &stats, nil
}
