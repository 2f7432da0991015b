package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashwat0010/streamify-chat-app/internal/model"
	"github.com/shashwat0010/streamify-chat-app/internal/whiteboard"
)

// FriendAcceptedEvent friend-request-accepted 이벤트 페이로드
type FriendAcceptedEvent struct {
	RequestID int64 `json:"requestId"`
	UserID    int64 `json:"userId"`
}

// FriendService 친구 관련 비즈니스 로직
type FriendService struct {
	db       *gorm.DB
	notifier Notifier
}

// NewFriendService FriendService 생성. notifier 는 nil 이어도 된다.
func NewFriendService(db *gorm.DB, notifier Notifier) *FriendService {
	return &FriendService{db: db, notifier: notifier}
}

// SendRequest creates a pending request and notifies the recipient's user room.
func (s *FriendService) SendRequest(ctx context.Context, senderID, recipientID int64) (*model.FriendRequest, error) {
	if senderID == recipientID {
		return nil, ErrSelfRequest
	}

	db := s.db.WithContext(ctx)

	var users []model.User
	if err := db.Where("id IN ?", []int64{senderID, recipientID}).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	var sender *model.User
	recipientFound := false
	for i := range users {
		switch users[i].ID {
		case senderID:
			sender = &users[i]
		case recipientID:
			recipientFound = true
		}
	}
	if sender == nil || !recipientFound {
		return nil, ErrUserNotFound
	}

	var existing int64
	if err := db.Model(&model.FriendRequest{}).
		Where("sender_id = ? AND recipient_id = ?", senderID, recipientID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("check existing request: %w", err)
	}
	if existing > 0 {
		return nil, ErrRequestExists
	}

	req := &model.FriendRequest{
		SenderID:    senderID,
		RecipientID: recipientID,
		Status:      model.FriendRequestPending,
	}
	if err := db.Create(req).Error; err != nil {
		return nil, fmt.Errorf("create friend request: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyUser(strconv.FormatInt(recipientID, 10), whiteboard.EventNewFriendRequest, sender.Public())
	}
	return req, nil
}

// AcceptRequest marks the request accepted and links both users as friends.
func (s *FriendService) AcceptRequest(ctx context.Context, requestID, userID int64) (*model.FriendRequest, error) {
	db := s.db.WithContext(ctx)

	var req model.FriendRequest
	if err := db.First(&req, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("load friend request: %w", err)
	}
	if req.RecipientID != userID {
		return nil, ErrNotRecipient
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&req).Update("status", model.FriendRequestAccepted).Error; err != nil {
			return err
		}
		links := []model.UserFriend{
			{UserID: req.RecipientID, FriendID: req.SenderID},
			{UserID: req.SenderID, FriendID: req.RecipientID},
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
	})
	if err != nil {
		return nil, fmt.Errorf("accept friend request: %w", err)
	}
	req.Status = model.FriendRequestAccepted

	if s.notifier != nil {
		s.notifier.NotifyUser(strconv.FormatInt(req.SenderID, 10), whiteboard.EventFriendAccepted,
			FriendAcceptedEvent{RequestID: req.ID, UserID: userID})
	}
	return &req, nil
}

// IncomingRequests 받은 대기 중 요청 (보낸 사람 포함)
func (s *FriendService) IncomingRequests(ctx context.Context, userID int64) ([]model.FriendRequest, error) {
	var reqs []model.FriendRequest
	err := s.db.WithContext(ctx).
		Preload("Sender").
		Where("recipient_id = ? AND status = ?", userID, model.FriendRequestPending).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

// OutgoingRequests 보낸 대기 중 요청 (받는 사람 포함)
func (s *FriendService) OutgoingRequests(ctx context.Context, userID int64) ([]model.FriendRequest, error) {
	var reqs []model.FriendRequest
	err := s.db.WithContext(ctx).
		Preload("Recipient").
		Where("sender_id = ? AND status = ?", userID, model.FriendRequestPending).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

// Friends 친구 목록
func (s *FriendService) Friends(ctx context.Context, userID int64) ([]model.User, error) {
	var friends []model.User
	err := s.db.WithContext(ctx).
		Joins("JOIN user_friends ON user_friends.friend_id = users.id").
		Where("user_friends.user_id = ?", userID).
		Order("users.full_name").
		Find(&friends).Error
	return friends, err
}

// RemoveFriend unlinks both directions and forgets requests between the pair.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", userID, friendID, friendID, userID).
			Delete(&model.UserFriend{}).Error; err != nil {
			return fmt.Errorf("remove friend link: %w", err)
		}
		if err := tx.
			Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", userID, friendID, friendID, userID).
			Delete(&model.FriendRequest{}).Error; err != nil {
			return fmt.Errorf("remove friend requests: %w", err)
		}
		return nil
	})
}
