package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashwat0010/streamify-chat-app/internal/model"
)

const recommendedLimit = 50

// ProfileUpdate 프로필 수정 요청. nil 필드는 변경하지 않는다.
type ProfileUpdate struct {
	FullName         *string `json:"fullName"`
	Bio              *string `json:"bio"`
	ProfilePic       *string `json:"profilePic"`
	NativeLanguage   *string `json:"nativeLanguage"`
	LearningLanguage *string `json:"learningLanguage"`
	Location         *string `json:"location"`
}

func (p ProfileUpdate) columns() map[string]any {
	cols := make(map[string]any)
	set := func(name string, v *string) {
		if v != nil {
			cols[name] = *v
		}
	}
	set("full_name", p.FullName)
	set("bio", p.Bio)
	set("profile_pic", p.ProfilePic)
	set("native_language", p.NativeLanguage)
	set("learning_language", p.LearningLanguage)
	set("location", p.Location)
	return cols
}

// UserService 사용자 조회/수정
type UserService struct {
	db *gorm.DB
}

// NewUserService UserService 생성
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetByID 사용자 조회
func (s *UserService) GetByID(ctx context.Context, userID int64) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

// FindByEmail 이메일로 사용자 검색 (정확히 일치)
func (s *UserService) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// Recommended lists users other than the caller and the caller's friends.
func (s *UserService) Recommended(ctx context.Context, userID int64) ([]model.User, error) {
	db := s.db.WithContext(ctx)
	friendIDs := db.Model(&model.UserFriend{}).Select("friend_id").Where("user_id = ?", userID)

	var users []model.User
	err := db.
		Where("id <> ?", userID).
		Where("id NOT IN (?)", friendIDs).
		Order("created_at DESC").
		Limit(recommendedLimit).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("recommended users: %w", err)
	}
	return users, nil
}

// UpdateProfile 프로필 수정
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*model.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	cols := update.columns()
	if len(cols) == 0 {
		return user, nil
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(cols).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}
