package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashwat0010/streamify-chat-app/internal/model"
	"github.com/shashwat0010/streamify-chat-app/internal/recording"
)

// RecordingCache remembers recording URLs per call id and meeting start.
type RecordingCache interface {
	GetRecording(ctx context.Context, key string) (string, bool)
	SetRecording(ctx context.Context, key, url string)
}

// CreateMeetingInput 회의 기록 저장 요청
type CreateMeetingInput struct {
	Participants []int64
	StartTime    time.Time
	EndTime      *time.Time
	CallID       string
}

// MeetingService 회의 기록 비즈니스 로직
type MeetingService struct {
	db     *gorm.DB
	finder recording.Finder
	cache  RecordingCache
	logger *zap.Logger
}

// NewMeetingService MeetingService 생성. finder, cache 는 nil 이어도 된다.
func NewMeetingService(db *gorm.DB, finder recording.Finder, cache RecordingCache, logger *zap.Logger) *MeetingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MeetingService{db: db, finder: finder, cache: cache, logger: logger}
}

// Summary builds the one-line meeting description stored with each record.
func Summary(start time.Time, end *time.Time, participants int) string {
	minutes := 0
	if end != nil {
		minutes = int(math.Round(end.Sub(start).Minutes()))
	}
	return fmt.Sprintf("Meeting held on %s at %s. Participants: %d. Duration: %d minutes.",
		start.Format("1/2/2006"), start.Format("3:04:05 PM"), participants, minutes)
}

// DefaultHighlights 기본 하이라이트 (시작/종료)
func DefaultHighlights() []model.MeetingHighlight {
	return []model.MeetingHighlight{
		{Time: model.HighlightStartTime, Note: model.HighlightStartNote},
		{Time: model.HighlightEndTime, Note: model.HighlightEndNote},
	}
}

// Create saves a finished meeting. The caller is always recorded as a participant.
func (s *MeetingService) Create(ctx context.Context, userID int64, in CreateMeetingInput) (*model.Meeting, error) {
	participants := make([]int64, 0, len(in.Participants)+1)
	for _, id := range in.Participants {
		if id != 0 && !slices.Contains(participants, id) {
			participants = append(participants, id)
		}
	}
	if !slices.Contains(participants, userID) {
		participants = append(participants, userID)
	}

	meeting := &model.Meeting{
		CallID:    in.CallID,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Summary:   Summary(in.StartTime, in.EndTime, len(participants)),
	}
	if in.CallID != "" {
		meeting.RecordingURL = s.lookupRecording(ctx, in.CallID, nil)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(meeting).Error; err != nil {
			return fmt.Errorf("create meeting: %w", err)
		}

		highlights := DefaultHighlights()
		for i := range highlights {
			highlights[i].MeetingID = meeting.ID
		}
		if err := tx.Create(&highlights).Error; err != nil {
			return fmt.Errorf("create highlights: %w", err)
		}
		meeting.Highlights = highlights

		rows := make([]model.MeetingParticipant, 0, len(participants))
		for _, id := range participants {
			rows = append(rows, model.MeetingParticipant{MeetingID: meeting.ID, UserID: id})
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return fmt.Errorf("add participants: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("meeting saved",
		zap.Int64("meeting", meeting.ID), zap.String("call", in.CallID), zap.Int("participants", len(participants)))
	return meeting, nil
}

// ListForUser 사용자가 참여한 회의 목록 (최신순)
func (s *MeetingService) ListForUser(ctx context.Context, userID int64) ([]model.Meeting, error) {
	var meetings []model.Meeting
	err := s.db.WithContext(ctx).
		Joins("JOIN meeting_participants ON meeting_participants.meeting_id = meetings.id").
		Where("meeting_participants.user_id = ?", userID).
		Preload("Participants").
		Preload("Highlights").
		Order("meetings.created_at DESC").
		Find(&meetings).Error
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	return meetings, nil
}

// Get returns a meeting the user participated in.
func (s *MeetingService) Get(ctx context.Context, meetingID, userID int64) (*model.Meeting, error) {
	meeting, err := s.authorize(ctx, meetingID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).
		Preload("Participants").
		Preload("Highlights").
		First(meeting, meetingID).Error; err != nil {
		return nil, fmt.Errorf("load meeting: %w", err)
	}
	return meeting, nil
}

// CheckRecording returns the stored recording URL, looking it up again when
// the meeting was saved before the recording was ready.
func (s *MeetingService) CheckRecording(ctx context.Context, meetingID, userID int64) (string, error) {
	meeting, err := s.authorize(ctx, meetingID, userID)
	if err != nil {
		return "", err
	}
	if meeting.RecordingURL != "" {
		return meeting.RecordingURL, nil
	}
	if meeting.CallID == "" {
		return "", ErrNoCallID
	}

	start := meeting.StartTime
	url := s.lookupRecording(ctx, meeting.CallID, &start)
	if url == "" {
		return "", ErrRecordingUnavailable
	}

	if err := s.db.WithContext(ctx).Model(meeting).Update("recording_url", url).Error; err != nil {
		return "", fmt.Errorf("save recording url: %w", err)
	}
	return url, nil
}

func (s *MeetingService) authorize(ctx context.Context, meetingID, userID int64) (*model.Meeting, error) {
	db := s.db.WithContext(ctx)

	var meeting model.Meeting
	if err := db.First(&meeting, meetingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMeetingNotFound
		}
		return nil, fmt.Errorf("load meeting: %w", err)
	}

	var count int64
	if err := db.Model(&model.MeetingParticipant{}).
		Where("meeting_id = ? AND user_id = ?", meetingID, userID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check participant: %w", err)
	}
	if count == 0 {
		return nil, ErrNotParticipant
	}
	return &meeting, nil
}

// recordingCacheKey scopes a cached URL to the selection it came from, so a
// reused call id never serves another meeting's recording.
func recordingCacheKey(callID string, start *time.Time) string {
	if start == nil {
		return callID
	}
	return fmt.Sprintf("%s@%d", callID, start.UTC().Unix())
}

// lookupRecording never fails the caller; a missing recording is an empty URL.
func (s *MeetingService) lookupRecording(ctx context.Context, callID string, start *time.Time) string {
	key := recordingCacheKey(callID, start)
	if s.cache != nil {
		if url, ok := s.cache.GetRecording(ctx, key); ok {
			return url
		}
	}
	if s.finder == nil {
		return ""
	}

	url, err := s.finder.Find(ctx, callID, start)
	if err != nil {
		if !errors.Is(err, recording.ErrNoRecording) {
			s.logger.Warn("recording lookup failed", zap.String("call", callID), zap.Error(err))
		}
		return ""
	}
	if s.cache != nil {
		s.cache.SetRecording(ctx, key, url)
	}
	return url
}
