package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/shashwat0010/streamify-chat-app/internal/auth"
	"github.com/shashwat0010/streamify-chat-app/internal/export"
	"github.com/shashwat0010/streamify-chat-app/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MeetingHandler 회의 기록 핸들러
type MeetingHandler struct {
	meetings *service.MeetingService
	logger   *zap.Logger
}

// NewMeetingHandler MeetingHandler 생성
func NewMeetingHandler(meetings *service.MeetingService, logger *zap.Logger) *MeetingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MeetingHandler{meetings: meetings, logger: logger}
}

// CreateMeetingRequest 회의 기록 생성 요청
type CreateMeetingRequest struct {
	Participants []int64    `json:"participants"`
	StartTime    time.Time  `json:"startTime"`
	EndTime      *time.Time `json:"endTime"`
	CallID       string     `json:"callId"`
}

// CreateMeeting POST /api/meetings
func (h *MeetingHandler) CreateMeeting(c *fiber.Ctx) error {
	var req CreateMeetingRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.StartTime.IsZero() {
		return badRequest(c, "startTime is required")
	}
	if req.EndTime != nil && req.EndTime.Before(req.StartTime) {
		return badRequest(c, "endTime must not be before startTime")
	}

	meeting, err := h.meetings.Create(c.UserContext(), auth.UserIDFromContext(c), service.CreateMeetingInput{
		Participants: req.Participants,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		CallID:       sanitizeString(req.CallID),
	})
	if err != nil {
		h.logger.Error("create meeting", zap.Error(err))
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(meeting)
}

// GetMeetings GET /api/meetings
func (h *MeetingHandler) GetMeetings(c *fiber.Ctx) error {
	meetings, err := h.meetings.ListForUser(c.UserContext(), auth.UserIDFromContext(c))
	if err != nil {
		h.logger.Error("list meetings", zap.Error(err))
		return serviceError(c, err)
	}
	return c.JSON(meetings)
}

// GetMeeting GET /api/meetings/:id
func (h *MeetingHandler) GetMeeting(c *fiber.Ctx) error {
	meetingID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid meeting id")
	}

	meeting, err := h.meetings.Get(c.UserContext(), meetingID, auth.UserIDFromContext(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(meeting)
}

// CheckRecording POST /api/meetings/:id/check-recording
func (h *MeetingHandler) CheckRecording(c *fiber.Ctx) error {
	meetingID, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "invalid meeting id")
	}

	url, err := h.meetings.CheckRecording(c.UserContext(), meetingID, auth.UserIDFromContext(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"recordingUrl": url})
}

// ExportMeetings GET /api/meetings/export
func (h *MeetingHandler) ExportMeetings(c *fiber.Ctx) error {
	userID := auth.UserIDFromContext(c)
	meetings, err := h.meetings.ListForUser(c.UserContext(), userID)
	if err != nil {
		h.logger.Error("list meetings for export", zap.Error(err))
		return serviceError(c, err)
	}

	data, err := export.MeetingsXLSX(meetings)
	if err != nil {
		h.logger.Error("render meetings workbook", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to export meetings"})
	}

	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="meetings-%d.xlsx"`, userID))
	return c.Send(data)
}
