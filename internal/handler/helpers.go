package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/shashwat0010/streamify-chat-app/internal/service"
)

// sanitizeString 입력 문자열 정리 (앞뒤 공백 제거 + 제어 문자 제거)
func sanitizeString(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// paramID parses a positive integer route param.
func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return int64(id), true
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// serviceError maps service sentinel errors to HTTP responses.
func serviceError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := "internal server error"

	switch {
	case errors.Is(err, service.ErrSelfRequest):
		status, msg = fiber.StatusBadRequest, "You can't send a friend request to yourself"
	case errors.Is(err, service.ErrRequestExists):
		status, msg = fiber.StatusBadRequest, "Friend request already sent"
	case errors.Is(err, service.ErrNoCallID):
		status, msg = fiber.StatusBadRequest, "No call ID associated with this meeting"
	case errors.Is(err, service.ErrNotRecipient):
		status, msg = fiber.StatusForbidden, "You are not authorized to accept this request"
	case errors.Is(err, service.ErrNotParticipant):
		status, msg = fiber.StatusForbidden, "Not authorized to view this meeting"
	case errors.Is(err, service.ErrRequestNotFound):
		status, msg = fiber.StatusNotFound, "Friend request not found"
	case errors.Is(err, service.ErrMeetingNotFound):
		status, msg = fiber.StatusNotFound, "Meeting not found"
	case errors.Is(err, service.ErrUserNotFound):
		status, msg = fiber.StatusNotFound, "User not found"
	case errors.Is(err, service.ErrRecordingUnavailable):
		status, msg = fiber.StatusNotFound, "Recording still not available"
	}

	return c.Status(status).JSON(fiber.Map{"error": msg})
}
