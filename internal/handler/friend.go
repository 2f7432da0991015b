package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/shashwat0010/streamify-chat-app/internal/auth"
	"github.com/shashwat0010/streamify-chat-app/internal/model"
	"github.com/shashwat0010/streamify-chat-app/internal/presence"
	"github.com/shashwat0010/streamify-chat-app/internal/service"
)

// FriendHandler 친구 관련 핸들러
type FriendHandler struct {
	friends  *service.FriendService
	presence presence.Tracker
	logger   *zap.Logger
}

// NewFriendHandler FriendHandler 생성
func NewFriendHandler(friends *service.FriendService, tracker presence.Tracker, logger *zap.Logger) *FriendHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FriendHandler{friends: friends, presence: tracker, logger: logger}
}

// SendFriendRequestRequest 친구 요청 본문
type SendFriendRequestRequest struct {
	RecipientID int64 `json:"recipientId"`
}

// FriendResponse 친구 목록 항목
type FriendResponse struct {
	model.User
	Online bool `json:"online"`
}

// SendRequest POST /api/friends/request
func (h *FriendHandler) SendRequest(c *fiber.Ctx) error {
	userID := auth.UserIDFromContext(c)

	var req SendFriendRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.RecipientID <= 0 {
		return badRequest(c, "recipientId is required")
	}

	fr, err := h.friends.SendRequest(c.UserContext(), userID, req.RecipientID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fr)
}

// AcceptRequest PUT /api/friends/request/:requestId/accept
func (h *FriendHandler) AcceptRequest(c *fiber.Ctx) error {
	requestID, ok := paramID(c, "requestId")
	if !ok {
		return badRequest(c, "invalid request id")
	}

	fr, err := h.friends.AcceptRequest(c.UserContext(), requestID, auth.UserIDFromContext(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Friend request accepted", "request": fr})
}

// IncomingRequests GET /api/friends/requests
func (h *FriendHandler) IncomingRequests(c *fiber.Ctx) error {
	reqs, err := h.friends.IncomingRequests(c.UserContext(), auth.UserIDFromContext(c))
	if err != nil {
		h.logger.Error("list incoming requests", zap.Error(err))
		return serviceError(c, err)
	}
	return c.JSON(reqs)
}

// OutgoingRequests GET /api/friends/requests/outgoing
func (h *FriendHandler) OutgoingRequests(c *fiber.Ctx) error {
	reqs, err := h.friends.OutgoingRequests(c.UserContext(), auth.UserIDFromContext(c))
	if err != nil {
		h.logger.Error("list outgoing requests", zap.Error(err))
		return serviceError(c, err)
	}
	return c.JSON(reqs)
}

// List GET /api/friends
func (h *FriendHandler) List(c *fiber.Ctx) error {
	friends, err := h.friends.Friends(c.UserContext(), auth.UserIDFromContext(c))
	if err != nil {
		h.logger.Error("list friends", zap.Error(err))
		return serviceError(c, err)
	}

	online := map[int64]bool{}
	if h.presence != nil && len(friends) > 0 {
		ids := make([]int64, len(friends))
		for i, f := range friends {
			ids[i] = f.ID
		}
		if m, err := h.presence.OnlineMap(c.UserContext(), ids); err != nil {
			h.logger.Warn("presence lookup failed", zap.Error(err))
		} else {
			online = m
		}
	}

	resp := make([]FriendResponse, len(friends))
	for i, f := range friends {
		resp[i] = FriendResponse{User: f, Online: online[f.ID]}
	}
	return c.JSON(resp)
}

// Remove DELETE /api/friends/:friendId
func (h *FriendHandler) Remove(c *fiber.Ctx) error {
	friendID, ok := paramID(c, "friendId")
	if !ok {
		return badRequest(c, "invalid friend id")
	}
	if err := h.friends.RemoveFriend(c.UserContext(), auth.UserIDFromContext(c), friendID); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
