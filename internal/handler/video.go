package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/livekit/protocol/auth"
	"go.uber.org/zap"

	appauth "github.com/shashwat0010/streamify-chat-app/internal/auth"
	"github.com/shashwat0010/streamify-chat-app/internal/config"
)

const defaultTokenValidity = 6 * time.Hour

// VideoHandler LiveKit 통화 토큰 핸들러
type VideoHandler struct {
	cfg    config.LiveKitConfig
	logger *zap.Logger
}

// NewVideoHandler VideoHandler 생성
func NewVideoHandler(cfg config.LiveKitConfig, logger *zap.Logger) *VideoHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VideoHandler{cfg: cfg, logger: logger}
}

// TokenRequest 토큰 발급 요청
type TokenRequest struct {
	RoomName string `json:"roomName"`
}

// TokenResponse 토큰 발급 응답
type TokenResponse struct {
	Token string `json:"token"`
}

// GenerateToken POST /api/video/token
func (h *VideoHandler) GenerateToken(c *fiber.Ctx) error {
	if h.cfg.APIKey == "" || h.cfg.APISecret == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "video calls are not configured",
		})
	}

	var req TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	req.RoomName = sanitizeString(req.RoomName)
	if req.RoomName == "" {
		return badRequest(c, "roomName is required")
	}

	identity := strconv.FormatInt(appauth.UserIDFromContext(c), 10)
	name := identity
	if claims, ok := appauth.GetClaimsFromContext(c); ok && claims.FullName != "" {
		name = claims.FullName
	}

	validFor := h.cfg.TokenValid
	if validFor <= 0 {
		validFor = defaultTokenValidity
	}

	at := auth.NewAccessToken(h.cfg.APIKey, h.cfg.APISecret)
	grant := &auth.VideoGrant{
		RoomJoin: true,
		Room:     req.RoomName,
	}
	at.AddGrant(grant).
		SetIdentity(identity).
		SetName(name).
		SetValidFor(validFor)

	token, err := at.ToJWT()
	if err != nil {
		h.logger.Error("sign livekit token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	return c.JSON(TokenResponse{Token: token})
}
