package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/shashwat0010/streamify-chat-app/internal/auth"
	"github.com/shashwat0010/streamify-chat-app/internal/service"
)

// UserHandler 사용자 핸들러
type UserHandler struct {
	users  *service.UserService
	logger *zap.Logger
}

// NewUserHandler UserHandler 생성
func NewUserHandler(users *service.UserService, logger *zap.Logger) *UserHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserHandler{users: users, logger: logger}
}

// GetMe GET /api/users/me
func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	user, err := h.users.GetByID(c.UserContext(), auth.UserIDFromContext(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(user)
}

// Recommended GET /api/users
func (h *UserHandler) Recommended(c *fiber.Ctx) error {
	users, err := h.users.Recommended(c.UserContext(), auth.UserIDFromContext(c))
	if err != nil {
		h.logger.Error("recommended users", zap.Error(err))
		return serviceError(c, err)
	}
	return c.JSON(users)
}

// SearchByEmail GET /api/users/search?email=
func (h *UserHandler) SearchByEmail(c *fiber.Ctx) error {
	email := strings.ToLower(sanitizeString(c.Query("email")))
	if email == "" {
		return badRequest(c, "email is required")
	}

	user, err := h.users.FindByEmail(c.UserContext(), email)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(user.Public())
}

// UpdateProfile PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req service.ProfileUpdate
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	for _, field := range []*string{req.FullName, req.Bio, req.ProfilePic, req.NativeLanguage, req.LearningLanguage, req.Location} {
		if field != nil {
			*field = sanitizeString(*field)
		}
	}
	if req.FullName != nil && *req.FullName == "" {
		return badRequest(c, "fullName cannot be empty")
	}

	user, err := h.users.UpdateProfile(c.UserContext(), auth.UserIDFromContext(c), req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(user)
}
