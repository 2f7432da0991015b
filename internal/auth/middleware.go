package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	localUserID = "userID"
	localEmail  = "email"
	localClaims = "claims"
)

// TokenFromRequest extracts a bearer token from the Authorization header,
// the access_token cookie or the token query parameter, in that order.
func TokenFromRequest(c *fiber.Ctx) (string, error) {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.Split(header, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return "", errors.New("invalid authorization header format")
		}
		return parts[1], nil
	}
	if cookie := c.Cookies("access_token"); cookie != "" {
		return cookie, nil
	}
	if query := c.Query("token"); query != "" {
		return query, nil
	}
	return "", errors.New("missing authorization token")
}

// AuthMiddleware JWT 인증 미들웨어
func AuthMiddleware(jwtManager *JWTManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := TokenFromRequest(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			if errors.Is(err, ErrExpiredToken) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "token expired",
					"code":  "TOKEN_EXPIRED",
				})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid token",
			})
		}

		setClaims(c, claims)
		return c.Next()
	}
}

// OptionalAuthMiddleware 선택적 인증 미들웨어 (인증 실패해도 계속 진행)
func OptionalAuthMiddleware(jwtManager *JWTManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token, err := TokenFromRequest(c); err == nil {
			if claims, err := jwtManager.ValidateAccessToken(token); err == nil {
				setClaims(c, claims)
			}
		}
		return c.Next()
	}
}

func setClaims(c *fiber.Ctx, claims *Claims) {
	c.Locals(localUserID, claims.UserID)
	c.Locals(localEmail, claims.Email)
	c.Locals(localClaims, claims)
}

// GetClaimsFromContext 컨텍스트에서 클레임 조회
func GetClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	claims, ok := c.Locals(localClaims).(*Claims)
	return claims, ok
}

// UserIDFromContext returns the authenticated user id, or 0.
func UserIDFromContext(c *fiber.Ctx) int64 {
	id, _ := c.Locals(localUserID).(int64)
	return id
}
