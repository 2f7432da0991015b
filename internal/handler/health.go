package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const healthTimeout = 2 * time.Second

// Pinger 외부 의존성 상태 확인
type Pinger interface {
	Health(ctx context.Context) error
}

// RoomCounter reports how many whiteboard rooms are live on this instance.
type RoomCounter interface {
	RoomCount() int
}

// HealthHandler 헬스체크 핸들러
type HealthHandler struct {
	db    *gorm.DB
	redis Pinger
	rooms RoomCounter
}

// NewHealthHandler HealthHandler 생성. redis 는 nil 이어도 된다.
func NewHealthHandler(db *gorm.DB, redis Pinger, rooms RoomCounter) *HealthHandler {
	return &HealthHandler{db: db, redis: redis, rooms: rooms}
}

// ComponentCheck 컴포넌트 상태
type ComponentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse 헬스체크 응답
type HealthResponse struct {
	Status    string                    `json:"status"`
	Timestamp string                    `json:"timestamp"`
	Rooms     int                       `json:"rooms"`
	Checks    map[string]ComponentCheck `json:"checks"`
}

// Check 전체 상태 확인 (DB + Redis)
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Checks:    make(map[string]ComponentCheck),
	}
	if h.rooms != nil {
		response.Rooms = h.rooms.RoomCount()
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	// 1. Database 체크
	dbStart := time.Now()
	if err := h.pingDB(ctx); err != nil {
		response.Status = "unhealthy"
		response.Checks["database"] = ComponentCheck{
			Status: "unhealthy",
			Error:  "database ping failed",
		}
	} else {
		response.Checks["database"] = ComponentCheck{
			Status:  "healthy",
			Latency: time.Since(dbStart).String(),
		}
	}

	// 2. Redis 체크 (없으면 단일 인스턴스 모드)
	if h.redis != nil {
		redisStart := time.Now()
		if err := h.redis.Health(ctx); err != nil {
			if response.Status == "healthy" {
				response.Status = "degraded"
			}
			response.Checks["redis"] = ComponentCheck{
				Status: "degraded",
				Error:  "redis unreachable",
			}
		} else {
			response.Checks["redis"] = ComponentCheck{
				Status:  "healthy",
				Latency: time.Since(redisStart).String(),
			}
		}
	} else {
		response.Checks["redis"] = ComponentCheck{
			Status: "not_configured",
		}
	}

	statusCode := fiber.StatusOK
	if response.Status == "unhealthy" {
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(response)
}

// Liveness K8s liveness probe용 (단순 체크)
func (h *HealthHandler) Liveness(c *fiber.Ctx) error {
	return c.SendString("OK")
}

// Readiness K8s readiness probe용 (DB 연결 체크)
func (h *HealthHandler) Readiness(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()
	if err := h.pingDB(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).SendString("NOT READY")
	}
	return c.SendString("READY")
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
