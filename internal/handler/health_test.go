package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (p fakePinger) Health(context.Context) error { return p.err }

type fixedRooms int

func (r fixedRooms) RoomCount() int { return int(r) }

func healthApp(t *testing.T, redis Pinger) *fiber.App {
	db, _ := setupMockDB(t)
	h := NewHealthHandler(db, redis, fixedRooms(3))

	app := fiber.New()
	app.Get("/health", h.Check)
	app.Get("/health/live", h.Liveness)
	app.Get("/health/ready", h.Readiness)
	return app
}

func TestHealth_WithoutRedis(t *testing.T) {
	app := healthApp(t, nil)

	status, body := doJSON(t, app, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, status)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, 3, resp.Rooms)
	assert.Equal(t, "healthy", resp.Checks["database"].Status)
	assert.Equal(t, "not_configured", resp.Checks["redis"].Status)
}

func TestHealth_RedisDownIsDegraded(t *testing.T) {
	app := healthApp(t, fakePinger{err: errors.New("dial tcp: refused")})

	status, body := doJSON(t, app, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, status)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "redis unreachable", resp.Checks["redis"].Error)
}

func TestHealth_Probes(t *testing.T) {
	app := healthApp(t, fakePinger{})

	status, body := doJSON(t, app, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", string(body))

	status, body = doJSON(t, app, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "READY", string(body))
}
