package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shashwat0010/streamify-chat-app/internal/auth"
	"github.com/shashwat0010/streamify-chat-app/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "127.0.0.1:0", RateLimit: 100, ShutdownTimeout: time.Second},
		WebSocket: config.WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			WriteTimeout:    time.Second,
			PongWait:        time.Minute,
			MaxMessageSize:  64 * 1024,
		},
		CORS: config.CORSConfig{
			AllowOrigins:     "http://localhost:5173",
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
			AllowCredentials: true,
		},
		Auth:       config.AuthConfig{JWTSecret: "test-secret", Issuer: "streamify"},
		Whiteboard: config.WhiteboardConfig{SessionQueueSize: 16, BridgeQueueSize: 16},
	}
}

func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	srv := New(testConfig(), db, nil, nil)
	srv.SetupMiddleware()
	srv.SetupRoutes()
	return srv, mock
}

func get(t *testing.T, srv *Server, target, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestServer_Liveness(t *testing.T) {
	srv, _ := newTestServer(t)

	status, body := get(t, srv, "/health/live", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body)
}

func TestServer_WebSocketRequiresUpgrade(t *testing.T) {
	srv, _ := newTestServer(t)

	status, _ := get(t, srv, "/ws", "")
	assert.Equal(t, http.StatusUpgradeRequired, status)
}

func TestServer_APIRequiresToken(t *testing.T) {
	srv, _ := newTestServer(t)

	status, _ := get(t, srv, "/api/friends", "")
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestServer_AuthenticatedRoute(t *testing.T) {
	srv, mock := newTestServer(t)
	token, err := auth.NewJWTManager("test-secret", "streamify").
		GenerateAccessToken(1, "ada@example.com", "Ada", time.Hour)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	status, _ := get(t, srv, "/api/users/search?email=nobody@example.com", token)
	assert.Equal(t, http.StatusNotFound, status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestServer_VideoTokenNotConfigured(t *testing.T) {
	srv, _ := newTestServer(t)
	token, err := auth.NewJWTManager("test-secret", "streamify").
		GenerateAccessToken(1, "ada@example.com", "Ada", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/video/token", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
