package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shashwat0010/streamify-chat-app/internal/auth"
	"github.com/shashwat0010/streamify-chat-app/internal/service"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

// newTestApp returns an app whose requests are authenticated as userID.
func newTestApp(userID int64) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		c.Locals("claims", &auth.Claims{UserID: userID, FullName: "Ada"})
		return c.Next()
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func errorMessage(t *testing.T, body []byte) string {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(body, &m))
	msg, _ := m["error"].(string)
	return msg
}

func TestServiceError_Mapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{service.ErrSelfRequest, http.StatusBadRequest},
		{service.ErrRequestExists, http.StatusBadRequest},
		{service.ErrNoCallID, http.StatusBadRequest},
		{service.ErrNotRecipient, http.StatusForbidden},
		{service.ErrNotParticipant, http.StatusForbidden},
		{service.ErrRequestNotFound, http.StatusNotFound},
		{service.ErrMeetingNotFound, http.StatusNotFound},
		{service.ErrUserNotFound, http.StatusNotFound},
		{service.ErrRecordingUnavailable, http.StatusNotFound},
		{fmt.Errorf("load: %w", service.ErrUserNotFound), http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return serviceError(c, tc.err) })

			status, body := doJSON(t, app, http.MethodGet, "/", nil)
			assert.Equal(t, tc.status, status)
			assert.NotEmpty(t, errorMessage(t, body))
		})
	}
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "call-1", sanitizeString("  call-1\x00\x07 "))
	assert.Equal(t, "a\tb", sanitizeString("a\tb"))
}
