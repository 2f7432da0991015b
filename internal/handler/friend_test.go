package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashwat0010/streamify-chat-app/internal/presence"
	"github.com/shashwat0010/streamify-chat-app/internal/service"
)

func newFriendApp(t *testing.T, userID int64, tracker presence.Tracker) (*FriendHandler, sqlmock.Sqlmock, func(method, target string, body any) (int, []byte)) {
	db, mock := setupMockDB(t)
	h := NewFriendHandler(service.NewFriendService(db, nil), tracker, nil)

	app := newTestApp(userID)
	app.Post("/request", h.SendRequest)
	app.Put("/request/:requestId/accept", h.AcceptRequest)
	app.Get("/requests", h.IncomingRequests)
	app.Get("/", h.List)
	app.Delete("/:friendId", h.Remove)

	return h, mock, func(method, target string, body any) (int, []byte) {
		return doJSON(t, app, method, target, body)
	}
}

func TestFriendHandler_SendRequestToSelf(t *testing.T) {
	_, mock, do := newFriendApp(t, 1, nil)

	status, body := do(http.MethodPost, "/request", SendFriendRequestRequest{RecipientID: 1})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "You can't send a friend request to yourself", errorMessage(t, body))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFriendHandler_SendRequestMissingRecipient(t *testing.T) {
	_, _, do := newFriendApp(t, 1, nil)

	status, _ := do(http.MethodPost, "/request", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestFriendHandler_SendRequestDuplicate(t *testing.T) {
	_, mock, do := newFriendApp(t, 1, nil)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name"}).AddRow(1, "Ada").AddRow(2, "Bob"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "friend_requests"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	status, body := do(http.MethodPost, "/request", SendFriendRequestRequest{RecipientID: 2})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Friend request already sent", errorMessage(t, body))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFriendHandler_AcceptMissingRequest(t *testing.T) {
	_, mock, do := newFriendApp(t, 2, nil)

	mock.ExpectQuery(`SELECT \* FROM "friend_requests"`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	status, _ := do(http.MethodPut, "/request/10/accept", nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFriendHandler_AcceptBadID(t *testing.T) {
	_, _, do := newFriendApp(t, 2, nil)

	status, _ := do(http.MethodPut, "/request/abc/accept", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestFriendHandler_ListMarksOnline(t *testing.T) {
	tracker := presence.NewLocal()
	require.NoError(t, tracker.Connect(context.Background(), 2, "s-1"))
	_, mock, do := newFriendApp(t, 1, tracker)

	mock.ExpectQuery(`FROM "users" JOIN user_friends`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "full_name"}).AddRow(2, "Bob").AddRow(3, "Cy"))

	status, body := do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, status)

	var friends []struct {
		ID       int64  `json:"id"`
		FullName string `json:"fullName"`
		Online   bool   `json:"online"`
	}
	require.NoError(t, json.Unmarshal(body, &friends))
	require.Len(t, friends, 2)
	assert.Equal(t, "Bob", friends[0].FullName)
	assert.True(t, friends[0].Online)
	assert.False(t, friends[1].Online)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFriendHandler_IncomingRequestsEmpty(t *testing.T) {
	_, mock, do := newFriendApp(t, 1, nil)

	mock.ExpectQuery(`SELECT \* FROM "friend_requests" WHERE recipient_id`).WillReturnRows(sqlmock.NewRows([]string{"id"}))

	status, _ := do(http.MethodGet, "/requests", nil)
	assert.Equal(t, http.StatusOK, status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFriendHandler_Remove(t *testing.T) {
	_, mock, do := newFriendApp(t, 1, nil)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "user_friends"`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "friend_requests"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	status, _ := do(http.MethodDelete, "/2", nil)
	assert.Equal(t, http.StatusNoContent, status)
	require.NoError(t, mock.ExpectationsWereMet())
}
