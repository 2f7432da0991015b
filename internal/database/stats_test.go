package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func countRows(n int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func TestCollectStats(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).WillReturnRows(countRows(10))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "user_friends"`).WillReturnRows(countRows(6))
	mock.ExpectQuery(`FROM friend_requests`).
		WillReturnRows(sqlmock.NewRows([]string{"pending", "accepted"}).AddRow(2, 3))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "meetings"`).WillReturnRows(countRows(4))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "meetings" WHERE call_id <> ''`).WillReturnRows(countRows(1))

	stats, err := CollectStats(context.Background(), db)
	require.NoError(t, err)

	assert.Equal(t, int64(10), stats.Users)
	assert.Equal(t, int64(3), stats.Friendships())
	assert.Equal(t, int64(2), stats.PendingRequests)
	assert.Equal(t, int64(3), stats.AcceptedRequests)
	assert.Equal(t, int64(4), stats.Meetings)
	assert.Equal(t, int64(1), stats.MeetingsWithoutRecording)
	require.NoError(t, mock.ExpectationsWereMet())
}
