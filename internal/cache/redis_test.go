package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRecordingKey(t *testing.T) {
	assert.Equal(t, "recording:call:abc", recordingKey("abc"))
}

func TestRecordingCache_UnreachableRedisIsAMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	c := NewWithClient(client, time.Hour, zap.NewNop())

	ctx := context.Background()
	c.SetRecording(ctx, "call-1", "https://cdn/rec.mp4")

	url, ok := c.GetRecording(ctx, "call-1")
	assert.False(t, ok)
	assert.Empty(t, url)
	assert.Error(t, c.Health(ctx))
}
