package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisClient wraps the shared Redis connection used for caching,
// presence and the room bridge.
type RedisClient struct {
	client       *redis.Client
	recordingTTL time.Duration
	logger       *zap.Logger
}

// NewRedisClient creates a new Redis client and verifies it with PING.
func NewRedisClient(addr, password string, db int, recordingTTL time.Duration, logger *zap.Logger) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	rc := NewWithClient(client, recordingTTL, logger)
	rc.logger.Info("redis connected", zap.String("addr", addr))
	return rc, nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, recordingTTL time.Duration, logger *zap.Logger) *RedisClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisClient{client: client, recordingTTL: recordingTTL, logger: logger}
}

// Client 내부 redis 클라이언트 반환
func (r *RedisClient) Client() *redis.Client {
	return r.client
}

func recordingKey(callID string) string {
	return "recording:call:" + callID
}

// GetRecording returns a cached recording URL for the call.
func (r *RedisClient) GetRecording(ctx context.Context, callID string) (string, bool) {
	url, err := r.client.Get(ctx, recordingKey(callID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("recording cache read failed", zap.String("call", callID), zap.Error(err))
		}
		return "", false
	}
	return url, url != ""
}

// SetRecording caches a recording URL. Failures are logged only.
func (r *RedisClient) SetRecording(ctx context.Context, callID, url string) {
	if err := r.client.Set(ctx, recordingKey(callID), url, r.recordingTTL).Err(); err != nil {
		r.logger.Warn("recording cache write failed", zap.String("call", callID), zap.Error(err))
	}
}

// Health checks if Redis is healthy
func (r *RedisClient) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}
