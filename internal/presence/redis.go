package presence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL is how long a connection counts as online without a heartbeat.
const TTL = 60 * time.Second

// Tracker records which users have at least one live socket.
type Tracker interface {
	Connect(ctx context.Context, userID int64, sessionID string) error
	Heartbeat(ctx context.Context, userID int64) error
	Disconnect(ctx context.Context, userID int64, sessionID string) error
	OnlineMap(ctx context.Context, userIDs []int64) (map[int64]bool, error)
}

// Manager Redis 기반 Presence 관리자 (인스턴스 간 공유)
type Manager struct {
	client redis.Cmdable
}

// NewManager 생성자
func NewManager(client redis.Cmdable) *Manager {
	return &Manager{client: client}
}

// Key 생성 유틸
func userKey(userID int64) string {
	return fmt.Sprintf("presence:user:%d", userID)
}

// Connect registers one socket of the user; each socket is a hash field.
func (m *Manager) Connect(ctx context.Context, userID int64, sessionID string) error {
	key := userKey(userID)
	pipe := m.client.TxPipeline()
	pipe.HSet(ctx, key, sessionID, time.Now().Unix())
	pipe.Expire(ctx, key, TTL)
	_, err := pipe.Exec(ctx)
	return err
}

// Heartbeat 생존 신고 (TTL 연장)
func (m *Manager) Heartbeat(ctx context.Context, userID int64) error {
	ok, err := m.client.Expire(ctx, userKey(userID), TTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %d not found (offline)", userID)
	}
	return nil
}

// Disconnect removes one socket; the key disappears with the last field.
func (m *Manager) Disconnect(ctx context.Context, userID int64, sessionID string) error {
	return m.client.HDel(ctx, userKey(userID), sessionID).Err()
}

// OnlineMap 여러 유저 온라인 여부 조회
func (m *Manager) OnlineMap(ctx context.Context, userIDs []int64) (map[int64]bool, error) {
	online := make(map[int64]bool, len(userIDs))
	if len(userIDs) == 0 {
		return online, nil
	}

	pipe := m.client.Pipeline()
	cmds := make([]*redis.IntCmd, len(userIDs))
	for i, id := range userIDs {
		cmds[i] = pipe.Exists(ctx, userKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	for i, cmd := range cmds {
		online[userIDs[i]] = cmd.Val() > 0
	}
	return online, nil
}

// Local is an in-process Tracker used when Redis is not configured.
type Local struct {
	mu       sync.Mutex
	sessions map[int64]map[string]struct{}
}

// NewLocal 단일 인스턴스용 Tracker 생성
func NewLocal() *Local {
	return &Local{sessions: make(map[int64]map[string]struct{})}
}

// Connect implements Tracker.
func (l *Local) Connect(_ context.Context, userID int64, sessionID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	set, ok := l.sessions[userID]
	if !ok {
		set = make(map[string]struct{})
		l.sessions[userID] = set
	}
	set[sessionID] = struct{}{}
	return nil
}

// Heartbeat implements Tracker. Local sessions never expire.
func (l *Local) Heartbeat(context.Context, int64) error {
	return nil
}

// Disconnect implements Tracker.
func (l *Local) Disconnect(_ context.Context, userID int64, sessionID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if set, ok := l.sessions[userID]; ok {
		delete(set, sessionID)
		if len(set) == 0 {
			delete(l.sessions, userID)
		}
	}
	return nil
}

// OnlineMap implements Tracker.
func (l *Local) OnlineMap(_ context.Context, userIDs []int64) (map[int64]bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	online := make(map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		online[id] = len(l.sessions[id]) > 0
	}
	return online, nil
}
