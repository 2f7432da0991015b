package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State WebSocket 연결 상태
type State int

const (
	StateOpen   State = iota // 연결 중
	StateClosed              // 연결 종료
)

// String 상태를 문자열로 반환
func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

var (
	// ErrClosed is returned when enqueueing onto a closed session.
	ErrClosed = errors.New("session closed")
	// ErrQueueFull is returned when the send queue has no room; the frame is dropped.
	ErrQueueFull = errors.New("send queue full")
)

// Session 클라이언트 세션 (Thread-Safe)
type Session struct {
	ID          string
	ConnectedAt time.Time

	mu     sync.RWMutex
	state  State
	userID int64

	send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc

	// dropped counts frames discarded because the queue was full
	dropped uint64
}

// New 새 세션 생성
func New(queueSize int) *Session {
	if queueSize <= 0 {
		queueSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Session{
		ID:          uuid.New().String(),
		ConnectedAt: time.Now(),
		state:       StateOpen,
		send:        make(chan []byte, queueSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Context 세션 컨텍스트 반환. Close 시 취소된다.
func (s *Session) Context() context.Context {
	return s.ctx
}

// SetUserID 인증된 사용자 ID 설정
func (s *Session) SetUserID(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.userID = userID
}

// UserID 인증된 사용자 ID 조회 (익명이면 0)
func (s *Session) UserID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.userID
}

// Enqueue hands a frame to the session's writer without blocking.
// A full queue drops the frame.
func (s *Session) Enqueue(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return ErrClosed
	}

	select {
	case s.send <- frame:
		return nil
	default:
		s.dropped++
		return ErrQueueFull
	}
}

// Outbound is drained by exactly one writer goroutine. It is closed by Close.
func (s *Session) Outbound() <-chan []byte {
	return s.send
}

// Dropped 큐 초과로 버려진 프레임 수
func (s *Session) Dropped() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.dropped
}

// GetState 현재 상태 조회
func (s *Session) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

// Duration 연결 유지 시간
func (s *Session) Duration() time.Duration {
	return time.Since(s.ConnectedAt)
}

// Close 세션 정리. 여러 번 호출해도 안전하다.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return
	}

	s.state = StateClosed
	s.cancel()
	close(s.send)
}

// IsClosed 세션 종료 여부 확인
func (s *Session) IsClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state == StateClosed
}
