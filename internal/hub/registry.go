package hub

import (
	"fmt"
	"strings"
	"sync"

	"github.com/shashwat0010/streamify-chat-app/internal/session"
)

// RoomKind 룸 종류
type RoomKind string

const (
	KindMeeting RoomKind = "meeting"
	KindUser    RoomKind = "user"
)

// RoomKey identifies a room. Meeting and user rooms never collide,
// even when their ids are equal strings.
type RoomKey struct {
	Kind RoomKind
	ID   string
}

// MeetingRoom 미팅(화이트보드) 룸 키
func MeetingRoom(id string) RoomKey { return RoomKey{Kind: KindMeeting, ID: id} }

// UserRoom 사용자 알림 룸 키
func UserRoom(id string) RoomKey { return RoomKey{Kind: KindUser, ID: id} }

func (k RoomKey) String() string {
	return fmt.Sprintf("%s:%s", k.Kind, k.ID)
}

// ParseRoomKey parses the "<kind>:<id>" form produced by String.
func ParseRoomKey(s string) (RoomKey, error) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok || id == "" {
		return RoomKey{}, fmt.Errorf("invalid room key %q", s)
	}
	switch RoomKind(kind) {
	case KindMeeting, KindUser:
		return RoomKey{Kind: RoomKind(kind), ID: id}, nil
	default:
		return RoomKey{}, fmt.Errorf("invalid room kind %q", kind)
	}
}

// Registry 룸 멤버십 관리 (Thread-Safe)
type Registry struct {
	mu        sync.RWMutex
	rooms     map[RoomKey]map[string]*session.Session
	bySession map[string]map[RoomKey]struct{}
}

// NewRegistry Registry 생성
func NewRegistry() *Registry {
	return &Registry{
		rooms:     make(map[RoomKey]map[string]*session.Session),
		bySession: make(map[string]map[RoomKey]struct{}),
	}
}

// Join adds the session to the room, creating the room on first join.
// Joining a room twice is a no-op. created reports whether the room was new.
func (r *Registry) Join(s *session.Session, key RoomKey) (created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[key]
	if !ok {
		members = make(map[string]*session.Session)
		r.rooms[key] = members
		created = true
	}
	members[s.ID] = s

	joined, ok := r.bySession[s.ID]
	if !ok {
		joined = make(map[RoomKey]struct{})
		r.bySession[s.ID] = joined
	}
	joined[key] = struct{}{}

	return created
}

// Leave removes the session from one room. Empty rooms are dropped.
func (r *Registry) Leave(s *session.Session, key RoomKey) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.removeLocked(s.ID, key)
}

// LeaveAll removes the session from every room it joined, under one lock.
// It returns the rooms the session was in.
func (r *Registry) LeaveAll(s *session.Session) []RoomKey {
	r.mu.Lock()
	defer r.mu.Unlock()

	joined := r.bySession[s.ID]
	keys := make([]RoomKey, 0, len(joined))
	for key := range joined {
		keys = append(keys, key)
	}
	for _, key := range keys {
		r.removeLocked(s.ID, key)
	}
	return keys
}

func (r *Registry) removeLocked(sessionID string, key RoomKey) {
	if members, ok := r.rooms[key]; ok {
		delete(members, sessionID)
		if len(members) == 0 {
			delete(r.rooms, key)
		}
	}
	if joined, ok := r.bySession[sessionID]; ok {
		delete(joined, key)
		if len(joined) == 0 {
			delete(r.bySession, sessionID)
		}
	}
}

// Members returns a snapshot of the room's sessions.
func (r *Registry) Members(key RoomKey) []*session.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.rooms[key]
	out := make([]*session.Session, 0, len(members))
	for _, s := range members {
		out = append(out, s)
	}
	return out
}

// IsMember 멤버 여부 확인
func (r *Registry) IsMember(key RoomKey, sessionID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[key][sessionID]
	return ok
}

// RoomCount 현재 존재하는 룸 수
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms)
}

// RoomsOf 세션이 참여 중인 룸 목록
func (r *Registry) RoomsOf(sessionID string) []RoomKey {
	r.mu.RLock()
	defer r.mu.RUnlock()

	joined := r.bySession[sessionID]
	out := make([]RoomKey, 0, len(joined))
	for key := range joined {
		out = append(out, key)
	}
	return out
}
