package pubsub

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/shashwat0010/streamify-chat-app/internal/hub"
)

const (
	channelPrefix  = "streamify:room:"
	channelPattern = channelPrefix + "*"
	publishTimeout = 3 * time.Second
)

// Deliverer hands frames from other instances to local room members.
type Deliverer interface {
	DeliverLocal(key hub.RoomKey, senderID string, frame []byte) int
}

// Envelope Redis 로 전송되는 프레임 래퍼
type Envelope struct {
	Origin   string       `msgpack:"origin"`
	Kind     hub.RoomKind `msgpack:"kind"`
	RoomID   string       `msgpack:"roomId"`
	SenderID string       `msgpack:"senderId"`
	Frame    []byte       `msgpack:"frame"`
}

// Key 룸 키 복원
func (e Envelope) Key() hub.RoomKey {
	return hub.RoomKey{Kind: e.Kind, ID: e.RoomID}
}

// Channel returns the Redis channel carrying frames for a room.
func Channel(key hub.RoomKey) string {
	return channelPrefix + string(key.Kind) + ":" + key.ID
}

// Bridge relays room frames between server instances over Redis pub/sub.
type Bridge struct {
	client     *redis.Client
	instanceID string
	deliverer  Deliverer
	logger     *zap.Logger

	queue     chan Envelope
	closeOnce sync.Once
	done      chan struct{}
}

// NewBridge Bridge 생성
func NewBridge(client *redis.Client, deliverer Deliverer, queueSize int, logger *zap.Logger) *Bridge {
	if queueSize <= 0 {
		queueSize = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{
		client:     client,
		instanceID: uuid.New().String(),
		deliverer:  deliverer,
		logger:     logger.Named("bridge"),
		queue:      make(chan Envelope, queueSize),
		done:       make(chan struct{}),
	}
}

// InstanceID 이 서버 인스턴스 식별자
func (b *Bridge) InstanceID() string {
	return b.instanceID
}

// Publish queues a locally relayed frame for other instances.
// A full queue drops the frame.
func (b *Bridge) Publish(key hub.RoomKey, senderID string, frame []byte) {
	env := Envelope{
		Origin:   b.instanceID,
		Kind:     key.Kind,
		RoomID:   key.ID,
		SenderID: senderID,
		Frame:    frame,
	}

	select {
	case <-b.done:
	case b.queue <- env:
	default:
		b.logger.Warn("publish queue full, frame dropped", zap.Stringer("room", key))
	}
}

// Run publishes queued frames and consumes frames from other instances
// until ctx is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	sub := b.client.PSubscribe(ctx, channelPattern)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", channelPattern, err)
	}
	b.logger.Info("subscribed", zap.String("pattern", channelPattern), zap.String("instance", b.instanceID))

	go b.publishLoop(ctx)

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			b.stop()
			return nil
		case msg, ok := <-messages:
			if !ok {
				b.stop()
				return nil
			}
			b.handleMessage([]byte(msg.Payload))
		}
	}
}

func (b *Bridge) stop() {
	b.closeOnce.Do(func() { close(b.done) })
}

// publishLoop is the only publisher so frames leave in relay order.
func (b *Bridge) publishLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-b.queue:
			data, err := Encode(env)
			if err != nil {
				b.logger.Warn("encode envelope", zap.Error(err))
				continue
			}
			pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
			err = b.client.Publish(pubCtx, Channel(env.Key()), data).Err()
			cancel()
			if err != nil {
				b.logger.Warn("publish failed", zap.String("room", env.RoomID), zap.Error(err))
			}
		}
	}
}

// handleMessage delivers a frame from another instance to local members.
// It returns false when the message was skipped.
func (b *Bridge) handleMessage(payload []byte) bool {
	env, err := Decode(payload)
	if err != nil {
		b.logger.Debug("undecodable bridge message", zap.Error(err))
		return false
	}
	if env.Origin == b.instanceID {
		return false
	}
	if env.Kind != hub.KindMeeting && env.Kind != hub.KindUser {
		return false
	}
	b.deliverer.DeliverLocal(env.Key(), env.SenderID, env.Frame)
	return true
}

// Encode 엔벨로프 직렬화 (msgpack)
func Encode(env Envelope) ([]byte, error) {
	return msgpack.Marshal(env)
}

// Decode 엔벨로프 역직렬화
func Decode(data []byte) (Envelope, error) {
	var env Envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return Envelope{}, err
	}
	return env, nil
}

// ParseChannel extracts the room key from a channel name.
func ParseChannel(channel string) (hub.RoomKey, bool) {
	rest, ok := strings.CutPrefix(channel, channelPrefix)
	if !ok {
		return hub.RoomKey{}, false
	}
	key, err := hub.ParseRoomKey(rest)
	if err != nil {
		return hub.RoomKey{}, false
	}
	return key, true
}
