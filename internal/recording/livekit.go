package recording

import (
	"context"
	"fmt"
	"time"

	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"
	"go.uber.org/zap"
)

// EgressLister is the subset of the LiveKit egress API the finder needs.
type EgressLister interface {
	ListEgress(ctx context.Context, req *livekit.ListEgressRequest) (*livekit.ListEgressResponse, error)
}

// LiveKitFinder finds recordings among the completed egresses of a room.
type LiveKitFinder struct {
	client EgressLister
	window time.Duration
	logger *zap.Logger
}

// NewLiveKitFinder LiveKit egress 기반 Finder 생성
func NewLiveKitFinder(host, apiKey, apiSecret string, window time.Duration, logger *zap.Logger) *LiveKitFinder {
	return NewFinderWithClient(lksdk.NewEgressClient(host, apiKey, apiSecret), window, logger)
}

// NewFinderWithClient wraps an existing egress client.
func NewFinderWithClient(client EgressLister, window time.Duration, logger *zap.Logger) *LiveKitFinder {
	if window <= 0 {
		window = DefaultMatchWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LiveKitFinder{client: client, window: window, logger: logger}
}

// Find implements Finder.
func (f *LiveKitFinder) Find(ctx context.Context, callID string, start *time.Time) (string, error) {
	resp, err := f.client.ListEgress(ctx, &livekit.ListEgressRequest{RoomName: callID})
	if err != nil {
		return "", fmt.Errorf("list egress for %s: %w", callID, err)
	}

	candidates := make([]Candidate, 0, len(resp.GetItems()))
	for _, info := range resp.GetItems() {
		if info.GetStatus() != livekit.EgressStatus_EGRESS_COMPLETE {
			continue
		}
		for _, file := range info.GetFileResults() {
			candidates = append(candidates, Candidate{
				URL:       file.GetLocation(),
				StartedAt: time.Unix(0, info.GetStartedAt()),
				EndedAt:   time.Unix(0, info.GetEndedAt()),
			})
		}
	}

	url, ok := Pick(candidates, start, f.window)
	if !ok {
		f.logger.Debug("no matching recording", zap.String("call", callID), zap.Int("candidates", len(candidates)))
		return "", ErrNoRecording
	}
	return url, nil
}
