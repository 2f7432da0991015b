package recording

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/livekit/protocol/livekit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func TestPick_NoStartPicksLatestEnded(t *testing.T) {
	candidates := []Candidate{
		{URL: "a", StartedAt: base, EndedAt: base.Add(10 * time.Minute)},
		{URL: "b", StartedAt: base.Add(time.Hour), EndedAt: base.Add(2 * time.Hour)},
		{URL: "c", StartedAt: base.Add(30 * time.Minute), EndedAt: base.Add(40 * time.Minute)},
	}

	url, ok := Pick(candidates, nil, DefaultMatchWindow)
	require.True(t, ok)
	assert.Equal(t, "b", url)
}

func TestPick_WithinWindow(t *testing.T) {
	start := base
	candidates := []Candidate{
		{URL: "late", StartedAt: base.Add(20 * time.Minute)},
		{URL: "close", StartedAt: base.Add(3 * time.Minute)},
		{URL: "before", StartedAt: base.Add(-4 * time.Minute)},
	}

	url, ok := Pick(candidates, &start, DefaultMatchWindow)
	require.True(t, ok)
	assert.Equal(t, "close", url)
}

func TestPick_WindowIsExclusive(t *testing.T) {
	start := base
	candidates := []Candidate{{URL: "edge", StartedAt: base.Add(-DefaultMatchWindow)}}

	_, ok := Pick(candidates, &start, DefaultMatchWindow)
	assert.False(t, ok)

	candidates = append(candidates, Candidate{URL: "inside", StartedAt: base.Add(-time.Minute)})
	url, ok := Pick(candidates, &start, DefaultMatchWindow)
	require.True(t, ok)
	assert.Equal(t, "inside", url)
}

func TestPick_NothingInWindow(t *testing.T) {
	start := base
	candidates := []Candidate{{URL: "x", StartedAt: base.Add(6 * time.Minute)}}

	_, ok := Pick(candidates, &start, DefaultMatchWindow)
	assert.False(t, ok)

	_, ok = Pick(nil, nil, DefaultMatchWindow)
	assert.False(t, ok)

	_, ok = Pick([]Candidate{{URL: "", EndedAt: base}}, nil, DefaultMatchWindow)
	assert.False(t, ok)
}

type fakeLister struct {
	resp *livekit.ListEgressResponse
	err  error
	room string
}

func (f *fakeLister) ListEgress(_ context.Context, req *livekit.ListEgressRequest) (*livekit.ListEgressResponse, error) {
	f.room = req.GetRoomName()
	return f.resp, f.err
}

func TestLiveKitFinder_SkipsIncompleteEgress(t *testing.T) {
	lister := &fakeLister{resp: &livekit.ListEgressResponse{Items: []*livekit.EgressInfo{
		{
			Status:      livekit.EgressStatus_EGRESS_ACTIVE,
			StartedAt:   base.UnixNano(),
			FileResults: []*livekit.FileInfo{{Location: "https://cdn/active.mp4"}},
		},
		{
			Status:      livekit.EgressStatus_EGRESS_COMPLETE,
			StartedAt:   base.Add(time.Minute).UnixNano(),
			EndedAt:     base.Add(30 * time.Minute).UnixNano(),
			FileResults: []*livekit.FileInfo{{Location: "https://cdn/done.mp4"}},
		},
	}}}
	finder := NewFinderWithClient(lister, 0, nil)

	start := base
	url, err := finder.Find(context.Background(), "call-1", &start)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/done.mp4", url)
	assert.Equal(t, "call-1", lister.room)
}

func TestLiveKitFinder_Errors(t *testing.T) {
	finder := NewFinderWithClient(&fakeLister{err: errors.New("unavailable")}, time.Minute, nil)
	_, err := finder.Find(context.Background(), "call-1", nil)
	require.Error(t, err)

	finder = NewFinderWithClient(&fakeLister{resp: &livekit.ListEgressResponse{}}, time.Minute, nil)
	_, err = finder.Find(context.Background(), "call-1", nil)
	require.ErrorIs(t, err, ErrNoRecording)
}
