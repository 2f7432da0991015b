package recording

import (
	"context"
	"errors"
	"sort"
	"time"
)

// ErrNoRecording is returned when no recording matches the call.
var ErrNoRecording = errors.New("no recording available")

// DefaultMatchWindow is how far a recording start may drift from the meeting start.
const DefaultMatchWindow = 5 * time.Minute

// Finder looks up the playable recording URL of a call.
// start is the meeting start time; nil selects the most recently ended recording.
type Finder interface {
	Find(ctx context.Context, callID string, start *time.Time) (string, error)
}

// Candidate 녹화 후보
type Candidate struct {
	URL       string
	StartedAt time.Time
	EndedAt   time.Time
}

// Pick selects a recording from candidates.
// Without a start time the most recently ended one wins. With a start time
// the latest-starting recording strictly within window of it wins.
func Pick(candidates []Candidate, start *time.Time, window time.Duration) (string, bool) {
	usable := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.URL != "" {
			usable = append(usable, c)
		}
	}
	if len(usable) == 0 {
		return "", false
	}

	if start == nil {
		sort.SliceStable(usable, func(i, j int) bool {
			return usable[i].EndedAt.After(usable[j].EndedAt)
		})
		return usable[0].URL, true
	}

	sort.SliceStable(usable, func(i, j int) bool {
		return usable[i].StartedAt.After(usable[j].StartedAt)
	})
	for _, c := range usable {
		diff := c.StartedAt.Sub(*start)
		if diff < 0 {
			diff = -diff
		}
		if diff < window {
			return c.URL, true
		}
	}
	return "", false
}
