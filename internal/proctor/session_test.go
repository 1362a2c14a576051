package proctor

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock() func() time.Time {
	t := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return t }
}

func TestSession_VisibilityEventsOnlyOnHide(t *testing.T) {
	s := newSessionAt(fixedClock())

	s.RecordHidden()
	s.RecordHidden()

	ev := s.Stop()
	assert.Len(t, ev.Events, 2)
	for _, e := range ev.Events {
		assert.Contains(t, e.Description, "switched away")
	}
	assert.Equal(t,
		"[2026-03-10T09:00:00Z] Candidate switched away from the assessment tab",
		ev.EventDescriptions()[0])
}

func TestSession_TranscriptAccumulates(t *testing.T) {
	s := NewSession()

	s.AppendTranscript("so the answer")
	s.AppendTranscript("  is a hash map ")
	s.AppendTranscript("")

	ev := s.Stop()
	assert.Equal(t, "so the answer is a hash map", ev.AmbientTranscript)
	assert.Equal(t, "so the answer is a hash map", ev.TranscriptOrNone())
}

func TestSession_EmptyTranscriptMarker(t *testing.T) {
	s := NewSession()
	ev := s.Stop()
	assert.Equal(t, NoTranscript, ev.TranscriptOrNone())
	assert.Empty(t, ev.Events)
}

func TestSession_StopEndsCapture(t *testing.T) {
	s := NewSession()
	s.AppendTranscript("before stop")
	first := s.Stop()

	// Late events from a straggling listener are dropped.
	s.RecordHidden()
	s.AppendTranscript("after stop")

	second := s.Stop()
	assert.Equal(t, first.AmbientTranscript, second.AmbientTranscript)
	assert.Empty(t, second.Events)
}

func TestSession_Blocked(t *testing.T) {
	s := NewSession()
	assert.False(t, s.Blocked())
	s.SetBlocked(true)
	assert.True(t, s.Blocked())
	s.SetBlocked(false)
	assert.False(t, s.Blocked())
}

func TestSession_ConcurrentFeeds(t *testing.T) {
	s := NewSession()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			s.RecordHidden()
		}(i)
		go func(n int) {
			defer wg.Done()
			s.AppendTranscript(fmt.Sprintf("seg%d", n))
		}(i)
	}
	wg.Wait()

	ev := s.Stop()
	assert.Len(t, ev.Events, 20)
	assert.NotEmpty(t, ev.AmbientTranscript)
}
