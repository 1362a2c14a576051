// Package proctor collects behavioral-integrity evidence for one stage
// attempt: a log of page-visibility losses and an accumulating ambient-audio
// transcript. A Session is created when a question is presented and discarded
// when the answer is submitted or the attempt is abandoned.
package proctor

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// NoTranscript is sent to the proctor judge when no ambient audio was
// captured, either because nothing was said or capture is unsupported.
const NoTranscript = "None"

// Event is one visibility-loss entry in the evidence log.
type Event struct {
	At          time.Time `json:"at"`
	Description string    `json:"description"`
}

// Evidence is the immutable bundle handed to the proctor judge on submission.
type Evidence struct {
	Events            []Event
	AmbientTranscript string
}

// EventDescriptions renders the visibility log for prompt and report use.
func (e Evidence) EventDescriptions() []string {
	out := make([]string, len(e.Events))
	for i, ev := range e.Events {
		out[i] = fmt.Sprintf("[%s] %s", ev.At.UTC().Format(time.RFC3339), ev.Description)
	}
	return out
}

// TranscriptOrNone returns the transcript or the explicit empty marker.
func (e Evidence) TranscriptOrNone() string {
	if strings.TrimSpace(e.AmbientTranscript) == "" {
		return NoTranscript
	}
	return e.AmbientTranscript
}

// Session owns the evidence streams for a single stage attempt. Both streams
// are append-only; the two feeding goroutines never read each other's data,
// one mutex is enough.
type Session struct {
	mu         sync.Mutex
	events     []Event
	transcript strings.Builder
	capturing  bool
	blocked    bool
	now        func() time.Time
}

// NewSession starts evidence capture for a fresh attempt.
func NewSession() *Session {
	return &Session{capturing: true, now: time.Now}
}

// newSessionAt is the test hook for deterministic timestamps.
func newSessionAt(now func() time.Time) *Session {
	return &Session{capturing: true, now: now}
}

// RecordHidden appends one entry for a visible-to-hidden transition. The
// reverse transition produces no entry.
func (s *Session) RecordHidden() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.capturing {
		return
	}
	s.events = append(s.events, Event{
		At:          s.now(),
		Description: "Candidate switched away from the assessment tab",
	})
}

// AppendTranscript accumulates one finalized speech-to-text segment. Interim
// segments must not be fed here.
func (s *Session) AppendTranscript(segment string) {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.capturing {
		return
	}
	if s.transcript.Len() > 0 {
		s.transcript.WriteByte(' ')
	}
	s.transcript.WriteString(segment)
}

// SetBlocked marks the attempt as lacking capture permission. A blocked
// session refuses submission until permission is granted.
func (s *Session) SetBlocked(blocked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocked = blocked
}

// Blocked reports whether capture permission is currently denied.
func (s *Session) Blocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocked
}

// Stop ends capture and returns the collected evidence. Further feed calls
// are ignored; Stop is safe to call more than once.
func (s *Session) Stop() Evidence {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.capturing = false
	return Evidence{
		Events:            append([]Event(nil), s.events...),
		AmbientTranscript: s.transcript.String(),
	}
}

// Snapshot returns the evidence collected so far without ending capture.
func (s *Session) Snapshot() Evidence {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Evidence{
		Events:            append([]Event(nil), s.events...),
		AmbientTranscript: s.transcript.String(),
	}
}
