// Package debounce provides a single-slot deferred task: at most one task is
// pending at any instant, and scheduling a new one supersedes the previous.
package debounce

import (
	"sync"
	"time"

	"github.com/dshills/wordevent/internal/clock"
)

// Token identifies one scheduled task.
type Token uint64

// Slot holds at most one pending deferred task.
//
// A timer that already fired cannot always be stopped, so each task carries
// a Token. Owners that guard their own state with a lock should call Claim
// with the token under that lock before acting; Claim fails for any task that
// was superseded or canceled after its timer fired.
type Slot struct {
	clock clock.Clock

	mu      sync.Mutex
	gen     Token
	pending bool
	timer   clock.Timer
}

// New creates an empty slot driven by c. A nil clock uses the system clock.
func New(c clock.Clock) *Slot {
	if c == nil {
		c = clock.Real{}
	}
	return &Slot{clock: c}
}

// Schedule arms fn to run after d, canceling any pending task.
func (s *Slot) Schedule(d time.Duration, fn func(Token)) Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
	s.gen++
	tok := s.gen
	s.pending = true
	s.timer = s.clock.AfterFunc(d, func() {
		if !s.current(tok) {
			return
		}
		fn(tok)
	})
	return tok
}

// Cancel drops the pending task. It reports whether a task was pending.
func (s *Slot) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasPending := s.pending
	s.stopLocked()
	s.gen++
	return wasPending
}

// Claim retires the task identified by tok. It returns false if tok is no
// longer the pending task.
func (s *Slot) Claim(tok Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pending || s.gen != tok {
		return false
	}
	s.pending = false
	s.timer = nil
	return true
}

// Pending reports whether a task is waiting to run.
func (s *Slot) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Slot) current(tok Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending && s.gen == tok
}

func (s *Slot) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = false
}
