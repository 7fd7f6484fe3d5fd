package counter

import (
	"sync"
	"time"

	"github.com/andrescamacho/hostelsim-go/internal/domain/shared"
)

// RetryTracker records rejected admission attempts per visitor: how many
// consecutive rejections and when the last one happened. Cleared on a
// successful join or when the visitor gives up.
type RetryTracker struct {
	mu      sync.Mutex
	records map[string]*retryRecord
	clock   shared.Clock
}

type retryRecord struct {
	attempts    int
	lastAttempt time.Time
}

// NewRetryTracker creates an empty tracker. If clock is nil, uses RealClock.
func NewRetryTracker(clock shared.Clock) *RetryTracker {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &RetryTracker{
		records: make(map[string]*retryRecord),
		clock:   clock,
	}
}

// RecordRejection bumps the visitor's consecutive-rejection counter and
// returns the new count
func (t *RetryTracker) RecordRejection(visitorID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[visitorID]
	if !ok {
		rec = &retryRecord{}
		t.records[visitorID] = rec
	}
	rec.attempts++
	rec.lastAttempt = t.clock.Now()
	return rec.attempts
}

// Attempts returns the visitor's current consecutive-rejection count
func (t *RetryTracker) Attempts(visitorID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if rec, ok := t.records[visitorID]; ok {
		return rec.attempts
	}
	return 0
}

// LastAttempt returns when the visitor was last rejected, or the zero time
func (t *RetryTracker) LastAttempt(visitorID string) time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	if rec, ok := t.records[visitorID]; ok {
		return rec.lastAttempt
	}
	return time.Time{}
}

// Clear drops the visitor's record
func (t *RetryTracker) Clear(visitorID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.records, visitorID)
}
