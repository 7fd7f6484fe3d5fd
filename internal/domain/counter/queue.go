package counter

import (
	"sync"
	"time"

	"github.com/andrescamacho/hostelsim-go/internal/domain/shared"
)

// ServiceQueue owns the counter's bounded FIFO and the single serving slot.
// Admission is purpose-agnostic: the queue does not know whether a visitor
// wants a room assignment or a checkout report.
//
// Invariants:
// - queue length never exceeds the configured capacity
// - at most one visitor is being served, and it is always the current head
// - service completes strictly in enqueue order
type ServiceQueue struct {
	mu              sync.Mutex
	capacity        int
	serviceDuration time.Duration
	entries         []string
	serving         string
	servingCancel   chan struct{}
}

// NewServiceQueue creates a queue with the given admission capacity and
// fixed per-visitor service duration
func NewServiceQueue(capacity int, serviceDuration time.Duration) *ServiceQueue {
	return &ServiceQueue{
		capacity:        capacity,
		serviceDuration: serviceDuration,
		entries:         make([]string, 0, capacity),
	}
}

// TryJoin enqueues the visitor unless the queue is at capacity. Returns false
// on rejection: not an error, the caller enters its retry loop.
func (q *ServiceQueue) TryJoin(visitorID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) >= q.capacity {
		return false
	}
	for _, id := range q.entries {
		if id == visitorID {
			// Double-join means stale caller state; keep the
			// original position
			return true
		}
	}
	q.entries = append(q.entries, visitorID)
	return true
}

// Capacity returns the admission limit
func (q *ServiceQueue) Capacity() int {
	return q.capacity
}

// Position returns the visitor's zero-based queue position, or -1 if absent
func (q *ServiceQueue) Position(visitorID string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, id := range q.entries {
		if id == visitorID {
			return i
		}
	}
	return -1
}

// Length returns the current queue length
func (q *ServiceQueue) Length() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Serving returns the id of the visitor currently being served, or ""
func (q *ServiceQueue) Serving() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.serving
}

// CanReceiveService reports whether the visitor is the current head and the
// serving slot is free
func (q *ServiceQueue) CanReceiveService(visitorID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.serving == "" && len(q.entries) > 0 && q.entries[0] == visitorID
}

// StartService marks the head visitor as being served and starts the service
// timer. The returned channel closes when service completes; it never closes
// if the visitor leaves mid-service, so waiters must also watch their own
// cancellation.
func (q *ServiceQueue) StartService(visitorID string) (<-chan struct{}, error) {
	q.mu.Lock()
	if q.serving != "" {
		q.mu.Unlock()
		return nil, shared.NewQueueError("another visitor is already being served")
	}
	if len(q.entries) == 0 || q.entries[0] != visitorID {
		q.mu.Unlock()
		return nil, shared.NewNotInQueueError(visitorID)
	}

	q.serving = visitorID
	cancel := make(chan struct{})
	q.servingCancel = cancel
	duration := q.serviceDuration
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		timer := time.NewTimer(duration)
		defer timer.Stop()
		select {
		case <-timer.C:
			q.finishService(visitorID)
			close(done)
		case <-cancel:
		}
	}()
	return done, nil
}

// finishService dequeues the served head and clears the serving slot
func (q *ServiceQueue) finishService(visitorID string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.serving != visitorID {
		return
	}
	q.serving = ""
	q.servingCancel = nil
	if len(q.entries) > 0 && q.entries[0] == visitorID {
		q.entries = q.entries[1:]
	}
}

// Leave removes the visitor from the queue wherever positioned and aborts an
// in-flight service if it was the one being served. Always safe to call,
// including for visitors that never joined.
func (q *ServiceQueue) Leave(visitorID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.removeLocked(visitorID)
}

// ForceCleanup removes every entry whose visitor the liveness predicate
// rejects. Used by the end-of-day eviction sweep.
func (q *ServiceQueue) ForceCleanup(isLive func(visitorID string) bool) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	removed := 0
	for i := 0; i < len(q.entries); {
		if isLive(q.entries[i]) {
			i++
			continue
		}
		id := q.entries[i]
		q.removeLocked(id)
		removed++
	}
	return removed
}

func (q *ServiceQueue) removeLocked(visitorID string) {
	if q.serving == visitorID {
		q.serving = ""
		if q.servingCancel != nil {
			close(q.servingCancel)
			q.servingCancel = nil
		}
	}
	for i, id := range q.entries {
		if id == visitorID {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return
		}
	}
}
