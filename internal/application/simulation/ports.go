package simulation

import (
	"context"
	"time"

	"github.com/andrescamacho/hostelsim-go/internal/domain/lodging"
	"github.com/andrescamacho/hostelsim-go/internal/domain/shared"
	"github.com/andrescamacho/hostelsim-go/internal/domain/visitor"
)

// StayRecord captures one completed room occupancy for the ledger
type StayRecord struct {
	VisitorID    string
	VisitorName  string
	RoomID       lodging.RoomID
	Charge       float64
	Reputation   float64
	SimDay       int
	CheckInHour  int
	CheckOutHour int
	Duration     time.Duration
}

// StayLedger persists completed occupancies
type StayLedger interface {
	RecordStay(ctx context.Context, rec StayRecord) error
	CountStays(ctx context.Context) (int64, error)
	TotalRevenue(ctx context.Context) (float64, error)
}

// Event is one entry of the simulation event stream
type Event struct {
	VisitorID string
	Kind      string
	Detail    string
	At        shared.TimeOfDay
}

// Event kinds emitted by the engine
const (
	EventStateChanged   = "state_changed"
	EventSpawned        = "spawned"
	EventRecycled       = "recycled"
	EventEvicted        = "evicted"
	EventQueueRejected  = "queue_rejected"
	EventQueueAbandoned = "queue_abandoned"
	EventStayCompleted  = "stay_completed"
)

// EventSink receives the simulation event stream
type EventSink interface {
	Append(ctx context.Context, ev Event) error
}

// Observer receives state-machine notifications for metrics and dashboards.
// Callbacks must be fast; they run on visitor goroutines.
type Observer interface {
	VisitorStateChanged(v *visitor.Visitor, from, to visitor.State)
	VisitorRecycled(v *visitor.Visitor)
	QueueRejected(v *visitor.Visitor)
	Evicted(v *visitor.Visitor)
	StayCompleted(rec StayRecord)
}

// NopObserver is the default Observer when none is wired in
type NopObserver struct{}

func (NopObserver) VisitorStateChanged(*visitor.Visitor, visitor.State, visitor.State) {}
func (NopObserver) VisitorRecycled(*visitor.Visitor)                                   {}
func (NopObserver) QueueRejected(*visitor.Visitor)                                     {}
func (NopObserver) Evicted(*visitor.Visitor)                                           {}
func (NopObserver) StayCompleted(StayRecord)                                           {}

// NopLedger discards stay records (used when persistence is disabled)
type NopLedger struct{}

func (NopLedger) RecordStay(context.Context, StayRecord) error { return nil }
func (NopLedger) CountStays(context.Context) (int64, error)    { return 0, nil }
func (NopLedger) TotalRevenue(context.Context) (float64, error) {
	return 0, nil
}

// NopEventSink discards events
type NopEventSink struct{}

func (NopEventSink) Append(context.Context, Event) error { return nil }
