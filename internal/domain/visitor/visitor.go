package visitor

import (
	"sync"
	"time"

	"github.com/andrescamacho/hostelsim-go/internal/domain/lodging"
	"github.com/andrescamacho/hostelsim-go/internal/domain/shared"
)

// hourNever marks a visitor that has not yet been through an hourly
// re-evaluation
const hourNever = -1

// Visitor is one simulated guest. Its state and flags are owned by its own
// goroutine's logic; all cross-visitor coordination flows through the
// RoomAllocator and ServiceQueue, never through direct mutation.
//
// The entity guards its fields with a mutex because observers (metrics, the
// eviction sweep) read them from other goroutines.
type Visitor struct {
	mu sync.Mutex

	id   string
	name string

	state       State
	statusLabel string

	heldRoom *lodging.RoomHandle

	inQueue          bool
	beingServed      bool
	despawnScheduled bool

	lastHourProcessed int

	createdAt time.Time
	clock     shared.Clock
}

// New creates a visitor in the MovingToQueue state. If clock is nil, uses
// RealClock.
func New(id, name string, clock shared.Clock) *Visitor {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &Visitor{
		id:                id,
		name:              name,
		state:             StateMovingToQueue,
		statusLabel:       StateMovingToQueue.Label(),
		lastHourProcessed: hourNever,
		createdAt:         clock.Now(),
		clock:             clock,
	}
}

// Getters

func (v *Visitor) ID() string   { return v.id }
func (v *Visitor) Name() string { return v.name }

func (v *Visitor) CreatedAt() time.Time { return v.createdAt }

// State returns the current state
func (v *Visitor) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// StatusLabel returns the human-readable status string
func (v *Visitor) StatusLabel() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.statusLabel
}

// HeldRoom returns the handle of the room this visitor holds, or nil
func (v *Visitor) HeldRoom() *lodging.RoomHandle {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.heldRoom
}

// HoldsRoom reports whether the visitor currently holds a room
func (v *Visitor) HoldsRoom() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.heldRoom != nil
}

// InQueue reports whether the visitor is enqueued at the counter
func (v *Visitor) InQueue() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.inQueue
}

// BeingServed reports whether the visitor currently occupies the serving slot
func (v *Visitor) BeingServed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.beingServed
}

// DespawnScheduled reports whether the visitor is in the
// wander-then-depart-at-11:00 mode entered after a checkout inside the
// morning window
func (v *Visitor) DespawnScheduled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.despawnScheduled
}

// Mutators - called only by the visitor's own runner and by allocator/queue
// callbacks

// SetState records the new state and refreshes the status label. Returns the
// previous state.
func (v *Visitor) SetState(s State) State {
	v.mu.Lock()
	defer v.mu.Unlock()
	prev := v.state
	v.state = s
	v.statusLabel = s.Label()
	return prev
}

// SetHeldRoom records the room handle (nil clears it)
func (v *Visitor) SetHeldRoom(h *lodging.RoomHandle) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.heldRoom = h
}

// SetInQueue records queue membership
func (v *Visitor) SetInQueue(in bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.inQueue = in
	if !in {
		v.beingServed = false
	}
}

// SetBeingServed records serving-slot occupancy
func (v *Visitor) SetBeingServed(served bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.beingServed = served
}

// ScheduleDespawn puts the visitor into wander-then-depart mode
func (v *Visitor) ScheduleDespawn() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.despawnScheduled = true
}

// MarkHourProcessed records the hour and reports whether it had already been
// processed, preventing duplicate hourly re-evaluation within one hour
func (v *Visitor) MarkHourProcessed(hour int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.lastHourProcessed == hour {
		return false
	}
	v.lastHourProcessed = hour
	return true
}

// IsProtected reports whether the visitor is shielded from hourly behavior
// re-evaluation: critical state, queue membership, serving slot, or
// scheduled despawn.
func (v *Visitor) IsProtected() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.IsCritical() || v.inQueue || v.beingServed || v.despawnScheduled
}

// IsEvictionExempt reports whether the 17:00 forced-eviction rule must skip
// this visitor: it is exempt while actively holding and using a room.
func (v *Visitor) IsEvictionExempt() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.heldRoom != nil && (v.state.IsRoomRelated() || v.state == StateMovingToRoom)
}

// Reset re-initializes the machine for pool reuse
func (v *Visitor) Reset(id, name string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.id = id
	v.name = name
	v.state = StateMovingToQueue
	v.statusLabel = StateMovingToQueue.Label()
	v.heldRoom = nil
	v.inQueue = false
	v.beingServed = false
	v.despawnScheduled = false
	v.lastHourProcessed = hourNever
	v.createdAt = v.clock.Now()
}
