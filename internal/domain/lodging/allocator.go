package lodging

import (
	"sync"

	"github.com/andrescamacho/hostelsim-go/internal/domain/shared"
)

// RoomGeometry is the port to the external room-detection collaborator. It
// answers point-containment for a room's real bounds, which can be finer than
// the registered bounding rectangle.
type RoomGeometry interface {
	Contains(roomID RoomID, p shared.Point) bool
}

// rectGeometry answers containment from the registered bounding rectangles.
// Used when no external detector is wired in.
type rectGeometry struct {
	allocator *RoomAllocator
}

func (g *rectGeometry) Contains(roomID RoomID, p shared.Point) bool {
	g.allocator.mu.Lock()
	defer g.allocator.mu.Unlock()
	state, ok := g.allocator.rooms[roomID]
	if !ok {
		return false
	}
	return state.info.Bounds.Contains(p)
}

// roomState is the allocator's private per-room record
type roomState struct {
	info     RoomInfo
	occupied bool
	holder   string
}

// RoomAllocator owns the authoritative room occupancy table. All access goes
// through its narrow API; a single mutex covers the table and every critical
// section is O(rooms) at worst.
//
// Invariant: at most one visitor holds a given room at any instant, and the
// occupancy flag always agrees with the holder binding.
type RoomAllocator struct {
	mu        sync.Mutex
	rooms     map[RoomID]*roomState
	byVisitor map[string]RoomID
	geometry  RoomGeometry
	rand      shared.RandSource
	clock     shared.Clock
}

// NewRoomAllocator creates an empty allocator. If geometry is nil, containment
// falls back to the registered bounding rectangles. If clock is nil, uses
// RealClock.
func NewRoomAllocator(geometry RoomGeometry, rand shared.RandSource, clock shared.Clock) *RoomAllocator {
	if rand == nil {
		rand = shared.NewRandSource()
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}

	a := &RoomAllocator{
		rooms:     make(map[RoomID]*roomState),
		byVisitor: make(map[string]RoomID),
		rand:      rand,
		clock:     clock,
	}
	if geometry == nil {
		geometry = &rectGeometry{allocator: a}
	}
	a.geometry = geometry
	return a
}

// UpdateRooms merges the latest detector output into the table. New rooms are
// registered free; known rooms keep their occupancy; rooms absent from the
// update are kept while held and dropped once free.
func (a *RoomAllocator) UpdateRooms(rooms []RoomInfo) {
	a.mu.Lock()
	defer a.mu.Unlock()

	seen := make(map[RoomID]bool, len(rooms))
	for _, info := range rooms {
		seen[info.ID] = true
		if state, ok := a.rooms[info.ID]; ok {
			state.info = info
			continue
		}
		a.rooms[info.ID] = &roomState{info: info}
	}

	for id, state := range a.rooms {
		if !seen[id] && !state.occupied {
			delete(a.rooms, id)
		}
	}
}

// TryAssign atomically claims a free room for the visitor and returns a
// handle bound to it. Returns (nil, false) when every room is occupied; that
// is not an error - callers fall back to wandering.
//
// Selection among multiple free rooms is uniform-random to avoid positional
// bias. Concurrent callers never both succeed on the same room.
func (a *RoomAllocator) TryAssign(visitorID string) (*RoomHandle, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, holds := a.byVisitor[visitorID]; holds {
		// A visitor can hold at most one room; a duplicate request
		// means stale caller state, not a second assignment
		return nil, false
	}

	free := make([]*roomState, 0, len(a.rooms))
	for _, state := range a.rooms {
		if !state.occupied {
			free = append(free, state)
		}
	}
	if len(free) == 0 {
		return nil, false
	}

	chosen := free[a.rand.Intn(len(free))]
	chosen.occupied = true
	chosen.holder = visitorID
	a.byVisitor[visitorID] = chosen.info.ID

	return NewRoomHandle(chosen.info.ID, visitorID, chosen.info.Position, a.clock.Now()), true
}

// Release returns the visitor's room to the free pool. Idempotent: releasing
// with no room held is a no-op.
func (a *RoomAllocator) Release(visitorID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	roomID, ok := a.byVisitor[visitorID]
	if !ok {
		return
	}
	delete(a.byVisitor, visitorID)

	if state, ok := a.rooms[roomID]; ok && state.holder == visitorID {
		state.occupied = false
		state.holder = ""
	}
}

// Holds reports whether the visitor currently holds roomID. Used to detect
// stale handles after a concurrent release.
func (a *RoomAllocator) Holds(visitorID string, roomID RoomID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	held, ok := a.byVisitor[visitorID]
	return ok && held == roomID
}

// IsPointInside reports whether the point lies inside the room's detected
// bounds. Distinguishes "arrived inside the room" from "arrived at the room's
// nominal navigation target".
func (a *RoomAllocator) IsPointInside(roomID RoomID, p shared.Point) bool {
	return a.geometry.Contains(roomID, p)
}

// FreeCount returns the number of unoccupied rooms
func (a *RoomAllocator) FreeCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := 0
	for _, state := range a.rooms {
		if !state.occupied {
			n++
		}
	}
	return n
}

// RoomCount returns the number of registered rooms
func (a *RoomAllocator) RoomCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.rooms)
}

// OccupiedCount returns the number of rooms currently held
func (a *RoomAllocator) OccupiedCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.byVisitor)
}
