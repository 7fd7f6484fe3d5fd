package lodging

import (
	"fmt"
	"time"

	"github.com/andrescamacho/hostelsim-go/internal/domain/shared"
)

// RoomID is a stable room identifier derived from the room's grid position.
// Re-detection of the same floor plan always yields the same ids.
type RoomID string

// RoomIDFromPosition derives the stable id for a room at the given position
func RoomIDFromPosition(p shared.Point) RoomID {
	return RoomID(fmt.Sprintf("room-%d-%d", int(p.X), int(p.Y)))
}

func (id RoomID) String() string { return string(id) }

// RoomInfo describes one detected room. Geometry and pricing totals are
// computed by external collaborators; the core reads them only.
type RoomInfo struct {
	ID       RoomID
	Position shared.Point
	Bounds   shared.Rect
}

// RoomHandle is a value object binding one room to one visitor for the span
// of an occupancy.
//
// Value Object Properties:
// - Immutable - the allocator issues a new handle per assignment
// - Lifecycle bound to the occupancy, not the room
type RoomHandle struct {
	roomID     RoomID
	visitorID  string
	position   shared.Point
	assignedAt time.Time
}

// NewRoomHandle creates a handle binding roomID to visitorID
func NewRoomHandle(roomID RoomID, visitorID string, position shared.Point, assignedAt time.Time) *RoomHandle {
	return &RoomHandle{
		roomID:     roomID,
		visitorID:  visitorID,
		position:   position,
		assignedAt: assignedAt,
	}
}

// Getters - value objects expose their data through getters

func (h *RoomHandle) RoomID() RoomID        { return h.roomID }
func (h *RoomHandle) VisitorID() string     { return h.visitorID }
func (h *RoomHandle) Position() shared.Point { return h.position }
func (h *RoomHandle) AssignedAt() time.Time { return h.assignedAt }
