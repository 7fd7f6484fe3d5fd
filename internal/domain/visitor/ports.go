package visitor

import (
	"github.com/andrescamacho/hostelsim-go/internal/domain/lodging"
	"github.com/andrescamacho/hostelsim-go/internal/domain/shared"
)

// Navigator is the port to the movement collaborator. One navigator instance
// belongs to one visitor. The core only sets destinations and reads
// arrival/occupancy predicates; path planning and movement execution live
// behind this interface.
type Navigator interface {
	// SetDestination orders movement toward the point. Returns false if
	// the point is unreachable.
	SetDestination(p shared.Point) bool

	// IsAtDestination reports arrival: no path pending and within arrival
	// tolerance
	IsAtDestination() bool

	// Position returns the visitor's current position
	Position() shared.Point

	// IsOnWalkableSurface reports whether the visitor is still on the
	// navigable area. False triggers an immediate unconditional recycle.
	IsOnWalkableSurface() bool
}

// Pricing is the port to the external pricing collaborator, invoked once per
// completed room occupancy
type Pricing interface {
	ComputeCharge(roomID lodging.RoomID) float64
	ComputeReputation(roomID lodging.RoomID) float64
}
