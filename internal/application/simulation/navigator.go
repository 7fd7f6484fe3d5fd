package simulation

import (
	"sync"
	"time"

	"github.com/andrescamacho/hostelsim-go/internal/domain/shared"
	"github.com/andrescamacho/hostelsim-go/internal/domain/visitor"
)

// SimNavigator is the built-in movement collaborator: straight-line travel at
// a fixed speed under wall time. It satisfies the Navigator port well enough
// for a headless simulation; a real engine would substitute its own.
type SimNavigator struct {
	mu sync.Mutex

	position  shared.Point
	target    shared.Point
	departure time.Time
	travel    time.Duration
	moving    bool

	speed    float64 // floor units per wall second
	bounds   shared.Rect
	walkable bool

	clock shared.Clock
}

// NewSimNavigator creates a navigator at the start position. If clock is nil,
// uses RealClock.
func NewSimNavigator(start shared.Point, speed float64, bounds shared.Rect, clock shared.Clock) *SimNavigator {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &SimNavigator{
		position: start,
		speed:    speed,
		bounds:   bounds,
		walkable: true,
		clock:    clock,
	}
}

var _ visitor.Navigator = (*SimNavigator)(nil)

// SetDestination orders movement toward the point. Points outside the floor
// plan are unreachable.
func (n *SimNavigator) SetDestination(p shared.Point) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.bounds.Contains(p) {
		return false
	}

	n.settleLocked()
	distance := n.position.DistanceTo(p)
	n.target = p
	n.departure = n.clock.Now()
	n.travel = time.Duration(distance / n.speed * float64(time.Second))
	n.moving = true
	return true
}

// IsAtDestination reports arrival: no travel pending
func (n *SimNavigator) IsAtDestination() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.settleLocked()
	return !n.moving
}

// Position returns the current, possibly interpolated, position
func (n *SimNavigator) Position() shared.Point {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.moving {
		return n.position
	}
	elapsed := n.clock.Now().Sub(n.departure)
	if elapsed >= n.travel {
		n.settleLocked()
		return n.position
	}
	frac := float64(elapsed) / float64(n.travel)
	return shared.Point{
		X: n.position.X + (n.target.X-n.position.X)*frac,
		Y: n.position.Y + (n.target.Y-n.position.Y)*frac,
	}
}

// IsOnWalkableSurface reports whether the visitor is still on navigable
// ground. SetWalkable lets tests inject the off-mesh fault.
func (n *SimNavigator) IsOnWalkableSurface() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.walkable
}

// SetWalkable injects or clears the off-mesh fault
func (n *SimNavigator) SetWalkable(ok bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.walkable = ok
}

// settleLocked collapses finished travel into the resting position
func (n *SimNavigator) settleLocked() {
	if !n.moving {
		return
	}
	if n.clock.Now().Sub(n.departure) >= n.travel {
		n.position = n.target
		n.moving = false
	}
}

// NavigatorFactory builds one Navigator per spawned visitor
type NavigatorFactory func(start shared.Point) visitor.Navigator
