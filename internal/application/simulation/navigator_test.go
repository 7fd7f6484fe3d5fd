package simulation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/hostelsim-go/internal/domain/shared"
)

func TestSimNavigator_TravelCompletesOverTime(t *testing.T) {
	// Arrange: 10 units at 1 unit/s
	clock := shared.NewMockClock(time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC))
	nav := NewSimNavigator(shared.Point{X: 0, Y: 0}, 1, shared.Rect{MaxX: 100, MaxY: 100}, clock)

	// Act
	ok := nav.SetDestination(shared.Point{X: 10, Y: 0})

	// Assert
	require.True(t, ok)
	assert.False(t, nav.IsAtDestination())

	clock.Advance(5 * time.Second)
	mid := nav.Position()
	assert.InDelta(t, 5, mid.X, 0.01)
	assert.False(t, nav.IsAtDestination())

	clock.Advance(6 * time.Second)
	assert.True(t, nav.IsAtDestination())
	assert.InDelta(t, 10, nav.Position().X, 0.01)
}

func TestSimNavigator_RejectsOutOfBoundsTarget(t *testing.T) {
	// Arrange
	nav := NewSimNavigator(shared.Point{X: 5, Y: 5}, 1, shared.Rect{MaxX: 10, MaxY: 10}, nil)

	// Act / Assert
	assert.False(t, nav.SetDestination(shared.Point{X: 50, Y: 5}))
	assert.False(t, nav.SetDestination(shared.Point{X: -1, Y: 5}))
	assert.True(t, nav.SetDestination(shared.Point{X: 9, Y: 9}))
}

func TestSimNavigator_RedirectionRestartsTravel(t *testing.T) {
	// Arrange
	clock := shared.NewMockClock(time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC))
	nav := NewSimNavigator(shared.Point{X: 0, Y: 0}, 1, shared.Rect{MaxX: 100, MaxY: 100}, clock)
	require.True(t, nav.SetDestination(shared.Point{X: 10, Y: 0}))
	clock.Advance(20 * time.Second)
	require.True(t, nav.IsAtDestination())

	// Act: new order from the settled position
	require.True(t, nav.SetDestination(shared.Point{X: 10, Y: 10}))

	// Assert
	assert.False(t, nav.IsAtDestination())
	clock.Advance(10 * time.Second)
	assert.True(t, nav.IsAtDestination())
	pos := nav.Position()
	assert.InDelta(t, 10, pos.X, 0.01)
	assert.InDelta(t, 10, pos.Y, 0.01)
}

func TestSimNavigator_WalkableFaultInjection(t *testing.T) {
	// Arrange
	nav := NewSimNavigator(shared.Point{X: 1, Y: 1}, 1, shared.Rect{MaxX: 10, MaxY: 10}, nil)
	require.True(t, nav.IsOnWalkableSurface())

	// Act
	nav.SetWalkable(false)

	// Assert
	assert.False(t, nav.IsOnWalkableSurface())
}

func TestFlatPricing_StablePerRoom(t *testing.T) {
	// Arrange
	pricing := NewFlatPricing(40, 20)

	// Act
	a1 := pricing.ComputeCharge("room-30-15")
	a2 := pricing.ComputeCharge("room-30-15")
	b := pricing.ComputeCharge("room-45-15")

	// Assert
	assert.Equal(t, a1, a2)
	assert.GreaterOrEqual(t, a1, 40.0)
	assert.Less(t, a1, 60.0)
	assert.GreaterOrEqual(t, b, 40.0)

	rep := pricing.ComputeReputation("room-30-15")
	assert.GreaterOrEqual(t, rep, 3.0)
	assert.Less(t, rep, 5.0)
}
