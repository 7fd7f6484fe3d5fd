package visitor_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/hostelsim-go/internal/domain/lodging"
	"github.com/andrescamacho/hostelsim-go/internal/domain/shared"
	"github.com/andrescamacho/hostelsim-go/internal/domain/visitor"
)

func TestVisitor_StartsMovingToQueue(t *testing.T) {
	v := visitor.New("v-1", "Outa", nil)

	assert.Equal(t, visitor.StateMovingToQueue, v.State())
	assert.False(t, v.HoldsRoom())
	assert.False(t, v.InQueue())
	assert.False(t, v.DespawnScheduled())
}

func TestVisitor_SetStateUpdatesLabel(t *testing.T) {
	v := visitor.New("v-1", "Outa", nil)

	prev := v.SetState(visitor.StateWandering)

	assert.Equal(t, visitor.StateMovingToQueue, prev)
	assert.Equal(t, visitor.StateWandering, v.State())
	assert.Equal(t, visitor.StateWandering.Label(), v.StatusLabel())
}

func TestVisitor_ProtectionFlags(t *testing.T) {
	v := visitor.New("v-1", "Outa", nil)
	v.SetState(visitor.StateWandering)
	require.False(t, v.IsProtected())

	// Queue membership protects regardless of state
	v.SetInQueue(true)
	assert.True(t, v.IsProtected())
	v.SetInQueue(false)
	assert.False(t, v.IsProtected())

	// Scheduled despawn protects until the 11:00 boundary
	v.ScheduleDespawn()
	assert.True(t, v.IsProtected())
}

func TestVisitor_CriticalStatesAreProtected(t *testing.T) {
	critical := []visitor.State{
		visitor.StateMovingToRoom,
		visitor.StateUsingRoom,
		visitor.StateRoomWandering,
		visitor.StateUseWandering,
		visitor.StateReportingRoom,
		visitor.StateReportingRoomQueue,
	}
	for _, s := range critical {
		v := visitor.New("v-1", "Outa", nil)
		v.SetState(s)
		assert.True(t, v.IsProtected(), "state %s must be protected", s)
	}

	for _, s := range []visitor.State{visitor.StateWandering, visitor.StateMovingToQueue, visitor.StateReturningToSpawn} {
		v := visitor.New("v-1", "Outa", nil)
		v.SetState(s)
		assert.False(t, v.IsProtected(), "state %s must not be protected", s)
	}
}

func TestVisitor_EvictionExemption(t *testing.T) {
	handle := lodging.NewRoomHandle("room-0-0", "v-1", shared.Point{}, time.Now())

	// Holding a room in a room-related state exempts from the 17:00 rule
	v := visitor.New("v-1", "Outa", nil)
	v.SetHeldRoom(handle)
	v.SetState(visitor.StateUsingRoom)
	assert.True(t, v.IsEvictionExempt())

	v.SetState(visitor.StateUseWandering)
	assert.True(t, v.IsEvictionExempt())

	// Queued without a room: evictable
	v2 := visitor.New("v-2", "Hana", nil)
	v2.SetState(visitor.StateWaitingInQueue)
	v2.SetInQueue(true)
	assert.False(t, v2.IsEvictionExempt())

	// Room-related state without an actual room binding: evictable
	v3 := visitor.New("v-3", "Kiri", nil)
	v3.SetState(visitor.StateUsingRoom)
	assert.False(t, v3.IsEvictionExempt())
}

func TestVisitor_MarkHourProcessedDeduplicates(t *testing.T) {
	v := visitor.New("v-1", "Outa", nil)

	assert.True(t, v.MarkHourProcessed(12))
	assert.False(t, v.MarkHourProcessed(12))
	assert.True(t, v.MarkHourProcessed(13))
}

func TestVisitor_ResetReinitializesForReuse(t *testing.T) {
	// Arrange - a visitor at the end of its lifecycle
	v := visitor.New("v-1", "Outa", shared.NewMockClock(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)))
	v.SetState(visitor.StateReturningToSpawn)
	v.SetHeldRoom(lodging.NewRoomHandle("room-0-0", "v-1", shared.Point{}, time.Now()))
	v.SetInQueue(true)
	v.ScheduleDespawn()
	v.MarkHourProcessed(10)

	// Act
	v.Reset("v-2", "Hana")

	// Assert - machine back at its initial state
	assert.Equal(t, "v-2", v.ID())
	assert.Equal(t, "Hana", v.Name())
	assert.Equal(t, visitor.StateMovingToQueue, v.State())
	assert.Nil(t, v.HeldRoom())
	assert.False(t, v.InQueue())
	assert.False(t, v.DespawnScheduled())
	assert.True(t, v.MarkHourProcessed(10), "hour marker must be cleared by reset")
}
