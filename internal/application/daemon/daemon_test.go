package daemon_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/hostelsim-go/internal/application/daemon"
	"github.com/andrescamacho/hostelsim-go/internal/application/simulation"
	"github.com/andrescamacho/hostelsim-go/internal/domain/counter"
	"github.com/andrescamacho/hostelsim-go/internal/domain/lodging"
	"github.com/andrescamacho/hostelsim-go/internal/domain/shared"
	"github.com/andrescamacho/hostelsim-go/internal/domain/visitor"
	"github.com/andrescamacho/hostelsim-go/internal/infrastructure/config"
)

func testEngine(t *testing.T, cfg *config.Config, simClock shared.SimClock) *simulation.Engine {
	t.Helper()
	clock := shared.NewRealClock()
	deps := &simulation.Deps{
		Cfg:          cfg,
		Policy:       visitor.NewPolicy(visitor.DefaultPolicyConfig()),
		Allocator:    lodging.NewRoomAllocator(nil, nil, clock),
		Queue:        counter.NewServiceQueue(cfg.Counter.MaxQueueLength, cfg.Counter.ServiceDuration),
		Retry:        counter.NewRetryTracker(clock),
		Pricing:      simulation.NewFlatPricing(40, 20),
		Ledger:       simulation.NopLedger{},
		Events:       simulation.NopEventSink{},
		Observer:     simulation.NopObserver{},
		SimClock:     simClock,
		Clock:        clock,
		Rand:         shared.NewSeededRandSource(1),
		SpawnPoint:   daemon.SpawnPoint(&cfg.Simulation),
		CounterPoint: daemon.CounterPoint(&cfg.Simulation),
	}
	return simulation.NewEngine(deps, daemon.NavigatorFactory(&cfg.Simulation, clock))
}

func TestBuildRooms_LaysOutConfiguredCount(t *testing.T) {
	// Arrange
	cfg := config.DefaultConfig()
	cfg.Lodging.RoomCount = 10

	// Act
	rooms := daemon.BuildRooms(&cfg.Simulation, &cfg.Lodging)

	// Assert
	require.Len(t, rooms, 10)

	floor := shared.Rect{MaxX: cfg.Simulation.FloorWidth, MaxY: cfg.Simulation.FloorHeight}
	seen := make(map[lodging.RoomID]bool)
	for _, room := range rooms {
		assert.False(t, seen[room.ID], "duplicate room id %s", room.ID)
		seen[room.ID] = true

		assert.True(t, floor.Contains(room.Position), "room %s center off the floor", room.ID)
		assert.True(t, room.Bounds.Contains(room.Position))
	}
}

func TestBuildRooms_RoomsDoNotOverlap(t *testing.T) {
	// Arrange
	cfg := config.DefaultConfig()
	cfg.Lodging.RoomCount = 8

	// Act
	rooms := daemon.BuildRooms(&cfg.Simulation, &cfg.Lodging)

	// Assert: no room center falls inside another room's bounds
	for i, a := range rooms {
		for j, b := range rooms {
			if i == j {
				continue
			}
			assert.False(t, a.Bounds.Contains(b.Position),
				"room %s center inside room %s", b.ID, a.ID)
		}
	}
}

func TestBuildRooms_NarrowFloorStacksSingleColumn(t *testing.T) {
	// Arrange: a floor narrower than one room plus its margins
	cfg := config.DefaultConfig()
	cfg.Simulation.FloorWidth = 5
	cfg.Lodging.RoomSize = 10
	cfg.Lodging.RoomCount = 4

	// Act
	rooms := daemon.BuildRooms(&cfg.Simulation, &cfg.Lodging)

	// Assert: one room per row, all sharing the same column
	require.Len(t, rooms, 4)
	for _, room := range rooms {
		assert.InDelta(t, rooms[0].Position.X, room.Position.X, 0.001)
	}
}

func TestWaitForDrain_ReturnsOnceIdle(t *testing.T) {
	// Arrange: past closing hour, so spawning shuts down immediately and
	// the population never grows
	cfg := config.DefaultConfig()
	cfg.Simulation.VisitorCount = 2
	engine := testEngine(t, cfg, shared.NewManualSimClock(18, 0))
	engine.Start(context.Background())
	defer engine.Stop()

	// Act
	drained := daemon.WaitForDrain(engine, 5*time.Second)

	// Assert
	assert.True(t, drained)
	assert.Equal(t, 0, engine.Population())
}

func TestWaitForDrain_TimesOutWhileSpawning(t *testing.T) {
	// Arrange: a spawn rate so low the first visitor never arrives
	cfg := config.DefaultConfig()
	cfg.Simulation.SpawnRate = 0.0001
	cfg.Simulation.SpawnBurst = 1
	engine := testEngine(t, cfg, shared.NewManualSimClock(12, 0))
	engine.Start(context.Background())
	defer engine.Stop()

	// Act / Assert
	assert.False(t, daemon.WaitForDrain(engine, 10*time.Millisecond))
}

func TestFixedPoints_InsideFloor(t *testing.T) {
	// Arrange
	cfg := config.DefaultConfig()
	floor := shared.Rect{MaxX: cfg.Simulation.FloorWidth, MaxY: cfg.Simulation.FloorHeight}

	// Act / Assert
	assert.True(t, floor.Contains(daemon.SpawnPoint(&cfg.Simulation)))
	assert.True(t, floor.Contains(daemon.CounterPoint(&cfg.Simulation)))
}

func TestFixedPoints_CounterAwayFromRooms(t *testing.T) {
	// Arrange
	cfg := config.DefaultConfig()
	rooms := daemon.BuildRooms(&cfg.Simulation, &cfg.Lodging)
	counterAt := daemon.CounterPoint(&cfg.Simulation)

	// Assert
	for _, room := range rooms {
		assert.False(t, room.Bounds.Contains(counterAt),
			"counter stands inside room %s", room.ID)
	}
}
