package simulation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/hostelsim-go/internal/domain/counter"
	"github.com/andrescamacho/hostelsim-go/internal/domain/lodging"
	"github.com/andrescamacho/hostelsim-go/internal/domain/shared"
	"github.com/andrescamacho/hostelsim-go/internal/domain/visitor"
	"github.com/andrescamacho/hostelsim-go/internal/infrastructure/config"
)

// recordingObserver counts callbacks for assertions
type recordingObserver struct {
	mu         sync.Mutex
	rejections int
	evictions  int
	recycled   int
	stays      int
}

func (o *recordingObserver) VisitorStateChanged(*visitor.Visitor, visitor.State, visitor.State) {}

func (o *recordingObserver) VisitorRecycled(*visitor.Visitor) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.recycled++
}

func (o *recordingObserver) QueueRejected(*visitor.Visitor) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rejections++
}

func (o *recordingObserver) Evicted(*visitor.Visitor) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.evictions++
}

func (o *recordingObserver) StayCompleted(StayRecord) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stays++
}

func (o *recordingObserver) counts() (rejections, evictions, recycled, stays int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.rejections, o.evictions, o.recycled, o.stays
}

func fastConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Simulation.VisitorCount = 3
	cfg.Simulation.SpawnRate = 1000
	cfg.Simulation.SpawnBurst = 10
	cfg.Simulation.MovementTimeout = 200 * time.Millisecond
	cfg.Simulation.WanderPauseMin = time.Millisecond
	cfg.Simulation.WanderPauseMax = 2 * time.Millisecond
	cfg.Simulation.WalkSpeed = 100000
	cfg.Lodging.RoomUseMin = 2 * time.Millisecond
	cfg.Lodging.RoomUseMax = 4 * time.Millisecond
	cfg.Counter.ServiceDuration = time.Millisecond
	cfg.Counter.RetryIntervalMin = time.Millisecond
	cfg.Counter.RetryIntervalMax = 2 * time.Millisecond
	cfg.Counter.MaxRetryAttempts = 3
	return cfg
}

func testDeps(t *testing.T, cfg *config.Config, simClock shared.SimClock, obs Observer) *Deps {
	t.Helper()
	if obs == nil {
		obs = NopObserver{}
	}
	clock := shared.NewRealClock()
	return &Deps{
		Cfg:          cfg,
		Policy:       visitor.NewPolicy(visitor.DefaultPolicyConfig()),
		Allocator:    lodging.NewRoomAllocator(nil, nil, clock),
		Queue:        counter.NewServiceQueue(cfg.Counter.MaxQueueLength, cfg.Counter.ServiceDuration),
		Retry:        counter.NewRetryTracker(clock),
		Pricing:      NewFlatPricing(40, 20),
		Ledger:       NopLedger{},
		Events:       NopEventSink{},
		Observer:     obs,
		SimClock:     simClock,
		Clock:        clock,
		Rand:         shared.NewSeededRandSource(7),
		SpawnPoint:   shared.Point{X: 0, Y: 0},
		CounterPoint: shared.Point{X: 10, Y: 10},
	}
}

func testNavFactory(cfg *config.Config, clock shared.Clock) NavigatorFactory {
	bounds := shared.Rect{MaxX: cfg.Simulation.FloorWidth, MaxY: cfg.Simulation.FloorHeight}
	return func(start shared.Point) visitor.Navigator {
		return NewSimNavigator(start, cfg.Simulation.WalkSpeed, bounds, clock)
	}
}

func seedRooms(deps *Deps, n int) {
	rooms := make([]lodging.RoomInfo, 0, n)
	for i := 0; i < n; i++ {
		pos := shared.Point{X: float64(20 + i*12), Y: 50}
		rooms = append(rooms, lodging.RoomInfo{
			ID:       lodging.RoomIDFromPosition(pos),
			Position: pos,
			Bounds:   shared.Rect{MinX: pos.X - 5, MinY: pos.Y - 5, MaxX: pos.X + 5, MaxY: pos.Y + 5},
		})
	}
	deps.Allocator.UpdateRooms(rooms)
}

func TestEvictionSweep_SparesRoomHolders(t *testing.T) {
	// Arrange
	cfg := fastConfig()
	simClock := shared.NewManualSimClock(17, 0)
	obs := &recordingObserver{}
	deps := testDeps(t, cfg, simClock, obs)
	seedRooms(deps, 3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	e := NewEngine(deps, testNavFactory(cfg, deps.Clock))
	e.ctx, e.cancel = context.WithCancel(ctx)
	defer e.cancel()

	holder := visitor.New("visitor-1", "Outa", deps.Clock)
	handle, ok := deps.Allocator.TryAssign(holder.ID())
	require.True(t, ok)
	holder.SetHeldRoom(handle)
	holder.SetState(visitor.StateRoomWandering)

	stroller := visitor.New("visitor-2", "Hana", deps.Clock)
	stroller.SetState(visitor.StateWandering)

	rHolder := newVisitorRunner(e.ctx, deps, holder, e.navFactory(deps.SpawnPoint))
	rStroller := newVisitorRunner(e.ctx, deps, stroller, e.navFactory(deps.SpawnPoint))
	e.runners[holder.ID()] = rHolder
	e.runners[stroller.ID()] = rStroller

	// Act
	e.evictionSweep(0)

	// Assert
	assert.Equal(t, visitor.StateRoomWandering, holder.State(), "room holder must be spared")
	assert.True(t, holder.HoldsRoom())
	assert.Equal(t, visitor.StateReturningToSpawn, stroller.State())

	_, evictions, _, _ := obs.counts()
	assert.Equal(t, 1, evictions)

	// The stroller spawned at the spawn point, so the walk home completes
	// immediately and the runner recycles itself
	select {
	case <-rStroller.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("evicted visitor never recycled")
	}

	// The runner remembers the sweep and does not re-evict the holder on
	// its next wakeup
	assert.True(t, rHolder.evictionHandled(0))
}

func TestJoinQueue_RetriesThenAbandons(t *testing.T) {
	// Arrange: capacity-1 queue permanently occupied by another visitor
	cfg := fastConfig()
	cfg.Counter.MaxQueueLength = 1
	simClock := shared.NewManualSimClock(12, 0)
	obs := &recordingObserver{}
	deps := testDeps(t, cfg, simClock, obs)
	deps.Queue = counter.NewServiceQueue(1, time.Hour)
	require.True(t, deps.Queue.TryJoin("blocker"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seedRooms(deps, 1)
	v := visitor.New("visitor-9", "Kiri", deps.Clock)
	handle, ok := deps.Allocator.TryAssign(v.ID())
	require.True(t, ok)
	v.SetHeldRoom(handle)
	v.SetState(visitor.StateMovingToQueue)

	r := newVisitorRunner(ctx, deps, v, testNavFactory(cfg, deps.Clock)(deps.CounterPoint))

	// Act
	r.joinQueue(ctx, visitor.StateWaitingInQueue)

	// Assert: three rejections, then the room holder falls back to
	// wandering the grounds with the room kept
	rejections, _, _, _ := obs.counts()
	assert.Equal(t, cfg.Counter.MaxRetryAttempts, rejections)
	assert.Equal(t, visitor.StateUseWandering, v.State())
	assert.True(t, v.HoldsRoom())
	assert.Equal(t, 0, deps.Retry.Attempts(v.ID()), "attempts reset after giving up")
	assert.False(t, v.InQueue())
}

func TestJoinQueue_AdmittedOnRetry(t *testing.T) {
	// Arrange
	cfg := fastConfig()
	simClock := shared.NewManualSimClock(12, 0)
	deps := testDeps(t, cfg, simClock, nil)
	deps.Queue = counter.NewServiceQueue(1, time.Hour)
	require.True(t, deps.Queue.TryJoin("blocker"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v := visitor.New("visitor-8", "Sute", deps.Clock)
	v.SetState(visitor.StateMovingToQueue)
	r := newVisitorRunner(ctx, deps, v, testNavFactory(cfg, deps.Clock)(deps.CounterPoint))

	// Free the slot while the visitor is backing off
	go func() {
		time.Sleep(2 * time.Millisecond)
		deps.Queue.Leave("blocker")
	}()

	// Act
	r.joinQueue(ctx, visitor.StateWaitingInQueue)

	// Assert
	assert.Equal(t, visitor.StateWaitingInQueue, v.State())
	assert.True(t, v.InQueue())
	assert.Equal(t, 0, r.deps.Queue.Position(v.ID()))
}

func TestOnHour_SkipsProtectedVisitors(t *testing.T) {
	// Arrange
	cfg := fastConfig()
	simClock := shared.NewManualSimClock(13, 0)
	deps := testDeps(t, cfg, simClock, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v := visitor.New("visitor-7", "Tami", deps.Clock)
	v.SetState(visitor.StateWaitingInQueue)
	v.SetInQueue(true)
	r := newVisitorRunner(ctx, deps, v, testNavFactory(cfg, deps.Clock)(deps.CounterPoint))

	// Act
	r.onHour(shared.TimeOfDay{Hour: 13})

	// Assert: an enqueued visitor keeps its place across the hour boundary
	assert.Equal(t, visitor.StateWaitingInQueue, v.State())
	assert.True(t, v.InQueue())
}

func TestOnHour_ProcessesEachHourOnce(t *testing.T) {
	// Arrange
	cfg := fastConfig()
	simClock := shared.NewManualSimClock(14, 0)
	deps := testDeps(t, cfg, simClock, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v := visitor.New("visitor-6", "Roku", deps.Clock)
	v.SetState(visitor.StateWaitingInQueue)
	v.SetInQueue(true)
	r := newVisitorRunner(ctx, deps, v, testNavFactory(cfg, deps.Clock)(deps.CounterPoint))

	// Act
	r.onHour(shared.TimeOfDay{Hour: 14})
	processedAgain := v.MarkHourProcessed(14)

	// Assert
	assert.False(t, processedAgain, "hour 14 already consumed by onHour")
}

func TestPerformCheckout_RecordsStayAndSchedulesDespawnInWindow(t *testing.T) {
	// Arrange: checkout at 10:00, inside the morning window
	cfg := fastConfig()
	simClock := shared.NewManualSimClock(10, 30)
	obs := &recordingObserver{}
	deps := testDeps(t, cfg, simClock, obs)
	seedRooms(deps, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v := visitor.New("visitor-5", "Ine", deps.Clock)
	handle, ok := deps.Allocator.TryAssign(v.ID())
	require.True(t, ok)
	v.SetHeldRoom(handle)
	v.SetState(visitor.StateRoomWandering)
	r := newVisitorRunner(ctx, deps, v, testNavFactory(cfg, deps.Clock)(handle.Position()))

	// Act
	r.performCheckout(ctx)

	// Assert
	assert.Equal(t, visitor.StateReportingRoom, v.State())
	assert.False(t, v.HoldsRoom())
	assert.True(t, v.DespawnScheduled())
	assert.Equal(t, 1, deps.Allocator.FreeCount(), "room returned to the pool")

	_, _, _, stays := obs.counts()
	assert.Equal(t, 1, stays)

	// Cancel the ReportingRoom activity started by the transition
	r.recycle("test teardown")
}

func TestPerformCheckout_NoDespawnOutsideWindow(t *testing.T) {
	// Arrange: checkout at 14:00
	cfg := fastConfig()
	simClock := shared.NewManualSimClock(14, 0)
	deps := testDeps(t, cfg, simClock, nil)
	seedRooms(deps, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	v := visitor.New("visitor-4", "Gin", deps.Clock)
	handle, ok := deps.Allocator.TryAssign(v.ID())
	require.True(t, ok)
	v.SetHeldRoom(handle)
	v.SetState(visitor.StateUseWandering)
	r := newVisitorRunner(ctx, deps, v, testNavFactory(cfg, deps.Clock)(handle.Position()))

	// Act
	r.performCheckout(ctx)

	// Assert
	assert.False(t, v.DespawnScheduled())
	assert.Equal(t, visitor.StateReportingRoom, v.State())

	r.recycle("test teardown")
}

func TestEngine_SpawnsAndDrainsOnStop(t *testing.T) {
	// Arrange
	cfg := fastConfig()
	simClock := shared.NewManualSimClock(12, 0)
	obs := &recordingObserver{}
	deps := testDeps(t, cfg, simClock, obs)
	seedRooms(deps, 5)

	e := NewEngine(deps, testNavFactory(cfg, deps.Clock))

	// Act
	e.Start(context.Background())

	require.Eventually(t, func() bool {
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.spawned == cfg.Simulation.VisitorCount
	}, 5*time.Second, 5*time.Millisecond, "population never reached the target")

	e.Stop()

	// Assert: every visitor was torn down and accounted for
	assert.Equal(t, 0, e.Population())
	e.mu.Lock()
	recycled := e.recycled
	e.mu.Unlock()
	assert.Equal(t, cfg.Simulation.VisitorCount, recycled)
}

func TestEngine_SummarizeStartsEmpty(t *testing.T) {
	// Arrange
	cfg := fastConfig()
	deps := testDeps(t, cfg, shared.NewManualSimClock(8, 0), nil)
	e := NewEngine(deps, testNavFactory(cfg, deps.Clock))

	// Act
	s, err := e.Summarize(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Zero(t, s.Spawned)
	assert.Zero(t, s.Stays)
	assert.Zero(t, s.Revenue)
}

func TestServiceResumeAfterEvictionStaysHomebound(t *testing.T) {
	// Arrange: a visitor being served at the counter when the closing
	// sweep fires
	cfg := fastConfig()
	simClock := shared.NewManualSimClock(17, 0)
	obs := &recordingObserver{}
	deps := testDeps(t, cfg, simClock, obs)
	seedRooms(deps, 2)

	v := visitor.New("visitor-8", "Hachi", deps.Clock)
	v.SetState(visitor.StateWaitingInQueue)
	v.SetInQueue(true)
	r := newVisitorRunner(context.Background(), deps, v, testNavFactory(cfg, deps.Clock)(deps.CounterPoint))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.mu.Lock()
	r.stateCancel = cancel
	r.mu.Unlock()

	// Act: the sweep sends the visitor home, then the stale service
	// completion wakes up and tries to resume the queue-wait path
	r.forceEvict(0)
	wokenIntoEviction := r.interrupted(ctx)
	r.onServed(ctx)
	r.transitionTo(ctx, visitor.StateMovingToRoom)

	// Assert: the resume is refused end to end
	assert.True(t, wokenIntoEviction)
	assert.Equal(t, visitor.StateReturningToSpawn, v.State())
	assert.False(t, v.HoldsRoom())
	assert.Equal(t, 0, deps.Allocator.OccupiedCount())
}

func TestCheckoutSettlesOccupancyOnce(t *testing.T) {
	// Arrange: a room holder whose occupancy just expired
	cfg := fastConfig()
	simClock := shared.NewManualSimClock(14, 0)
	obs := &recordingObserver{}
	deps := testDeps(t, cfg, simClock, obs)
	deps.Queue = nil // keep the reporting path from starting a second stay
	seedRooms(deps, 1)

	v := visitor.New("visitor-9", "Kyu", deps.Clock)
	handle, ok := deps.Allocator.TryAssign(v.ID())
	require.True(t, ok)
	v.SetHeldRoom(handle)
	v.SetState(visitor.StateRoomWandering)
	r := newVisitorRunner(context.Background(), deps, v, testNavFactory(cfg, deps.Clock)(handle.Position()))

	// Act: the hourly checkout decision and the expiry path fire together
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.performCheckout(context.Background())
		}()
	}
	wg.Wait()

	// Assert: one settlement, one freed room
	_, _, _, stays := obs.counts()
	assert.Equal(t, 1, stays)
	assert.False(t, v.HoldsRoom())
	assert.Equal(t, 1, deps.Allocator.FreeCount())

	r.recycle("test teardown")
}

func TestTakeVisitor_ReusesPooledMachine(t *testing.T) {
	// Arrange: a departed visitor sits in the pool with leftover flags
	cfg := fastConfig()
	deps := testDeps(t, cfg, shared.NewManualSimClock(12, 0), nil)
	e := NewEngine(deps, testNavFactory(cfg, deps.Clock))

	old := visitor.New("visitor-1", "Ichi", deps.Clock)
	old.SetInQueue(true)
	old.ScheduleDespawn()
	old.SetState(visitor.StateReturningToSpawn)
	e.pool.Put(old)

	// Act
	v := e.takeVisitor("visitor-2", "Ni")

	// Assert: a clean machine under the new identity, whether the pool
	// returned the old value or allocation fell back
	assert.Equal(t, "visitor-2", v.ID())
	assert.Equal(t, "Ni", v.Name())
	assert.Equal(t, visitor.StateMovingToQueue, v.State())
	assert.False(t, v.InQueue())
	assert.False(t, v.DespawnScheduled())
}

func TestOnMinute_HourPassSurvivesDroppedBoundaryTick(t *testing.T) {
	// Arrange: a runner registered with the engine, and the minute-0 tick
	// of hour 12 lost to a lagging subscriber
	cfg := fastConfig()
	simClock := shared.NewManualSimClock(11, 59)
	deps := testDeps(t, cfg, simClock, nil)
	e := NewEngine(deps, testNavFactory(cfg, deps.Clock))
	e.ctx, e.cancel = context.WithCancel(context.Background())
	defer e.cancel()

	v := visitor.New("visitor-3", "San", deps.Clock)
	v.SetState(visitor.StateWandering)
	r := newVisitorRunner(e.ctx, deps, v, testNavFactory(cfg, deps.Clock)(deps.SpawnPoint))
	e.runners[v.ID()] = r

	// Act: the first tick the engine sees for hour 12 is 12:03
	e.onMinute(shared.TimeOfDay{Hour: 12, Minute: 3})

	// Assert: the hourly pass ran despite the missing minute-0 tick
	assert.False(t, v.MarkHourProcessed(12), "hour 12 must already be consumed")
}
