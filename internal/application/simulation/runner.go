package simulation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andrescamacho/hostelsim-go/internal/domain/lodging"
	"github.com/andrescamacho/hostelsim-go/internal/domain/shared"
	"github.com/andrescamacho/hostelsim-go/internal/domain/visitor"
	"github.com/andrescamacho/hostelsim-go/pkg/utils"
)

// pollInterval is the wall-time wakeup cadence of every suspension loop.
// Each wakeup re-checks cancellation and the forced-eviction guard.
const pollInterval = 25 * time.Millisecond

var (
	errMoveTimeout = shared.NewVisitorError("movement wait timed out")
	errOffSurface  = shared.NewVisitorError("visitor left the walkable surface")
)

// visitorRunner drives one visitor's state machine on its own goroutines.
// Exactly one activity goroutine is live at a time: transitionTo cancels the
// old state's context before starting the new state's activity, which is what
// prevents duplicate room requests and double queue-joins.
type visitorRunner struct {
	deps *Deps
	v    *visitor.Visitor
	nav  visitor.Navigator

	rootCtx context.Context

	mu          sync.Mutex
	stateCancel context.CancelFunc

	// Occupancy bookkeeping, confined to this runner
	occupancyDeadline time.Time
	checkInAt         shared.TimeOfDay

	// Last simulated day whose 17:00 rule this runner has handled
	evictionDay int

	done     chan struct{}
	doneOnce sync.Once
}

func newVisitorRunner(rootCtx context.Context, deps *Deps, v *visitor.Visitor, nav visitor.Navigator) *visitorRunner {
	return &visitorRunner{
		deps:        deps,
		v:           v,
		nav:         nav,
		rootCtx:     rootCtx,
		evictionDay: -1,
		done:        make(chan struct{}),
	}
}

// Done closes when the visitor has been recycled
func (r *visitorRunner) Done() <-chan struct{} { return r.done }

// start performs the spawn-time policy evaluation and launches the first
// activity. The machine is created in MovingToQueue; the spawn decision can
// immediately redirect it.
func (r *visitorRunner) start() {
	if r.nav == nil {
		// Collaborator absence is fatal for this visitor only
		err := shared.NewCollaboratorMissingError("navigator")
		r.deps.log("error", "recycling visitor", map[string]interface{}{
			"visitor": r.v.ID(),
			"error":   err.Error(),
		})
		r.recycle(err.Error())
		return
	}

	now := r.deps.SimClock.TimeOfDay()
	r.v.MarkHourProcessed(now.Hour)
	r.deps.emit(r.v.ID(), EventSpawned, string(r.v.State()), now)

	decision := r.deps.Policy.Decide(now.Hour, r.v.HoldsRoom(), r.deps.counterPresent(), r.deps.Rand.Float64())
	switch decision {
	case visitor.DecisionQueue:
		// Matches the initial state; just start its activity
		r.startActivity(visitor.StateMovingToQueue)
	default:
		r.apply(r.rootCtx, decision)
	}
}

// transitionTo is the single transition point of the machine. No-op when the
// target equals the current state; otherwise it retires the old state's
// in-flight activity, records the change, and starts the new activity.
// ctx is the requester's governing context: a transition requested under a
// cancelled context is refused, so a superseded activity can never override
// the transition that displaced it. Reports whether the transition applied.
func (r *visitorRunner) transitionTo(ctx context.Context, next visitor.State) bool {
	r.mu.Lock()
	if ctx.Err() != nil {
		r.mu.Unlock()
		return false
	}
	current := r.v.State()
	if next == current {
		r.mu.Unlock()
		return true
	}
	if r.stateCancel != nil {
		r.stateCancel()
		r.stateCancel = nil
	}
	from := r.v.SetState(next)
	r.mu.Unlock()

	now := r.deps.SimClock.TimeOfDay()
	r.deps.Observer.VisitorStateChanged(r.v, from, next)
	r.deps.emit(r.v.ID(), EventStateChanged, fmt.Sprintf("%s -> %s", from, next), now)
	r.deps.log("debug", "state changed", map[string]interface{}{
		"visitor": r.v.ID(),
		"from":    string(from),
		"to":      string(next),
	})

	r.startActivity(next)
	return true
}

// startActivity launches the goroutine owning the state's suspensions
func (r *visitorRunner) startActivity(s visitor.State) {
	r.mu.Lock()
	if r.stateCancel != nil {
		r.stateCancel()
	}
	ctx, cancel := context.WithCancel(r.rootCtx)
	r.stateCancel = cancel
	r.mu.Unlock()

	switch s {
	case visitor.StateWandering:
		go r.runWandering(ctx)
	case visitor.StateMovingToQueue:
		go r.runMovingToQueue(ctx)
	case visitor.StateWaitingInQueue:
		go r.runQueueWait(ctx)
	case visitor.StateMovingToRoom:
		go r.runMovingToRoom(ctx)
	case visitor.StateUsingRoom, visitor.StateRoomWandering:
		go r.runRoomWandering(ctx)
	case visitor.StateUseWandering:
		go r.runUseWandering(ctx)
	case visitor.StateReportingRoom:
		go r.runReportingRoom(ctx)
	case visitor.StateReportingRoomQueue:
		go r.runQueueWait(ctx)
	case visitor.StateReturningToSpawn:
		go r.runReturningToSpawn(ctx)
	}
}

// ---------------------------------------------------------------------------
// Activities
// ---------------------------------------------------------------------------

// runWandering strolls between random floor points until redirected
func (r *visitorRunner) runWandering(ctx context.Context) {
	for {
		if r.interrupted(ctx) {
			return
		}
		target := r.randomFloorPoint()
		if err := r.moveTo(ctx, target); err != nil {
			if err == errOffSurface {
				r.recycle("left walkable surface")
				return
			}
			if err == errMoveTimeout {
				continue // abandon the destination, pick a new one
			}
			return // cancelled
		}
		if !r.sleep(ctx, r.deps.Rand.DurationBetween(r.deps.Cfg.Simulation.WanderPauseMin, r.deps.Cfg.Simulation.WanderPauseMax)) {
			return
		}
	}
}

// runMovingToQueue walks to the counter, then attempts admission
func (r *visitorRunner) runMovingToQueue(ctx context.Context) {
	if !r.deps.counterPresent() {
		// No counter anywhere; fall back per policy
		r.apply(ctx, r.deps.Policy.Decide(r.deps.SimClock.TimeOfDay().Hour, r.v.HoldsRoom(), false, r.deps.Rand.Float64()))
		return
	}
	if !r.walkToOrAbort(ctx, r.deps.CounterPoint) {
		return
	}
	r.joinQueue(ctx, visitor.StateWaitingInQueue)
}

// runReportingRoom walks back to the counter after a checkout, then queues to
// report the vacancy
func (r *visitorRunner) runReportingRoom(ctx context.Context) {
	if !r.deps.counterPresent() {
		r.transitionTo(ctx, visitor.StateWandering)
		return
	}
	if !r.walkToOrAbort(ctx, r.deps.CounterPoint) {
		return
	}
	r.joinQueue(ctx, visitor.StateReportingRoomQueue)
}

// joinQueue runs the bounded retry loop against the admission-controlled
// queue. Rejection is backpressure, not an error: wait a random interval and
// try again, giving up after MaxRetryAttempts consecutive rejections.
func (r *visitorRunner) joinQueue(ctx context.Context, target visitor.State) {
	cfg := r.deps.Cfg.Counter
	for {
		if r.interrupted(ctx) {
			return
		}
		if r.deps.Queue.TryJoin(r.v.ID()) {
			r.deps.Retry.Clear(r.v.ID())
			r.v.SetInQueue(true)
			r.transitionTo(ctx, target)
			return
		}

		attempts := r.deps.Retry.RecordRejection(r.v.ID())
		r.deps.Observer.QueueRejected(r.v)
		r.deps.emit(r.v.ID(), EventQueueRejected, fmt.Sprintf("attempt %d", attempts), r.deps.SimClock.TimeOfDay())
		r.deps.log("debug", "queue admission rejected", map[string]interface{}{
			"visitor": r.v.ID(),
			"attempt": attempts,
			"error":   shared.NewQueueFullError(r.deps.Queue.Capacity()).Error(),
		})

		if attempts >= cfg.MaxRetryAttempts {
			r.deps.Retry.Clear(r.v.ID())
			r.deps.emit(r.v.ID(), EventQueueAbandoned, "", r.deps.SimClock.TimeOfDay())
			r.abandonQueueing(ctx)
			return
		}
		if !r.sleep(ctx, r.deps.Rand.DurationBetween(cfg.RetryIntervalMin, cfg.RetryIntervalMax)) {
			return
		}
	}
}

// abandonQueueing applies the fallback after retry exhaustion: wander when
// holding a room, otherwise a draw between wandering and leaving
func (r *visitorRunner) abandonQueueing(ctx context.Context) {
	if r.v.HoldsRoom() {
		r.transitionTo(ctx, visitor.StateUseWandering)
		return
	}
	if r.deps.Rand.Float64() < 0.5 {
		r.transitionTo(ctx, visitor.StateWandering)
		return
	}
	r.transitionTo(ctx, visitor.StateReturningToSpawn)
}

// runQueueWait polls for the serving slot while enqueued. Shared by
// WaitingInQueue and ReportingRoomQueue; the visitor's state at completion
// time decides what service meant.
func (r *visitorRunner) runQueueWait(ctx context.Context) {
	for {
		if r.interrupted(ctx) {
			return
		}
		if r.deps.Queue.Position(r.v.ID()) < 0 {
			// Swept out of the queue (ForceCleanup); the eviction
			// guard on the next wakeup decides where to go
			r.v.SetInQueue(false)
			if r.interrupted(ctx) {
				return
			}
			r.transitionTo(ctx, visitor.StateWandering)
			return
		}
		if r.deps.Queue.CanReceiveService(r.v.ID()) {
			done, err := r.deps.Queue.StartService(r.v.ID())
			if err != nil {
				// Lost the head race; keep waiting
				if !r.sleep(ctx, pollInterval) {
					return
				}
				continue
			}
			r.v.SetBeingServed(true)
			select {
			case <-ctx.Done():
				r.v.SetBeingServed(false)
				return
			case <-done:
				r.v.SetBeingServed(false)
				r.v.SetInQueue(false)
				// Service completion is a suspension wakeup like any
				// other: re-run the guard before resuming, or a
				// completion racing the closing sweep would undo the
				// forced departure
				if r.interrupted(ctx) {
					return
				}
				r.onServed(ctx)
				return
			}
		}
		if !r.sleep(ctx, pollInterval) {
			return
		}
	}
}

// onServed interprets service completion according to the visitor's own state
func (r *visitorRunner) onServed(ctx context.Context) {
	if ctx.Err() != nil {
		// The wait was superseded while service finished; nothing to
		// resume, and no room may be requested on its behalf
		return
	}
	now := r.deps.SimClock.TimeOfDay()

	if r.v.State() == visitor.StateReportingRoomQueue {
		// Checkout report delivered. Inside the morning window the
		// visitor wanders until the 11:00 boundary forces departure.
		if r.v.DespawnScheduled() {
			r.transitionTo(ctx, visitor.StateWandering)
			return
		}
		r.apply(ctx, r.deps.Policy.Decide(now.Hour, false, r.deps.counterPresent(), r.deps.Rand.Float64()))
		return
	}

	// Room request: negotiate with the allocator. Failure is not a fault;
	// the visitor falls back to wandering.
	handle, ok := r.deps.Allocator.TryAssign(r.v.ID())
	if !ok {
		r.transitionTo(ctx, visitor.StateWandering)
		return
	}
	r.v.SetHeldRoom(handle)
	r.checkInAt = now
	if !r.transitionTo(ctx, visitor.StateMovingToRoom) {
		// Displaced between the guard and the assignment; hand the
		// room straight back
		r.v.SetHeldRoom(nil)
		r.deps.Allocator.Release(r.v.ID())
	}
}

// runMovingToRoom walks to the assigned room and confirms arrival inside its
// detected bounds, not merely at the nominal navigation target
func (r *visitorRunner) runMovingToRoom(ctx context.Context) {
	handle := r.v.HeldRoom()
	if handle == nil {
		r.transitionTo(ctx, visitor.StateWandering)
		return
	}

	if !r.walkToOrAbort(ctx, handle.Position()) {
		return
	}

	if !r.deps.Allocator.Holds(r.v.ID(), handle.RoomID()) {
		// Stale binding after a concurrent reassignment: recoverable,
		// abandon the room-use flow and re-enter the report path
		r.v.SetHeldRoom(nil)
		r.deps.log("warn", "abandoning room use", map[string]interface{}{
			"visitor": r.v.ID(),
			"error":   shared.NewStaleRoomError(handle.RoomID().String(), r.v.ID()).Error(),
		})
		r.transitionTo(ctx, visitor.StateReportingRoom)
		return
	}

	if !r.deps.Allocator.IsPointInside(handle.RoomID(), r.nav.Position()) {
		// At the doorway but not inside the detected bounds yet
		if !r.walkToOrAbort(ctx, handle.Position()) {
			return
		}
	}

	// Draw this occupancy's duration and settle in
	use := r.deps.Rand.DurationBetween(r.deps.Cfg.Lodging.RoomUseMin, r.deps.Cfg.Lodging.RoomUseMax)
	r.mu.Lock()
	r.occupancyDeadline = r.deps.Clock.Now().Add(use)
	r.mu.Unlock()
	r.transitionTo(ctx, visitor.StateUsingRoom)
}

// runRoomWandering strolls inside the room until the occupancy expires.
// Covers both UsingRoom and RoomWandering.
func (r *visitorRunner) runRoomWandering(ctx context.Context) {
	handle := r.v.HeldRoom()
	if handle == nil {
		r.transitionTo(ctx, visitor.StateWandering)
		return
	}
	for {
		if r.interrupted(ctx) {
			return
		}
		if r.occupancyExpired() {
			r.performCheckout(ctx)
			return
		}
		target := r.randomRoomPoint(handle)
		if err := r.moveTo(ctx, target); err != nil {
			if err == errOffSurface {
				r.recycle("left walkable surface")
				return
			}
			if err == errMoveTimeout {
				continue
			}
			return
		}
		if !r.sleep(ctx, r.deps.Rand.DurationBetween(r.deps.Cfg.Simulation.WanderPauseMin, r.deps.Cfg.Simulation.WanderPauseMax)) {
			return
		}
	}
}

// runUseWandering strolls the grounds while the room is kept. Same occupancy
// deadline as indoor use.
func (r *visitorRunner) runUseWandering(ctx context.Context) {
	for {
		if r.interrupted(ctx) {
			return
		}
		if r.occupancyExpired() {
			r.performCheckout(ctx)
			return
		}
		target := r.randomFloorPoint()
		if err := r.moveTo(ctx, target); err != nil {
			if err == errOffSurface {
				r.recycle("left walkable surface")
				return
			}
			if err == errMoveTimeout {
				continue
			}
			return
		}
		if !r.sleep(ctx, r.deps.Rand.DurationBetween(r.deps.Cfg.Simulation.WanderPauseMin, r.deps.Cfg.Simulation.WanderPauseMax)) {
			return
		}
	}
}

// runReturningToSpawn walks home; arrival is the machine's terminal condition
func (r *visitorRunner) runReturningToSpawn(ctx context.Context) {
	for {
		err := r.moveTo(ctx, r.deps.SpawnPoint)
		if err == nil {
			r.recycle("departed")
			return
		}
		if err == errOffSurface {
			r.recycle("left walkable surface")
			return
		}
		if err == errMoveTimeout {
			continue // keep heading home
		}
		return
	}
}

// ---------------------------------------------------------------------------
// Checkout
// ---------------------------------------------------------------------------

func (r *visitorRunner) occupancyExpired() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.occupancyDeadline.IsZero() && !r.deps.Clock.Now().Before(r.occupancyDeadline)
}

// claimOccupancy atomically takes ownership of the settle step. The hourly
// checkout decision and the occupancy-expiry path can race into checkout
// from different goroutines; exactly one caller receives the handle.
func (r *visitorRunner) claimOccupancy() (handle *lodging.RoomHandle, stale bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	handle = r.v.HeldRoom()
	if handle == nil {
		return nil, false
	}
	r.v.SetHeldRoom(nil)
	r.occupancyDeadline = time.Time{}
	stale = !r.deps.Allocator.Holds(r.v.ID(), handle.RoomID())
	return handle, stale
}

// performCheckout settles the stay: compute payment through the pricing
// collaborator, release the room, record the stay, then head back to the
// counter to report the vacancy
func (r *visitorRunner) performCheckout(ctx context.Context) {
	handle, stale := r.claimOccupancy()
	if handle == nil {
		// A concurrent caller already settled this occupancy; its
		// transition decides what happens next
		return
	}
	roomID := handle.RoomID()

	if stale {
		// Stale reference: skip payment, go report
		r.transitionTo(ctx, visitor.StateReportingRoom)
		return
	}

	charge := r.deps.Pricing.ComputeCharge(roomID)
	reputation := r.deps.Pricing.ComputeReputation(roomID)
	r.deps.Allocator.Release(r.v.ID())

	now := r.deps.SimClock.TimeOfDay()
	rec := StayRecord{
		VisitorID:    r.v.ID(),
		VisitorName:  r.v.Name(),
		RoomID:       roomID,
		Charge:       charge,
		Reputation:   reputation,
		SimDay:       now.Day,
		CheckInHour:  r.checkInAt.Hour,
		CheckOutHour: now.Hour,
		Duration:     r.deps.Clock.Now().Sub(handle.AssignedAt()),
	}
	if err := r.deps.Ledger.RecordStay(context.Background(), rec); err != nil {
		r.deps.log("warn", "failed to record stay", map[string]interface{}{
			"visitor": r.v.ID(),
			"error":   err.Error(),
		})
	}
	r.deps.Observer.StayCompleted(rec)
	r.deps.emit(r.v.ID(), EventStayCompleted, roomID.String(), now)

	// Checking out inside the morning window puts the visitor into the
	// wander-then-depart-at-11:00 mode
	behavior := r.deps.Cfg.Behavior
	if now.Hour >= behavior.CheckoutOpenHour && now.Hour < behavior.CheckoutCloseHour {
		r.v.ScheduleDespawn()
	}

	r.transitionTo(ctx, visitor.StateReportingRoom)
}

// ---------------------------------------------------------------------------
// Clock-driven entry points (called from the engine's minute loop)
// ---------------------------------------------------------------------------

// onHour runs the hourly behavior re-evaluation. Protected visitors are
// skipped except for the room-related re-roll, which flows through the same
// policy table.
func (r *visitorRunner) onHour(now shared.TimeOfDay) {
	if !r.v.MarkHourProcessed(now.Hour) {
		return
	}

	state := r.v.State()
	if state == visitor.StateReturningToSpawn {
		return
	}

	if state.IsRoomRelated() {
		r.apply(r.rootCtx, r.deps.Policy.Decide(now.Hour, r.v.HoldsRoom(), r.deps.counterPresent(), r.deps.Rand.Float64()))
		return
	}
	if r.v.IsProtected() {
		return
	}
	r.apply(r.rootCtx, r.deps.Policy.Decide(now.Hour, r.v.HoldsRoom(), r.deps.counterPresent(), r.deps.Rand.Float64()))
}

// onDespawnBoundary forces departure of wander-then-depart visitors at the
// 11:00 boundary
func (r *visitorRunner) onDespawnBoundary() {
	if r.v.DespawnScheduled() && r.v.State() != visitor.StateReturningToSpawn {
		r.departNow()
	}
}

// departNow releases the visitor's queue membership and sends it home
func (r *visitorRunner) departNow() {
	if r.deps.Queue != nil {
		r.deps.Queue.Leave(r.v.ID())
	}
	r.v.SetInQueue(false)
	r.transitionTo(r.rootCtx, visitor.StateReturningToSpawn)
}

// forceEvict implements the 17:00 rule for one non-exempt visitor: cancel
// everything, leave the queue, head home
func (r *visitorRunner) forceEvict(day int) {
	r.markEvictionHandled(day)
	if r.v.State() == visitor.StateReturningToSpawn {
		return
	}
	r.deps.Observer.Evicted(r.v)
	r.deps.emit(r.v.ID(), EventEvicted, "", r.deps.SimClock.TimeOfDay())
	r.departNow()
}

func (r *visitorRunner) markEvictionHandled(day int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if day > r.evictionDay {
		r.evictionDay = day
	}
}

func (r *visitorRunner) evictionHandled(day int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.evictionDay >= day
}

// ---------------------------------------------------------------------------
// Suspension plumbing
// ---------------------------------------------------------------------------

// interrupted is the wakeup guard every suspension loop runs. It re-checks
// the 17:00 signal and the 11:00 despawn boundary without relying on external
// interruption, and reports whether the current activity must stop because a
// transition was issued.
func (r *visitorRunner) interrupted(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
	}

	// A homebound visitor is past every schedule rule already
	if r.v.State() == visitor.StateReturningToSpawn {
		return false
	}

	now := r.deps.SimClock.TimeOfDay()
	behavior := r.deps.Cfg.Behavior

	if now.Hour >= behavior.ForcedEvictionHour && !r.evictionHandled(now.Day) {
		if r.v.IsEvictionExempt() {
			r.markEvictionHandled(now.Day)
		} else {
			r.forceEvict(now.Day)
			return true
		}
	}

	if r.v.DespawnScheduled() && now.Hour >= behavior.CheckoutCloseHour && now.Hour < behavior.ForcedEvictionHour {
		r.departNow()
		return true
	}
	return false
}

// sleep waits for d, returning false when the state context is cancelled
func (r *visitorRunner) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// moveTo orders movement and waits for arrival. Returns errMoveTimeout when
// the bounded movement wait elapses, errOffSurface when the visitor leaves
// the navigable area, or the context error on cancellation.
func (r *visitorRunner) moveTo(ctx context.Context, target shared.Point) error {
	if !r.nav.SetDestination(target) {
		return errMoveTimeout // unreachable counts as an abandoned destination
	}
	deadline := r.deps.Clock.Now().Add(r.deps.Cfg.Simulation.MovementTimeout)
	for {
		if !r.nav.IsOnWalkableSurface() {
			return errOffSurface
		}
		if r.nav.IsAtDestination() {
			return nil
		}
		if !r.deps.Clock.Now().Before(deadline) {
			return errMoveTimeout
		}
		if r.interrupted(ctx) {
			return ctx.Err()
		}
		if !r.sleep(ctx, pollInterval) {
			return ctx.Err()
		}
	}
}

// walkToOrAbort moves to the target, handling the standard abort causes.
// Returns true only on arrival.
func (r *visitorRunner) walkToOrAbort(ctx context.Context, target shared.Point) bool {
	for {
		err := r.moveTo(ctx, target)
		if err == nil {
			return true
		}
		if err == errOffSurface {
			r.recycle("left walkable surface")
			return false
		}
		if err == errMoveTimeout {
			continue // re-issue the same destination
		}
		return false // cancelled
	}
}

// apply routes a policy decision into a transition
func (r *visitorRunner) apply(ctx context.Context, d visitor.Decision) {
	switch d {
	case visitor.DecisionQueue:
		r.transitionTo(ctx, visitor.StateMovingToQueue)
	case visitor.DecisionWander:
		r.transitionTo(ctx, visitor.StateWandering)
	case visitor.DecisionDespawn:
		r.transitionTo(ctx, visitor.StateReturningToSpawn)
	case visitor.DecisionIndoorRoom:
		r.transitionTo(ctx, visitor.StateRoomWandering)
	case visitor.DecisionOutdoorRoom:
		r.transitionTo(ctx, visitor.StateUseWandering)
	case visitor.DecisionCheckout:
		r.performCheckout(ctx)
	}
}

// randomFloorPoint draws a stroll target on the floor plan
func (r *visitorRunner) randomFloorPoint() shared.Point {
	return shared.Point{
		X: r.deps.Rand.Float64() * r.deps.Cfg.Simulation.FloorWidth,
		Y: r.deps.Rand.Float64() * r.deps.Cfg.Simulation.FloorHeight,
	}
}

// randomRoomPoint draws a stroll target near the room's position, kept
// inside the floor plan for rooms placed against a wall
func (r *visitorRunner) randomRoomPoint(handle *lodging.RoomHandle) shared.Point {
	sim := r.deps.Cfg.Simulation
	half := r.deps.Cfg.Lodging.RoomSize / 2
	return shared.Point{
		X: utils.Clamp(handle.Position().X+(r.deps.Rand.Float64()-0.5)*half, 0, sim.FloorWidth),
		Y: utils.Clamp(handle.Position().Y+(r.deps.Rand.Float64()-0.5)*half, 0, sim.FloorHeight),
	}
}

// recycle terminates the visitor: release every shared resource exactly once
// and signal completion to the engine
func (r *visitorRunner) recycle(reason string) {
	r.doneOnce.Do(func() {
		r.mu.Lock()
		if r.stateCancel != nil {
			r.stateCancel()
			r.stateCancel = nil
		}
		r.mu.Unlock()

		if r.deps.Queue != nil {
			r.deps.Queue.Leave(r.v.ID())
		}
		r.deps.Retry.Clear(r.v.ID())
		r.deps.Allocator.Release(r.v.ID())
		r.v.SetHeldRoom(nil)
		r.v.SetInQueue(false)

		r.deps.Observer.VisitorRecycled(r.v)
		r.deps.emit(r.v.ID(), EventRecycled, reason, r.deps.SimClock.TimeOfDay())
		close(r.done)
	})
}
