package simulation

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/hostelsim-go/internal/application/common"
	"github.com/andrescamacho/hostelsim-go/internal/domain/counter"
	"github.com/andrescamacho/hostelsim-go/internal/domain/lodging"
	"github.com/andrescamacho/hostelsim-go/internal/domain/shared"
	"github.com/andrescamacho/hostelsim-go/internal/domain/visitor"
	"github.com/andrescamacho/hostelsim-go/internal/infrastructure/config"
	"github.com/andrescamacho/hostelsim-go/pkg/utils"
)

// Deps bundles the collaborators every visitor runner shares. Queue may be
// nil; the policy then routes around the missing counter.
type Deps struct {
	Cfg       *config.Config
	Policy    *visitor.Policy
	Allocator *lodging.RoomAllocator
	Queue     *counter.ServiceQueue
	Retry     *counter.RetryTracker
	Pricing   visitor.Pricing
	Ledger    StayLedger
	Events    EventSink
	Observer  Observer
	Logger    common.SimLogger
	SimClock  shared.SimClock
	Clock     shared.Clock
	Rand      shared.RandSource

	SpawnPoint   shared.Point
	CounterPoint shared.Point
}

func (d *Deps) counterPresent() bool { return d.Queue != nil }

func (d *Deps) log(level, msg string, fields map[string]interface{}) {
	if d.Logger == nil {
		return
	}
	d.Logger.Log(level, msg, fields)
}

func (d *Deps) emit(visitorID, kind, detail string, at shared.TimeOfDay) {
	if d.Events == nil {
		return
	}
	ev := Event{VisitorID: visitorID, Kind: kind, Detail: detail, At: at}
	if err := d.Events.Append(context.Background(), ev); err != nil {
		d.log("warn", "failed to persist event", map[string]interface{}{
			"visitor": visitorID,
			"kind":    kind,
			"error":   err.Error(),
		})
	}
}

// Summary aggregates the day's outcome for the shutdown report
type Summary struct {
	Spawned   int
	Recycled  int
	Stays     int64
	Revenue   float64
	Remaining int
}

// Engine owns the population: it spawns visitors at a bounded rate, drives
// the clock-dependent sweeps, and tears everything down on Stop
type Engine struct {
	deps *Deps

	ctx    context.Context
	cancel context.CancelFunc

	navFactory NavigatorFactory
	limiter    *rate.Limiter

	mu          sync.Mutex
	runners     map[string]*visitorRunner
	spawned     int
	recycled    int
	spawnClosed bool
	evictionDay int
	lastHourKey int

	// pool recycles Visitor values between departures and fresh spawns
	pool sync.Pool

	wg sync.WaitGroup
}

func NewEngine(deps *Deps, navFactory NavigatorFactory) *Engine {
	simCfg := deps.Cfg.Simulation
	return &Engine{
		deps:        deps,
		navFactory:  navFactory,
		limiter:     rate.NewLimiter(rate.Limit(simCfg.SpawnRate), simCfg.SpawnBurst),
		runners:     make(map[string]*visitorRunner),
		evictionDay: -1,
		lastHourKey: -1,
	}
}

// Start launches the spawn loop and the minute loop. It returns immediately;
// use Wait or Stop to synchronize with the population.
func (e *Engine) Start(ctx context.Context) {
	e.ctx, e.cancel = context.WithCancel(ctx)

	e.wg.Add(2)
	go e.spawnLoop()
	go e.minuteLoop()
}

// Stop cancels every visitor and blocks until the engine's goroutines have
// drained
func (e *Engine) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
	e.wg.Wait()
}

// Wait blocks until every spawned visitor has been recycled
func (e *Engine) Wait() {
	for {
		e.mu.Lock()
		idle := e.spawnClosed && len(e.runners) == 0
		e.mu.Unlock()
		if idle {
			return
		}
		select {
		case <-e.ctx.Done():
			return
		default:
		}
		e.deps.Clock.Sleep(pollInterval)
	}
}

// Population reports the number of live visitors
func (e *Engine) Population() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.runners)
}

// Summarize builds the end-of-day report from the ledger and the engine's
// own counters
func (e *Engine) Summarize(ctx context.Context) (Summary, error) {
	e.mu.Lock()
	s := Summary{
		Spawned:   e.spawned,
		Recycled:  e.recycled,
		Remaining: len(e.runners),
	}
	e.mu.Unlock()

	stays, err := e.deps.Ledger.CountStays(ctx)
	if err != nil {
		return s, fmt.Errorf("counting stays: %w", err)
	}
	revenue, err := e.deps.Ledger.TotalRevenue(ctx)
	if err != nil {
		return s, fmt.Errorf("totaling revenue: %w", err)
	}
	s.Stays = stays
	s.Revenue = revenue
	return s, nil
}

// spawnLoop admits visitors at the configured rate until the population
// target is met. Spawning stops for the day once the eviction hour passes.
func (e *Engine) spawnLoop() {
	defer e.wg.Done()
	defer func() {
		e.mu.Lock()
		e.spawnClosed = true
		e.mu.Unlock()
	}()

	for seq := 1; seq <= e.deps.Cfg.Simulation.VisitorCount; seq++ {
		if err := e.limiter.Wait(e.ctx); err != nil {
			return
		}
		now := e.deps.SimClock.TimeOfDay()
		if now.Hour >= e.deps.Cfg.Behavior.ForcedEvictionHour {
			e.deps.log("info", "spawning closed for the day", map[string]interface{}{
				"spawned": seq - 1,
			})
			return
		}
		e.spawnVisitor(seq)
	}
}

func (e *Engine) spawnVisitor(seq int) {
	id := utils.GenerateVisitorID(seq)
	name := utils.VisitorName(seq)
	v := e.takeVisitor(id, name)
	nav := e.navFactory(e.deps.SpawnPoint)
	r := newVisitorRunner(e.ctx, e.deps, v, nav)

	e.mu.Lock()
	e.runners[id] = r
	e.spawned++
	e.mu.Unlock()

	e.deps.log("info", "visitor spawned", map[string]interface{}{
		"visitor": id,
		"name":    name,
	})

	r.start()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		select {
		case <-r.Done():
		case <-e.ctx.Done():
			r.recycle("shutdown")
			<-r.Done()
		}
		e.mu.Lock()
		delete(e.runners, id)
		e.recycled++
		e.mu.Unlock()
		e.pool.Put(v)
	}()
}

// takeVisitor prefers a pooled machine from an earlier departure and resets
// it; the pool may come up empty at any time, so allocation stays the
// fallback
func (e *Engine) takeVisitor(id, name string) *visitor.Visitor {
	if cached, ok := e.pool.Get().(*visitor.Visitor); ok {
		cached.Reset(id, name)
		return cached
	}
	return visitor.New(id, name, e.deps.Clock)
}

// minuteLoop consumes simulated-minute ticks and fans them out into the
// hourly re-evaluation, the 11:00 despawn boundary, and the 17:00 sweep
func (e *Engine) minuteLoop() {
	defer e.wg.Done()

	ticks := e.deps.SimClock.SubscribeMinutes()
	defer e.deps.SimClock.Unsubscribe(ticks)

	for {
		select {
		case <-e.ctx.Done():
			return
		case now, ok := <-ticks:
			if !ok {
				return
			}
			e.onMinute(now)
		}
	}
}

func (e *Engine) onMinute(now shared.TimeOfDay) {
	behavior := e.deps.Cfg.Behavior

	// Keyed on the hour rather than Minute == 0, so a tick dropped on a
	// lagging subscriber only delays the hourly pass instead of skipping
	// that hour entirely
	if e.markHourPass(now.Day*24 + now.Hour) {
		for _, r := range e.snapshot() {
			r.onHour(now)
		}
		if now.Hour == behavior.CheckoutCloseHour {
			for _, r := range e.snapshot() {
				r.onDespawnBoundary()
			}
		}
	}

	if now.Hour >= behavior.ForcedEvictionHour && e.markEvictionSweep(now.Day) {
		e.evictionSweep(now.Day)
	}
}

func (e *Engine) markHourPass(key int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if key <= e.lastHourKey {
		return false
	}
	e.lastHourKey = key
	return true
}

func (e *Engine) markEvictionSweep(day int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.evictionDay >= day {
		return false
	}
	e.evictionDay = day
	return true
}

// evictionSweep applies the forced-departure rule once per day: every
// visitor without a current room binding is sent home, room holders in their
// use flow are spared
func (e *Engine) evictionSweep(day int) {
	evicted := 0
	for _, r := range e.snapshot() {
		if r.v.IsEvictionExempt() {
			r.markEvictionHandled(day)
			continue
		}
		r.forceEvict(day)
		evicted++
	}
	if e.deps.Queue != nil {
		e.deps.Queue.ForceCleanup(e.isLiveAndStaying)
	}
	e.deps.log("info", "eviction sweep complete", map[string]interface{}{
		"evicted": evicted,
		"day":     day,
	})
}

func (e *Engine) isLiveAndStaying(visitorID string) bool {
	e.mu.Lock()
	r, ok := e.runners[visitorID]
	e.mu.Unlock()
	if !ok {
		return false
	}
	return r.v.State() != visitor.StateReturningToSpawn
}

func (e *Engine) snapshot() []*visitorRunner {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*visitorRunner, 0, len(e.runners))
	for _, r := range e.runners {
		out = append(out, r)
	}
	return out
}
