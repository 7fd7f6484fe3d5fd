package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andrescamacho/hostelsim-go/internal/adapters/metrics"
	"github.com/andrescamacho/hostelsim-go/internal/adapters/persistence"
	"github.com/andrescamacho/hostelsim-go/internal/application/common"
	"github.com/andrescamacho/hostelsim-go/internal/application/simulation"
	"github.com/andrescamacho/hostelsim-go/internal/domain/counter"
	"github.com/andrescamacho/hostelsim-go/internal/domain/lodging"
	"github.com/andrescamacho/hostelsim-go/internal/domain/shared"
	"github.com/andrescamacho/hostelsim-go/internal/domain/visitor"
	"github.com/andrescamacho/hostelsim-go/internal/infrastructure/config"
	"github.com/andrescamacho/hostelsim-go/internal/infrastructure/database"
	"github.com/andrescamacho/hostelsim-go/pkg/utils"
)

// Run wires the full simulation daemon and blocks until the population
// drains or a termination signal arrives
func Run(cfg *config.Config) error {
	logger := common.NewStdLogger(cfg.Logging.Level)
	clock := shared.NewRealClock()
	rand := shared.NewRandSource()

	// 1. Database and persistence
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	fmt.Println("Database connected")

	ledger := simulation.StayLedger(persistence.NewGormStayLedger(db, clock))
	var events simulation.EventSink = simulation.NopEventSink{}
	if cfg.Logging.PersistEvents {
		events = persistence.NewGormEventSink(db, clock)
	}

	// 2. Simulated clock
	simClock := shared.NewScaledSimClock(cfg.Clock.StartHour, cfg.Clock.TimeScale)
	simClock.Start()
	defer simClock.Stop()
	fmt.Printf("Simulated clock started at %02d:00 (scale %gx)\n", cfg.Clock.StartHour, cfg.Clock.TimeScale)

	// 3. Domain collaborators
	allocator := lodging.NewRoomAllocator(nil, rand, clock)
	allocator.UpdateRooms(BuildRooms(&cfg.Simulation, &cfg.Lodging))
	queue := counter.NewServiceQueue(cfg.Counter.MaxQueueLength, cfg.Counter.ServiceDuration)
	retry := counter.NewRetryTracker(clock)
	fmt.Printf("Floor plan ready: %d rooms, queue capacity %d\n", allocator.RoomCount(), cfg.Counter.MaxQueueLength)

	// 4. Metrics
	var observer simulation.Observer = simulation.NopObserver{}
	var collector *metrics.SimulationMetricsCollector
	var metricsServer *http.Server

	deps := &simulation.Deps{
		Cfg:          cfg,
		Policy:       visitor.NewPolicy(policyConfig(&cfg.Behavior)),
		Allocator:    allocator,
		Queue:        queue,
		Retry:        retry,
		Pricing:      simulation.NewFlatPricing(40, 20),
		Ledger:       ledger,
		Events:       events,
		Observer:     observer,
		Logger:       logger,
		SimClock:     simClock,
		Clock:        clock,
		Rand:         rand,
		SpawnPoint:   SpawnPoint(&cfg.Simulation),
		CounterPoint: CounterPoint(&cfg.Simulation),
	}

	navFactory := NavigatorFactory(&cfg.Simulation, clock)
	engine := simulation.NewEngine(deps, navFactory)

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		collector = metrics.NewSimulationMetricsCollector(allocator, queue, engine.Population)
		if err := collector.Register(); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		deps.Observer = collector

		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
		metricsServer = &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Metrics.Host, cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Log("error", "metrics server failed", map[string]interface{}{"error": err.Error()})
			}
		}()
		fmt.Printf("Metrics available at http://%s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
	}

	// 5. Run
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine.Start(ctx)
	if collector != nil {
		collector.Start(ctx)
	}
	fmt.Printf("Simulation running: spawning %d visitors\n", cfg.Simulation.VisitorCount)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	drained := make(chan struct{})
	go func() {
		engine.Wait()
		close(drained)
	}()

	select {
	case sig := <-sigCh:
		fmt.Printf("\nReceived %v, shutting down...\n", sig)
	case <-drained:
		fmt.Println("Population drained, shutting down...")
	}

	// 6. Shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Daemon.ShutdownTimeout)
	defer shutdownCancel()

	engine.Stop()
	if collector != nil {
		collector.Stop()
	}
	if metricsServer != nil {
		_ = metricsServer.Shutdown(shutdownCtx)
	}

	summary, err := engine.Summarize(shutdownCtx)
	if err != nil {
		logger.Log("warn", "summary unavailable", map[string]interface{}{"error": err.Error()})
		return nil
	}
	printSummary(summary)
	return nil
}

func printSummary(s simulation.Summary) {
	fmt.Println()
	fmt.Println("Day summary")
	fmt.Println("===========")
	fmt.Printf("  Visitors spawned:   %d\n", s.Spawned)
	fmt.Printf("  Visitors departed:  %d\n", s.Recycled)
	fmt.Printf("  Completed stays:    %d\n", s.Stays)
	fmt.Printf("  Revenue collected:  %.2f\n", s.Revenue)
	if s.Remaining > 0 {
		fmt.Printf("  Still on premises:  %d\n", s.Remaining)
	}
}

func policyConfig(b *config.BehaviorConfig) visitor.PolicyConfig {
	return visitor.PolicyConfig{
		QueueChance:                   b.QueueChance,
		WanderChance:                  b.WanderChance,
		OutdoorChance:                 b.OutdoorChance,
		FallbackWanderChance:          b.FallbackWanderChance,
		FallbackWanderChanceNoCounter: b.FallbackWanderChanceNoCounter,
	}
}

// BuildRooms lays the configured room count out on a grid along the upper
// half of the floor, leaving the lower half open for wandering and the
// counter
func BuildRooms(sim *config.SimulationConfig, lodgingCfg *config.LodgingConfig) []lodging.RoomInfo {
	size := lodgingCfg.RoomSize
	margin := size // gap between rooms and from the walls
	perRow := utils.Max(1, int((sim.FloorWidth-margin)/(size+margin)))

	rooms := make([]lodging.RoomInfo, 0, lodgingCfg.RoomCount)
	for i := 0; i < lodgingCfg.RoomCount; i++ {
		row := i / perRow
		col := i % perRow
		minX := margin + float64(col)*(size+margin)
		minY := margin + float64(row)*(size+margin)
		bounds := shared.Rect{MinX: minX, MinY: minY, MaxX: minX + size, MaxY: minY + size}
		pos := bounds.Center()
		rooms = append(rooms, lodging.RoomInfo{
			ID:       lodging.RoomIDFromPosition(pos),
			Position: pos,
			Bounds:   bounds,
		})
	}
	return rooms
}

// SpawnPoint is the fixed entry and exit of the floor plan
func SpawnPoint(sim *config.SimulationConfig) shared.Point {
	return shared.Point{X: sim.FloorWidth / 2, Y: sim.FloorHeight - 1}
}

// CounterPoint is where the service counter stands
func CounterPoint(sim *config.SimulationConfig) shared.Point {
	return shared.Point{X: sim.FloorWidth / 2, Y: sim.FloorHeight * 0.6}
}

// NavigatorFactory builds straight-line navigators bounded by the floor plan
func NavigatorFactory(sim *config.SimulationConfig, clock shared.Clock) simulation.NavigatorFactory {
	bounds := shared.Rect{MaxX: sim.FloorWidth, MaxY: sim.FloorHeight}
	return func(start shared.Point) visitor.Navigator {
		return simulation.NewSimNavigator(start, sim.WalkSpeed, bounds, clock)
	}
}

// WaitForDrain blocks until the engine has no live visitors or the timeout
// elapses
func WaitForDrain(engine *simulation.Engine, timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		engine.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
