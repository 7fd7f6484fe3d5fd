package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/hostelsim-go/internal/application/simulation"
	"github.com/andrescamacho/hostelsim-go/internal/domain/counter"
	"github.com/andrescamacho/hostelsim-go/internal/domain/lodging"
	"github.com/andrescamacho/hostelsim-go/internal/domain/visitor"
)

// SimulationMetricsCollector exposes the population, lodging, and counter
// state as Prometheus metrics. It implements simulation.Observer for event
// counters and polls the allocator and queue for the gauges.
type SimulationMetricsCollector struct {
	allocator  *lodging.RoomAllocator
	queue      *counter.ServiceQueue
	population func() int

	// Gauges polled on an interval
	visitorsByState *prometheus.GaugeVec
	roomsOccupied   prometheus.Gauge
	roomsFree       prometheus.Gauge
	queueLength     prometheus.Gauge
	populationTotal prometheus.Gauge

	// Event counters driven by Observer callbacks
	transitionsTotal *prometheus.CounterVec
	rejectionsTotal  prometheus.Counter
	evictionsTotal   prometheus.Counter
	recycledTotal    prometheus.Counter
	staysTotal       prometheus.Counter
	revenueTotal     prometheus.Counter
	stayDuration     prometheus.Histogram

	// State-count bookkeeping for the per-state gauge
	stateMu     sync.Mutex
	stateCounts map[visitor.State]int

	// Lifecycle
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewSimulationMetricsCollector creates the collector. queue may be nil.
func NewSimulationMetricsCollector(
	allocator *lodging.RoomAllocator,
	queue *counter.ServiceQueue,
	population func() int,
) *SimulationMetricsCollector {
	return &SimulationMetricsCollector{
		allocator:   allocator,
		queue:       queue,
		population:  population,
		stateCounts: make(map[visitor.State]int),

		visitorsByState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "visitors_by_state",
				Help:      "Number of live visitors in each state",
			},
			[]string{"state"},
		),

		roomsOccupied: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "rooms_occupied",
			Help:      "Number of rooms currently held by a visitor",
		}),

		roomsFree: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "rooms_free",
			Help:      "Number of rooms available for assignment",
		}),

		queueLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "queue_length",
			Help:      "Number of visitors waiting at the service counter",
		}),

		populationTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "population",
			Help:      "Number of live visitors",
		}),

		transitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "state_transitions_total",
				Help:      "Total state transitions by target state",
			},
			[]string{"to"},
		),

		rejectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "queue_rejections_total",
			Help:      "Total queue admissions refused because the queue was full",
		}),

		evictionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "evictions_total",
			Help:      "Total visitors sent home by the end-of-day sweep",
		}),

		recycledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "visitors_recycled_total",
			Help:      "Total visitors that completed their lifecycle",
		}),

		staysTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "stays_total",
			Help:      "Total completed room occupancies",
		}),

		revenueTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "revenue_total",
			Help:      "Total charges collected at checkout",
		}),

		stayDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "stay_duration_seconds",
			Help:      "Room occupancy duration distribution",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
	}
}

// Register registers all metrics with the Prometheus registry
func (c *SimulationMetricsCollector) Register() error {
	if !IsEnabled() {
		return nil
	}

	collectors := []prometheus.Collector{
		c.visitorsByState,
		c.roomsOccupied,
		c.roomsFree,
		c.queueLength,
		c.populationTotal,
		c.transitionsTotal,
		c.rejectionsTotal,
		c.evictionsTotal,
		c.recycledTotal,
		c.staysTotal,
		c.revenueTotal,
		c.stayDuration,
	}

	for _, collector := range collectors {
		if err := Registry.Register(collector); err != nil {
			return err
		}
	}

	return nil
}

// Start begins the gauge polling goroutine
func (c *SimulationMetricsCollector) Start(ctx context.Context) {
	c.ctx, c.cancelFunc = context.WithCancel(ctx)

	c.wg.Add(1)
	go c.poll(2 * time.Second)
}

// Stop gracefully stops the collection
func (c *SimulationMetricsCollector) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}

func (c *SimulationMetricsCollector) poll(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.updateGauges()
		}
	}
}

func (c *SimulationMetricsCollector) updateGauges() {
	if c.allocator != nil {
		c.roomsOccupied.Set(float64(c.allocator.OccupiedCount()))
		c.roomsFree.Set(float64(c.allocator.FreeCount()))
	}
	if c.queue != nil {
		c.queueLength.Set(float64(c.queue.Length()))
	}
	if c.population != nil {
		c.populationTotal.Set(float64(c.population()))
	}

	c.stateMu.Lock()
	c.visitorsByState.Reset()
	for state, n := range c.stateCounts {
		c.visitorsByState.WithLabelValues(string(state)).Set(float64(n))
	}
	c.stateMu.Unlock()
}

// --- simulation.Observer ---

func (c *SimulationMetricsCollector) VisitorStateChanged(v *visitor.Visitor, from, to visitor.State) {
	c.transitionsTotal.WithLabelValues(string(to)).Inc()

	c.stateMu.Lock()
	if c.stateCounts[from] > 0 {
		c.stateCounts[from]--
	}
	c.stateCounts[to]++
	c.stateMu.Unlock()
}

func (c *SimulationMetricsCollector) VisitorRecycled(v *visitor.Visitor) {
	c.recycledTotal.Inc()

	c.stateMu.Lock()
	if c.stateCounts[v.State()] > 0 {
		c.stateCounts[v.State()]--
	}
	c.stateMu.Unlock()
}

func (c *SimulationMetricsCollector) QueueRejected(*visitor.Visitor) {
	c.rejectionsTotal.Inc()
}

func (c *SimulationMetricsCollector) Evicted(*visitor.Visitor) {
	c.evictionsTotal.Inc()
}

func (c *SimulationMetricsCollector) StayCompleted(rec simulation.StayRecord) {
	c.staysTotal.Inc()
	c.revenueTotal.Add(rec.Charge)
	c.stayDuration.Observe(rec.Duration.Seconds())
}
