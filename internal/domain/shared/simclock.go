package shared

import (
	"context"
	"sync"
	"time"
)

// TimeOfDay is an immutable snapshot of the simulated day clock
type TimeOfDay struct {
	Hour   int // [0,23]
	Minute int // [0,59]
	Day    int // 1-based simulated day counter
}

// Before reports whether t is strictly earlier than other within the same day
// ordering (day, then hour, then minute).
func (t TimeOfDay) Before(other TimeOfDay) bool {
	if t.Day != other.Day {
		return t.Day < other.Day
	}
	if t.Hour != other.Hour {
		return t.Hour < other.Hour
	}
	return t.Minute < other.Minute
}

// TotalMinutes returns the minute offset within the current day
func (t TimeOfDay) TotalMinutes() int {
	return t.Hour*60 + t.Minute
}

// SimClock is the simulated day clock the core reads. It advances externally;
// consumers never set it. Minute subscriptions deliver one snapshot per
// simulated minute boundary.
type SimClock interface {
	TimeOfDay() TimeOfDay
	TimeScale() float64
	SubscribeMinutes() <-chan TimeOfDay
	Unsubscribe(ch <-chan TimeOfDay)
}

const minutesPerDay = 24 * 60

// ScaledSimClock derives simulated time from wall time multiplied by a time
// scale. One wall second equals TimeScale simulated seconds.
type ScaledSimClock struct {
	mu        sync.Mutex
	current   TimeOfDay
	timeScale float64
	subs      []chan TimeOfDay

	cancel context.CancelFunc
	done   chan struct{}
}

// NewScaledSimClock creates a simulated clock starting at the given hour on
// day 1. timeScale must be positive.
func NewScaledSimClock(startHour int, timeScale float64) *ScaledSimClock {
	if timeScale <= 0 {
		timeScale = 1
	}
	return &ScaledSimClock{
		current:   TimeOfDay{Hour: startHour, Day: 1},
		timeScale: timeScale,
	}
}

// Start begins advancing the clock in a background goroutine until Stop is
// called. Calling Start twice is a no-op.
func (c *ScaledSimClock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})

	// One simulated minute takes 60/timeScale wall seconds
	interval := time.Duration(float64(time.Minute) / c.timeScale)

	go func() {
		defer close(c.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.advanceMinute()
			}
		}
	}()
}

// Stop halts clock advancement and waits for the ticker goroutine to exit
func (c *ScaledSimClock) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	done := c.done
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// TimeOfDay returns the current simulated time snapshot
func (c *ScaledSimClock) TimeOfDay() TimeOfDay {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// TimeScale returns the simulated-seconds-per-wall-second multiplier
func (c *ScaledSimClock) TimeScale() float64 {
	return c.timeScale
}

// SubscribeMinutes registers a listener channel that receives one snapshot
// per simulated minute. Slow consumers drop ticks rather than block the clock.
func (c *ScaledSimClock) SubscribeMinutes() <-chan TimeOfDay {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan TimeOfDay, minutesPerDay)
	c.subs = append(c.subs, ch)
	return ch
}

// Unsubscribe removes a listener channel previously returned by
// SubscribeMinutes
func (c *ScaledSimClock) Unsubscribe(ch <-chan TimeOfDay) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, sub := range c.subs {
		if sub == ch {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			return
		}
	}
}

func (c *ScaledSimClock) advanceMinute() {
	c.mu.Lock()
	c.current.Minute++
	if c.current.Minute >= 60 {
		c.current.Minute = 0
		c.current.Hour++
		if c.current.Hour >= 24 {
			c.current.Hour = 0
			c.current.Day++
		}
	}
	snapshot := c.current
	subs := make([]chan TimeOfDay, len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, sub := range subs {
		select {
		case sub <- snapshot:
		default:
			// Consumer is behind; dropping a tick is preferable to
			// stalling the clock for everyone else
		}
	}
}

// ManualSimClock is a SimClock driven explicitly by tests
type ManualSimClock struct {
	mu      sync.Mutex
	current TimeOfDay
	subs    []chan TimeOfDay
}

// NewManualSimClock creates a test clock at the given time on day 1
func NewManualSimClock(hour, minute int) *ManualSimClock {
	return &ManualSimClock{current: TimeOfDay{Hour: hour, Minute: minute, Day: 1}}
}

// TimeOfDay returns the current simulated time snapshot
func (c *ManualSimClock) TimeOfDay() TimeOfDay {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// TimeScale always reports 1 for the manual clock
func (c *ManualSimClock) TimeScale() float64 { return 1 }

// SubscribeMinutes registers a listener channel
func (c *ManualSimClock) SubscribeMinutes() <-chan TimeOfDay {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan TimeOfDay, minutesPerDay)
	c.subs = append(c.subs, ch)
	return ch
}

// Unsubscribe removes a listener channel
func (c *ManualSimClock) Unsubscribe(ch <-chan TimeOfDay) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, sub := range c.subs {
		if sub == ch {
			c.subs = append(c.subs[:i], c.subs[i+1:]...)
			return
		}
	}
}

// SetTime jumps the clock to the given time without firing listeners
func (c *ManualSimClock) SetTime(hour, minute int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current.Hour = hour
	c.current.Minute = minute
}

// AdvanceMinutes moves the clock forward minute by minute, delivering one
// snapshot per boundary to every subscriber
func (c *ManualSimClock) AdvanceMinutes(n int) {
	for i := 0; i < n; i++ {
		c.mu.Lock()
		c.current.Minute++
		if c.current.Minute >= 60 {
			c.current.Minute = 0
			c.current.Hour++
			if c.current.Hour >= 24 {
				c.current.Hour = 0
				c.current.Day++
			}
		}
		snapshot := c.current
		subs := make([]chan TimeOfDay, len(c.subs))
		copy(subs, c.subs)
		c.mu.Unlock()

		for _, sub := range subs {
			sub <- snapshot
		}
	}
}
