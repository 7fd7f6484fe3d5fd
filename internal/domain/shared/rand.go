package shared

import (
	"math/rand"
	"sync"
	"time"
)

// RandSource abstracts random draws so behavior decisions are reproducible in
// tests. Implementations must be safe for concurrent use.
type RandSource interface {
	// Float64 returns a uniform draw from [0,1)
	Float64() float64

	// Intn returns a uniform draw from [0,n)
	Intn(n int) int

	// DurationBetween returns a uniform draw from [min,max)
	DurationBetween(min, max time.Duration) time.Duration
}

// lockedRand is the production RandSource backed by math/rand
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandSource creates a RandSource seeded from the system clock
func NewRandSource() RandSource {
	return &lockedRand{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededRandSource creates a reproducible RandSource for tests
func NewSeededRandSource(seed int64) RandSource {
	return &lockedRand{rng: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Float64()
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Intn(n)
}

func (l *lockedRand) DurationBetween(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return min + time.Duration(l.rng.Int63n(int64(max-min)))
}
