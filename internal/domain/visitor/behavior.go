package visitor

// Decision is the outcome of a behavior-policy evaluation
type Decision string

const (
	// DecisionQueue sends the visitor to the counter for a room request
	DecisionQueue Decision = "QUEUE"

	// DecisionWander sends the visitor strolling
	DecisionWander Decision = "WANDER"

	// DecisionDespawn sends the visitor home
	DecisionDespawn Decision = "DESPAWN"

	// DecisionIndoorRoom keeps a room-holding visitor inside its room
	DecisionIndoorRoom Decision = "INDOOR_ROOM"

	// DecisionOutdoorRoom sends a room-holding visitor strolling while it
	// keeps the room
	DecisionOutdoorRoom Decision = "OUTDOOR_ROOM"

	// DecisionCheckout sends a room-holding visitor to the counter to
	// report checkout
	DecisionCheckout Decision = "CHECKOUT"
)

// PolicyConfig holds the probability constants of the time-of-day table.
// The constants are pacing knobs, not correctness constraints; only the shape
// of the table is contractual.
type PolicyConfig struct {
	// Daytime bucket [11,17) for visitors without a room:
	// r < QueueChance -> queue, r < QueueChance+WanderChance -> wander,
	// else despawn
	QueueChance  float64
	WanderChance float64

	// Hourly re-roll for visitors holding a room:
	// r < OutdoorChance -> stroll outdoors, else stay in
	OutdoorChance float64

	// Fallback split when no bucket rule applies:
	// r < FallbackWanderChance -> wander, else queue (counter present) or
	// despawn (no counter)
	FallbackWanderChance float64

	// FallbackWanderChanceNoCounter replaces FallbackWanderChance when the
	// counter collaborator is absent
	FallbackWanderChanceNoCounter float64
}

// DefaultPolicyConfig returns the tuned pacing defaults
func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		QueueChance:                   0.2,
		WanderChance:                  0.6,
		OutdoorChance:                 0.5,
		FallbackWanderChance:          0.4,
		FallbackWanderChanceNoCounter: 0.5,
	}
}

// Policy is the pure time-of-day decision table. It holds no mutable state;
// the same inputs always produce the same decision.
type Policy struct {
	cfg PolicyConfig

	// Day structure boundaries. The forced-eviction hour is handled by the
	// engine with absolute precedence; Decide never sees it.
	checkoutOpenHour  int
	checkoutCloseHour int
	eveningHour       int
}

// NewPolicy creates a policy with the given probability constants and the
// standard day structure (checkout window [9,11), evening from 17)
func NewPolicy(cfg PolicyConfig) *Policy {
	return &Policy{
		cfg:               cfg,
		checkoutOpenHour:  9,
		checkoutCloseHour: 11,
		eveningHour:       17,
	}
}

// Decide maps (hour, room-holding status, uniform draw r) to the visitor's
// next intended behavior. counterPresent reports whether a service counter
// exists at all; its absence routes every queue intention into the fallback.
//
// Re-evaluated once per simulated hour and once at spawn.
func (p *Policy) Decide(hour int, holdsRoom bool, counterPresent bool, r float64) Decision {
	switch {
	case hour < p.checkoutOpenHour: // night and early morning
		if holdsRoom {
			return DecisionIndoorRoom
		}
		return p.fallback(counterPresent, r)

	case hour < p.checkoutCloseHour: // checkout window
		if holdsRoom {
			return DecisionCheckout
		}
		return p.fallback(counterPresent, r)

	case hour < p.eveningHour: // daytime
		if holdsRoom {
			return p.roomReroll(r)
		}
		if !counterPresent {
			return p.fallback(counterPresent, r)
		}
		if r < p.cfg.QueueChance {
			return DecisionQueue
		}
		if r < p.cfg.QueueChance+p.cfg.WanderChance {
			return DecisionWander
		}
		return DecisionDespawn

	default: // evening
		if holdsRoom {
			return p.roomReroll(r)
		}
		return p.fallback(counterPresent, r)
	}
}

// roomReroll is the 50/50 indoor/outdoor re-roll for room holders
func (p *Policy) roomReroll(r float64) Decision {
	if r < p.cfg.OutdoorChance {
		return DecisionOutdoorRoom
	}
	return DecisionIndoorRoom
}

// fallback is the catch-all split applied when no bucket rule matches
func (p *Policy) fallback(counterPresent bool, r float64) Decision {
	if counterPresent {
		if r < p.cfg.FallbackWanderChance {
			return DecisionWander
		}
		return DecisionQueue
	}
	if r < p.cfg.FallbackWanderChanceNoCounter {
		return DecisionWander
	}
	return DecisionDespawn
}
