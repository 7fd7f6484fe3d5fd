package config

import "time"

// SimulationConfig holds the population and movement settings
type SimulationConfig struct {
	// Number of visitors to spawn
	VisitorCount int `mapstructure:"visitor_count" validate:"min=1"`

	// Spawn pacing: visitors admitted to the world per second, with burst
	SpawnRate  float64 `mapstructure:"spawn_rate" validate:"gt=0"`
	SpawnBurst int     `mapstructure:"spawn_burst" validate:"min=1"`

	// Movement wait bound; a visitor that has not arrived within this
	// window abandons the destination and picks a new one
	MovementTimeout time.Duration `mapstructure:"movement_timeout" validate:"required"`

	// Wander pause between two strolling legs
	WanderPauseMin time.Duration `mapstructure:"wander_pause_min"`
	WanderPauseMax time.Duration `mapstructure:"wander_pause_max"`

	// Floor plan extents visitors stroll within
	FloorWidth  float64 `mapstructure:"floor_width" validate:"gt=0"`
	FloorHeight float64 `mapstructure:"floor_height" validate:"gt=0"`

	// Walking speed in floor units per wall second
	WalkSpeed float64 `mapstructure:"walk_speed" validate:"gt=0"`
}

// ClockConfig holds the simulated day clock settings
type ClockConfig struct {
	// Simulated seconds per wall second
	TimeScale float64 `mapstructure:"time_scale" validate:"gt=0"`

	// Hour of day the simulation starts at
	StartHour int `mapstructure:"start_hour" validate:"min=0,max=23"`
}

// LodgingConfig holds the room pool settings
type LodgingConfig struct {
	// Number of rooms registered on startup
	RoomCount int `mapstructure:"room_count" validate:"min=1"`

	// Room footprint in floor units
	RoomSize float64 `mapstructure:"room_size" validate:"gt=0"`

	// Duration range drawn per occupancy
	RoomUseMin time.Duration `mapstructure:"room_use_min" validate:"required"`
	RoomUseMax time.Duration `mapstructure:"room_use_max" validate:"required"`
}

// CounterConfig holds the service counter settings
type CounterConfig struct {
	// Admission bound of the FIFO queue
	MaxQueueLength int `mapstructure:"max_queue_length" validate:"min=1"`

	// Fixed per-visitor service duration
	ServiceDuration time.Duration `mapstructure:"service_duration" validate:"required"`

	// Retry/backpressure after a rejected admission attempt
	MaxRetryAttempts int           `mapstructure:"max_retry_attempts" validate:"min=1"`
	RetryIntervalMin time.Duration `mapstructure:"retry_interval_min"`
	RetryIntervalMax time.Duration `mapstructure:"retry_interval_max"`
}

// BehaviorConfig holds the time-of-day policy constants. The probabilities
// are pacing knobs; validation only checks they are sane draws.
type BehaviorConfig struct {
	QueueChance                   float64 `mapstructure:"queue_chance" validate:"min=0,max=1"`
	WanderChance                  float64 `mapstructure:"wander_chance" validate:"min=0,max=1"`
	OutdoorChance                 float64 `mapstructure:"outdoor_chance" validate:"min=0,max=1"`
	FallbackWanderChance          float64 `mapstructure:"fallback_wander_chance" validate:"min=0,max=1"`
	FallbackWanderChanceNoCounter float64 `mapstructure:"fallback_wander_chance_no_counter" validate:"min=0,max=1"`

	// Fixed clock times of the day structure
	ForcedEvictionHour int `mapstructure:"forced_eviction_hour" validate:"min=0,max=23"`
	CheckoutOpenHour   int `mapstructure:"checkout_open_hour" validate:"min=0,max=23"`
	CheckoutCloseHour  int `mapstructure:"checkout_close_hour" validate:"min=0,max=23"`
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	// PID file location
	PIDFile string `mapstructure:"pid_file" validate:"required"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}
