package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Simulation defaults
	if cfg.Simulation.VisitorCount == 0 {
		cfg.Simulation.VisitorCount = 20
	}
	if cfg.Simulation.SpawnRate == 0 {
		cfg.Simulation.SpawnRate = 2
	}
	if cfg.Simulation.SpawnBurst == 0 {
		cfg.Simulation.SpawnBurst = 5
	}
	if cfg.Simulation.MovementTimeout == 0 {
		cfg.Simulation.MovementTimeout = 12 * time.Second
	}
	if cfg.Simulation.WanderPauseMin == 0 {
		cfg.Simulation.WanderPauseMin = 500 * time.Millisecond
	}
	if cfg.Simulation.WanderPauseMax == 0 {
		cfg.Simulation.WanderPauseMax = 2 * time.Second
	}
	if cfg.Simulation.FloorWidth == 0 {
		cfg.Simulation.FloorWidth = 200
	}
	if cfg.Simulation.FloorHeight == 0 {
		cfg.Simulation.FloorHeight = 120
	}
	if cfg.Simulation.WalkSpeed == 0 {
		cfg.Simulation.WalkSpeed = 25
	}

	// Clock defaults: one wall second is one simulated minute
	if cfg.Clock.TimeScale == 0 {
		cfg.Clock.TimeScale = 60
	}
	if cfg.Clock.StartHour == 0 {
		cfg.Clock.StartHour = 8
	}

	// Lodging defaults
	if cfg.Lodging.RoomCount == 0 {
		cfg.Lodging.RoomCount = 10
	}
	if cfg.Lodging.RoomSize == 0 {
		cfg.Lodging.RoomSize = 10
	}
	if cfg.Lodging.RoomUseMin == 0 {
		cfg.Lodging.RoomUseMin = 20 * time.Second
	}
	if cfg.Lodging.RoomUseMax == 0 {
		cfg.Lodging.RoomUseMax = 60 * time.Second
	}

	// Counter defaults
	if cfg.Counter.MaxQueueLength == 0 {
		cfg.Counter.MaxQueueLength = 5
	}
	if cfg.Counter.ServiceDuration == 0 {
		cfg.Counter.ServiceDuration = 3 * time.Second
	}
	if cfg.Counter.MaxRetryAttempts == 0 {
		cfg.Counter.MaxRetryAttempts = 5
	}
	if cfg.Counter.RetryIntervalMin == 0 {
		cfg.Counter.RetryIntervalMin = 2 * time.Second
	}
	if cfg.Counter.RetryIntervalMax == 0 {
		cfg.Counter.RetryIntervalMax = 5 * time.Second
	}

	// Behavior defaults: the tuned pacing constants
	if cfg.Behavior.QueueChance == 0 {
		cfg.Behavior.QueueChance = 0.2
	}
	if cfg.Behavior.WanderChance == 0 {
		cfg.Behavior.WanderChance = 0.6
	}
	if cfg.Behavior.OutdoorChance == 0 {
		cfg.Behavior.OutdoorChance = 0.5
	}
	if cfg.Behavior.FallbackWanderChance == 0 {
		cfg.Behavior.FallbackWanderChance = 0.4
	}
	if cfg.Behavior.FallbackWanderChanceNoCounter == 0 {
		cfg.Behavior.FallbackWanderChanceNoCounter = 0.5
	}
	if cfg.Behavior.ForcedEvictionHour == 0 {
		cfg.Behavior.ForcedEvictionHour = 17
	}
	if cfg.Behavior.CheckoutOpenHour == 0 {
		cfg.Behavior.CheckoutOpenHour = 9
	}
	if cfg.Behavior.CheckoutCloseHour == 0 {
		cfg.Behavior.CheckoutCloseHour = 11
	}

	// Database defaults: local sqlite file, no server required
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "hostelsim.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "hostelsim"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "hostelsim"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 10
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 2
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Metrics defaults
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9190
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Daemon defaults
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/hostelsim-daemon.pid"
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 10 * time.Second
	}
}
