package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/hostelsim-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Inspect HostelSim configuration.

Configuration is loaded from multiple sources with priority:
1. Environment variables (HS_* prefix)
2. Config file (config.yaml)
3. Default values

Examples:
  hostelsim config show
  hostelsim config validate`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigValidateCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Printf("Warning: failed to load config: %v\n", err)
				fmt.Println("Showing defaults.")
				cfg = config.DefaultConfig()
			}

			fmt.Println("HostelSim Configuration")
			fmt.Println("=======================")

			fmt.Println("Simulation:")
			fmt.Printf("  Visitors:           %d\n", cfg.Simulation.VisitorCount)
			fmt.Printf("  Spawn rate:         %g/s (burst: %d)\n", cfg.Simulation.SpawnRate, cfg.Simulation.SpawnBurst)
			fmt.Printf("  Floor:              %g x %g\n", cfg.Simulation.FloorWidth, cfg.Simulation.FloorHeight)
			fmt.Printf("  Walk speed:         %g\n", cfg.Simulation.WalkSpeed)
			fmt.Printf("  Movement timeout:   %s\n", cfg.Simulation.MovementTimeout)

			fmt.Println("\nClock:")
			fmt.Printf("  Start hour:         %02d:00\n", cfg.Clock.StartHour)
			fmt.Printf("  Time scale:         %gx\n", cfg.Clock.TimeScale)

			fmt.Println("\nLodging:")
			fmt.Printf("  Rooms:              %d (size %g)\n", cfg.Lodging.RoomCount, cfg.Lodging.RoomSize)
			fmt.Printf("  Occupancy:          %s - %s\n", cfg.Lodging.RoomUseMin, cfg.Lodging.RoomUseMax)

			fmt.Println("\nCounter:")
			fmt.Printf("  Queue capacity:     %d\n", cfg.Counter.MaxQueueLength)
			fmt.Printf("  Service duration:   %s\n", cfg.Counter.ServiceDuration)
			fmt.Printf("  Retry:              %d attempts, %s - %s apart\n",
				cfg.Counter.MaxRetryAttempts, cfg.Counter.RetryIntervalMin, cfg.Counter.RetryIntervalMax)

			fmt.Println("\nBehavior:")
			fmt.Printf("  Checkout window:    %02d:00 - %02d:00\n", cfg.Behavior.CheckoutOpenHour, cfg.Behavior.CheckoutCloseHour)
			fmt.Printf("  Forced eviction:    %02d:00\n", cfg.Behavior.ForcedEvictionHour)

			fmt.Println("\nDatabase:")
			fmt.Printf("  Type:               %s\n", cfg.Database.Type)
			if cfg.Database.Type == "sqlite" {
				fmt.Printf("  Path:               %s\n", cfg.Database.Path)
			} else if cfg.Database.URL != "" {
				fmt.Printf("  URL:                (set)\n")
			} else {
				fmt.Printf("  Host:               %s:%d\n", cfg.Database.Host, cfg.Database.Port)
				fmt.Printf("  Database:           %s\n", cfg.Database.Name)
			}

			fmt.Println("\nMetrics:")
			fmt.Printf("  Enabled:            %v\n", cfg.Metrics.Enabled)
			if cfg.Metrics.Enabled {
				fmt.Printf("  Endpoint:           http://%s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
			}

			fmt.Println("\nDaemon:")
			fmt.Printf("  PID file:           %s\n", cfg.Daemon.PIDFile)
			fmt.Printf("  Shutdown timeout:   %s\n", cfg.Daemon.ShutdownTimeout)

			return nil
		},
	}
}

// newConfigValidateCommand creates the config validate subcommand
func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("configuration invalid: %w", err)
			}
			if err := config.ValidateConfig(cfg); err != nil {
				return fmt.Errorf("configuration invalid: %w", err)
			}
			fmt.Println("Configuration OK")
			return nil
		},
	}
}
