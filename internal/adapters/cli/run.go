package cli

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/hostelsim-go/internal/application/daemon"
	"github.com/andrescamacho/hostelsim-go/internal/infrastructure/config"
	"github.com/andrescamacho/hostelsim-go/internal/infrastructure/pidfile"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation daemon",
		Long: `Run the hostel simulation for one simulated day.

A PID file prevents two instances from sharing the database. Use --force
to terminate a running instance and take its place.

Examples:
  hostelsim run
  hostelsim run --force
  HS_CLOCK_TIME_SCALE=300 hostelsim run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if verbose {
				cfg.Logging.Level = "debug"
			}

			pf := pidfile.New(cfg.Daemon.PIDFile)
			if err := pf.Acquire(); err != nil {
				if !force {
					return fmt.Errorf("failed to acquire PID file lock: %w\nUse --force to kill the existing instance", err)
				}
				fmt.Println("Force mode enabled - terminating existing instance...")
				if killErr := pf.KillExisting(); killErr != nil {
					return fmt.Errorf("failed to kill existing instance: %w", killErr)
				}
				if err := pf.Acquire(); err != nil {
					return fmt.Errorf("failed to acquire PID file lock after kill: %w", err)
				}
			}
			defer func() {
				if err := pf.Release(); err != nil {
					log.Printf("Warning: failed to release PID file: %v", err)
				}
			}()

			return daemon.Run(cfg)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false,
		"Kill any existing instance and start a new one")

	return cmd
}
