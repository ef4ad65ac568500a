// orbitx-server runs the physics simulation: it loads (or seeds) a solar
// system, applies pilot commands from the network queue, integrates the
// state vector on a fixed tick, and publishes snapshots to storage and
// telemetry.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/Pugzilla88/orbitx/internal/config"
	"github.com/Pugzilla88/orbitx/internal/database"
	"github.com/Pugzilla88/orbitx/internal/dispatcher"
	"github.com/Pugzilla88/orbitx/internal/handlers"
	"github.com/Pugzilla88/orbitx/internal/logging"
	"github.com/Pugzilla88/orbitx/internal/queue"
	"github.com/Pugzilla88/orbitx/internal/sim"
	"github.com/Pugzilla88/orbitx/internal/state"
	"github.com/Pugzilla88/orbitx/internal/storage"
	"github.com/Pugzilla88/orbitx/internal/telemetry"
	"github.com/Pugzilla88/orbitx/pkg/core"
)

var (
	Version   string = "0.0.1"
	BuildDate string = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "orbitx-server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	sessionStart := time.Now()

	if err := config.Load("."); err != nil {
		// missing config file is fine, defaults apply
		fmt.Fprintf(os.Stderr, "orbitx-server: %v, using defaults\n", err)
	}

	logsDir := viper.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}
	logFile, err := os.Create(logging.LogFilePath(logsDir, "orbitx-server", sessionStart))
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()

	logger := logging.Setup(logFile, viper.GetString("logLevel"))
	logger.Info().Str("version", Version).Str("buildDate", BuildDate).Msg("starting orbitx-server")

	// Storage
	backendType := viper.GetString("saves.backend")

	var dbManager *database.Manager
	if backendType != "memory" {
		dbManager = database.NewManager(logger.With().Str("component", "database").Logger())
		if err := dbManager.Connect(); err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		if err := dbManager.Setup(); err != nil {
			return fmt.Errorf("setting up database: %w", err)
		}
		defer func() {
			if dbManager.SqlDB != nil {
				dbManager.SqlDB.Close()
			}
		}()
	}

	var backendDB *gorm.DB
	if dbManager != nil {
		backendDB = dbManager.DB
	}
	backend, err := storage.NewBackend(backendType, config.Memory(), backendDB, logger.With().Str("component", "storage").Logger())
	if err != nil {
		return fmt.Errorf("creating storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("initializing storage backend: %w", err)
	}
	defer backend.Close()

	// Initial state: load the configured savefile, or seed a fresh system.
	savefile := viper.GetString("sim.savefile")
	snap, err := backend.LoadSnapshot(savefile)
	if errors.Is(err, core.ErrSaveNotFound) {
		logger.Info().Str("savefile", savefile).Msg("savefile not found, seeding default system")
		snap = seedSnapshot()
		if err := backend.SaveSnapshot(savefile, snap); err != nil {
			logger.Warn().Err(err).Msg("could not persist seeded system")
		}
	} else if err != nil {
		return fmt.Errorf("loading savefile %q: %w", savefile, err)
	}

	initial, err := state.FromSnapshot(snap)
	if err != nil {
		return fmt.Errorf("building state from savefile: %w", err)
	}
	holder := sim.NewHolder(initial)
	logger.Info().Str("savefile", savefile).Int("entities", initial.Len()).
		Float64("timestamp", initial.Timestamp()).Msg("state loaded")

	// Commands
	d, err := dispatcher.New(logger.With().Str("component", "dispatcher").Logger())
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}
	svc := handlers.NewService(handlers.Dependencies{
		Holder:  holder,
		Backend: backend,
		Logger:  logger.With().Str("component", "handlers").Logger(),
	})
	svc.RegisterAll(d)

	commands := queue.New[dispatcher.Command]()

	// Telemetry
	var publishers []sim.Publisher
	if viper.GetBool("influx.enabled") {
		influx := telemetry.NewManager(
			logger.With().Str("component", "telemetry").Logger(),
			logging.LogFilePath(logsDir, "telemetry-backup", sessionStart)+".gz",
		)
		if err := influx.Connect(); err != nil {
			logger.Warn().Err(err).Msg("telemetry disabled")
		} else {
			publishers = append(publishers, influx)
			defer influx.Close()
		}
	}

	// Simulation loop
	tick := time.Duration(viper.GetFloat64("sim.tickSeconds") * float64(time.Second))
	loop := sim.NewLoop(sim.Dependencies{
		Holder:     holder,
		Dispatcher: d,
		Commands:   commands,
		Integrator: sim.KinematicIntegrator{},
		Publishers: publishers,
		Tick:       tick,
		Logger:     logger.With().Str("component", "sim").Logger(),
	})
	if err := loop.Start(); err != nil {
		return fmt.Errorf("starting simulation loop: %w", err)
	}
	logger.Info().Dur("tick", tick).Msg("simulation running")

	// Block until interrupted
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info().Str("signal", sig.String()).Msg("shutting down")

	loop.Stop()

	// Final autosave so a restart resumes where the pilot left off.
	final := holder.Current().ToSnapshot()
	if err := backend.SaveSnapshot(savefile, &final); err != nil {
		logger.Error().Err(err).Msg("final autosave failed")
	}

	return nil
}

// seedSnapshot builds the default system used when no savefile exists:
// Sun, Earth and Moon, the Habitat landed at the OCESS pad, and AYSE
// parked in Earth orbit.
func seedSnapshot() *core.Snapshot {
	const (
		earthX  = 1.496e11 // 1 AU
		earthVY = 29780.0
	)

	return &core.Snapshot{
		Timestamp: 0,
		SRBTime:   core.SRBFull,
		TimeAcc:   1,
		Reference: core.Earth,
		Target:    core.AYSE,
		Navmode:   core.NavmodeManual,
		Entities: []core.Entity{
			{
				Name: core.Sun, Mass: 1.989e30, Radius: 6.957e8,
			},
			{
				Name: core.Earth, Mass: 5.972e24, Radius: 6.371e6,
				AtmosphereThickness: 100e3, AtmosphereScaling: 0.5,
				X: earthX, VY: earthVY,
			},
			{
				Name: core.Moon, Mass: 7.348e22, Radius: 1.737e6,
				X: earthX + 3.844e8, VY: earthVY + 1022,
			},
			{
				Name: core.Habitat, Mass: 2.75e5, Radius: 47, Artificial: true,
				X: earthX + 6.371e6 + 47, VY: earthVY,
				Fuel: 104e3, LandedOn: core.Earth,
			},
			{
				Name: core.AYSE, Mass: 2e7, Radius: 200, Artificial: true,
				X: earthX + 4e7, VY: earthVY + 2900,
				Fuel: 1.2e6,
			},
		},
	}
}
