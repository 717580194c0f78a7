package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"auroguard/internal/admin"
	"auroguard/internal/config"
	"auroguard/internal/logging"
	"auroguard/internal/scenario"
	"auroguard/internal/sim"
)

var (
	simPrintOnly  bool
	simConfigPath string
	simSchemaPath string
	simLogFile    string
	simTUI        bool
	simSeed       int64
	simScenario   string
	simNoAdmin    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the real-time spacecraft simulator",
	Long:  "simulate starts a simulator emitting telemetry, debris events and notifications, optionally driven by a scenario.",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := config.LoadEnv()
		if err != nil {
			return err
		}
		cfg, err := loadConfig(simConfigPath, simSchemaPath)
		if err != nil {
			return err
		}
		e.Apply(cfg)
		sc, err := resolveScenario(simScenario, cfg.Scenario)
		if err != nil {
			return err
		}

		sink, tui, cleanup, err := newWriters(cfg, e, writerOptions{
			printOnly: simPrintOnly,
			logFile:   simLogFile,
			tui:       simTUI,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("closing writers", "err", err)
			}
		}()

		log := slog.Default()
		if tui != nil {
			log = logging.New(tui.LogWriter(), logging.ParseLevel(logLevel))
			slog.SetDefault(log)
		}

		var rng *rand.Rand
		if cmd.Flags().Changed("seed") {
			rng = rand.New(rand.NewSource(simSeed))
		}
		simulator := sim.NewSimulator(cfg, sim.SinkWriters(sink), rng, nil)
		simulator.SetLogger(log)

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		simulator.SetMetrics(sim.NewMetrics(reg))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx = logging.NewContext(ctx, log)

		if tui != nil {
			tui.SetController(simulator)
		}

		g, ctx := errgroup.WithContext(ctx)
		if !simNoAdmin {
			srv := admin.NewServer(simulator, reg)
			g.Go(func() error {
				if tui != nil {
					tui.SetAdminStatus(true)
					defer tui.SetAdminStatus(false)
				}
				if err := srv.Start(ctx, e.AdminAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
		}

		if sc != nil {
			player := scenario.NewPlayer(sc, simulator)
			g.Go(func() error {
				if err := player.Play(ctx); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			})
		}

		g.Go(func() error {
			simulator.Run(ctx)
			return nil
		})

		err = g.Wait()
		log.Info("simulation stopped", "craft_id", simulator.CraftID())
		return err
	},
}

// loadConfig reads path when set and falls back to the defaults otherwise.
func loadConfig(path, schema string) (*config.SimulationConfig, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path, schema)
}

// resolveScenario prefers the flag over the config file. It returns nil
// when neither names a scenario.
func resolveScenario(flag, fromConfig string) (*scenario.Scenario, error) {
	name := flag
	if name == "" {
		name = fromConfig
	}
	if name == "" {
		return nil, nil
	}
	return scenario.Resolve(name)
}

func init() {
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print telemetry to STDOUT instead of writing to DB")
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "", "Path to simulation configuration YAML (defaults when empty)")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "", "Path to CUE schema file (embedded schema when empty)")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export telemetry, debris event and notification logs (JSONL)")
	simulateCmd.Flags().BoolVar(&simTUI, "tui", false, "Render an interactive terminal dashboard")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "Seed for a reproducible run")
	simulateCmd.Flags().StringVar(&simScenario, "scenario", "", "Built-in scenario name or scenario YAML path")
	simulateCmd.Flags().BoolVar(&simNoAdmin, "no-admin", false, "Disable the admin HTTP server")
}
