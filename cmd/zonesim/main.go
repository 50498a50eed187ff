package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/polyzone/internal/config"
	"github.com/udisondev/polyzone/internal/data"
	"github.com/udisondev/polyzone/internal/db"
	"github.com/udisondev/polyzone/internal/debugdraw"
	"github.com/udisondev/polyzone/internal/sim"
	"github.com/udisondev/polyzone/internal/zone"
)

const ConfigPath = "config/zonesim.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load config FIRST to determine log level
	cfgPath := ConfigPath
	if p := os.Getenv("POLYZONE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSimulation(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	// Per-query zone logs only when running at debug level
	zone.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("zonesim starting", "log_level", cfg.LogLevel, "zones", cfg.ZonesPath)

	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	var journal transitionJournal = discardJournal{}
	if cfg.Database.Enabled {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.RunMigrations(ctx, cfg.Database.DSN()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		journal = db.NewTransitionRepository(database.Pool())
	}

	doc, err := data.LoadZones(cfg.ZonesPath)
	if err != nil {
		return fmt.Errorf("loading zones: %w", err)
	}

	world, err := data.BuildWorld(doc)
	if err != nil {
		return fmt.Errorf("building entities: %w", err)
	}

	zones, err := data.BuildZones(doc, world, data.BuildOptions{
		GridDivisions:       cfg.Grid.Divisions,
		EagerGrid:           cfg.Grid.Eager,
		MaxConcurrentBuilds: int64(cfg.Grid.MaxConcurrentBuilds),
	})
	if err != nil {
		return fmt.Errorf("building zones: %w", err)
	}
	defer zones.DestroyAll()

	watches, err := data.ResolveWatches(doc, zones, world)
	if err != nil {
		return fmt.Errorf("resolving watches: %w", err)
	}

	watchMgr := zone.NewWatchManager(nil)
	for _, w := range watches {
		onChange := recordTransitions(ctx, journal, w.Zone.Name(), w.EntityName)
		if err := watchMgr.Register(zone.NewWatch(w.Zone, w.Entity.Position, onChange, cfg.Watch.Interval)); err != nil {
			return fmt.Errorf("registering watch %s/%s: %w", w.Zone.Name(), w.EntityName, err)
		}
	}

	ticks := sim.NewTickManager(cfg.Tick.Interval)
	for _, m := range world.Movers() {
		ticks.Register(m.Name(), m)
	}

	slog.Info("simulation ready",
		"zones", zones.Len(),
		"movers", world.Len(),
		"watches", watchMgr.Count())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := ticks.Start(gctx); err != nil {
			return fmt.Errorf("sim ticks: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := watchMgr.Run(gctx); err != nil {
			return fmt.Errorf("zone watches: %w", err)
		}
		return nil
	})

	if cfg.DebugDraw.Enabled {
		startDebugDraw(gctx, g, zones.Zones(), cfg.DebugDraw)
	}

	if err := g.Wait(); err != nil && !isShutdown(err) {
		return fmt.Errorf("simulation error: %w", err)
	}

	slog.Info("zonesim stopped", "ticks", ticks.Ticks())
	return nil
}

// startDebugDraw runs a draw loop for every zone that asked for debug drawing.
func startDebugDraw(ctx context.Context, g *errgroup.Group, zones []zone.Zone, cfg config.DebugDrawConfig) {
	renderer := debugdraw.NewLogRenderer(nil, slog.LevelDebug)
	viewer := mgl64.Vec3(cfg.Viewer)

	for _, z := range zones {
		if !z.DebugEnabled() {
			continue
		}
		g.Go(func() error {
			err := zone.RunDebugDraw(ctx, z, renderer, func() mgl64.Vec3 { return viewer }, nil, cfg.Interval)
			if err != nil {
				return fmt.Errorf("debug draw %s: %w", z.Name(), err)
			}
			return nil
		})
	}
}

func isShutdown(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
