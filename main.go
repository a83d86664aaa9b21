package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/0x5844/collision-2d/internal/logging"
	"github.com/0x5844/collision-2d/scene"
	"github.com/0x5844/collision-2d/world"
)

// Build information (set by build script)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// ==================== CLI CONFIGURATION ====================

type Config struct {
	// Simulation parameters
	Duration float64
	MaxFPS   int

	// Resolution settings
	Workers    int
	Order      string
	FreeMode   string
	SignRule   string
	MinOverlap float64

	// Output settings
	Verbose       bool
	Quiet         bool
	LogFormat     string
	StatsInterval float64
	ProfileCPU    string
	ProfileMem    string

	// Scene settings
	SceneFile  string
	Seed       uint64
	Circles    int
	Rectangles int
	Polygons   int

	ShowVersion bool
}

func parseFlags(args []string) (*Config, error) {
	config := &Config{}
	defaults := world.DefaultConfig()
	playground := scene.DefaultPlayground()

	fs := flag.NewFlagSet("collision2d", flag.ContinueOnError)

	// Simulation parameters
	fs.Float64Var(&config.Duration, "duration", 0, "simulation duration in seconds (0 = infinite)")
	fs.IntVar(&config.MaxFPS, "fps", 60, "ticks per second")

	// Resolution settings
	fs.IntVar(&config.Workers, "workers", runtime.NumCPU(), "narrow phase workers in snapshot order")
	fs.StringVar(&config.Order, "order", defaults.Order.String(), "resolution order (sequential, snapshot)")
	fs.StringVar(&config.FreeMode, "free-mode", defaults.FreeMode.String(), "free pair handling (split, push-first, ignore)")
	fs.StringVar(&config.SignRule, "sign-rule", defaults.SignRule.String(), "push direction rule (projection, centers)")
	fs.Float64Var(&config.MinOverlap, "min-overlap", defaults.MinOverlap, "overlap a contact must exceed to be resolved")

	// Output settings
	fs.BoolVar(&config.Verbose, "verbose", false, "verbose output")
	fs.BoolVar(&config.Quiet, "quiet", false, "minimal output")
	fs.StringVar(&config.LogFormat, "log-format", "console", "log encoding (console, json)")
	fs.Float64Var(&config.StatsInterval, "stats-interval", 2.0, "statistics reporting interval")
	fs.StringVar(&config.ProfileCPU, "profile-cpu", "", "CPU profile output file")
	fs.StringVar(&config.ProfileMem, "profile-mem", "", "memory profile output file")

	// Scene settings
	fs.StringVar(&config.SceneFile, "scene", "", "YAML or JSON scene file to load")
	fs.Uint64Var(&config.Seed, "seed", 0, "playground seed (0 = time based)")
	fs.IntVar(&config.Circles, "circles", playground.Circles, "circles in the generated playground")
	fs.IntVar(&config.Rectangles, "rectangles", playground.Rectangles, "rectangles in the generated playground")
	fs.IntVar(&config.Polygons, "polygons", playground.Polygons, "polygons in the generated playground")

	fs.BoolVar(&config.ShowVersion, "version", false, "show version information")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Collision2D - convex shape overlap detection and resolution\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -seed 42 -duration 5\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -scene scenes/push.yaml -verbose\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -order snapshot -polygons 200 -profile-cpu cpu.prof\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nVersion: %s\n", Version)
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if config.ShowVersion {
		return config, nil
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if config.MaxFPS < 1 || config.MaxFPS > 1000 {
		return fmt.Errorf("fps must be between 1 and 1000")
	}
	if config.Duration < 0 {
		return fmt.Errorf("duration cannot be negative")
	}
	if config.StatsInterval <= 0 {
		return fmt.Errorf("stats interval must be positive")
	}
	if config.Circles < 0 || config.Rectangles < 0 || config.Polygons < 0 {
		return fmt.Errorf("shape counts cannot be negative")
	}
	if config.Verbose && config.Quiet {
		return fmt.Errorf("verbose and quiet are mutually exclusive")
	}
	_, err := config.worldConfig()
	return err
}

func (config *Config) worldConfig() (world.Config, error) {
	wc := world.DefaultConfig()
	wc.Workers = config.Workers
	wc.MinOverlap = config.MinOverlap

	var err error
	if wc.Order, err = world.ParseOrder(config.Order); err != nil {
		return wc, err
	}
	if wc.FreeMode, err = world.ParseFreeMode(config.FreeMode); err != nil {
		return wc, err
	}
	if wc.SignRule, err = world.ParseSignRule(config.SignRule); err != nil {
		return wc, err
	}
	return wc, wc.Validate()
}

func (config *Config) logLevel() string {
	if config.Verbose {
		return "debug"
	}
	return "info"
}

// ==================== SCENE SETUP ====================

// setupWorld loads the scene file when one is given and generates the
// playground otherwise. It returns the world and the scene's drag script, if any.
func setupWorld(config *Config, logger *zap.Logger) (*world.World, *scene.Script, error) {
	wc, err := config.worldConfig()
	if err != nil {
		return nil, nil, err
	}

	if config.SceneFile != "" {
		sc, err := scene.LoadFile(config.SceneFile)
		if err != nil {
			return nil, nil, fmt.Errorf("load scene: %w", err)
		}
		if wc, err = sc.WorldConfig(wc); err != nil {
			return nil, nil, fmt.Errorf("scene %s: %w", config.SceneFile, err)
		}

		w, err := world.New(wc, logger)
		if err != nil {
			return nil, nil, err
		}
		bodies, err := sc.Build(w)
		if err != nil {
			return nil, nil, fmt.Errorf("setup scene: %w", err)
		}
		if sc.Duration > 0 {
			config.Duration = sc.Duration
		}

		logger.Info("scene loaded",
			zap.String("file", config.SceneFile),
			zap.String("name", sc.Name),
			zap.Int("bodies", len(bodies)),
			zap.Int("drags", len(sc.Drags)))

		var script *scene.Script
		if len(sc.Drags) > 0 {
			script = scene.NewScript(sc.Drags)
		}
		return w, script, nil
	}

	w, err := world.New(wc, logger)
	if err != nil {
		return nil, nil, err
	}

	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	pc := scene.DefaultPlayground()
	pc.Circles, pc.Rectangles, pc.Polygons = config.Circles, config.Rectangles, config.Polygons

	bodies, err := scene.GeneratePlayground(w, pc, rand.New(rand.NewPCG(seed, seed>>32|1)))
	if err != nil {
		return nil, nil, fmt.Errorf("generate playground: %w", err)
	}
	logger.Info("playground generated", zap.Uint64("seed", seed), zap.Int("bodies", len(bodies)))
	return w, nil, nil
}

// ==================== MAIN APPLICATION ====================

func main() {
	config, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if config.ShowVersion {
		fmt.Printf("Collision2D version %s\n", Version)
		fmt.Printf("Built: %s\n", BuildTime)
		fmt.Printf("Go: %s\n", GoVersion)
		return
	}

	logger, err := logging.New(logging.Options{
		Level:  config.logLevel(),
		Format: config.LogFormat,
		Quiet:  config.Quiet,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Sync() //nolint:errcheck

	if err := run(config, logger); err != nil {
		logger.Error("simulation failed", zap.Error(err))
		logger.Sync() //nolint:errcheck
		os.Exit(1)
	}
}

func run(config *Config, logger *zap.Logger) error {
	// Set up profiling
	if config.ProfileCPU != "" {
		f, err := os.Create(config.ProfileCPU)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()

		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	logger.Info("starting collision engine",
		zap.String("version", Version),
		zap.Int("cpus", runtime.NumCPU()),
		zap.Int("workers", config.Workers))

	w, script, err := setupWorld(config, logger)
	if err != nil {
		return err
	}

	// Create context for simulation control
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := []world.EngineOption{world.WithTargetFPS(config.MaxFPS)}
	if script != nil {
		opts = append(opts, world.WithDriver(script))
	}

	switch {
	case config.Duration > 0:
		var stop context.CancelFunc
		ctx, stop = context.WithTimeout(ctx, time.Duration(config.Duration*float64(time.Second)))
		defer stop()
		logger.Info("simulation duration", zap.Float64("seconds", config.Duration))
	case script != nil:
		var stop context.CancelFunc
		ctx, stop = context.WithCancel(ctx)
		defer stop()
		opts = append(opts, world.WithReportFunc(stopAfterScript(script, stop, logger)))
		logger.Info("running until the drag script finishes")
	default:
		logger.Info("press Ctrl+C to stop")
	}

	engine := world.NewEngine(w, logger, opts...)

	go reportStats(ctx, engine, logger, config.StatsInterval)

	start := time.Now()
	if err := engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("engine error: %w", err)
	}
	elapsed := time.Since(start)

	// Memory profiling
	if config.ProfileMem != "" {
		if err := writeHeapProfile(config.ProfileMem); err != nil {
			logger.Warn("could not write memory profile", zap.Error(err))
		}
	}

	stats := engine.Stats()
	fields := append(statsFields(stats), zap.Duration("elapsed", elapsed))
	if secs := elapsed.Seconds(); secs > 0 {
		fields = append(fields, zap.Float64("steps_per_second", float64(stats.Steps)/secs))
	}
	logger.Info("simulation completed", fields...)
	return nil
}

// stopAfterScript cancels the run on the tick that releases the script's last body.
func stopAfterScript(script *scene.Script, stop context.CancelFunc, logger *zap.Logger) world.ReportFunc {
	return func(r *world.StepReport) {
		if !script.Active(r.Tick + 1) {
			logger.Info("drag script finished", zap.Int64("tick", r.Tick))
			stop()
		}
	}
}

func writeHeapProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}

func reportStats(ctx context.Context, engine *world.Engine, logger *zap.Logger, interval float64) {
	ticker := time.NewTicker(time.Duration(interval * float64(time.Second)))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Info("stats", statsFields(engine.Stats())...)
		case <-ctx.Done():
			return
		}
	}
}

func statsFields(s world.Stats) []zap.Field {
	return []zap.Field{
		zap.Float64("fps", s.FPS),
		zap.Int("bodies", s.Bodies),
		zap.Int64("contacts", s.Contacts),
		zap.Int64("steps", s.Steps),
		zap.Int64("frames", s.Frames),
		zap.Duration("frame_avg", s.AvgFrameTime),
		zap.Duration("frame_min", s.MinFrameTime),
		zap.Duration("frame_max", s.MaxFrameTime),
	}
}
