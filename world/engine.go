package world

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Driver is the input collaborator: it anchors, drags and releases bodies
// before each tick.
type Driver interface {
	BeforeStep(ctx context.Context, tick int64, w *World) error
}

// ReportFunc receives every step report; it runs on the engine goroutine.
type ReportFunc func(*StepReport)

type Stats struct {
	FPS          float64
	Frames       int64
	Steps        int64
	Bodies       int
	Contacts     int64
	AvgFrameTime time.Duration
	MinFrameTime time.Duration
	MaxFrameTime time.Duration
}

type Engine struct {
	world     *World
	driver    Driver
	onReport  ReportFunc
	logger    *zap.Logger
	running   int32
	targetFPS int

	mu    sync.Mutex
	stats struct {
		fps           float64
		lastFrameTime time.Time
		frameCount    int64
		frameTimeSum  time.Duration
		minFrameTime  time.Duration
		maxFrameTime  time.Duration
	}
}

type EngineOption func(*Engine)

func WithDriver(d Driver) EngineOption { return func(e *Engine) { e.driver = d } }

func WithReportFunc(fn ReportFunc) EngineOption { return func(e *Engine) { e.onReport = fn } }

func WithTargetFPS(fps int) EngineOption { return func(e *Engine) { e.targetFPS = fps } }

func NewEngine(w *World, logger *zap.Logger, opts ...EngineOption) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{world: w, logger: logger, targetFPS: 30}
	for _, opt := range opts {
		opt(e)
	}
	if e.targetFPS < 1 {
		e.targetFPS = 1
	}
	return e
}

func (e *Engine) World() *World { return e.world }

// Tick runs the driver and one world step.
func (e *Engine) Tick(ctx context.Context) (*StepReport, error) {
	start := time.Now()

	if e.driver != nil {
		if err := e.driver.BeforeStep(ctx, e.world.StepCount()+1, e.world); err != nil {
			return nil, err
		}
	}

	report, err := e.world.Step(ctx)
	if err != nil {
		return nil, err
	}
	if e.onReport != nil {
		e.onReport(report)
	}

	e.updateStats(start)
	return report, nil
}

// Run ticks at the target rate until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&e.running, 0, 1) {
		return ErrEngineRunning
	}
	defer atomic.StoreInt32(&e.running, 0)

	ticker := time.NewTicker(time.Second / time.Duration(e.targetFPS))
	defer ticker.Stop()

	e.mu.Lock()
	e.stats.lastFrameTime = time.Now()
	e.mu.Unlock()

	e.logger.Info("engine started",
		zap.Int("fps", e.targetFPS),
		zap.Int("bodies", len(e.world.Bodies())),
		zap.Stringer("order", e.world.Config().Order))

	for {
		select {
		case <-ticker.C:
			if _, err := e.Tick(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			}
		case <-ctx.Done():
			e.logger.Info("engine stopped", zap.Int64("steps", e.world.StepCount()))
			return ctx.Err()
		}
	}
}

func (e *Engine) updateStats(frameStart time.Time) {
	now := time.Now()
	frameTime := now.Sub(frameStart)

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.stats.lastFrameTime.IsZero() {
		if elapsed := now.Sub(e.stats.lastFrameTime).Seconds(); elapsed > 0 {
			e.stats.fps = 1.0 / elapsed
		}
	}
	e.stats.lastFrameTime = now
	e.stats.frameCount++
	e.stats.frameTimeSum += frameTime

	if e.stats.minFrameTime == 0 || frameTime < e.stats.minFrameTime {
		e.stats.minFrameTime = frameTime
	}
	if frameTime > e.stats.maxFrameTime {
		e.stats.maxFrameTime = frameTime
	}
}

func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Stats{
		FPS:          e.stats.fps,
		Frames:       e.stats.frameCount,
		Steps:        e.world.StepCount(),
		Bodies:       len(e.world.Bodies()),
		Contacts:     e.world.ContactCount(),
		MinFrameTime: e.stats.minFrameTime,
		MaxFrameTime: e.stats.maxFrameTime,
	}
	if e.stats.frameCount > 0 {
		s.AvgFrameTime = e.stats.frameTimeSum / time.Duration(e.stats.frameCount)
	}
	return s
}
