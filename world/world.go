// Package world owns the bodies, runs the pairwise collision step every tick
// and applies the resolution policy.
package world

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/0x5844/collision-2d/collision"
	"github.com/0x5844/collision-2d/geom"
)

// StepReport describes one tick.
type StepReport struct {
	Tick        int64
	Pairs       int
	Contacts    []Contact
	Began       []Pair
	Ended       []Pair
	Unsupported int
	Moved       int
}

// Overlapping lists the bodies that took part in a contact, for highlighting.
func (r *StepReport) Overlapping() map[uuid.UUID]bool {
	out := make(map[uuid.UUID]bool, len(r.Contacts)*2)
	for _, c := range r.Contacts {
		out[c.A] = true
		out[c.B] = true
	}
	return out
}

type World struct {
	cfg    Config
	policy Policy
	logger *zap.Logger

	bodies    []*Body
	bodyMutex sync.RWMutex
	stepMutex sync.Mutex

	contacts *contactTracker

	stepCounter    int64
	contactCounter int64
}

func New(cfg Config, logger *zap.Logger) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &World{
		cfg:      cfg,
		policy:   cfg.Policy(),
		logger:   logger,
		bodies:   make([]*Body, 0, 32),
		contacts: newContactTracker(),
	}, nil
}

func (w *World) Config() Config { return w.cfg }

func (w *World) AddBody(body *Body) {
	w.bodyMutex.Lock()
	w.bodies = append(w.bodies, body)
	w.bodyMutex.Unlock()
}

func (w *World) RemoveBody(id uuid.UUID) error {
	w.stepMutex.Lock()
	defer w.stepMutex.Unlock()
	w.bodyMutex.Lock()
	defer w.bodyMutex.Unlock()

	idx := slices.IndexFunc(w.bodies, func(b *Body) bool { return b.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrBodyNotFound, id)
	}
	w.bodies = slices.Delete(w.bodies, idx, idx+1)
	w.contacts.forget(id)
	return nil
}

// Bodies returns the bodies in scan order.
func (w *World) Bodies() []*Body {
	w.bodyMutex.RLock()
	defer w.bodyMutex.RUnlock()
	return slices.Clone(w.bodies)
}

func (w *World) Body(id uuid.UUID) (*Body, error) {
	w.bodyMutex.RLock()
	defer w.bodyMutex.RUnlock()
	for _, b := range w.bodies {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrBodyNotFound, id)
}

func (w *World) BodyByName(name string) (*Body, error) {
	w.bodyMutex.RLock()
	defer w.bodyMutex.RUnlock()
	for _, b := range w.bodies {
		if b.Name == name {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrBodyNotFound, name)
}

// SetAnchored is the input-layer hook for press/release. Must not race with Step.
func (w *World) SetAnchored(id uuid.UUID, anchored bool) error {
	w.stepMutex.Lock()
	defer w.stepMutex.Unlock()
	b, err := w.Body(id)
	if err != nil {
		return err
	}
	b.Anchored = anchored
	return nil
}

// Drag moves a body as the input layer would while it is held.
func (w *World) Drag(id uuid.UUID, delta geom.Vector2) error {
	w.stepMutex.Lock()
	defer w.stepMutex.Unlock()
	b, err := w.Body(id)
	if err != nil {
		return err
	}
	b.Shape.Translate(delta)
	return nil
}

func (w *World) StepCount() int64 {
	return atomic.LoadInt64(&w.stepCounter)
}

// ContactCount is the number of contacts found by the last step.
func (w *World) ContactCount() int64 {
	return atomic.LoadInt64(&w.contactCounter)
}

// Step tests every unordered pair once and resolves overlaps per the configured
// order and policy.
func (w *World) Step(ctx context.Context) (*StepReport, error) {
	w.stepMutex.Lock()
	defer w.stepMutex.Unlock()

	bodies := w.Bodies()
	report := &StepReport{
		Tick:  atomic.AddInt64(&w.stepCounter, 1),
		Pairs: len(bodies) * (len(bodies) - 1) / 2,
	}

	var err error
	switch w.cfg.Order {
	case OrderSnapshot:
		err = w.stepSnapshot(ctx, bodies, report)
	default:
		err = w.stepSequential(ctx, bodies, report)
	}
	if err != nil {
		return nil, err
	}

	report.Began, report.Ended = w.contacts.update(report.Contacts)
	for _, p := range report.Began {
		w.logger.Debug("contact began", zap.Stringer("a", p.A), zap.Stringer("b", p.B))
	}
	for _, p := range report.Ended {
		w.logger.Debug("contact ended", zap.Stringer("a", p.A), zap.Stringer("b", p.B))
	}
	atomic.StoreInt64(&w.contactCounter, int64(len(report.Contacts)))

	return report, nil
}

func (w *World) stepSequential(ctx context.Context, bodies []*Body, report *StepReport) error {
	for i := 0; i < len(bodies); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for j := i + 1; j < len(bodies); j++ {
			a, b := bodies[i], bodies[j]
			mtv, ok := w.detect(a, b, report)
			if !ok {
				continue
			}
			da, db := w.policy.Translations(a, b, mtv)
			w.apply(a, da, report)
			w.apply(b, db, report)
		}
	}
	return nil
}

type pairResult struct {
	i, j int
	mtv  *collision.MTV
	err  error
}

func (w *World) stepSnapshot(ctx context.Context, bodies []*Body, report *StepReport) error {
	results := make([]pairResult, 0, report.Pairs)
	for i := range bodies {
		for j := i + 1; j < len(bodies); j++ {
			results = append(results, pairResult{i: i, j: j})
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.cfg.Workers)
	chunk := max(1, len(results)/(w.cfg.Workers*4))
	for start := 0; start < len(results); start += chunk {
		batch := results[start:min(start+chunk, len(results))]
		g.Go(func() error {
			for k := range batch {
				if err := gctx.Err(); err != nil {
					return err
				}
				r := &batch[k]
				r.mtv, r.err = collision.Intersect(bodies[r.i].Shape, bodies[r.j].Shape)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	moves := make([]geom.Vector2, len(bodies))
	for _, r := range results {
		a, b := bodies[r.i], bodies[r.j]
		mtv, ok := w.record(a, b, r.mtv, r.err, report)
		if !ok {
			continue
		}
		da, db := w.policy.Translations(a, b, mtv)
		moves[r.i] = moves[r.i].Add(da)
		moves[r.j] = moves[r.j].Add(db)
	}
	for i, d := range moves {
		w.apply(bodies[i], d, report)
	}
	return nil
}

func (w *World) detect(a, b *Body, report *StepReport) (*collision.MTV, bool) {
	mtv, err := collision.Intersect(a.Shape, b.Shape)
	return w.record(a, b, mtv, err, report)
}

// record logs unsupported pairs once and keeps contacts above the threshold.
func (w *World) record(a, b *Body, mtv *collision.MTV, err error, report *StepReport) (*collision.MTV, bool) {
	if err != nil {
		report.Unsupported++
		if errors.Is(err, collision.ErrUnsupportedPair) && w.contacts.firstUnsupported(NewPair(a.ID, b.ID)) {
			w.logger.Warn("collision pair not supported",
				zap.String("a", a.label()),
				zap.String("b", b.label()),
				zap.Error(err))
		}
		return nil, false
	}
	if mtv == nil || mtv.Overlap <= w.cfg.MinOverlap {
		return nil, false
	}
	report.Contacts = append(report.Contacts, Contact{A: a.ID, B: b.ID, MTV: *mtv})
	return mtv, true
}

func (w *World) apply(b *Body, d geom.Vector2, report *StepReport) {
	if d.IsZero() {
		return
	}
	b.Shape.Translate(d)
	report.Moved++
}
