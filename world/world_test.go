package world

import (
	"cmp"
	"context"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x5844/collision-2d/collision"
	"github.com/0x5844/collision-2d/geom"
	"github.com/0x5844/collision-2d/shape"
)

func vec(x, y float64) geom.Vector2 { return geom.NewVector2(x, y) }

func rectBody(t *testing.T, name string, x, y float64) *Body {
	t.Helper()
	r, err := shape.NewRectangle(vec(x, y), 40, 40)
	require.NoError(t, err)
	return NewBody(name, r)
}

func circleBody(t *testing.T, name string, x, y, radius float64) *Body {
	t.Helper()
	c, err := shape.NewCircle(vec(x, y), radius)
	require.NoError(t, err)
	return NewBody(name, c)
}

func newWorld(t *testing.T, mutate func(*Config), bodies ...*Body) *World {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	w, err := New(cfg, nil)
	require.NoError(t, err)
	for _, b := range bodies {
		w.AddBody(b)
	}
	return w
}

func assertAt(t *testing.T, b *Body, x, y float64) {
	t.Helper()
	p := b.Shape.Position()
	assert.InDelta(t, x, p.X, 1e-9, "%s x", b.Name)
	assert.InDelta(t, y, p.Y, 1e-9, "%s y", b.Name)
}

func TestResolutionPolicy(t *testing.T) {
	tests := []struct {
		name      string
		mode      FreeMode
		anchorA   bool
		anchorB   bool
		ax, bx    float64
		wantMoved int
	}{
		{"first anchored pushes second", FreeSplit, true, false, 0, 40, 1},
		{"second anchored pushes first", FreeSplit, false, true, -5, 35, 1},
		{"both anchored stay", FreeSplit, true, true, 0, 35, 0},
		{"free split", FreeSplit, false, false, -2.5, 37.5, 2},
		{"free push first", FreePushFirst, false, false, -5, 35, 1},
		{"free ignore", FreeIgnore, false, false, 0, 35, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := rectBody(t, "a", 0, 0)
			b := rectBody(t, "b", 35, 0)
			a.Anchored, b.Anchored = tt.anchorA, tt.anchorB
			w := newWorld(t, func(c *Config) { c.FreeMode = tt.mode }, a, b)

			report, err := w.Step(context.Background())
			require.NoError(t, err)
			require.Len(t, report.Contacts, 1)
			assert.InDelta(t, 5.0, report.Contacts[0].MTV.Overlap, 1e-9)
			assert.Equal(t, tt.wantMoved, report.Moved)

			assertAt(t, a, tt.ax, 0)
			assertAt(t, b, tt.bx, 0)
		})
	}
}

func TestMinOverlapThreshold(t *testing.T) {
	a := rectBody(t, "a", 0, 0)
	b := rectBody(t, "b", 39.95, 0)
	a.Anchored = true
	w := newWorld(t, nil, a, b)

	report, err := w.Step(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Contacts)
	assertAt(t, b, 39.95, 0)
}

func TestSignRuleCenters(t *testing.T) {
	a := circleBody(t, "a", 0, 0, 10)
	b := circleBody(t, "b", 10, 0, 10)
	a.Anchored = true
	mtv := &collision.MTV{Axis: vec(-1, 0), Overlap: 2}

	_, db := Policy{SignRule: SignByProjection}.Translations(a, b, mtv)
	assert.Equal(t, vec(-2, 0), db)

	_, db = Policy{SignRule: SignByCenters}.Translations(a, b, mtv)
	assert.Equal(t, vec(2, 0), db)
}

func TestOrderDependence(t *testing.T) {
	build := func(order Order) (*World, *Body, *Body) {
		a := circleBody(t, "a", 0, 0, 10)
		b := circleBody(t, "b", 15, 0, 10)
		c := circleBody(t, "c", 28, 0, 10)
		a.Anchored = true
		return newWorld(t, func(cfg *Config) { cfg.Order = order }, a, b, c), b, c
	}

	t.Run("sequential sees displaced positions", func(t *testing.T) {
		w, b, c := build(OrderSequential)
		report, err := w.Step(context.Background())
		require.NoError(t, err)
		assert.Len(t, report.Contacts, 2)
		assertAt(t, b, 14, 0)
		assertAt(t, c, 34, 0)
	})

	t.Run("snapshot sums corrections", func(t *testing.T) {
		w, b, c := build(OrderSnapshot)
		report, err := w.Step(context.Background())
		require.NoError(t, err)
		assert.Len(t, report.Contacts, 2)
		assertAt(t, b, 16.5, 0)
		assertAt(t, c, 31.5, 0)
	})
}

func TestSnapshotCancelled(t *testing.T) {
	w := newWorld(t, func(c *Config) { c.Order = OrderSnapshot },
		circleBody(t, "a", 0, 0, 10), circleBody(t, "b", 5, 0, 10))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := w.Step(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestContactEvents(t *testing.T) {
	a := rectBody(t, "a", 0, 0)
	b := rectBody(t, "b", 30, 0)
	w := newWorld(t, func(c *Config) { c.FreeMode = FreeIgnore }, a, b)

	report, err := w.Step(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Began, 1)
	assert.Equal(t, NewPair(a.ID, b.ID), report.Began[0])
	assert.True(t, report.Overlapping()[a.ID])
	assert.True(t, report.Overlapping()[b.ID])

	report, err = w.Step(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Began)
	assert.Empty(t, report.Ended)

	require.NoError(t, w.Drag(b.ID, vec(100, 0)))
	report, err = w.Step(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Contacts)
	require.Len(t, report.Ended, 1)
	assert.Equal(t, int64(3), w.StepCount())
}

type oddShape struct {
	shape.Shape
}

func (oddShape) Kind() shape.Kind { return shape.Kind(99) }

func TestUnsupportedPairIsReported(t *testing.T) {
	c, err := shape.NewCircle(vec(0, 0), 10)
	require.NoError(t, err)

	odd := NewBody("odd", oddShape{Shape: c})
	other := circleBody(t, "other", 5, 0, 10)
	w := newWorld(t, nil, odd, other)

	report, err := w.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Unsupported)
	assert.Empty(t, report.Contacts)
}

func TestBodyLookup(t *testing.T) {
	a := rectBody(t, "a", 0, 0)
	w := newWorld(t, nil, a)

	got, err := w.BodyByName("a")
	require.NoError(t, err)
	assert.Same(t, a, got)

	_, err = w.BodyByName("missing")
	require.ErrorIs(t, err, ErrBodyNotFound)

	require.NoError(t, w.SetAnchored(a.ID, true))
	assert.True(t, a.Anchored)

	require.ErrorIs(t, w.Drag(uuid.New(), vec(1, 1)), ErrBodyNotFound)
	require.NoError(t, w.RemoveBody(a.ID))
	assert.Empty(t, w.Bodies())
	require.ErrorIs(t, w.RemoveBody(a.ID), ErrBodyNotFound)
}

func TestContactTrackerEndedOrder(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	var contacts []Contact
	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			contacts = append(contacts, Contact{A: ids[j], B: ids[i]})
		}
	}

	tracker := newContactTracker()
	began, ended := tracker.update(contacts)
	require.Len(t, began, 6)
	assert.Empty(t, ended)
	for i, p := range began {
		assert.Equal(t, NewPair(contacts[i].A, contacts[i].B), p)
	}

	began, ended = tracker.update(contacts[:1])
	assert.Empty(t, began)
	require.Len(t, ended, 5)
	assert.True(t, slices.IsSortedFunc(ended, func(a, b Pair) int { return cmp.Compare(a.Key(), b.Key()) }))
	assert.NotContains(t, ended, NewPair(contacts[0].A, contacts[0].B))

	tracker.forget(ids[1])
	_, ended = tracker.update(nil)
	assert.Empty(t, ended, "forgotten pairs do not end again")
}

func TestPairKeyIsUnordered(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.Equal(t, NewPair(a, b), NewPair(b, a))
	assert.Equal(t, NewPair(a, b).Key(), NewPair(b, a).Key())
	assert.NotEqual(t, NewPair(a, b).Key(), NewPair(a, uuid.New()).Key())
}

func TestConfigValidation(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	assert.Equal(t, SignByProjection, DefaultConfig().SignRule)
	assert.Equal(t, SignByCenters, Config{SignRule: SignByCenters}.Policy().SignRule)

	cfg := DefaultConfig()
	cfg.MinOverlap = -1
	require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.Workers = 0
	_, err := New(cfg, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)

	order, err := ParseOrder("snapshot")
	require.NoError(t, err)
	assert.Equal(t, OrderSnapshot, order)
	_, err = ParseOrder("random")
	require.ErrorIs(t, err, ErrInvalidConfig)

	mode, err := ParseFreeMode("push-first")
	require.NoError(t, err)
	assert.Equal(t, FreePushFirst, mode)

	rule, err := ParseSignRule("centers")
	require.NoError(t, err)
	assert.Equal(t, SignByCenters, rule)
}

type pushDriver struct {
	id    uuid.UUID
	ticks []int64
}

func (d *pushDriver) BeforeStep(_ context.Context, tick int64, w *World) error {
	d.ticks = append(d.ticks, tick)
	if err := w.SetAnchored(d.id, true); err != nil {
		return err
	}
	return w.Drag(d.id, vec(10, 0))
}

func TestEngineTick(t *testing.T) {
	a := rectBody(t, "a", 0, 0)
	b := rectBody(t, "b", 45, 0)
	w := newWorld(t, nil, a, b)

	driver := &pushDriver{id: a.ID}
	var reports []*StepReport
	e := NewEngine(w, nil, WithDriver(driver), WithReportFunc(func(r *StepReport) {
		reports = append(reports, r)
	}))

	// a moves to 10: overlap 5, b pushed to 50.
	_, err := e.Tick(context.Background())
	require.NoError(t, err)
	assertAt(t, a, 10, 0)
	assertAt(t, b, 50, 0)

	_, err = e.Tick(context.Background())
	require.NoError(t, err)
	assertAt(t, b, 60, 0)

	assert.Equal(t, []int64{1, 2}, driver.ticks)
	require.Len(t, reports, 2)

	stats := e.Stats()
	assert.Equal(t, int64(2), stats.Frames)
	assert.Equal(t, int64(2), stats.Steps)
	assert.Equal(t, 2, stats.Bodies)
}

func TestEngineRun(t *testing.T) {
	w := newWorld(t, nil, rectBody(t, "a", 0, 0))
	e := NewEngine(w, nil, WithTargetFPS(200))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err := e.Run(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Positive(t, w.StepCount())
}
