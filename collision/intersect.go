// Package collision implements the separating-axis narrow phase: a dispatch
// table over ordered shape-kind pairs and the MTV reduction shared by every pair.
package collision

import (
	"errors"
	"fmt"
	"math"

	"github.com/0x5844/collision-2d/geom"
	"github.com/0x5844/collision-2d/shape"
)

// ErrUnsupportedPair means no narrow phase is registered for the pair. It does
// not mean the shapes are apart.
var ErrUnsupportedPair = errors.New("unsupported shape pair")

type pairKey [2]shape.Kind

type narrowPhase func(a, b shape.Shape) (*MTV, error)

// dispatch is keyed by kinds in declaration order; Intersect swaps the pair
// before the lookup so each combination appears once.
var dispatch = map[pairKey]narrowPhase{
	{shape.KindCircle, shape.KindCircle}:       circleCircle,
	{shape.KindCircle, shape.KindPolygon}:      circlePolygon,
	{shape.KindCircle, shape.KindRectangle}:    circleRectangle,
	{shape.KindPolygon, shape.KindPolygon}:     polygonPolygon,
	{shape.KindPolygon, shape.KindRectangle}:   polygonPolygon,
	{shape.KindRectangle, shape.KindRectangle}: polygonPolygon,
}

// Supported reports whether a narrow phase exists for the kind pair, in either order.
func Supported(a, b shape.Kind) bool {
	if b < a {
		a, b = b, a
	}
	_, ok := dispatch[pairKey{a, b}]
	return ok
}

// Intersect returns nil when a and b do not overlap, otherwise their MTV with the
// axis oriented from a toward b. It has no side effects on either shape.
func Intersect(a, b shape.Shape) (*MTV, error) {
	ka, kb := a.Kind(), b.Kind()
	swapped := kb < ka
	if swapped {
		a, b = b, a
		ka, kb = kb, ka
	}

	fn, ok := dispatch[pairKey{ka, kb}]
	if !ok {
		return nil, fmt.Errorf("%w: %s-%s", ErrUnsupportedPair, ka, kb)
	}

	mtv, err := fn(a, b)
	if err != nil || mtv == nil {
		return nil, err
	}
	if swapped {
		mtv.Axis = mtv.Axis.Negate()
	}
	return mtv, nil
}

type round interface {
	Radius() float64
}

type boxed interface {
	ClosestPoint(point geom.Vector2) geom.Vector2
}

func radiusOf(s shape.Shape) (float64, error) {
	r, ok := s.(round)
	if !ok {
		return 0, fmt.Errorf("%w: %T has circle kind but no radius", ErrUnsupportedPair, s)
	}
	return r.Radius(), nil
}

func circleCircle(a, b shape.Shape) (*MTV, error) {
	ra, err := radiusOf(a)
	if err != nil {
		return nil, err
	}
	rb, err := radiusOf(b)
	if err != nil {
		return nil, err
	}

	delta := b.Center().Sub(a.Center())
	if delta.Magnitude() >= ra+rb {
		return nil, nil
	}

	axis, ok := delta.TryNormalize()
	if !ok {
		// Coincident centers: any direction separates, pick a fixed one.
		axis = geom.Vector2{X: 1, Y: 0}
	}
	return Solve(a, b, []Candidate{{Axis: axis}}), nil
}

// circlePolygon tests the polygon's edge normals, then the axis from the circle
// center to the nearest vertex, which catches circles outside a corner.
func circlePolygon(circle, poly shape.Shape) (*MTV, error) {
	candidates := candidatesOf(poly)
	if axis, ok := nearestVertexAxis(circle.Center(), poly.TransformedVertices()); ok {
		candidates = append(candidates, Candidate{Axis: axis})
	}
	return withContactEdge(Solve(circle, poly, candidates), circle.Center(), poly), nil
}

// circleRectangle adds the axis toward the closest point of the rectangle.
func circleRectangle(circle, rect shape.Shape) (*MTV, error) {
	box, ok := rect.(boxed)
	if !ok {
		return nil, fmt.Errorf("%w: %T has rectangle kind but no closest point", ErrUnsupportedPair, rect)
	}

	candidates := candidatesOf(rect)
	center := circle.Center()
	if axis, ok := box.ClosestPoint(center).Sub(center).TryNormalize(); ok {
		candidates = append(candidates, Candidate{Axis: axis})
	}
	return withContactEdge(Solve(circle, rect, candidates), center, rect), nil
}

func polygonPolygon(a, b shape.Shape) (*MTV, error) {
	candidates := append(candidatesOf(a), candidatesOf(b)...)
	return Solve(a, b, candidates), nil
}

func nearestVertexAxis(center geom.Vector2, verts []geom.Vector2) (geom.Vector2, bool) {
	best := math.MaxFloat64
	var nearest geom.Vector2
	for _, v := range verts {
		if d := v.DistanceSquared(center); d < best {
			best = d
			nearest = v
		}
	}
	if best == math.MaxFloat64 {
		return geom.Vector2{}, false
	}
	return nearest.Sub(center).TryNormalize()
}

// withContactEdge sets the contact edge to the polygon edge nearest to point,
// preferring edges whose normal is the winning axis. Parallel edges share an
// axis, so the edge the axis was first read from may be the far side.
func withContactEdge(mtv *MTV, point geom.Vector2, poly shape.Shape) *MTV {
	if mtv == nil {
		return mtv
	}

	axes, edges := poly.AxesWithEdges()
	var nearest, nearestParallel *geom.Edge
	best, bestParallel := math.MaxFloat64, math.MaxFloat64
	for i := range edges {
		d := edges[i].DistanceTo(point)
		if d < best {
			best, nearest = d, &edges[i]
		}
		if math.Abs(axes[i].Dot(mtv.Axis)) > 1-1e-9 && d < bestParallel {
			bestParallel, nearestParallel = d, &edges[i]
		}
	}

	switch {
	case nearestParallel != nil:
		mtv.Edge = nearestParallel
	case nearest != nil:
		mtv.Edge = nearest
	}
	return mtv
}
