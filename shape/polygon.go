package shape

import (
	"fmt"
	"math"
	"slices"

	"github.com/0x5844/collision-2d/geom"
)

// Polygon is a convex polygon. Local vertices are stored counter-clockwise
// around the position, which is also the rotation pivot.
type Polygon struct {
	transform
	vertices []geom.Vector2
}

// NewPolygon validates that vertices form a convex ring and stores them
// counter-clockwise. Repeated consecutive vertices are tolerated.
func NewPolygon(position geom.Vector2, vertices []geom.Vector2) (*Polygon, error) {
	local, err := convexRing(vertices)
	if err != nil {
		return nil, err
	}
	return &Polygon{transform: transform{position: position}, vertices: local}, nil
}

func convexRing(vertices []geom.Vector2) ([]geom.Vector2, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("%d vertices: %w", len(vertices), ErrTooFewVertices)
	}

	ring := slices.Clone(vertices)
	area := signedArea(ring)
	if math.Abs(area) < geom.Epsilon {
		return nil, ErrDegenerate
	}
	if area < 0 {
		slices.Reverse(ring)
	}

	// Every turn must be a left turn and the turns must add up to one revolution,
	// which rules out concave and self-intersecting rings.
	edges := make([]geom.Vector2, 0, len(ring))
	for i := range ring {
		d := ring[(i+1)%len(ring)].Sub(ring[i])
		if d.IsZero() {
			continue
		}
		edges = append(edges, d)
	}
	if len(edges) < 3 {
		return nil, fmt.Errorf("%d distinct edges: %w", len(edges), ErrTooFewVertices)
	}

	var turning float64
	for i, e := range edges {
		next := edges[(i+1)%len(edges)]
		cross := e.Cross(next)
		if cross < -geom.Epsilon*e.Magnitude()*next.Magnitude() {
			return nil, fmt.Errorf("right turn at edge %d: %w", i, ErrNotConvex)
		}
		turning += math.Atan2(cross, e.Dot(next))
	}
	if math.Abs(turning-2*math.Pi) > 1e-6 {
		return nil, fmt.Errorf("winding %.3f rad: %w", turning, ErrNotConvex)
	}

	return ring, nil
}

func signedArea(ring []geom.Vector2) float64 {
	var sum float64
	for i := range ring {
		sum += ring[i].Cross(ring[(i+1)%len(ring)])
	}
	return sum * 0.5
}

func (p *Polygon) Kind() Kind { return KindPolygon }

// Vertices returns a copy of the local-space ring.
func (p *Polygon) Vertices() []geom.Vector2 {
	return slices.Clone(p.vertices)
}

func (p *Polygon) TransformedVertices() []geom.Vector2 {
	verts := make([]geom.Vector2, len(p.vertices))
	for i, v := range p.vertices {
		verts[i] = p.toWorld(v)
	}
	return verts
}

func (p *Polygon) Axes() []geom.Vector2 {
	axes, _ := p.AxesWithEdges()
	return axes
}

// AxesWithEdges skips zero-length edges so no axis is ever NaN or zero.
func (p *Polygon) AxesWithEdges() ([]geom.Vector2, []geom.Edge) {
	verts := p.TransformedVertices()
	axes := make([]geom.Vector2, 0, len(verts))
	edges := make([]geom.Edge, 0, len(verts))

	for i := range verts {
		edge := geom.Edge{A: verts[i], B: verts[(i+1)%len(verts)]}
		normal, ok := edge.Normal()
		if !ok {
			continue
		}
		axes = append(axes, normal)
		edges = append(edges, edge)
	}

	return axes, edges
}

func (p *Polygon) Project(axis geom.Vector2) geom.Projection {
	verts := p.TransformedVertices()
	if len(verts) == 0 {
		return geom.Projection{}
	}

	axisNorm := axis.Normalize()
	min := axisNorm.Dot(verts[0])
	max := min

	for _, v := range verts[1:] {
		d := axisNorm.Dot(v)
		if d < min {
			min = d
		} else if d > max {
			max = d
		}
	}

	return geom.NewProjection(min, max)
}

func (p *Polygon) Contains(point geom.Vector2) bool {
	if !p.AABB().Contains(point) {
		return false
	}
	return p.ContainsLocal(p.toLocal(point))
}

// ContainsLocal runs the odd-crossing ray cast against the local ring.
func (p *Polygon) ContainsLocal(local geom.Vector2) bool {
	inside := false
	for i, j := 0, len(p.vertices)-1; i < len(p.vertices); j, i = i, i+1 {
		vi, vj := p.vertices[i], p.vertices[j]
		if (vi.Y > local.Y) != (vj.Y > local.Y) &&
			local.X < (vj.X-vi.X)*(local.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
	}
	return inside
}

func (p *Polygon) AABB() geom.AABB {
	return geom.AABBOf(p.TransformedVertices())
}

func (p *Polygon) Clone() Shape {
	return p.clone()
}

func (p *Polygon) clone() *Polygon {
	cp := *p
	cp.vertices = slices.Clone(p.vertices)
	return &cp
}
