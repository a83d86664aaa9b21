package shape

import (
	"fmt"

	"github.com/0x5844/collision-2d/geom"
)

const DefaultCircleRadius = 20

type Circle struct {
	transform
	radius float64
}

func NewCircle(position geom.Vector2, radius float64) (*Circle, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("circle radius %v: %w", radius, ErrInvalidRadius)
	}
	return &Circle{transform: transform{position: position}, radius: radius}, nil
}

func (c *Circle) Kind() Kind { return KindCircle }

func (c *Circle) Radius() float64 { return c.radius }

func (c *Circle) TransformedVertices() []geom.Vector2 { return nil }

func (c *Circle) Axes() []geom.Vector2 { return nil }

func (c *Circle) AxesWithEdges() ([]geom.Vector2, []geom.Edge) { return nil, nil }

func (c *Circle) Project(axis geom.Vector2) geom.Projection {
	centerProj := axis.Normalize().Dot(c.position)
	return geom.NewProjection(centerProj-c.radius, centerProj+c.radius)
}

func (c *Circle) Contains(point geom.Vector2) bool {
	return c.position.DistanceSquared(point) < c.radius*c.radius
}

func (c *Circle) AABB() geom.AABB {
	return geom.AABB{
		Min: geom.Vector2{X: c.position.X - c.radius, Y: c.position.Y - c.radius},
		Max: geom.Vector2{X: c.position.X + c.radius, Y: c.position.Y + c.radius},
	}
}

func (c *Circle) Clone() Shape {
	cp := *c
	return &cp
}
