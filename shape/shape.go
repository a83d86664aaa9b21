// Package shape defines the convex shape variants understood by the collision
// engine and the capability contract every variant satisfies.
package shape

import (
	"errors"
	"math"

	"github.com/0x5844/collision-2d/geom"
)

var (
	ErrTooFewVertices = errors.New("polygon needs at least 3 vertices")
	ErrDegenerate     = errors.New("polygon has zero area")
	ErrNotConvex      = errors.New("polygon is not convex")
	ErrInvalidRadius  = errors.New("radius must be positive")
	ErrInvalidSize    = errors.New("width and height must be positive")
)

// Kind tags a shape variant. The declaration order is the canonical pair order
// used by the collision dispatcher.
type Kind int

const (
	KindCircle Kind = iota
	KindPolygon
	KindRectangle

	kindCount
)

// Kinds lists every registered variant.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindPolygon:
		return "polygon"
	case KindRectangle:
		return "rectangle"
	default:
		return "unknown"
	}
}

// Shape is the contract a variant implements to take part in collision tests.
// Rotation is in degrees, counter-clockwise. Center is the position for every
// variant; it is also the rotation pivot.
type Shape interface {
	Kind() Kind
	Center() geom.Vector2
	Position() geom.Vector2
	SetPosition(p geom.Vector2)
	Translate(d geom.Vector2)
	Rotation() float64
	SetRotation(degrees float64)

	// TransformedVertices returns local vertices rotated then translated; empty for circles.
	TransformedVertices() []geom.Vector2
	// Axes returns the unit edge normals. Circles have none.
	Axes() []geom.Vector2
	// AxesWithEdges returns Axes plus the world-space edge each axis came from.
	AxesWithEdges() ([]geom.Vector2, []geom.Edge)
	Project(axis geom.Vector2) geom.Projection
	// Contains tests a world-space point.
	Contains(point geom.Vector2) bool
	AABB() geom.AABB
	Clone() Shape
}

type transform struct {
	position geom.Vector2
	rotation float64
}

func (t *transform) Center() geom.Vector2   { return t.position }
func (t *transform) Position() geom.Vector2 { return t.position }

func (t *transform) SetPosition(p geom.Vector2) { t.position = p }

func (t *transform) Translate(d geom.Vector2) { t.position = t.position.Add(d) }

func (t *transform) Rotation() float64 { return t.rotation }

func (t *transform) SetRotation(degrees float64) {
	t.rotation = math.Mod(degrees, 360)
}

func (t *transform) toWorld(local geom.Vector2) geom.Vector2 {
	return local.Rotate(t.rotation).Add(t.position)
}

func (t *transform) toLocal(world geom.Vector2) geom.Vector2 {
	return world.Sub(t.position).Rotate(-t.rotation)
}
