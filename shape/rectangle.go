package shape

import (
	"fmt"

	"github.com/0x5844/collision-2d/geom"
)

const DefaultRectangleSize = 40

// Rectangle is a Polygon whose four corners are generated from its size.
type Rectangle struct {
	Polygon
	width, height float64
}

func NewRectangle(position geom.Vector2, width, height float64) (*Rectangle, error) {
	r := &Rectangle{Polygon: Polygon{transform: transform{position: position}}}
	if err := r.SetSize(width, height); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Rectangle) Kind() Kind { return KindRectangle }

func (r *Rectangle) Width() float64  { return r.width }
func (r *Rectangle) Height() float64 { return r.height }

// SetSize regenerates the axis-aligned local corners; rotation is applied on top.
func (r *Rectangle) SetSize(width, height float64) error {
	if !(width > 0) || !(height > 0) {
		return fmt.Errorf("rectangle %vx%v: %w", width, height, ErrInvalidSize)
	}
	r.width, r.height = width, height

	left, top := -width/2, -height/2
	right, bottom := left+width, top+height
	r.vertices = []geom.Vector2{
		{X: left, Y: top},
		{X: right, Y: top},
		{X: right, Y: bottom},
		{X: left, Y: bottom},
	}
	return nil
}

// ClosestPoint returns the point of the rectangle's area nearest to a world
// point. The clamp happens in the local frame so rotation is honoured.
func (r *Rectangle) ClosestPoint(point geom.Vector2) geom.Vector2 {
	box := geom.AABB{
		Min: geom.Vector2{X: -r.width / 2, Y: -r.height / 2},
		Max: geom.Vector2{X: r.width / 2, Y: r.height / 2},
	}
	return r.toWorld(box.ClosestPoint(r.toLocal(point)))
}

func (r *Rectangle) Clone() Shape {
	return &Rectangle{Polygon: *r.Polygon.clone(), width: r.width, height: r.height}
}
