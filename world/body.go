package world

import (
	"github.com/google/uuid"

	"github.com/0x5844/collision-2d/shape"
)

// Body is a shape owned by the world plus its drag state. Anchored is set by
// the input layer (press anchors, release frees); the collision step only reads it.
type Body struct {
	ID       uuid.UUID
	Name     string
	Shape    shape.Shape
	Anchored bool
}

func NewBody(name string, s shape.Shape) *Body {
	return &Body{ID: uuid.New(), Name: name, Shape: s}
}

func (b *Body) label() string {
	if b.Name != "" {
		return b.Name
	}
	return b.ID.String()
}
