package geom

type AABB struct {
	Min, Max Vector2
}

func NewAABB(min, max Vector2) AABB {
	return AABB{Min: min, Max: max}
}

// AABBOf returns the bounds of points; the zero box for an empty slice.
func AABBOf(points []Vector2) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Min.X = min(box.Min.X, p.X)
		box.Min.Y = min(box.Min.Y, p.Y)
		box.Max.X = max(box.Max.X, p.X)
		box.Max.Y = max(box.Max.Y, p.Y)
	}
	return box
}

func (aabb AABB) Overlaps(other AABB) bool {
	return aabb.Min.X <= other.Max.X && aabb.Max.X >= other.Min.X &&
		aabb.Min.Y <= other.Max.Y && aabb.Max.Y >= other.Min.Y
}

func (aabb AABB) Contains(point Vector2) bool {
	return point.X >= aabb.Min.X && point.X <= aabb.Max.X &&
		point.Y >= aabb.Min.Y && point.Y <= aabb.Max.Y
}

func (aabb AABB) Center() Vector2 {
	return Vector2{
		X: (aabb.Min.X + aabb.Max.X) * 0.5,
		Y: (aabb.Min.Y + aabb.Max.Y) * 0.5,
	}
}

// ClosestPoint clamps point into the box.
func (aabb AABB) ClosestPoint(point Vector2) Vector2 {
	return Vector2{
		X: Clamp(point.X, aabb.Min.X, aabb.Max.X),
		Y: Clamp(point.Y, aabb.Min.Y, aabb.Max.Y),
	}
}

func (aabb AABB) Expand(margin float64) AABB {
	return AABB{
		Min: Vector2{X: aabb.Min.X - margin, Y: aabb.Min.Y - margin},
		Max: Vector2{X: aabb.Max.X + margin, Y: aabb.Max.Y + margin},
	}
}
