package geom

// Edge is a world-space segment of a polygon boundary.
type Edge struct {
	A, B Vector2
}

func (e Edge) Vector() Vector2 {
	return e.B.Sub(e.A)
}

// Normal returns the unit perpendicular of the edge, false for a degenerate edge.
func (e Edge) Normal() (Vector2, bool) {
	return e.Vector().Perpendicular().TryNormalize()
}

// ClosestPoint returns the point on the segment nearest to p.
func (e Edge) ClosestPoint(p Vector2) Vector2 {
	d := e.Vector()
	lenSq := d.MagnitudeSquared()
	if lenSq < Epsilon*Epsilon {
		return e.A
	}
	t := Clamp(p.Sub(e.A).Dot(d)/lenSq, 0, 1)
	return e.A.Add(d.Scale(t))
}

func (e Edge) DistanceTo(p Vector2) float64 {
	return e.ClosestPoint(p).Distance(p)
}
