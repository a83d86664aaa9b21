package geom

import "math"

// Projection is the interval a shape covers on a unit axis. Min <= Max.
type Projection struct {
	Min, Max float64
}

func NewProjection(min, max float64) Projection {
	return Projection{Min: min, Max: max}
}

// Overlaps is inclusive: touching intervals overlap.
func (p Projection) Overlaps(other Projection) bool {
	return p.Min <= other.Max && other.Min <= p.Max
}

// OverlapAmount is the length of the shared interval, 0 when disjoint.
func (p Projection) OverlapAmount(other Projection) float64 {
	if !p.Overlaps(other) {
		return 0
	}
	return math.Min(p.Max, other.Max) - math.Max(p.Min, other.Min)
}

// Contains reports whether other is nested inside p.
func (p Projection) Contains(other Projection) bool {
	if !p.Overlaps(other) {
		return false
	}
	return other.Min >= p.Min && other.Max <= p.Max
}

// SeparationAmount is the overlap plus, when one interval is nested in the other,
// the smaller of the two boundary gaps. Translating by it leaves the intervals touching.
func (p Projection) SeparationAmount(other Projection) float64 {
	amount := p.OverlapAmount(other)
	if p.Contains(other) || other.Contains(p) {
		amount += math.Min(math.Abs(p.Min-other.Min), math.Abs(p.Max-other.Max))
	}
	return amount
}
