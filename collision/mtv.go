package collision

import (
	"math"

	"github.com/0x5844/collision-2d/geom"
	"github.com/0x5844/collision-2d/shape"
)

// MTV is the minimum translation vector separating two overlapping shapes.
// Axis is a unit vector oriented from the first shape toward the second, so
// moving the second shape by Vector() (or the first by its negation) separates them.
type MTV struct {
	Axis    geom.Vector2
	Overlap float64
	// Edge is the world-space polygon edge the winning axis came from, when known.
	Edge *geom.Edge
}

func (m *MTV) Vector() geom.Vector2 {
	return m.Axis.Scale(m.Overlap)
}

// Candidate is a separating-axis candidate with its originating edge, if any.
type Candidate struct {
	Axis geom.Vector2
	Edge *geom.Edge
}

func candidatesOf(s shape.Shape) []Candidate {
	axes, edges := s.AxesWithEdges()
	out := make([]Candidate, len(axes))
	for i := range axes {
		out[i] = Candidate{Axis: axes[i], Edge: &edges[i]}
	}
	return out
}

// Solve projects a and b on every candidate axis. It returns nil as soon as one
// axis separates them, otherwise the axis with the smallest separation amount.
// Nested projections add the smaller boundary gap to the raw overlap. Zero-length
// axes are skipped; nil is returned when no usable axis remains.
func Solve(a, b shape.Shape, candidates []Candidate) *MTV {
	best := math.MaxFloat64
	var (
		winner       *Candidate
		winnerP1     geom.Projection
		winnerP2     geom.Projection
		winnerNormal geom.Vector2
	)

	for i := range candidates {
		axis, ok := candidates[i].Axis.TryNormalize()
		if !ok {
			continue
		}

		p1 := a.Project(axis)
		p2 := b.Project(axis)
		if !p1.Overlaps(p2) {
			return nil
		}

		if amount := p1.SeparationAmount(p2); amount < best {
			best = amount
			winner = &candidates[i]
			winnerNormal = axis
			winnerP1, winnerP2 = p1, p2
		}
	}

	if winner == nil {
		return nil
	}

	// Point from a's interval toward b's. With this sign, moving b by the
	// separation amount leaves the intervals touching, nested or not.
	if winnerP2.Min+winnerP2.Max < winnerP1.Min+winnerP1.Max {
		winnerNormal = winnerNormal.Negate()
	}

	return &MTV{Axis: winnerNormal, Overlap: best, Edge: winner.Edge}
}
