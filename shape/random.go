package shape

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/0x5844/collision-2d/geom"
)

const (
	DefaultPolygonRadius   = 40
	DefaultPolygonMinSides = 5
	DefaultPolygonMaxSides = 10

	maxRandomAttempts = 16
)

// RandomPolygon places between minSides and maxSides vertices at sorted random
// angles on a circle of the given radius, which always yields a convex ring.
func RandomPolygon(rng *rand.Rand, position geom.Vector2, radius float64, minSides, maxSides int) (*Polygon, error) {
	minSides = max(minSides, 3)
	maxSides = max(maxSides, minSides)

	var err error
	for range maxRandomAttempts {
		n := minSides + rng.IntN(maxSides-minSides+1)
		angles := make([]float64, n)
		for i := range angles {
			angles[i] = rng.Float64() * 2 * math.Pi
		}
		slices.Sort(angles)

		verts := make([]geom.Vector2, n)
		for i, a := range angles {
			verts[i] = geom.Vector2{X: math.Cos(a) * radius, Y: math.Sin(a) * radius}
		}

		var p *Polygon
		if p, err = NewPolygon(position, verts); err == nil {
			return p, nil
		}
	}
	return nil, err
}

// RegularPolygon returns an n-gon with circumradius radius.
func RegularPolygon(position geom.Vector2, sides int, radius float64) (*Polygon, error) {
	verts := make([]geom.Vector2, sides)
	for i := range verts {
		a := 2 * math.Pi * float64(i) / float64(sides)
		verts[i] = geom.Vector2{X: math.Cos(a) * radius, Y: math.Sin(a) * radius}
	}
	return NewPolygon(position, verts)
}
