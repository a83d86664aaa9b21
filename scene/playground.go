package scene

import (
	"fmt"
	"math/rand/v2"

	"github.com/0x5844/collision-2d/geom"
	"github.com/0x5844/collision-2d/shape"
	"github.com/0x5844/collision-2d/world"
)

const (
	CanvasWidth  = 720
	CanvasHeight = 400
)

type PlaygroundConfig struct {
	Circles    int
	Rectangles int
	Polygons   int
	Width      float64
	Height     float64
}

func DefaultPlayground() PlaygroundConfig {
	return PlaygroundConfig{
		Circles:    4,
		Rectangles: 3,
		Polygons:   10,
		Width:      CanvasWidth,
		Height:     CanvasHeight,
	}
}

// GeneratePlayground scatters shapes over the canvas so that every shape lies
// inside it. All bodies start free.
func GeneratePlayground(w *world.World, cfg PlaygroundConfig, rng *rand.Rand) ([]*world.Body, error) {
	bodies := make([]*world.Body, 0, cfg.Circles+cfg.Rectangles+cfg.Polygons)
	add := func(name string, s shape.Shape) {
		b := world.NewBody(name, s)
		w.AddBody(b)
		bodies = append(bodies, b)
	}

	for i := range cfg.Circles {
		r := float64(shape.DefaultCircleRadius)
		c, err := shape.NewCircle(randomPoint(rng, cfg, r), r)
		if err != nil {
			return nil, err
		}
		add(fmt.Sprintf("circle-%d", i+1), c)
	}

	for i := range cfg.Rectangles {
		half := float64(shape.DefaultRectangleSize) / 2
		r, err := shape.NewRectangle(randomPoint(rng, cfg, half),
			shape.DefaultRectangleSize, shape.DefaultRectangleSize)
		if err != nil {
			return nil, err
		}
		add(fmt.Sprintf("rectangle-%d", i+1), r)
	}

	for i := range cfg.Polygons {
		r := float64(shape.DefaultPolygonRadius)
		p, err := shape.RandomPolygon(rng, randomPoint(rng, cfg, r), r,
			shape.DefaultPolygonMinSides, shape.DefaultPolygonMaxSides)
		if err != nil {
			return nil, err
		}
		add(fmt.Sprintf("polygon-%d", i+1), p)
	}

	return bodies, nil
}

// Canvas returns the playground bounds.
func (cfg PlaygroundConfig) Canvas() geom.AABB {
	return geom.NewAABB(geom.Vector2{}, geom.Vector2{X: cfg.Width, Y: cfg.Height})
}

// randomPoint picks a center that keeps a shape of the given extent on the
// canvas. A canvas smaller than the shape yields its center.
func randomPoint(rng *rand.Rand, cfg PlaygroundConfig, extent float64) geom.Vector2 {
	area := cfg.Canvas().Expand(-extent)
	return geom.Vector2{
		X: uniform(rng, area.Min.X, area.Max.X, area.Center().X),
		Y: uniform(rng, area.Min.Y, area.Max.Y, area.Center().Y),
	}
}

func uniform(rng *rand.Rand, lo, hi, mid float64) float64 {
	if hi <= lo {
		return mid
	}
	return lo + rng.Float64()*(hi-lo)
}
