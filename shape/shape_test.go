package shape

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x5844/collision-2d/geom"
)

func vec(x, y float64) geom.Vector2 { return geom.NewVector2(x, y) }

func square(t *testing.T) *Polygon {
	t.Helper()
	p, err := NewPolygon(vec(0, 0), []geom.Vector2{vec(-1, -1), vec(1, -1), vec(1, 1), vec(-1, 1)})
	require.NoError(t, err)
	return p
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "circle", KindCircle.String())
	assert.Equal(t, "polygon", KindPolygon.String())
	assert.Equal(t, "rectangle", KindRectangle.String())
	assert.Equal(t, "unknown", Kind(42).String())
	assert.Equal(t, []Kind{KindCircle, KindPolygon, KindRectangle}, Kinds())
}

func TestNewPolygonValidation(t *testing.T) {
	tests := []struct {
		name  string
		verts []geom.Vector2
		err   error
	}{
		{"too few", []geom.Vector2{vec(0, 0), vec(1, 0)}, ErrTooFewVertices},
		{"collinear", []geom.Vector2{vec(0, 0), vec(1, 0), vec(2, 0)}, ErrDegenerate},
		{"concave", []geom.Vector2{vec(0, 0), vec(4, 0), vec(4, 4), vec(2, 1), vec(0, 4)}, ErrNotConvex},
		{"pentagram", []geom.Vector2{
			vec(0, 10), vec(5.88, -8.09), vec(-9.51, 3.09), vec(9.51, 3.09), vec(-5.88, -8.09),
		}, ErrNotConvex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPolygon(vec(0, 0), tt.verts)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestNewPolygonRewindsClockwise(t *testing.T) {
	p, err := NewPolygon(vec(0, 0), []geom.Vector2{vec(-1, 1), vec(1, 1), vec(1, -1), vec(-1, -1)})
	require.NoError(t, err)
	assert.Greater(t, signedArea(p.Vertices()), 0.0)
}

func TestNewPolygonToleratesDuplicateVertex(t *testing.T) {
	p, err := NewPolygon(vec(0, 0), []geom.Vector2{vec(0, 0), vec(2, 0), vec(2, 0), vec(2, 2), vec(0, 2)})
	require.NoError(t, err)

	axes, edges := p.AxesWithEdges()
	require.Len(t, axes, 4)
	require.Len(t, edges, 4)
	for _, a := range axes {
		assert.False(t, math.IsNaN(a.X) || math.IsNaN(a.Y))
		assert.InDelta(t, 1.0, a.Magnitude(), 1e-12)
	}
}

func TestPolygonAxesAreUnitEdgeNormals(t *testing.T) {
	p := square(t)
	p.SetPosition(vec(10, 5))

	axes, edges := p.AxesWithEdges()
	require.Len(t, axes, 4)
	for i, a := range axes {
		assert.InDelta(t, 1.0, a.Magnitude(), 1e-12)
		assert.InDelta(t, 0.0, a.Dot(edges[i].Vector()), 1e-12)
	}
	assert.Equal(t, vec(9, 4), edges[0].A)
	assert.Equal(t, vec(11, 4), edges[0].B)
	assert.Equal(t, axes, p.Axes())
}

func TestPolygonTransform(t *testing.T) {
	p := square(t)
	p.SetPosition(vec(10, 0))
	p.SetRotation(90)

	verts := p.TransformedVertices()
	require.Len(t, verts, 4)
	// (-1,-1) rotated 90 is (1,-1)
	assert.True(t, verts[0].ApproxEqual(vec(11, -1), 1e-9), "got %v", verts[0])
	assert.Equal(t, vec(10, 0), p.Center())

	p.SetRotation(450)
	assert.Equal(t, 90.0, p.Rotation())
}

func TestPolygonProject(t *testing.T) {
	p := square(t)
	p.SetPosition(vec(3, 0))

	proj := p.Project(vec(2, 0))
	assert.InDelta(t, 2.0, proj.Min, 1e-12)
	assert.InDelta(t, 4.0, proj.Max, 1e-12)

	p.SetRotation(45)
	proj = p.Project(vec(0, 1))
	assert.InDelta(t, -math.Sqrt2, proj.Min, 1e-9)
	assert.InDelta(t, math.Sqrt2, proj.Max, 1e-9)
}

func TestPolygonContains(t *testing.T) {
	p := square(t)
	p.SetPosition(vec(5, 5))
	p.SetRotation(45)

	assert.True(t, p.Contains(vec(5, 5)))
	assert.True(t, p.Contains(vec(5, 6.3)))
	assert.False(t, p.Contains(vec(6.1, 6.1)))
	assert.False(t, p.Contains(vec(50, 5)))
	assert.True(t, p.ContainsLocal(vec(0.9, 0.9)))
}

func TestCircle(t *testing.T) {
	_, err := NewCircle(vec(0, 0), 0)
	require.ErrorIs(t, err, ErrInvalidRadius)

	c, err := NewCircle(vec(2, 3), 5)
	require.NoError(t, err)

	assert.Empty(t, c.Axes())
	assert.Empty(t, c.TransformedVertices())
	proj := c.Project(vec(0, 10))
	assert.InDelta(t, -2.0, proj.Min, 1e-12)
	assert.InDelta(t, 8.0, proj.Max, 1e-12)
	assert.True(t, c.Contains(vec(6, 3)))
	assert.False(t, c.Contains(vec(7, 3)))
	assert.Equal(t, geom.NewAABB(vec(-3, -2), vec(7, 8)), c.AABB())
}

func TestRectangle(t *testing.T) {
	_, err := NewRectangle(vec(0, 0), 0, 5)
	require.ErrorIs(t, err, ErrInvalidSize)

	r, err := NewRectangle(vec(0, 0), 40, 20)
	require.NoError(t, err)
	assert.Equal(t, KindRectangle, r.Kind())
	assert.Len(t, r.Axes(), 4)
	assert.Equal(t, geom.NewAABB(vec(-20, -10), vec(20, 10)), r.AABB())

	assert.Equal(t, vec(20, 10), r.ClosestPoint(vec(30, 30)))
	assert.Equal(t, vec(5, 5), r.ClosestPoint(vec(5, 5)))

	r.SetRotation(90)
	closest := r.ClosestPoint(vec(30, 30))
	assert.True(t, closest.ApproxEqual(vec(10, 20), 1e-9), "got %v", closest)

	var s Shape = r
	clone := s.Clone()
	clone.Translate(vec(100, 0))
	assert.Equal(t, KindRectangle, clone.Kind())
	assert.Equal(t, vec(0, 0), r.Position())
}

func TestRandomPolygonIsConvex(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 200 {
		p, err := RandomPolygon(rng, vec(0, 0), DefaultPolygonRadius, DefaultPolygonMinSides, DefaultPolygonMaxSides)
		require.NoError(t, err)
		n := len(p.Vertices())
		assert.GreaterOrEqual(t, n, DefaultPolygonMinSides)
		assert.LessOrEqual(t, n, DefaultPolygonMaxSides)
		for _, v := range p.Vertices() {
			assert.InDelta(t, DefaultPolygonRadius, v.Magnitude(), 1e-9)
		}
	}
}

func TestRegularPolygon(t *testing.T) {
	p, err := RegularPolygon(vec(0, 0), 6, 10)
	require.NoError(t, err)
	assert.Len(t, p.Axes(), 6)

	_, err = RegularPolygon(vec(0, 0), 2, 10)
	require.ErrorIs(t, err, ErrTooFewVertices)
}
