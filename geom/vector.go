package geom

import "math"

// Epsilon is the magnitude below which a vector is treated as zero length.
const Epsilon = 1e-9

type Vector2 struct {
	X, Y float64
}

func NewVector2(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

func (v1 Vector2) Add(v2 Vector2) Vector2 {
	return Vector2{X: v1.X + v2.X, Y: v1.Y + v2.Y}
}

func (v1 Vector2) Sub(v2 Vector2) Vector2 {
	return Vector2{X: v1.X - v2.X, Y: v1.Y - v2.Y}
}

func (v Vector2) Scale(factor float64) Vector2 {
	return Vector2{X: v.X * factor, Y: v.Y * factor}
}

func (v Vector2) Negate() Vector2 {
	return Vector2{X: -v.X, Y: -v.Y}
}

func (v Vector2) Dot(other Vector2) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Cross returns the z component of the 3D cross product.
func (v Vector2) Cross(other Vector2) float64 {
	return v.X*other.Y - v.Y*other.X
}

func (v Vector2) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vector2) MagnitudeSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns the unit vector, or the zero vector when v is shorter than Epsilon.
func (v Vector2) Normalize() Vector2 {
	n, _ := v.TryNormalize()
	return n
}

// TryNormalize reports false instead of dividing by a near-zero magnitude.
func (v Vector2) TryNormalize() (Vector2, bool) {
	mag := v.Magnitude()
	if mag < Epsilon || math.IsNaN(mag) || math.IsInf(mag, 0) {
		return Vector2{}, false
	}
	invMag := 1.0 / mag
	return Vector2{X: v.X * invMag, Y: v.Y * invMag}, true
}

// Perpendicular returns (-y, x).
func (v Vector2) Perpendicular() Vector2 {
	return Vector2{X: -v.Y, Y: v.X}
}

// Rotate rotates v counter-clockwise by degrees.
func (v Vector2) Rotate(degrees float64) Vector2 {
	if degrees == 0 {
		return v
	}
	sin, cos := math.Sincos(degrees * math.Pi / 180)
	return Vector2{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos}
}

func (v Vector2) Distance(other Vector2) float64 {
	return v.Sub(other).Magnitude()
}

func (v Vector2) DistanceSquared(other Vector2) float64 {
	return v.Sub(other).MagnitudeSquared()
}

func (v Vector2) IsZero() bool {
	return v.MagnitudeSquared() < Epsilon*Epsilon
}

// ApproxEqual compares component-wise within tol.
func (v Vector2) ApproxEqual(other Vector2, tol float64) bool {
	return math.Abs(v.X-other.X) <= tol && math.Abs(v.Y-other.Y) <= tol
}

func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
