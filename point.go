package satorb

import (
	"fmt"
	"math"

	"github.com/gonum/floats"
)

// pointε is the absolute tolerance of point equality. Conversions are exact up
// to floating point anyway, so this only absorbs round-trip noise.
const pointε = 1e-9

// Point is a position in 3D space which exposes both its Cartesian and its
// polar form. Implementations are value objects: conversions are pure and
// never fail.
type Point interface {
	// Cartesian returns the x, y, z coordinates in kilometers.
	Cartesian() (x, y, z float64)
	// Polar returns the radius (km), the azimuth θ in [0, 2π) and the
	// elevation φ in [-π/2, π/2].
	Polar() (r, θ, φ float64)
}

// PointCart is a point stored in Cartesian form.
type PointCart struct {
	X, Y, Z float64
}

// NewPointCart returns a Cartesian point.
func NewPointCart(x, y, z float64) PointCart {
	return PointCart{x, y, z}
}

// PointCartFrom converts any point to its Cartesian form.
func PointCartFrom(p Point) PointCart {
	x, y, z := p.Cartesian()
	return PointCart{x, y, z}
}

// Cartesian implements the Point interface.
func (p PointCart) Cartesian() (x, y, z float64) {
	return p.X, p.Y, p.Z
}

// Polar implements the Point interface. The azimuth uses the two-argument
// arctangent so axis-aligned points resolve to the correct quadrant, and the
// elevation is asin(z/r).
func (p PointCart) Polar() (r, θ, φ float64) {
	r = math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
	if r == 0 {
		return 0, 0, 0
	}
	θ = normalizeAngle(math.Atan2(p.Y, p.X))
	φ = math.Asin(p.Z / r)
	return
}

// Add returns the component-wise sum with another point.
func (p PointCart) Add(q Point) PointCart {
	x, y, z := q.Cartesian()
	return PointCart{p.X + x, p.Y + y, p.Z + z}
}

// Sub returns the component-wise difference with another point.
func (p PointCart) Sub(q Point) PointCart {
	x, y, z := q.Cartesian()
	return PointCart{p.X - x, p.Y - y, p.Z - z}
}

// Equals returns whether both points designate the same position.
func (p PointCart) Equals(q Point) bool {
	x, y, z := q.Cartesian()
	return floats.EqualWithinAbs(p.X, x, pointε) &&
		floats.EqualWithinAbs(p.Y, y, pointε) &&
		floats.EqualWithinAbs(p.Z, z, pointε)
}

// String implements the Stringer interface.
func (p PointCart) String() string {
	return fmt.Sprintf("[x,y,z] = [%f,%f,%f]", p.X, p.Y, p.Z)
}

// PointPol is a point stored in polar form: radius, azimuth θ, elevation φ.
type PointPol struct {
	R, Θ, Φ float64
}

// NewPointPol returns a polar point with the azimuth normalized to [0, 2π).
func NewPointPol(r, θ, φ float64) PointPol {
	return PointPol{r, normalizeAngle(θ), φ}
}

// PointPolFrom converts any point to its polar form.
func PointPolFrom(p Point) PointPol {
	r, θ, φ := p.Polar()
	return PointPol{r, θ, φ}
}

// Cartesian implements the Point interface.
func (p PointPol) Cartesian() (x, y, z float64) {
	sθ, cθ := math.Sincos(p.Θ)
	sφ, cφ := math.Sincos(p.Φ)
	x = p.R * cθ * cφ
	y = p.R * sθ * cφ
	z = p.R * sφ
	return
}

// Polar implements the Point interface.
func (p PointPol) Polar() (r, θ, φ float64) {
	return p.R, p.Θ, p.Φ
}

// Add returns the vector sum with another point, computed in Cartesian form
// and converted back to polar.
func (p PointPol) Add(q Point) PointPol {
	return PointPolFrom(PointCartFrom(p).Add(q))
}

// Sub returns the vector difference with another point, computed in Cartesian
// form and converted back to polar.
func (p PointPol) Sub(q Point) PointPol {
	return PointPolFrom(PointCartFrom(p).Sub(q))
}

// Equals returns whether both points designate the same position.
func (p PointPol) Equals(q Point) bool {
	return PointCartFrom(p).Equals(q)
}

// String implements the Stringer interface.
func (p PointPol) String() string {
	return fmt.Sprintf("[r,θ,φ] = [%f,%f,%f]", p.R, p.Θ, p.Φ)
}
