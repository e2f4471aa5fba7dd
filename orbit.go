package satorb

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gonum/floats"
)

const (
	eccentricityε = 5e-5                         // 0.00005
	angleε        = (5e-3 / 360) * (2 * math.Pi) // 0.005 degrees
	distanceε     = 2e1                          // 20 km
)

// ErrInvalidOrbitElements is returned when orbital elements are rejected:
// e outside [0,1), a not strictly positive, or a periapsis below the surface
// of the central body.
var ErrInvalidOrbitElements = errors.New("invalid orbit elements")

// Orbit owns a set of Keplerian elements around a central body, the current
// anomaly state and the propagation algorithms. An Orbit instance is meant to
// be owned and mutated by a single scheduler goroutine; it performs no
// locking.
type Orbit struct {
	planet *Planet
	a      float64 // semi-major axis (km)
	e      float64 // eccentricity
	i      float64 // inclination (rad)
	Ω      float64 // longitude of the ascending node (rad)
	ω      float64 // argument of periapsis (rad)
	tp     float64 // epoch (s)

	anom  anomalies
	vel   float64 // auxiliary scalar velocity (km/s), mutated by drag only
	perts Perturbations

	method Propagator // locked on first UpdatePosition call
	rState [2]float64 // (r, dr/dt) state of the numerical strategies
}

// NewOrbit creates an orbit from its Keplerian elements, normalizes all the
// angles into [0, 2π) and resets the anomaly state from the epoch.
func NewOrbit(planet *Planet, a, e, i, Ω, ω, tp float64) (*Orbit, error) {
	if err := validateElements(planet, a, e); err != nil {
		return nil, err
	}
	o := &Orbit{
		planet: planet,
		a:      a,
		e:      e,
		i:      normalizeAngle(i),
		Ω:      normalizeAngle(Ω),
		ω:      normalizeAngle(ω),
		tp:     tp,
		perts:  PerturbationsFor(planet),
	}
	o.Reset()
	return o, nil
}

func validateElements(planet *Planet, a, e float64) error {
	if math.IsNaN(a) || math.IsNaN(e) {
		return fmt.Errorf("%w: a=%v e=%v", ErrInvalidOrbitElements, a, e)
	}
	if e < 0 || e >= 1 {
		return fmt.Errorf("%w: eccentricity %g not in [0,1)", ErrInvalidOrbitElements, e)
	}
	if a <= 0 {
		return fmt.Errorf("%w: semi-major axis %g km not positive", ErrInvalidOrbitElements, a)
	}
	if rp := a * (1 - e); rp <= planet.Radius() {
		return fmt.Errorf("%w: periapsis %g km does not clear %s (radius %g km)",
			ErrInvalidOrbitElements, rp, planet.Name(), planet.Radius())
	}
	return nil
}

// Reset recomputes the mean anomaly from the epoch as M = normalize(-n·tp)
// and re-derives the full anomaly state.
func (o *Orbit) Reset() {
	o.anom = solveAnomalies(-o.N()*o.tp, o.e, o.tol())
	o.syncAux()
}

func (o *Orbit) tol() float64 {
	return o.planet.cfg.SolverTolerance
}

// syncAux re-derives the auxiliary velocity (vis-viva) and the radial state
// of the numerical strategies from the current anomaly geometry.
func (o *Orbit) syncAux() {
	r := o.a * (1 - o.e*math.Cos(o.anom.e))
	o.vel = math.Sqrt(o.planet.GM() * (2/r - 1/o.a))
	p := o.a * (1 - o.e*o.e)
	o.rState[0] = r
	o.rState[1] = math.Sqrt(o.planet.GM()/p) * o.e * math.Sin(o.anom.ν)
}

// Update applies the first-order perturbations over dt by forward Euler:
// secular J2 drift on Ω and ω, and atmospheric drag on the auxiliary scalar
// velocity. Repeated small steps and one large step are not guaranteed to
// match on this path, unlike the closed-form anomaly propagation.
func (o *Orbit) Update(dt float64) {
	ΩDot, ωDot, vDot := o.perts.Perturb(o)
	o.Ω = normalizeAngle(o.Ω + ΩDot*dt)
	o.ω = normalizeAngle(o.ω + ωDot*dt)
	o.vel += vDot * dt
}

// UpdatePosition advances the anomaly state over dt with the strategy this
// orbit is locked on, defaulting to closed-form Kepler stepping.
func (o *Orbit) UpdatePosition(dt float64) error {
	m := o.method
	if m == 0 {
		m = ClosedFormKepler
	}
	return o.UpdatePositionWith(dt, m)
}

// UpdatePositionWith advances the anomaly state over dt with an explicit
// strategy. The first successful call locks the orbit on that strategy:
// closed-form and numerical stepping may not be mixed within a single
// instance. A rejected call leaves the orbit unlocked and usable.
func (o *Orbit) UpdatePositionWith(dt float64, strategy Propagator) error {
	if o.method != 0 && o.method != strategy {
		return fmt.Errorf("orbit locked on %s propagation, cannot switch to %s", o.method, strategy)
	}
	switch strategy {
	case ClosedFormKepler:
		o.anom = solveAnomalies(o.anom.m+o.N()*dt, o.e, o.tol())
	case FixedStepRK4:
		if err := o.advanceRK4(dt); err != nil {
			return err
		}
	case AdaptiveDormandPrince:
		if err := o.advanceDormandPrince(dt); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported propagation strategy %d", strategy)
	}
	o.method = strategy
	return nil
}

// PositionPoint returns the current position as a polar point: the radius
// from the eccentric anomaly, the azimuth and elevation from the argument of
// latitude ω+ν projected through the inclination and the ascending node.
func (o *Orbit) PositionPoint() PointPol {
	return o.pointFor(o.anom)
}

// PointAt returns the position the orbit would have at the given mean
// anomaly, without mutating the live anomaly state. It is meant for sampling
// full-orbit trajectories for display.
func (o *Orbit) PointAt(m float64) PointPol {
	return o.pointFor(solveAnomalies(m, o.e, o.tol()))
}

func (o *Orbit) pointFor(an anomalies) PointPol {
	r := o.a * (1 - o.e*math.Cos(an.e))
	sinu, cosu := math.Sincos(o.ω + an.ν)
	θ := normalizeAngle(o.Ω + math.Atan2(sinu*math.Cos(o.i), cosu))
	φ := math.Asin(math.Sin(o.i) * sinu)
	return PointPol{r, θ, φ}
}

// RV returns the Cartesian position and velocity vectors in the
// body-centered inertial frame.
func (o *Orbit) RV() (R, V []float64) {
	p := o.a * (1 - o.e*o.e)
	sinν, cosν := math.Sincos(o.anom.ν)
	denom := 1 + o.e*cosν
	R = PQW2ECI(o.i, o.ω, o.Ω, []float64{p * cosν / denom, p * sinν / denom, 0})
	vFact := math.Sqrt(o.planet.GM() / p)
	V = PQW2ECI(o.i, o.ω, o.Ω, []float64{-vFact * sinν, vFact * (o.e + cosν), 0})
	return
}

// HVec returns the orbital angular momentum vector R×V in km²/s.
func (o *Orbit) HVec() []float64 {
	R, V := o.RV()
	return cross(R, V)
}

// HNorm returns the norm of the angular momentum, sqrt(μ·p).
func (o *Orbit) HNorm() float64 {
	return norm(o.HVec())
}

// SinFlightPathAngle returns the sine of the flight path angle, the angle of
// the velocity above the local horizontal. Zero at the apsides and for
// circular orbits.
func (o *Orbit) SinFlightPathAngle() float64 {
	R, V := o.RV()
	return dot(unit(R), unit(V))
}

// RNorm returns the norm of the radius vector without computing the vector.
func (o *Orbit) RNorm() float64 {
	return o.a * (1 - o.e*math.Cos(o.anom.e))
}

// N returns the mean motion sqrt(μ/a³) in rad/s.
func (o *Orbit) N() float64 {
	return math.Sqrt(o.planet.GM() / math.Pow(o.a, 3))
}

// Period returns the orbital period.
func (o *Orbit) Period() time.Duration {
	seconds := twoPi / o.N()
	duration, _ := time.ParseDuration(fmt.Sprintf("%.6fs", seconds))
	return duration
}

// Apoapsis returns the apoapsis radius a(1+e) in km.
func (o *Orbit) Apoapsis() float64 { return o.a * (1 + o.e) }

// Periapsis returns the periapsis radius a(1-e) in km.
func (o *Orbit) Periapsis() float64 { return o.a * (1 - o.e) }

// Velocity returns the auxiliary scalar velocity in km/s. It is initialized
// from the vis-viva at reset and decays under atmospheric drag.
func (o *Orbit) Velocity() float64 { return o.vel }

// RadialState returns the (r, dr/dt) state maintained by the numerical
// propagation strategies.
func (o *Orbit) RadialState() (r, rDot float64) {
	return o.rState[0], o.rState[1]
}

// Planet returns the central body.
func (o *Orbit) Planet() *Planet { return o.planet }

// A returns the semi-major axis in km.
func (o *Orbit) A() float64 { return o.a }

// Ecc returns the eccentricity.
func (o *Orbit) Ecc() float64 { return o.e }

// Inc returns the inclination in rad.
func (o *Orbit) Inc() float64 { return o.i }

// Node returns the longitude of the ascending node Ω in rad.
func (o *Orbit) Node() float64 { return o.Ω }

// ArgPeri returns the argument of periapsis ω in rad.
func (o *Orbit) ArgPeri() float64 { return o.ω }

// Tp returns the epoch in seconds.
func (o *Orbit) Tp() float64 { return o.tp }

// M returns the mean anomaly in rad.
func (o *Orbit) M() float64 { return o.anom.m }

// EccentricAnom returns the eccentric anomaly in rad.
func (o *Orbit) EccentricAnom() float64 { return o.anom.e }

// TrueAnom returns the true anomaly in rad.
func (o *Orbit) TrueAnom() float64 { return o.anom.ν }

// SetA sets the semi-major axis and re-derives the auxiliary state, which
// depends on it.
func (o *Orbit) SetA(a float64) error {
	if err := validateElements(o.planet, a, o.e); err != nil {
		return err
	}
	o.a = a
	o.syncAux()
	return nil
}

// SetEcc sets the eccentricity and re-derives the anomaly and auxiliary
// state, which depend on it.
func (o *Orbit) SetEcc(e float64) error {
	if err := validateElements(o.planet, o.a, e); err != nil {
		return err
	}
	o.e = e
	o.anom = solveAnomalies(o.anom.m, o.e, o.tol())
	o.syncAux()
	return nil
}

// SetInc sets the inclination, normalized to [0, 2π).
func (o *Orbit) SetInc(i float64) { o.i = normalizeAngle(i) }

// SetNode sets the longitude of the ascending node, normalized to [0, 2π).
func (o *Orbit) SetNode(Ω float64) { o.Ω = normalizeAngle(Ω) }

// SetArgPeri sets the argument of periapsis, normalized to [0, 2π).
func (o *Orbit) SetArgPeri(ω float64) { o.ω = normalizeAngle(ω) }

// SetTp sets the epoch. The anomaly state is untouched until Reset.
func (o *Orbit) SetTp(tp float64) { o.tp = tp }

// SetM sets the mean anomaly directly, bypassing Reset, and re-derives the
// dependent anomalies. External save/load collaborators use it to restore a
// stored anomaly exactly.
func (o *Orbit) SetM(m float64) {
	o.anom = solveAnomalies(m, o.e, o.tol())
	o.syncAux()
}

// Copy returns a deep copy of this orbit. The central body is shared, all
// elements and the anomaly state are copied by value.
func (o *Orbit) Copy() *Orbit {
	c := *o
	return &c
}

// Equals returns whether both orbits carry the same elements around the same
// body, with free anomaly state.
func (o *Orbit) Equals(o1 *Orbit) (bool, error) {
	if !o.planet.Equals(o1.planet) {
		return false, errors.New("different central body")
	}
	if !floats.EqualWithinAbs(o.a, o1.a, distanceε) {
		return false, errors.New("semi major axis invalid")
	}
	if !floats.EqualWithinAbs(o.e, o1.e, eccentricityε) {
		return false, errors.New("eccentricity invalid")
	}
	if !floats.EqualWithinAbs(o.i, o1.i, angleε) {
		return false, errors.New("inclination invalid")
	}
	if !floats.EqualWithinAbs(o.Ω, o1.Ω, angleε) {
		return false, errors.New("RAAN invalid")
	}
	if !floats.EqualWithinAbs(o.ω, o1.ω, angleε) {
		return false, errors.New("argument of periapsis invalid")
	}
	return true, nil
}

// String implements the Stringer interface for diagnostics; it is not a
// stable serialization contract.
func (o *Orbit) String() string {
	return fmt.Sprintf("a=%.1f e=%.4f i=%.3f Ω=%.3f ω=%.3f tp=%.1f M=%.6f",
		o.a, o.e, Rad2deg(o.i), Rad2deg(o.Ω), Rad2deg(o.ω), o.tp, o.anom.m)
}
