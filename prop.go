package satorb

import (
	"fmt"

	"github.com/ChristopherRabotin/ode"
	"github.com/ready-steady/ode/dopri"
)

// Propagator selects the anomaly propagation strategy of an orbit. All the
// call sites of this system require only the closed-form path; the numerical
// strategies integrate the generic two-component (r, dr/dt) state under the
// central-body acceleration -μ/r² and exist as future-proofing for
// non-Keplerian forces.
type Propagator uint8

const (
	// ClosedFormKepler advances the mean anomaly linearly and re-solves
	// Kepler's equation. Default, and invariant to step decomposition.
	ClosedFormKepler Propagator = iota + 1
	// FixedStepRK4 performs one fixed Runge-Kutta 4 step over the radial
	// state.
	FixedStepRK4
	// AdaptiveDormandPrince performs an embedded Dormand-Prince step with
	// live error control over the radial state. The original program carried
	// an RKF 7(8) loop whose error estimate was always zero; that dead code
	// is not reproduced here.
	AdaptiveDormandPrince
)

// String implements the Stringer interface.
func (p Propagator) String() string {
	switch p {
	case ClosedFormKepler:
		return "closed-form Kepler"
	case FixedStepRK4:
		return "fixed-step RK4"
	case AdaptiveDormandPrince:
		return "adaptive Dormand-Prince"
	}
	return fmt.Sprintf("unknown propagator %d", uint8(p))
}

// radialIntegrable exposes the orbit's (r, dr/dt) state through the
// ode.Integrable contract for exactly one step.
type radialIntegrable struct {
	o       *Orbit
	stepped bool
}

// GetState implements the ode.Integrable interface.
func (ri *radialIntegrable) GetState() []float64 {
	return []float64{ri.o.rState[0], ri.o.rState[1]}
}

// SetState implements the ode.Integrable interface.
func (ri *radialIntegrable) SetState(t float64, s []float64) {
	ri.o.rState[0] = s[0]
	ri.o.rState[1] = s[1]
	ri.stepped = true
}

// Stop implements the ode.Integrable interface.
func (ri *radialIntegrable) Stop(t float64) bool {
	return ri.stepped
}

// Func implements the ode.Integrable interface: dr/dt = ṙ, dṙ/dt = -μ/r².
func (ri *radialIntegrable) Func(t float64, s []float64) []float64 {
	return []float64{s[1], -ri.o.planet.GM() / (s[0] * s[0])}
}

func (o *Orbit) advanceRK4(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("non-positive time step %g s", dt)
	}
	ode.NewRK4(0, dt, &radialIntegrable{o: o}).Solve()
	return nil
}

func (o *Orbit) advanceDormandPrince(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("non-positive time step %g s", dt)
	}
	integrator, err := dopri.New(dopri.DefaultConfig())
	if err != nil {
		return err
	}
	μ := o.planet.GM()
	sol, _, err := integrator.Compute(func(x float64, y, f []float64) {
		f[0] = y[1]
		f[1] = -μ / (y[0] * y[0])
	}, []float64{o.rState[0], o.rState[1]}, []float64{0, dt})
	if err != nil {
		return err
	}
	o.rState[0] = sol[len(sol)-2]
	o.rState[1] = sol[len(sol)-1]
	return nil
}
