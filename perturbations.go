package satorb

import "math"

// Perturbations defines how first-order perturbations are applied during
// Orbit.Update. The zero value disables every effect.
type Perturbations struct {
	J2 float64 // zonal factor of the central body; 0 disables the oblateness drift

	// Atmospheric drag, active only below AltitudeCeiling.
	Cd              float64 // drag coefficient
	AreaToMass      float64 // area-to-mass ratio (m^2/kg)
	ScaleHeight     float64 // exponential scale height (km)
	SeaLevelDensity float64 // density at zero altitude (kg/m^3)
	AltitudeCeiling float64 // km above the surface
}

// PerturbationsFor returns the perturbation set for the given central body,
// with the drag model taken from the planet's configuration.
func PerturbationsFor(p *Planet) Perturbations {
	return Perturbations{
		J2:              p.J2(),
		Cd:              p.cfg.DragCd,
		AreaToMass:      p.cfg.DragAreaToMass,
		ScaleHeight:     p.cfg.DragScaleHeight,
		SeaLevelDensity: p.cfg.DragSeaLevelDensity,
		AltitudeCeiling: p.cfg.DragAltitudeCeiling,
	}
}

func (p Perturbations) isEmpty() bool {
	return p.J2 == 0 && (p.Cd == 0 || p.SeaLevelDensity == 0)
}

// Density returns the atmospheric density at the given altitude (km) from the
// exponential model ρ = ρ₀·exp(-altitude/scaleHeight), in kg/m^3.
func (p Perturbations) Density(altitude float64) float64 {
	if p.ScaleHeight == 0 {
		return 0
	}
	return p.SeaLevelDensity * math.Exp(-altitude/p.ScaleHeight)
}

// Perturb returns the instantaneous rates (dΩ/dt, dω/dt, dv/dt) at the
// orbit's current state. The caller integrates them forward-Euler over its
// time step: only Ω, ω and the auxiliary scalar velocity are affected, never
// a or e directly.
func (p Perturbations) Perturb(o *Orbit) (ΩDot, ωDot, vDot float64) {
	if p.isEmpty() {
		return 0, 0, 0
	}
	r := o.PositionPoint().R
	if p.J2 != 0 {
		Rr := o.planet.Radius() / r
		j2Term := 1.5 * p.J2 * Rr * Rr
		ΩDot = j2Term * math.Cos(o.i)
		sini := math.Sin(o.i)
		ωDot = j2Term * (2.5*sini*sini - 1)
	}
	// Drag applies below the ceiling altitude. The original compared the
	// orbital radius against the ceiling, which for any real body is never
	// true; the threshold is an altitude.
	altitude := r - o.planet.Radius()
	if p.Cd != 0 && altitude >= 0 && altitude < p.AltitudeCeiling {
		ρ := p.Density(altitude)
		vSI := o.vel * 1e3 // km/s to m/s
		// Deceleration in m/s^2, converted back to km/s^2. The original mixed
		// SI density with km state; the conversion keeps the units coherent.
		dragSI := -0.5 * p.Cd * p.AreaToMass * ρ * vSI * vSI
		vDot = dragSI / 1e3
	}
	return ΩDot, ωDot, vDot
}
