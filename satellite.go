package satorb

import (
	"fmt"

	kitlog "github.com/go-kit/kit/log"
)

// Satellite composes one orbit, one propulsion system, a name and auxiliary
// attitude angles. The scheduler calls Update once per tick; the satellite
// keeps the cumulative mission clock which drives maneuver execution.
type Satellite struct {
	orbit  *Orbit
	planet *Planet
	prop   *Propulsion
	name   string

	// Attitude angles consumed by the renderer only, no physics.
	rx, ry, rz float64

	elapsed float64 // mission clock (s)
	logger  kitlog.Logger
}

// NewSatellite creates a satellite around the given planet. The orbit is
// rebuilt from the prototype's elements so the satellite owns an independent
// deep copy.
func NewSatellite(proto *Orbit, planet *Planet, prop *Propulsion, name string) (*Satellite, error) {
	orbit, err := NewOrbit(planet, proto.A(), proto.Ecc(), proto.Inc(), proto.Node(), proto.ArgPeri(), proto.Tp())
	if err != nil {
		return nil, fmt.Errorf("satellite %q: %w", name, err)
	}
	return &Satellite{
		orbit:  orbit,
		planet: planet,
		prop:   prop,
		name:   name,
		logger: kitlog.NewNopLogger(),
	}, nil
}

// SetLogger attaches a structured logger to the satellite and its propulsion.
func (s *Satellite) SetLogger(l kitlog.Logger) {
	s.logger = kitlog.With(l, "sat", s.name)
	if s.prop != nil {
		s.prop.SetLogger(s.logger)
	}
}

// Update advances the satellite by one tick: perturbations, anomaly
// propagation, then any maneuver due on the mission clock.
func (s *Satellite) Update(dt float64) error {
	s.elapsed += dt
	s.orbit.Update(dt)
	if err := s.orbit.UpdatePosition(dt); err != nil {
		return fmt.Errorf("satellite %q: %w", s.name, err)
	}
	if s.prop != nil {
		s.prop.ExecuteManeuvers(s.elapsed)
	}
	return nil
}

// Reset zeroes the mission clock and resets the orbit to its epoch state.
func (s *Satellite) Reset() {
	s.elapsed = 0
	s.orbit.Reset()
}

// CurrentPosition returns the satellite position as a polar point, a snapshot
// safe to hand to other goroutines.
func (s *Satellite) CurrentPosition() PointPol {
	return s.orbit.PositionPoint()
}

// Orbit returns the satellite's orbit.
func (s *Satellite) Orbit() *Orbit { return s.orbit }

// Planet returns the central body.
func (s *Satellite) Planet() *Planet { return s.planet }

// Propulsion returns the propulsion system.
func (s *Satellite) Propulsion() *Propulsion { return s.prop }

// Name returns the satellite name.
func (s *Satellite) Name() string { return s.name }

// Elapsed returns the cumulative mission time in seconds.
func (s *Satellite) Elapsed() float64 { return s.elapsed }

// Rx returns the attitude angle around the x axis.
func (s *Satellite) Rx() float64 { return s.rx }

// Ry returns the attitude angle around the y axis.
func (s *Satellite) Ry() float64 { return s.ry }

// Rz returns the attitude angle around the z axis.
func (s *Satellite) Rz() float64 { return s.rz }

// SetAttitude sets the three rendering attitude angles.
func (s *Satellite) SetAttitude(rx, ry, rz float64) {
	s.rx, s.ry, s.rz = rx, ry, rz
}

// String implements the Stringer interface.
func (s *Satellite) String() string {
	return fmt.Sprintf("%s: %s", s.name, s.orbit)
}
