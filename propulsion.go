package satorb

import (
	"fmt"
	"math"

	kitlog "github.com/go-kit/kit/log"
)

// g0 is the standard gravity used by the rocket equation, in m/s^2.
const g0 = 9.80665

// Maneuver is an impulsive delta-v scheduled at a mission time.
type Maneuver struct {
	Δv        float64    // magnitude (m/s)
	Direction [3]float64 // unit thrust direction in the RSW frame
	At        float64    // mission time (s) at which the burn is due
}

// Propulsion queues impulsive maneuvers for a satellite and keeps track of
// the delta-v it has requested and applied. It is conceptually attached to a
// satellite but carries no orbit math.
type Propulsion struct {
	isp    float64 // specific impulse (s)
	thrust float64 // thrust (N)
	mass   float64 // propellant mass (kg)

	maneuvers []Maneuver
	requested float64 // total Δv requested through AddManeuver (m/s)
	applied   float64 // total Δv applied by ExecuteManeuvers (m/s)
	logger    kitlog.Logger
}

// NewPropulsion returns a propulsion system. The historical defaults of the
// original simulator are isp=300 s, thrust=1000 N, mass=1000 kg.
func NewPropulsion(isp, thrust, mass float64) *Propulsion {
	return &Propulsion{isp: isp, thrust: thrust, mass: mass, logger: kitlog.NewNopLogger()}
}

// SetLogger attaches a structured logger; burns are logged as they execute.
func (p *Propulsion) SetLogger(l kitlog.Logger) {
	p.logger = l
}

// AddManeuver schedules an impulsive maneuver and accumulates the requested
// delta-v.
func (p *Propulsion) AddManeuver(Δv float64, direction [3]float64, at float64) {
	p.maneuvers = append(p.maneuvers, Maneuver{Δv: Δv, Direction: direction, At: at})
	p.requested += Δv
}

// ExecuteManeuvers applies and removes every maneuver whose scheduled time
// has passed on the cumulative mission clock. The original compared the
// scheduled time against the per-call dt, which fired every maneuver whose
// time was below a single step; elapsed mission time is the intended
// comparison. Removal filters in place rather than deleting while iterating.
func (p *Propulsion) ExecuteManeuvers(elapsed float64) {
	kept := p.maneuvers[:0]
	for _, m := range p.maneuvers {
		if m.At <= elapsed {
			p.applyDv(m, elapsed)
			continue
		}
		kept = append(kept, m)
	}
	p.maneuvers = kept
}

func (p *Propulsion) applyDv(m Maneuver, elapsed float64) {
	p.applied += m.Δv
	p.logger.Log("subsys", "prop", "burn(m/s)", m.Δv, "due(s)", m.At, "t(s)", elapsed)
}

// CalculateDv returns the total available delta-v in m/s from the rocket
// equation Isp·g0·ln((mass+thrust)/mass). This is a static capacity figure,
// independent of the maneuver queue.
func (p *Propulsion) CalculateDv() float64 {
	return p.isp * g0 * math.Log((p.mass+p.thrust)/p.mass)
}

// RequestedDv returns the total delta-v requested so far, in m/s.
func (p *Propulsion) RequestedDv() float64 { return p.requested }

// AppliedDv returns the total delta-v applied so far, in m/s.
func (p *Propulsion) AppliedDv() float64 { return p.applied }

// Pending returns the number of maneuvers still queued.
func (p *Propulsion) Pending() int { return len(p.maneuvers) }

// Isp returns the specific impulse in seconds.
func (p *Propulsion) Isp() float64 { return p.isp }

// Thrust returns the thrust in Newtons.
func (p *Propulsion) Thrust() float64 { return p.thrust }

// Mass returns the propellant mass in kg.
func (p *Propulsion) Mass() float64 { return p.mass }

// String implements the Stringer interface.
func (p *Propulsion) String() string {
	return fmt.Sprintf("isp=%.0fs thrust=%.0fN mass=%.0fkg pending=%d", p.isp, p.thrust, p.mass, len(p.maneuvers))
}
