package satorb

import (
	"errors"
	"fmt"
	"math"

	"github.com/gonum/floats"
)

// ErrInvalidPlanet is returned when a planet parameter falls outside the
// configured bounds.
var ErrInvalidPlanet = errors.New("invalid planet parameter")

// Planet defines the central body of a propagation. It is immutable for the
// duration of a propagation call; configuration collaborators may mutate it
// between ticks through the setters.
type Planet struct {
	name         string
	μ            float64 // gravitational parameter (km^3/s^2)
	radius       float64 // mean equatorial radius (km)
	day          float64 // sidereal day (s)
	j2           float64 // oblateness factor
	imgPath      string  // texture references, opaque to the propagation core
	nightImgPath string
	cfg          Config
}

// NewPlanet returns a planet after checking the parameters against the
// configured bounds.
func NewPlanet(μ, radius, day float64, name string, cfg Config) (*Planet, error) {
	p := &Planet{name: name, cfg: cfg}
	if err := p.SetGM(μ); err != nil {
		return nil, err
	}
	if err := p.SetRadius(radius); err != nil {
		return nil, err
	}
	if err := p.SetDay(day); err != nil {
		return nil, err
	}
	return p, nil
}

// NewEarth returns the default central body.
func NewEarth(cfg Config) *Planet {
	return &Planet{
		name:   "Earth",
		μ:      cfg.EarthGM,
		radius: cfg.EarthRadius,
		day:    cfg.EarthDay,
		j2:     cfg.EarthJ2,
		cfg:    cfg,
	}
}

// GM returns the gravitational parameter μ in km^3/s^2.
func (p *Planet) GM() float64 { return p.μ }

// Radius returns the mean radius in km.
func (p *Planet) Radius() float64 { return p.radius }

// Day returns the sidereal day in seconds.
func (p *Planet) Day() float64 { return p.day }

// J2 returns the oblateness factor.
func (p *Planet) J2() float64 { return p.j2 }

// Name returns the planet name.
func (p *Planet) Name() string { return p.name }

// ImgPath returns the day texture reference.
func (p *Planet) ImgPath() string { return p.imgPath }

// NightImgPath returns the night texture reference.
func (p *Planet) NightImgPath() string { return p.nightImgPath }

// SetGM sets the gravitational parameter.
func (p *Planet) SetGM(μ float64) error {
	if μ < p.cfg.MinPlanetGM || μ > p.cfg.MaxPlanetGM {
		return fmt.Errorf("%w: μ=%g km^3/s^2 outside [%g, %g]", ErrInvalidPlanet, μ, p.cfg.MinPlanetGM, p.cfg.MaxPlanetGM)
	}
	p.μ = μ
	return nil
}

// SetRadius sets the mean radius.
func (p *Planet) SetRadius(radius float64) error {
	if radius < p.cfg.MinPlanetRadius || radius > p.cfg.MaxPlanetRadius {
		return fmt.Errorf("%w: radius=%g km outside [%g, %g]", ErrInvalidPlanet, radius, p.cfg.MinPlanetRadius, p.cfg.MaxPlanetRadius)
	}
	p.radius = radius
	return nil
}

// SetDay sets the sidereal day.
func (p *Planet) SetDay(day float64) error {
	if day < p.cfg.MinPlanetDay || day > p.cfg.MaxPlanetDay {
		return fmt.Errorf("%w: day=%g s outside [%g, %g]", ErrInvalidPlanet, day, p.cfg.MinPlanetDay, p.cfg.MaxPlanetDay)
	}
	p.day = day
	return nil
}

// SetJ2 sets the oblateness factor.
func (p *Planet) SetJ2(j2 float64) { p.j2 = j2 }

// SetName sets the planet name.
func (p *Planet) SetName(name string) { p.name = name }

// SetImgPath sets the day texture reference.
func (p *Planet) SetImgPath(path string) { p.imgPath = path }

// SetNightImgPath sets the night texture reference.
func (p *Planet) SetNightImgPath(path string) { p.nightImgPath = path }

// AGeo returns the geostationary orbit radius (μ·day²/4π²)^(1/3) in km.
func (p *Planet) AGeo() float64 {
	return math.Pow(p.μ*p.day*p.day/(4*math.Pi*math.Pi), 1/3.)
}

// Equals returns whether the provided planet is physically the same body.
func (p *Planet) Equals(b *Planet) bool {
	return p.name == b.name &&
		floats.EqualWithinAbs(p.μ, b.μ, 1e-9) &&
		floats.EqualWithinAbs(p.radius, b.radius, 1e-9) &&
		floats.EqualWithinAbs(p.day, b.day, 1e-9)
}

// String implements the Stringer interface in the stored record field order.
func (p *Planet) String() string {
	return fmt.Sprintf("Name: %s\nRadius: %v\nMu: %v\nDay: %v\nImgPath: %s\nNightImgPath: %s\n",
		p.name, p.radius, p.μ, p.day, p.imgPath, p.nightImgPath)
}
