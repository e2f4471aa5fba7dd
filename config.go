package satorb

import (
	"os"
	"sync"

	"github.com/spf13/viper"
)

// Config gathers the numeric tolerances and physical defaults used across the
// package. It replaces the original simulator's process-wide constants table:
// load it once and pass it to the components which need it.
type Config struct {
	// SolverTolerance is the bracket-width convergence tolerance of the
	// Kepler equation bisection.
	SolverTolerance float64

	// Atmospheric drag model.
	DragCd              float64 // drag coefficient
	DragAreaToMass      float64 // area-to-mass ratio (m^2/kg)
	DragScaleHeight     float64 // exponential scale height (km)
	DragSeaLevelDensity float64 // density at zero altitude (kg/m^3)
	DragAltitudeCeiling float64 // drag is a no-op above this altitude (km)

	// Planet parameter bounds enforced by the Planet setters.
	MinPlanetRadius, MaxPlanetRadius float64 // km
	MinPlanetGM, MaxPlanetGM         float64 // km^3/s^2
	MinPlanetDay, MaxPlanetDay       float64 // s

	// Scheduler hints consumed by external drivers.
	MinTimeStep, MaxTimeStep float64 // s

	// Default central body.
	EarthGM     float64 // km^3/s^2
	EarthRadius float64 // km
	EarthDay    float64 // s
	EarthJ2     float64

	OutputDir string
}

var (
	cfgOnce   sync.Once
	cfgLoaded Config
)

// DefaultConfig returns the built-in configuration, matching the constants the
// original simulator shipped with.
func DefaultConfig() Config {
	return Config{
		SolverTolerance:     1e-6,
		DragCd:              2.2,
		DragAreaToMass:      1.0,
		DragScaleHeight:     8.5,
		DragSeaLevelDensity: 1.225,
		DragAltitudeCeiling: 1000.0,
		MinPlanetRadius:     0.1,
		MaxPlanetRadius:     1.0e6,
		MinPlanetGM:         0.001,
		MaxPlanetGM:         1.0e9,
		MinPlanetDay:        1.0,
		MaxPlanetDay:        1.0e8,
		MinTimeStep:         0.001,
		MaxTimeStep:         60.0,
		EarthGM:             398600.4415,
		EarthRadius:         6378.1366,
		EarthDay:            86164.10,
		EarthJ2:             0.0010826359,
		OutputDir:           ".",
	}
}

// LoadConfig reads conf.toml from the directory named by the SATORB_CONFIG
// environment variable. A missing file or variable falls back to the
// defaults: unlike the original, a bare environment is not an error.
func LoadConfig() Config {
	cfgOnce.Do(func() {
		cfgLoaded = readConfig()
	})
	return cfgLoaded
}

func readConfig() Config {
	cfg := DefaultConfig()
	confPath := os.Getenv("SATORB_CONFIG")
	if confPath == "" {
		return cfg
	}
	v := viper.New()
	v.SetConfigName("conf")
	v.AddConfigPath(confPath)
	v.SetDefault("solver.tolerance", cfg.SolverTolerance)
	v.SetDefault("drag.cd", cfg.DragCd)
	v.SetDefault("drag.area_to_mass", cfg.DragAreaToMass)
	v.SetDefault("drag.scale_height", cfg.DragScaleHeight)
	v.SetDefault("drag.sea_level_density", cfg.DragSeaLevelDensity)
	v.SetDefault("drag.altitude_ceiling", cfg.DragAltitudeCeiling)
	v.SetDefault("planet.min_radius", cfg.MinPlanetRadius)
	v.SetDefault("planet.max_radius", cfg.MaxPlanetRadius)
	v.SetDefault("planet.min_gm", cfg.MinPlanetGM)
	v.SetDefault("planet.max_gm", cfg.MaxPlanetGM)
	v.SetDefault("planet.min_day", cfg.MinPlanetDay)
	v.SetDefault("planet.max_day", cfg.MaxPlanetDay)
	v.SetDefault("simulation.min_time_step", cfg.MinTimeStep)
	v.SetDefault("simulation.max_time_step", cfg.MaxTimeStep)
	v.SetDefault("general.output_path", cfg.OutputDir)
	if err := v.ReadInConfig(); err != nil {
		// No readable conf.toml under SATORB_CONFIG, keep the defaults.
		return cfg
	}
	cfg.SolverTolerance = v.GetFloat64("solver.tolerance")
	cfg.DragCd = v.GetFloat64("drag.cd")
	cfg.DragAreaToMass = v.GetFloat64("drag.area_to_mass")
	cfg.DragScaleHeight = v.GetFloat64("drag.scale_height")
	cfg.DragSeaLevelDensity = v.GetFloat64("drag.sea_level_density")
	cfg.DragAltitudeCeiling = v.GetFloat64("drag.altitude_ceiling")
	cfg.MinPlanetRadius = v.GetFloat64("planet.min_radius")
	cfg.MaxPlanetRadius = v.GetFloat64("planet.max_radius")
	cfg.MinPlanetGM = v.GetFloat64("planet.min_gm")
	cfg.MaxPlanetGM = v.GetFloat64("planet.max_gm")
	cfg.MinPlanetDay = v.GetFloat64("planet.min_day")
	cfg.MaxPlanetDay = v.GetFloat64("planet.max_day")
	cfg.MinTimeStep = v.GetFloat64("simulation.min_time_step")
	cfg.MaxTimeStep = v.GetFloat64("simulation.max_time_step")
	cfg.OutputDir = v.GetString("general.output_path")
	return cfg
}
