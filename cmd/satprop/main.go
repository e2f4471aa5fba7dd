// satprop propagates a single satellite scenario and prints its state, or
// streams one sampled revolution as CSV. It is a usage demo of the satorb
// package, not a full simulation driver.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/satorbit/satorb"
)

func main() {
	var (
		name   = flag.String("name", "demo-sat", "satellite name")
		a      = flag.Float64("a", 7000, "semi-major axis (km)")
		e      = flag.Float64("e", 0.001, "eccentricity")
		inc    = flag.Float64("i", 51.6, "inclination (deg)")
		node   = flag.Float64("node", 0, "longitude of ascending node (deg)")
		argp   = flag.Float64("argp", 0, "argument of periapsis (deg)")
		tp     = flag.Float64("tp", 0, "epoch (s)")
		ticks  = flag.Int("ticks", 90, "number of ticks to propagate")
		dt     = flag.Float64("dt", 60, "time step per tick (s)")
		csvOut = flag.Bool("csv", false, "stream one sampled revolution as CSV on stdout and exit")
	)
	flag.Parse()

	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	cfg := satorb.LoadConfig()
	if *dt < cfg.MinTimeStep {
		*dt = cfg.MinTimeStep
	} else if *dt > cfg.MaxTimeStep {
		*dt = cfg.MaxTimeStep
	}

	earth := satorb.NewEarth(cfg)
	orbit, err := satorb.NewOrbit(earth, *a, *e, satorb.Deg2rad(*inc), satorb.Deg2rad(*node), satorb.Deg2rad(*argp), *tp)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid scenario: %s\n", err)
		os.Exit(1)
	}

	if *csvOut {
		if err := satorb.StreamStates(os.Stdout, satorb.SampleTrajectory(orbit, *name, 360, time.Now()), logger); err != nil {
			fmt.Fprintf(os.Stderr, "export failed: %s\n", err)
			os.Exit(1)
		}
		return
	}

	prop := satorb.NewPropulsion(300, 1000, 1000)
	sat, err := satorb.NewSatellite(orbit, earth, prop, *name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid scenario: %s\n", err)
		os.Exit(1)
	}
	sat.SetLogger(logger)

	logger.Log("subsys", "sim", "planet", earth.Name(), "aGeo(km)", earth.AGeo(), "orbit", sat.Orbit())
	for k := 0; k < *ticks; k++ {
		if err := sat.Update(*dt); err != nil {
			fmt.Fprintf(os.Stderr, "propagation failed: %s\n", err)
			os.Exit(1)
		}
		pos := sat.CurrentPosition()
		logger.Log("subsys", "sim", "t(s)", sat.Elapsed(), "M(rad)", sat.Orbit().M(), "pos", pos)
	}
}
