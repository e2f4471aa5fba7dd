package satorb

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/soniakeys/meeus/julian"
)

// TrajectoryState is one sampled point of an orbit for rendering or
// telemetry, stamped with its julian date.
type TrajectoryState struct {
	JD    float64 // julian date of the sample
	Name  string
	M     float64 // mean anomaly of the sample (rad)
	Point PointPol
}

// SampleTrajectory emits samples evenly spaced in mean anomaly over one full
// revolution through a buffered channel, without mutating the orbit's live
// anomaly state. The julian dates place each sample at epoch + M/n.
func SampleTrajectory(o *Orbit, name string, samples int, epoch time.Time) <-chan TrajectoryState {
	if samples < 2 {
		samples = 2
	}
	states := make(chan TrajectoryState, samples)
	jd0 := julian.TimeToJD(epoch.UTC())
	n := o.N()
	go func() {
		defer close(states)
		for k := 0; k < samples; k++ {
			m := twoPi * float64(k) / float64(samples)
			states <- TrajectoryState{
				JD:    jd0 + m/n/86400,
				Name:  name,
				M:     m,
				Point: o.PointAt(m),
			}
		}
	}()
	return states
}

// StreamStates writes the incoming states as CSV rows until the channel is
// closed. Columns: name, jd, meanAnomaly, r, theta, phi, x, y, z.
func StreamStates(w io.Writer, states <-chan TrajectoryState, logger kitlog.Logger) error {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"name", "jd", "meanAnomaly", "r", "theta", "phi", "x", "y", "z"}); err != nil {
		return err
	}
	count := 0
	for state := range states {
		x, y, z := state.Point.Cartesian()
		row := []string{
			state.Name,
			fmtF(state.JD),
			fmtF(state.M),
			fmtF(state.Point.R),
			fmtF(state.Point.Θ),
			fmtF(state.Point.Φ),
			fmtF(x),
			fmtF(y),
			fmtF(z),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
		count++
	}
	cw.Flush()
	logger.Log("subsys", "export", "states", count)
	return cw.Error()
}

func fmtF(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
