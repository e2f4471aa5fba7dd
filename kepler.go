package satorb

import "math"

// anomalies holds the three anomaly angles of an orbit. They are always
// recomputed together so that no member goes stale independently.
type anomalies struct {
	m float64 // mean anomaly
	e float64 // eccentric anomaly
	ν float64 // true anomaly
}

// eccentricAnomaly solves Kepler's equation M = E - e·sin(E) for E by
// bisection over [0, 2π). The right-hand side is strictly increasing in E for
// e in [0,1), so the bracket always converges: in ⌈log2(2π/tol)⌉ halvings at
// most, about 23 for the default tolerance. Newton iteration would be faster
// on average but can diverge near high eccentricity, and a guaranteed bound
// is worth more here than a few saved iterations.
func eccentricAnomaly(M, e, tol float64) (E float64, iters int) {
	min, max := 0.0, twoPi
	for max-min > tol {
		mid := 0.5 * (max + min)
		if M < mid-e*math.Sin(mid) {
			max = mid
		} else {
			min = mid
		}
		iters++
	}
	// The midpoint halves the residual bracket error, which keeps the
	// M round-trip within the tolerance itself.
	return 0.5 * (max + min), iters
}

// trueAnomaly recovers ν from the eccentric anomaly. The arc-cosine alone
// cannot distinguish ascending from descending motion, hence the half-plane
// branch on E.
func trueAnomaly(E, e float64) float64 {
	cosν := (math.Cos(E) - e) / (1 - e*math.Cos(E))
	// Clamp rounding spill before acos.
	if cosν > 1 || cosν < -1 {
		cosν = sign(cosν)
	}
	if E <= math.Pi {
		return math.Acos(cosν)
	}
	return twoPi - math.Acos(cosν)
}

// solveAnomalies normalizes the mean anomaly and derives the matching
// eccentric and true anomalies.
func solveAnomalies(M, e, tol float64) anomalies {
	M = normalizeAngle(M)
	E, _ := eccentricAnomaly(M, e, tol)
	return anomalies{m: M, e: E, ν: trueAnomaly(E, e)}
}
