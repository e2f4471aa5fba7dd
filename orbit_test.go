package satorb

import (
	"errors"
	"math"
	"testing"

	"github.com/gonum/floats"
)

func testEarth() *Planet {
	return NewEarth(DefaultConfig())
}

func TestOrbitValidation(t *testing.T) {
	earth := testEarth()
	cases := []struct {
		name    string
		a, e    float64
	}{
		{"eccentricity above 1", 7000, 1.2},
		{"negative eccentricity", 7000, -0.1},
		{"parabolic", 7000, 1.0},
		{"negative semi-major axis", -7000, 0.1},
		{"zero semi-major axis", 0, 0.1},
		{"periapsis below surface", 7000, 0.2}, // rp = 5600 km < 6378 km
	}
	for _, tc := range cases {
		if _, err := NewOrbit(earth, tc.a, tc.e, 0, 0, 0, 0); !errors.Is(err, ErrInvalidOrbitElements) {
			t.Fatalf("%s: want ErrInvalidOrbitElements, got %v", tc.name, err)
		}
	}
	if _, err := NewOrbit(earth, 7000, 0.001, 0.9006, 0, 0, 0); err != nil {
		t.Fatalf("valid orbit rejected: %s", err)
	}
}

func TestOrbitAngleNormalization(t *testing.T) {
	earth := testEarth()
	o, err := NewOrbit(earth, 7000, 0.001, -0.5, 3*math.Pi, -math.Pi/2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(o.Inc(), twoPi-0.5, 1e-12) {
		t.Fatalf("inclination not normalized: %f", o.Inc())
	}
	if !floats.EqualWithinAbs(o.Node(), math.Pi, 1e-12) {
		t.Fatalf("node not normalized: %f", o.Node())
	}
	if !floats.EqualWithinAbs(o.ArgPeri(), 3*math.Pi/2, 1e-12) {
		t.Fatalf("argument of periapsis not normalized: %f", o.ArgPeri())
	}
}

func TestResetIdentity(t *testing.T) {
	earth := testEarth()
	o, err := NewOrbit(earth, 7000, 0.001, 0.9006, 0.1, 0.2, 120)
	if err != nil {
		t.Fatal(err)
	}
	want := normalizeAngle(-o.N() * 120)
	if !floats.EqualWithinAbs(o.M(), want, 1e-12) {
		t.Fatalf("after reset M=%f, want %f", o.M(), want)
	}
	if err := o.UpdatePosition(300); err != nil {
		t.Fatal(err)
	}
	o.Reset()
	if !floats.EqualWithinAbs(o.M(), want, 1e-12) {
		t.Fatalf("reset did not restore M: %f, want %f", o.M(), want)
	}
}

func TestStepDecompositionInvariance(t *testing.T) {
	earth := testEarth()
	o1, _ := NewOrbit(earth, 7000, 0.1, 0.9006, 0.3, 0.4, 0)
	o2 := o1.Copy()
	if err := o1.UpdatePosition(100); err != nil {
		t.Fatal(err)
	}
	if err := o1.UpdatePosition(50); err != nil {
		t.Fatal(err)
	}
	if err := o2.UpdatePosition(150); err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(o1.M(), o2.M(), 1e-9) {
		t.Fatalf("M differs after decomposition: %.12f vs %.12f", o1.M(), o2.M())
	}
}

func TestConcreteScenario(t *testing.T) {
	cfg := DefaultConfig()
	planet, err := NewPlanet(398600.4415, 6378.137, cfg.EarthDay, "Earth", cfg)
	if err != nil {
		t.Fatal(err)
	}
	o, err := NewOrbit(planet, 7000, 0.001, 0.9006, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(o.N(), 1.0780e-3, 1e-7) {
		t.Fatalf("mean motion n=%e, want ~1.0780e-3", o.N())
	}
	if err := o.UpdatePosition(60); err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinAbs(o.M(), 0.06468, 1e-5) {
		t.Fatalf("after 60 s M=%f, want ~0.06468", o.M())
	}
}

func TestCircularOrbitRadius(t *testing.T) {
	earth := testEarth()
	o, err := NewOrbit(earth, 7000, 0, 0.9006, 0.3, 0.4, 0)
	if err != nil {
		t.Fatal(err)
	}
	for m := 0.0; m < twoPi; m += 0.3 {
		if pt := o.PointAt(m); !floats.EqualWithinAbs(pt.R, 7000, 1e-9) {
			t.Fatalf("circular orbit radius %f at M=%f, want 7000", pt.R, m)
		}
	}
}

func TestPointAtDoesNotMutate(t *testing.T) {
	earth := testEarth()
	o, _ := NewOrbit(earth, 7000, 0.1, 0.9006, 0.3, 0.4, 0)
	m, e, ν := o.M(), o.EccentricAnom(), o.TrueAnom()
	for k := 0.0; k < twoPi; k += 0.5 {
		o.PointAt(k)
	}
	if o.M() != m || o.EccentricAnom() != e || o.TrueAnom() != ν {
		t.Fatal("PointAt mutated the live anomaly state")
	}
}

func TestSetMRestoresAnomalies(t *testing.T) {
	earth := testEarth()
	o, _ := NewOrbit(earth, 7000, 0.05, 0.9006, 0.3, 0.4, 0)
	if err := o.UpdatePosition(1234); err != nil {
		t.Fatal(err)
	}
	m, e, ν := o.M(), o.EccentricAnom(), o.TrueAnom()

	restored, _ := NewOrbit(earth, 7000, 0.05, 0.9006, 0.3, 0.4, 0)
	restored.SetM(m)
	if !floats.EqualWithinAbs(restored.M(), m, 1e-12) {
		t.Fatalf("restored M=%f, want %f", restored.M(), m)
	}
	if !floats.EqualWithinAbs(restored.EccentricAnom(), e, 1e-12) {
		t.Fatalf("restored E=%f, want %f", restored.EccentricAnom(), e)
	}
	if !floats.EqualWithinAbs(restored.TrueAnom(), ν, 1e-12) {
		t.Fatalf("restored ν=%f, want %f", restored.TrueAnom(), ν)
	}
}

func TestRVConsistentWithPolarPoint(t *testing.T) {
	earth := testEarth()
	o, _ := NewOrbit(earth, 8000, 0.1, 0.9006, 0.3, 0.4, 0)
	for _, dt := range []float64{0, 500, 1500, 4000} {
		if dt > 0 {
			if err := o.UpdatePosition(dt); err != nil {
				t.Fatal(err)
			}
		}
		R, V := o.RV()
		if !floats.EqualWithinAbs(norm(R), o.PositionPoint().R, 1e-6) {
			t.Fatalf("|R|=%f but polar radius is %f", norm(R), o.PositionPoint().R)
		}
		// Vis-viva on the Cartesian state.
		want := math.Sqrt(earth.GM() * (2/norm(R) - 1/o.A()))
		if !floats.EqualWithinAbs(norm(V), want, 1e-6) {
			t.Fatalf("|V|=%f, vis-viva wants %f", norm(V), want)
		}
	}
}

func TestOrbitCopyIsDeep(t *testing.T) {
	earth := testEarth()
	o, _ := NewOrbit(earth, 7000, 0.001, 0.9006, 0.3, 0.4, 0)
	c := o.Copy()
	c.SetNode(1.0)
	if err := c.UpdatePosition(500); err != nil {
		t.Fatal(err)
	}
	if o.Node() != 0.3 {
		t.Fatal("copy shares the node with the source")
	}
	if floats.EqualWithinAbs(o.M(), c.M(), 1e-9) {
		t.Fatal("copy shares anomaly state with the source")
	}
	if ok, _ := o.Equals(c); ok {
		t.Fatal("Equals should flag the mutated node")
	}
	if ok, err := o.Equals(o.Copy()); !ok {
		t.Fatalf("fresh copy should compare equal: %s", err)
	}
}

func TestOrbitSetters(t *testing.T) {
	earth := testEarth()
	o, _ := NewOrbit(earth, 7000, 0.001, 0.9006, 0, 0, 0)
	if err := o.SetEcc(0.5); !errors.Is(err, ErrInvalidOrbitElements) {
		t.Fatalf("SetEcc(0.5) should sink the periapsis below the surface, got %v", err)
	}
	if err := o.SetA(42164); err != nil {
		t.Fatal(err)
	}
	if err := o.SetEcc(0.1); err != nil {
		t.Fatal(err)
	}
	// Anomaly state must stay consistent after the eccentricity change.
	if !floats.EqualWithinAbs(o.M(), o.EccentricAnom()-0.1*math.Sin(o.EccentricAnom()), 1e-6) {
		t.Fatal("anomaly state stale after SetEcc")
	}
	o.SetInc(-1)
	if o.Inc() < 0 || o.Inc() >= twoPi {
		t.Fatalf("SetInc did not normalize: %f", o.Inc())
	}
}

func TestAngularMomentum(t *testing.T) {
	earth := testEarth()
	o, err := NewOrbit(earth, 8000, 0.1, 0.9006, 0.3, 0.4, 0)
	if err != nil {
		t.Fatal(err)
	}
	p := 8000 * (1 - 0.1*0.1)
	if want := math.Sqrt(earth.GM() * p); !floats.EqualWithinAbs(o.HNorm(), want, 1e-4) {
		t.Fatalf("h=%f km²/s, want %f", o.HNorm(), want)
	}
	// h is normal to the orbital plane.
	h := unit(o.HVec())
	R, V := o.RV()
	if !floats.EqualWithinAbs(dot(h, unit(R)), 0, 1e-9) {
		t.Fatalf("h not normal to R: %e", dot(h, unit(R)))
	}
	if !floats.EqualWithinAbs(dot(h, unit(V)), 0, 1e-9) {
		t.Fatalf("h not normal to V: %e", dot(h, unit(V)))
	}
}

func TestFlightPathAngle(t *testing.T) {
	earth := testEarth()
	circ, _ := NewOrbit(earth, 7000, 0, 0.9006, 0.3, 0.4, 0)
	for i := 0; i < 4; i++ {
		if s := circ.SinFlightPathAngle(); !floats.EqualWithinAbs(s, 0, 1e-9) {
			t.Fatalf("circular flight path angle sin=%e", s)
		}
		if err := circ.UpdatePosition(500); err != nil {
			t.Fatal(err)
		}
	}

	ecc, _ := NewOrbit(earth, 8000, 0.1, 0.9006, 0.3, 0.4, 0)
	if s := ecc.SinFlightPathAngle(); !floats.EqualWithinAbs(s, 0, 1e-5) {
		t.Fatalf("flight path angle at periapsis sin=%e", s)
	}
	// Ascending toward apoapsis the angle is positive.
	if err := ecc.UpdatePosition(ecc.Period().Seconds() / 4); err != nil {
		t.Fatal(err)
	}
	if ecc.SinFlightPathAngle() <= 0 {
		t.Fatalf("ascending flight path angle sin=%e", ecc.SinFlightPathAngle())
	}
}

func TestSettersRefreshAuxState(t *testing.T) {
	earth := testEarth()
	o, err := NewOrbit(earth, 7000, 0, 0.9006, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := o.SetA(8000); err != nil {
		t.Fatal(err)
	}
	if r, _ := o.RadialState(); !floats.EqualWithinAbs(r, 8000, 1e-6) {
		t.Fatalf("radial state r=%f after SetA, want 8000", r)
	}
	if want := math.Sqrt(earth.GM() / 8000); !floats.EqualWithinAbs(o.Velocity(), want, 1e-9) {
		t.Fatalf("velocity %f after SetA, want %f", o.Velocity(), want)
	}

	if err := o.SetEcc(0.1); err != nil {
		t.Fatal(err)
	}
	// M=0, so the orbit sits at periapsis of the new ellipse.
	r, _ := o.RadialState()
	if !floats.EqualWithinAbs(r, 7200, 1e-3) {
		t.Fatalf("radial state r=%f after SetEcc, want ~7200", r)
	}
	if want := math.Sqrt(earth.GM() * (2/r - 1/8000.0)); !floats.EqualWithinAbs(o.Velocity(), want, 1e-9) {
		t.Fatalf("velocity %f after SetEcc, want %f", o.Velocity(), want)
	}
}

func TestOrbitPeriod(t *testing.T) {
	earth := testEarth()
	o, _ := NewOrbit(earth, 7000, 0.001, 0.9006, 0, 0, 0)
	want := twoPi / o.N()
	if !floats.EqualWithinAbs(o.Period().Seconds(), want, 0.1) {
		t.Fatalf("period %s, want ~%.1f s", o.Period(), want)
	}
	if !floats.EqualWithinAbs(o.Apoapsis(), 7007, 1e-9) || !floats.EqualWithinAbs(o.Periapsis(), 6993, 1e-9) {
		t.Fatalf("apsides wrong: ra=%f rp=%f", o.Apoapsis(), o.Periapsis())
	}
}
