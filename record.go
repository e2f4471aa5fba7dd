package satorb

import (
	"fmt"
	"strconv"
	"strings"
)

// Section markers of the persisted simulation layout. The save/load
// collaborator owns the file itself; this package only fixes the field order
// and semantics of the blocks it must round-trip.
const (
	SectionDivider    = "----------"
	SectionSimulation = "Simulation"
	SectionPlanet     = "Planet"
	SectionSatellites = "Satellites"
)

// satelliteFields is the fixed field order of a satellite block.
var satelliteFields = [8]string{"Name", "a", "e", "i", "Omega", "omega", "tp", "M"}

// SatelliteRecord is the persisted form of a satellite: its name, the six
// Keplerian elements and the stored mean anomaly. M restores the anomaly
// state exactly, bypassing the epoch-based reset.
type SatelliteRecord struct {
	Name    string
	A       float64 // km
	Ecc     float64
	Inc     float64 // rad
	Node    float64 // rad
	ArgPeri float64 // rad
	Tp      float64 // s
	M       float64 // rad
}

// RecordFromSatellite snapshots a satellite into its persisted form.
func RecordFromSatellite(s *Satellite) SatelliteRecord {
	o := s.Orbit()
	return SatelliteRecord{
		Name:    s.Name(),
		A:       o.A(),
		Ecc:     o.Ecc(),
		Inc:     o.Inc(),
		Node:    o.Node(),
		ArgPeri: o.ArgPeri(),
		Tp:      o.Tp(),
		M:       o.M(),
	}
}

// Lines renders the record in the fixed persisted field order.
func (r SatelliteRecord) Lines() []string {
	return []string{
		SectionDivider,
		"Name: " + r.Name,
		"a: " + formatFloat(r.A),
		"e: " + formatFloat(r.Ecc),
		"i: " + formatFloat(r.Inc),
		"Omega: " + formatFloat(r.Node),
		"omega: " + formatFloat(r.ArgPeri),
		"tp: " + formatFloat(r.Tp),
		"M: " + formatFloat(r.M),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ParseSatelliteRecord reads one satellite block. Lines must carry the fixed
// fields in order; a leading divider line is tolerated.
func ParseSatelliteRecord(lines []string) (SatelliteRecord, error) {
	var rec SatelliteRecord
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == SectionDivider {
		lines = lines[1:]
	}
	if len(lines) < len(satelliteFields) {
		return rec, fmt.Errorf("satellite record truncated: %d lines, want %d", len(lines), len(satelliteFields))
	}
	values := make([]string, len(satelliteFields))
	for idx, key := range satelliteFields {
		line := strings.TrimSpace(lines[idx])
		prefix := key + ":"
		if !strings.HasPrefix(line, prefix) {
			return rec, fmt.Errorf("satellite record line %d: want field %q, got %q", idx, key, line)
		}
		values[idx] = strings.TrimSpace(strings.TrimPrefix(line, prefix))
	}
	rec.Name = values[0]
	floatsOut := [7]*float64{&rec.A, &rec.Ecc, &rec.Inc, &rec.Node, &rec.ArgPeri, &rec.Tp, &rec.M}
	for idx, dst := range floatsOut {
		v, err := strconv.ParseFloat(values[idx+1], 64)
		if err != nil {
			return rec, fmt.Errorf("satellite record field %q: %w", satelliteFields[idx+1], err)
		}
		*dst = v
	}
	return rec, nil
}

// NewOrbitFromRecord reconstructs an orbit around the given planet from the
// seven stored numeric fields, restoring the stored mean anomaly directly.
func NewOrbitFromRecord(planet *Planet, rec SatelliteRecord) (*Orbit, error) {
	o, err := NewOrbit(planet, rec.A, rec.Ecc, rec.Inc, rec.Node, rec.ArgPeri, rec.Tp)
	if err != nil {
		return nil, fmt.Errorf("record %q: %w", rec.Name, err)
	}
	o.SetM(rec.M)
	return o, nil
}

// NewSatelliteFromRecord reconstructs a full satellite from its persisted
// form.
func NewSatelliteFromRecord(planet *Planet, prop *Propulsion, rec SatelliteRecord) (*Satellite, error) {
	o, err := NewOrbitFromRecord(planet, rec)
	if err != nil {
		return nil, err
	}
	s, err := NewSatellite(o, planet, prop, rec.Name)
	if err != nil {
		return nil, err
	}
	s.Orbit().SetM(rec.M)
	return s, nil
}
