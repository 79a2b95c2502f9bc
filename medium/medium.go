// Package medium describes the composite materials a sector propagates
// particles through.
package medium

import "github.com/cpmech/gosl/chk"

// Component is one nucleus species in a medium: a single record type
// rather than parallel arrays of atomic number, nucleon count, and so on.
type Component struct {
	Name          string  // e.g. "O", "H"
	Z             float64 // atomic number
	A             float64 // nucleon count
	AtomicWeight  float64 // mean nucleon weight, g/mol
	Multiplicity  float64 // atoms of this component per molecule
}

// Medium is a named composite material.
type Medium struct {
	Name             string
	MassDensity      float64 // g/cm^3
	MolecularDensity float64 // molecules/cm^3
	Components       []Component
	DensityCorrection float64 // applied per-sector multiplier on displacement
	RadiationLength  float64 // cm, feeds Highland-formula multiple scattering
}

// Validate checks the invariant that Components is non-empty and every
// component is physically sane; the "components are parallel and of equal
// length" invariant is structurally guaranteed here since Components is a
// single slice of records.
func (m *Medium) Validate() error {
	if len(m.Components) == 0 {
		return chk.Err("medium %q: must have at least one component", m.Name)
	}
	for _, c := range m.Components {
		if c.Z <= 0 || c.A <= 0 || c.Multiplicity <= 0 {
			return chk.Err("medium %q: component %q has non-positive Z/A/multiplicity", m.Name, c.Name)
		}
	}
	if m.MassDensity <= 0 {
		return chk.Err("medium %q: mass density must be positive", m.Name)
	}
	if m.DensityCorrection <= 0 {
		m.DensityCorrection = 1.0
	}
	return nil
}

// standard holds the built-in media catalogue.
var standard = make(map[string]Medium)

// Register adds a medium to the standard catalogue.
func Register(m Medium) {
	standard[m.Name] = m
}

// Get looks up a medium from the standard catalogue by name.
func Get(name string) (Medium, error) {
	m, ok := standard[name]
	if !ok {
		return Medium{}, chk.Err("medium: %q is not in the standard catalogue", name)
	}
	return m, nil
}

func init() {
	Register(Medium{
		Name:             "ice",
		MassDensity:      0.917,
		MolecularDensity: 3.063e22,
		DensityCorrection: 1.0,
		RadiationLength:  39.3,
		Components: []Component{
			{Name: "H", Z: 1, A: 1, AtomicWeight: 1.00794, Multiplicity: 2},
			{Name: "O", Z: 8, A: 16, AtomicWeight: 15.9994, Multiplicity: 1},
		},
	})
	Register(Medium{
		Name:             "water",
		MassDensity:      1.000,
		MolecularDensity: 3.343e22,
		DensityCorrection: 1.0,
		RadiationLength:  36.1,
		Components: []Component{
			{Name: "H", Z: 1, A: 1, AtomicWeight: 1.00794, Multiplicity: 2},
			{Name: "O", Z: 8, A: 16, AtomicWeight: 15.9994, Multiplicity: 1},
		},
	})
	Register(Medium{
		Name:             "standard_rock",
		MassDensity:      2.650,
		MolecularDensity: 2.648e22,
		DensityCorrection: 1.0,
		RadiationLength:  10.4,
		Components: []Component{
			{Name: "StdRock", Z: 11, A: 22, AtomicWeight: 22.0, Multiplicity: 1},
		},
	})
	Register(Medium{
		Name:             "air",
		MassDensity:      1.2049e-3,
		MolecularDensity: 2.5071e19,
		DensityCorrection: 1.0,
		RadiationLength:  30390.0,
		Components: []Component{
			{Name: "N", Z: 7, A: 14, AtomicWeight: 14.0067, Multiplicity: 1.562},
			{Name: "O", Z: 8, A: 16, AtomicWeight: 15.9994, Multiplicity: 0.420},
			{Name: "Ar", Z: 18, A: 40, AtomicWeight: 39.948, Multiplicity: 0.0094},
		},
	})
}
