// Package particle holds the mutable state of a propagated lepton and the
// registry of particle kinds the engine knows how to propagate.
package particle

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Def holds the constants of one particle kind: rest mass, lifetime at rest,
// the low-energy floor below which propagation stops, and charge.
//
// Lifetime < 0 encodes "stable" (electron); lifetime >= 0 is the mean
// proper lifetime in seconds (muon, tau).
type Def struct {
	Name     string
	Mass     float64 // MeV
	Lifetime float64 // s; < 0 means stable
	ELow     float64 // MeV, minimum energy floor
	Charge   float64 // units of e
}

// Stable reports whether the particle kind never decays.
func (d Def) Stable() bool {
	return d.Lifetime < 0
}

// defs holds all known particle kinds, keyed by name.
var defs = make(map[string]Def)

// Register adds a particle definition to the registry. Panics if the name
// is already registered, refusing a silent overwrite.
func Register(d Def) {
	if _, ok := defs[d.Name]; ok {
		chk.Panic("particle: definition named %q is already registered", d.Name)
	}
	defs[d.Name] = d
}

// Get looks up a registered particle definition by name.
func Get(name string) (Def, error) {
	d, ok := defs[name]
	if !ok {
		return Def{}, chk.Err("particle: definition named %q is not available", name)
	}
	return d, nil
}

func init() {
	// PDG-like constants (MeV / s), matching the usual muon/tau/electron
	// propagation literature defaults used by dense-matter lepton codes.
	Register(Def{Name: "mu", Mass: 105.6583715, Lifetime: 2.1969811e-6, ELow: 500.0, Charge: -1})
	Register(Def{Name: "tau", Mass: 1776.82, Lifetime: 2.903e-13, ELow: 500.0, Charge: -1})
	Register(Def{Name: "e", Mass: 0.5109989461, Lifetime: -1, ELow: 500.0, Charge: -1})
}

// State is the mutable record a propagation advances in place.
type State struct {
	Def Def

	E float64 // current energy, MeV

	X, Y, Z float64 // position, cm

	// direction, parameterised by sin/cos pairs so the hot step loop avoids
	// repeated trigonometric calls.
	SinTheta, CosTheta float64
	SinPhi, CosPhi     float64

	S float64 // propagated distance, cm
	T float64 // elapsed time, s
}

// New builds a particle state with direction given by polar/azimuthal angles
// in radians.
func New(def Def, e, x, y, z, theta, phi float64) *State {
	return &State{
		Def:      def,
		E:        e,
		X:        x,
		Y:        y,
		Z:        z,
		SinTheta: math.Sin(theta),
		CosTheta: math.Cos(theta),
		SinPhi:   math.Sin(phi),
		CosPhi:   math.Cos(phi),
	}
}

// Momentum returns p(E) = sqrt((E-m)(E+m)), clamped at zero for E <= m.
func (s *State) Momentum() float64 {
	return Momentum(s.E, s.Def.Mass)
}

// Momentum computes p(E) for a particle of rest mass m.
func Momentum(e, m float64) float64 {
	v := (e - m) * (e + m)
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}

// Advance moves the particle by ds along its current direction and adds dt
// to the elapsed time. It does not touch E; callers apply energy loss
// separately.
func (s *State) Advance(ds, dt float64) {
	s.X += ds * s.SinTheta * s.CosPhi
	s.Y += ds * s.SinTheta * s.SinPhi
	s.Z += ds * s.CosTheta
	s.S += ds
	s.T += dt
}

// Direction returns the unit direction vector (dx, dy, dz).
func (s *State) Direction() (dx, dy, dz float64) {
	return s.SinTheta * s.CosPhi, s.SinTheta * s.SinPhi, s.CosTheta
}

// SetDirection overwrites the direction from a vector, normalising it
// first; a zero vector leaves the direction unchanged.
func (s *State) SetDirection(dx, dy, dz float64) {
	n := math.Sqrt(dx*dx + dy*dy + dz*dz)
	if n == 0 {
		return
	}
	dx, dy, dz = dx/n, dy/n, dz/n
	s.CosTheta = dz
	st := math.Sqrt(math.Max(0, 1-dz*dz))
	s.SinTheta = st
	if st > 1e-12 {
		s.CosPhi = dx / st
		s.SinPhi = dy / st
	}
}

// Clone returns a deep copy of the state (Def is a value type, so a shallow
// struct copy already suffices; Clone exists for call-site clarity and to
// satisfy the "produce copies via a clone operation" convention used across
// the engine's variant types).
func (s *State) Clone() *State {
	c := *s
	return &c
}
