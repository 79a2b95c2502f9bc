// Package xsection defines the cross-section capability set the propagation
// engine consumes and a small catalogue of concrete, illustrative
// parametrisations exercising it end to end. The catalogue is deliberately
// simplified: faithful reproduction of any specific publication's formulas
// is out of scope.
package xsection

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"

	"github.com/afedynitch/PROPOSAL/medium"
)

// Type enumerates the stable process identifiers a cross-section may report.
type Type int

const (
	TypeIonization Type = iota
	TypeBremsstrahlung
	TypePairProduction
	TypePhotonuclear
)

// CrossSection is the capability set required from every process.
// Implementations must guarantee dEdx, dNdx and dE2dx are >= 0 for all
// physical E.
type CrossSection interface {
	Name() string
	Type() Type
	DEdx(e float64) float64
	DNdx(e float64) float64
	DNdxBiased(e, u float64) float64 // channel-biased variant, u in [0,1)
	DE2dx(e float64) float64
	StochasticLoss(e, u1, u2 float64) float64 // in [0, e]
	HardComponent() bool
}

// Model is the factory-constructible form of a CrossSection: Init parses
// named parameters (fun.Prms), and GetPrms returns an example parameter
// set.
type Model interface {
	CrossSection
	Init(mass, particleCharge float64, med medium.Medium, cuts EnergyCutSettings, prms fun.Prms) error
	GetPrms() fun.Prms
}

// allocators holds all available cross-section parametrisations, keyed by
// name, self-registered at package init() time.
var allocators = make(map[string]func() Model)

// register adds a parametrisation to the factory. Called from each
// catalogue file's init().
func register(name string, alloc func() Model) {
	if _, ok := allocators[name]; ok {
		chk.Panic("xsection: parametrisation named %q is already registered", name)
	}
	allocators[name] = alloc
}

// New constructs a named cross-section and initialises it with the given
// parameters. An unknown parametrisation name is returned as an error; New
// does not print a diagnostic or substitute a non-contributing
// cross-section in its place.
func New(name string, mass, charge float64, med medium.Medium, cuts EnergyCutSettings, prms fun.Prms) (Model, error) {
	alloc, ok := allocators[strings.ToLower(name)]
	if !ok {
		return nil, chk.Err("xsection: parametrisation %q is not available", name)
	}
	m := alloc()
	if err := m.Init(mass, charge, med, cuts, prms); err != nil {
		return nil, err
	}
	return m, nil
}

// multiplierFromPrms reads a per-process rate scaling parameter with a 1.0
// default, matching the config surface's *_multiplier directives.
func multiplierFromPrms(prms fun.Prms, name string, def float64) float64 {
	for _, p := range prms {
		if strings.EqualFold(p.N, name) {
			return p.V
		}
	}
	return def
}
