package propagator

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/rnd"

	"github.com/afedynitch/PROPOSAL/calc"
	"github.com/afedynitch/PROPOSAL/geometry"
	"github.com/afedynitch/PROPOSAL/medium"
	"github.com/afedynitch/PROPOSAL/numeric"
	"github.com/afedynitch/PROPOSAL/particle"
	"github.com/afedynitch/PROPOSAL/sector"
	"github.com/afedynitch/PROPOSAL/utility"
	"github.com/afedynitch/PROPOSAL/xsection"
)

type rngStream struct{}

func (rngStream) Float64() float64 { return rnd.Float64(0, 1) }

func buildIceSector(tst *testing.T, geo geometry.Geometry, loc geometry.Location, eCut float64, multiplier float64) *sector.Sector {
	mu, err := particle.Get("mu")
	if err != nil {
		tst.Fatal(err)
	}
	ice, err := medium.Get("ice")
	if err != nil {
		tst.Fatal(err)
	}
	cuts := xsection.EnergyCutSettings{ECut: eCut, VCut: -1}
	var xsecs []xsection.CrossSection
	for _, name := range []string{"ioniz", "brems", "epair", "photo"} {
		prm := multiplier
		if name == "ioniz" {
			prm = 1.0 // ionisation is always continuous; multiplier only scales radiative processes here
		}
		m, err := xsection.New(name, mu.Mass, mu.Charge, ice, cuts, fun.Prms{&fun.Prm{N: name + "_multiplier", V: prm}})
		if err != nil {
			tst.Fatal(err)
		}
		xsecs = append(xsecs, m)
	}
	ig := numeric.NewIntegrator(1e-6, 64, 6)
	u := &utility.Utility{
		XSecs:           xsecs,
		Displacement:    calc.NewIntegral(calc.Displacement, xsecs, mu.Mass, mu.Lifetime, ig, mu.ELow),
		InteractionCalc: calc.NewIntegral(calc.Interaction, xsecs, mu.Mass, mu.Lifetime, ig, mu.ELow),
		DecayCalc:       calc.NewIntegral(calc.Decay, xsecs, mu.Mass, mu.Lifetime, ig, mu.ELow),
		Mass:            mu.Mass,
	}
	return &sector.Sector{
		Geometry:  geo,
		Location:  loc,
		Utility:   u,
		MinEnergy: mu.ELow,
	}
}

func Test_propagator01_min_ionising_muon_in_ice(tst *testing.T) {

	chk.PrintTitle("propagator01: minimum-ionising muon over 1 km of ice")

	rnd.Init(1)
	detector := geometry.Cylinder{R: 1e7, H: 1e7}
	s := buildIceSector(tst, detector, geometry.Inside, 500, 1.0)
	mu, _ := particle.Get("mu")
	st := particle.New(mu, 1e6, 0, 0, 0, 0, 0)

	p := &Propagator{Sectors: []*sector.Sector{s}, Detector: detector, Seed: 1}
	result, err := p.Propagate(st, 1e5, rngStream{})
	if err != nil {
		tst.Fatal(err)
	}
	if result <= 0 {
		tst.Fatalf("expected the particle to reach the requested distance, got %v", result)
	}
	if result < 3e5*0.5 || result > 1e6 {
		tst.Fatalf("final energy out of the expected muon-range ballpark: %v", result)
	}
}

func Test_propagator02_stopping_muon(tst *testing.T) {

	chk.PrintTitle("propagator02: a low-energy muon stops well inside the budget")

	rnd.Init(1)
	detector := geometry.Cylinder{R: 1e9, H: 1e9}
	s := buildIceSector(tst, detector, geometry.Inside, 500, 1.0)
	mu, _ := particle.Get("mu")
	st := particle.New(mu, 1e3, 0, 0, 0, 0, 0)

	p := &Propagator{Sectors: []*sector.Sector{s}, Detector: detector, Seed: 1}
	result, err := p.Propagate(st, 1e6, rngStream{})
	if err != nil {
		tst.Fatal(err)
	}
	if result >= 0 {
		tst.Fatalf("expected a negative (stopped) result, got %v", result)
	}
	if -result >= 1e6 {
		tst.Fatalf("stopping distance not less than the requested budget: %v", result)
	}
}

func Test_propagator03_sector_handover(tst *testing.T) {

	chk.PrintTitle("propagator03: two concentric sectors hand the particle over at the boundary")

	rnd.Init(1)
	inner := geometry.Cylinder{R: 5, H: 1e7}
	outer := geometry.Cylinder{R: 1e7, H: 1e7}
	sIn := buildIceSector(tst, inner, geometry.Inside, 500, 1.0)
	sOut := buildIceSector(tst, outer, geometry.Behind, 500, 1.0)

	mu, _ := particle.Get("mu")
	st := particle.New(mu, 1e6, 0, 0, 0, math.Pi/2, 0)

	// the detector geometry for RegionOf classification is the inner
	// cylinder: points inside it are "inside", points beyond are "behind".
	p := &Propagator{Sectors: []*sector.Sector{sIn, sOut}, Detector: inner, Seed: 1}
	result, err := p.Propagate(st, 10, rngStream{})
	if err != nil {
		tst.Fatal(err)
	}
	if result <= 0 {
		tst.Fatalf("expected the particle to reach the requested distance after handover, got %v", result)
	}
	if st.S < 9.999 {
		tst.Fatalf("accumulated distance does not sum across sectors: %v", st.S)
	}
}
