package utility

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/rnd"

	"github.com/afedynitch/PROPOSAL/calc"
	"github.com/afedynitch/PROPOSAL/medium"
	"github.com/afedynitch/PROPOSAL/numeric"
	"github.com/afedynitch/PROPOSAL/particle"
	"github.com/afedynitch/PROPOSAL/xsection"
)

func buildUtility(tst *testing.T) (*Utility, particle.Def) {
	mu, err := particle.Get("mu")
	if err != nil {
		tst.Fatal(err)
	}
	ice, err := medium.Get("ice")
	if err != nil {
		tst.Fatal(err)
	}
	cuts := xsection.EnergyCutSettings{ECut: 500, VCut: -1}
	var xsecs []xsection.CrossSection
	for _, name := range []string{"ioniz", "brems", "epair", "photo"} {
		m, err := xsection.New(name, mu.Mass, mu.Charge, ice, cuts, fun.Prms{&fun.Prm{N: name + "_multiplier", V: 1.0}})
		if err != nil {
			tst.Fatal(err)
		}
		xsecs = append(xsecs, m)
	}
	ig := numeric.NewIntegrator(1e-7, 64, 6)
	u := &Utility{
		XSecs:           xsecs,
		Displacement:    calc.NewIntegral(calc.Displacement, xsecs, mu.Mass, mu.Lifetime, ig, mu.ELow),
		InteractionCalc: calc.NewIntegral(calc.Interaction, xsecs, mu.Mass, mu.Lifetime, ig, mu.ELow),
		DecayCalc:       calc.NewIntegral(calc.Decay, xsecs, mu.Mass, mu.Lifetime, ig, mu.ELow),
		Mass:            mu.Mass,
	}
	return u, mu
}

func Test_utility01_channel_sampler_uniformity(tst *testing.T) {

	chk.PrintTitle("utility01: typeInteraction channel frequencies match dN/dx ratios (P6)")

	u, _ := buildUtility(tst)
	e := 1e5

	rates := make([]float64, len(u.XSecs))
	var total float64
	for i, c := range u.XSecs {
		rates[i] = c.DNdx(e)
		total += rates[i]
	}
	if total <= 0 {
		tst.Fatal("expected positive total interaction rate")
	}

	rnd.Init(1)
	counts := make([]int, len(u.XSecs))
	const N = 20000
	for i := 0; i < N; i++ {
		u1 := rnd.Float64(0, 1)
		u2 := rnd.Float64(0, 1)
		c, err := u.TypeInteraction(e, u1, u2)
		if err != nil {
			tst.Fatal(err)
		}
		for j, xc := range u.XSecs {
			if xc == c {
				counts[j]++
			}
		}
	}
	for i := range u.XSecs {
		want := rates[i] / total
		got := float64(counts[i]) / float64(N)
		if math.Abs(got-want) > 0.03 {
			tst.Fatalf("channel %s: expected fraction %.4f, got %.4f", u.XSecs[i].Name(), want, got)
		}
	}
}

func Test_utility02_decay_sentinel_stable(tst *testing.T) {

	chk.PrintTitle("utility02: stable particle never reports a decay (P7)")

	u, _ := buildUtility(tst)
	// muon is not stable in this test fixture; rebuild with an electron for
	// the stable-particle branch.
	e, err := particle.Get("e")
	if err != nil {
		tst.Fatal(err)
	}
	ig := numeric.NewIntegrator(1e-6, 32, 6)
	u.DecayCalc = calc.NewIntegral(calc.Decay, u.XSecs, e.Mass, e.Lifetime, ig, e.ELow)

	for _, uni := range []float64{0.01, 0.5, 0.999} {
		_, ok := u.EnergyDecay(1e6, uni)
		if ok {
			tst.Fatalf("expected 'not reached' for stable particle decay draw")
		}
	}
}

func Test_utility03_energy_interaction_roundtrip(tst *testing.T) {

	chk.PrintTitle("utility03: energyInteraction returns energy below Ei")

	u, _ := buildUtility(tst)
	ei := 1e6
	ef, ok := u.EnergyInteraction(ei, 0.37)
	if !ok {
		tst.Fatal("expected an interaction to be reached at high uniform draw probability")
	}
	if ef > ei || ef < u.Mass {
		tst.Fatalf("energyInteraction out of range: got %v for Ei=%v", ef, ei)
	}
}
