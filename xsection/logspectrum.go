package xsection

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"

	"github.com/afedynitch/PROPOSAL/medium"
)

// vMinKinematic is a shared infrared regulator for the relative-energy-loss
// fraction v = ΔE/E; physical spectra diverge as v -> 0 and every radiative
// process needs some lower cutoff to keep dN/dx finite.
const vMinKinematic = 1e-6

// logSpectrum implements the common "dN/dv ∝ weight(component)/v" shape
// shared by the three radiative processes below (a Weizsäcker-Williams-style
// soft-photon spectrum): bremsstrahlung, pair production and photonuclear
// interaction differ only in their overall rate constant and which medium
// property weights each component's contribution.
//
// This is an illustrative, closed-form-integrable stand-in for the real
// differential cross sections; it still satisfies every invariant the
// engine requires: dE/dx, dN/dx, dE²/dx >= 0, and stochasticLoss draws a
// ΔE in [0, E].
type logSpectrum struct {
	name   string
	typ    Type
	hard   bool
	rate   float64 // alpha * r_e^2-style prefactor, cm^2/g-ish bundled constant
	weight func(c medium.Component) float64

	mass       float64
	charge     float64
	med        medium.Medium
	cuts       EnergyCutSettings
	multiplier float64

	// derived at Init time: sum_c weight(c)*multiplicity, used as the
	// component-loop normalisation for DNdxBiased.
	totalWeight float64
}

func (o *logSpectrum) initCommon(mass, charge float64, med medium.Medium, cuts EnergyCutSettings, prms fun.Prms, multName string) error {
	if err := med.Validate(); err != nil {
		return err
	}
	o.mass = mass
	o.charge = charge
	o.med = med
	o.cuts = cuts
	o.multiplier = multiplierFromPrms(prms, multName, 1.0)
	var total float64
	for _, c := range med.Components {
		total += o.weight(c) * c.Multiplicity
	}
	if total <= 0 {
		return chk.Err("%s: medium %q contributes zero weight", o.name, med.Name)
	}
	o.totalWeight = total
	return nil
}

func (o logSpectrum) Name() string        { return o.name }
func (o logSpectrum) Type() Type          { return o.typ }
func (o logSpectrum) HardComponent() bool { return o.hard }

// vMax is the kinematic maximum relative loss: the particle cannot transfer
// more energy than would leave it with less than its rest mass.
func (o logSpectrum) vMax(e float64) float64 {
	v := 1 - o.mass/e
	if v < 0 {
		return 0
	}
	return v
}

// split returns the continuous/stochastic boundary, clamped into
// [vMinKinematic, vMax(e)].
func (o logSpectrum) split(e float64) (vMin, vCut, vMax float64) {
	vMax = o.vMax(e)
	if vMax <= vMinKinematic {
		return vMinKinematic, vMinKinematic, vMinKinematic
	}
	vCut = o.cuts.VCutEffective(e, vMax)
	lo, hi := ClampInterval(vMinKinematic, vCut)
	return lo, hi, vMax
}

// rateConst returns C(E) in dN/dv = C(E)/v, folding in the multiplier and
// the summed component weight.
func (o logSpectrum) rateConst(e float64) float64 {
	return o.multiplier * o.rate * o.totalWeight * o.charge * o.charge * o.med.MolecularDensity
}

// DEdx integrates the continuous part [vMin, vCut]: E * C(E) * (vCut - vMin).
func (o logSpectrum) DEdx(e float64) float64 {
	vMin, vCut, _ := o.split(e)
	if vCut <= vMin {
		return 0
	}
	return e * o.rateConst(e) * (vCut - vMin)
}

// DNdx integrates the stochastic part [vCut, vMax]: C(E) * ln(vMax/vCut).
func (o logSpectrum) DNdx(e float64) float64 {
	_, vCut, vMax := o.split(e)
	if vMax <= vCut || vCut <= 0 {
		return 0
	}
	return o.rateConst(e) * math.Log(vMax/vCut)
}

// DNdxBiased returns the rate contributed by a single component selected by
// u, biasing the component loop in proportion to each component's weight.
func (o logSpectrum) DNdxBiased(e, u float64) float64 {
	total := o.DNdx(e)
	if total <= 0 {
		return 0
	}
	acc := 0.0
	for _, c := range o.med.Components {
		acc += o.weight(c) * c.Multiplicity
		if acc >= u*o.totalWeight {
			return total * (o.weight(c) * c.Multiplicity) / o.totalWeight
		}
	}
	return total
}

// DE2dx integrates v^2 over the continuous part: E^2 * C(E) * (vCut^2-vMin^2)/2.
func (o logSpectrum) DE2dx(e float64) float64 {
	vMin, vCut, _ := o.split(e)
	if vCut <= vMin {
		return 0
	}
	return e * e * o.rateConst(e) * (vCut*vCut - vMin*vMin) / 2
}

// StochasticLoss inverts the log-uniform CDF of dN/dv over [vCut, vMax]
// exactly: v = vCut * (vMax/vCut)^u1. u2 is unused here because the
// component loop only affects the *rate*, not the shape of v within a
// single draw once a component/process has already been selected.
func (o logSpectrum) StochasticLoss(e, u1, u2 float64) float64 {
	_, vCut, vMax := o.split(e)
	if vMax <= vCut || vCut <= 0 {
		return 0
	}
	v := vCut * math.Pow(vMax/vCut, u1)
	de := v * e
	if de > e {
		de = e
	}
	return de
}

func (o logSpectrum) GetPrms(multName string) fun.Prms {
	return fun.Prms{&fun.Prm{N: multName, V: 1.0}}
}
