// Package utility aggregates the five calc.Calculator instances and the
// cross-section list for one sector into a single sampling API: one object
// bundling a model, its settings, and the entry points a step loop calls.
package utility

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/afedynitch/PROPOSAL/calc"
	"github.com/afedynitch/PROPOSAL/xsection"
)

// Utility bundles one sector's cross-section list with its five
// calculators and exposes the sampling primitives the sector step loop
// consumes.
type Utility struct {
	XSecs []xsection.CrossSection

	Displacement     *calc.Calculator
	InteractionCalc  *calc.Calculator
	DecayCalc        *calc.Calculator
	ContinuousRandom *calc.Calculator // nil if the sector has no randomiser attached
	TimeCalc         *calc.Calculator // nil if exact time is disabled

	Mass float64
}

// TypeInteraction queries every cross-section for DNdxBiased(E,u2),
// accumulates R = Σ r_i, and returns the first cross-section whose
// cumulative share reaches u1*R. u1==0 with R==0 returns an ordinary error
// (no process contributes); u1>0 with R==0 is a logic error and panics.
func (u *Utility) TypeInteraction(e, u1, u2 float64) (xsection.CrossSection, error) {
	var total float64
	rates := make([]float64, len(u.XSecs))
	for i, c := range u.XSecs {
		r := c.DNdxBiased(e, u2)
		rates[i] = r
		total += r
	}
	if total <= 0 {
		if u1 > 0 {
			chk.Panic("utility: typeInteraction called with u1=%v but total rate is zero (R=0)", u1)
		}
		return nil, chk.Err("utility: no cross-section contributes at E=%v", e)
	}
	threshold := u1 * total
	var acc float64
	for i, c := range u.XSecs {
		acc += rates[i]
		if acc >= threshold {
			return c, nil
		}
	}
	return u.XSecs[len(u.XSecs)-1], nil
}

// StochasticLoss delegates the loss magnitude draw to the chosen
// cross-section.
func (u *Utility) StochasticLoss(c xsection.CrossSection, e, u1, u2 float64) float64 {
	return c.StochasticLoss(e, u1, u2)
}

// EnergyInteraction draws r = -ln(u) and returns the energy at which the
// accumulated interaction weight from E reaches r. ok is false if r exceeds
// the total available weight down to the calculator's floor ("not
// reached"); callers treat that as "no interaction before the floor".
func (u *Utility) EnergyInteraction(e, uniform float64) (ef float64, ok bool) {
	r := -math.Log(uniform)
	total := u.InteractionCalc.TotalAvailable(e)
	if r > total {
		return u.Mass, false
	}
	return u.InteractionCalc.GetUpperLimit(e, r), true
}

// EnergyDecay mirrors EnergyInteraction for the decay calculator. Stable
// particles always report "not reached": the decay calculator itself
// already returns zero total weight for stable particles.
func (u *Utility) EnergyDecay(e, uniform float64) (ef float64, ok bool) {
	r := -math.Log(uniform)
	total := u.DecayCalc.TotalAvailable(e)
	if total <= 0 || r > total {
		return u.Mass, false
	}
	return u.DecayCalc.GetUpperLimit(e, r), true
}

// EnergyRandomize draws a Gaussian-truncated correction to Ef with variance
// taken from the ContinuousRandom calculator, using two independent uniform
// deviates via a Box-Muller transform. If no randomiser is attached, Ef is
// returned unchanged.
func (u *Utility) EnergyRandomize(ei, ef, u1, u2 float64) float64 {
	if u.ContinuousRandom == nil {
		return ef
	}
	variance := u.ContinuousRandom.Calculate(ei, ef, 0)
	if variance <= 0 {
		return ef
	}
	sigma := math.Sqrt(variance)
	if u1 <= 0 {
		u1 = 1e-300
	}
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	randomized := ef + sigma*z
	if randomized > ei {
		randomized = ei
	}
	if randomized < u.Mass {
		randomized = u.Mass
	}
	return randomized
}

// TimeElapsed returns the proper time to move from Ei to Ef over a step of
// length ds. If the Time calculator is disabled, the sector approximates by
// ds/c.
func (u *Utility) TimeElapsed(ei, ef, ds float64) float64 {
	if u.TimeCalc != nil {
		return u.TimeCalc.Calculate(ei, ef, 0)
	}
	return ds / calc.SpeedOfLight
}
