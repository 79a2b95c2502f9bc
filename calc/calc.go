// Package calc implements the five utility calculators: Displacement,
// Interaction, Decay, ContinuousRandom and Time. All five share the same
// displacement-anchored integrand family built on S(E) = Σ dE/dx_c(E) and
// g(E) = -1/S(E); this file holds that shared machinery, bundling one
// reusable settings+run object rather than five bespoke types.
package calc

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/afedynitch/PROPOSAL/numeric"
	"github.com/afedynitch/PROPOSAL/xsection"
)

// Kind identifies which of the five calculators a Calculator instance is.
type Kind int

const (
	Displacement Kind = iota
	Interaction
	Decay
	ContinuousRandom
	Time
)

// SpeedOfLight in cm/s, used by the Decay and Time integrands.
const SpeedOfLight = 2.99792458e10

// decayEpsilon floors the denominator of the Decay integrand to avoid
// dividing by the rest-mass singularity at E==mass.
const decayEpsilon = 1e-12

// SumDEdx, SumDNdx and SumDE2dx sum the corresponding differential rate
// across every cross-section attached to a sector's utility.
func SumDEdx(xs []xsection.CrossSection, e float64) float64 {
	var s float64
	for _, c := range xs {
		s += c.DEdx(e)
	}
	return s
}

func SumDNdx(xs []xsection.CrossSection, e float64) float64 {
	var s float64
	for _, c := range xs {
		s += c.DNdx(e)
	}
	return s
}

func SumDE2dx(xs []xsection.CrossSection, e float64) float64 {
	var s float64
	for _, c := range xs {
		s += c.DE2dx(e)
	}
	return s
}

// InverseRate returns -g(E) = 1/S(E), the ds/dE magnitude shared by every
// calculator's integrand.
func InverseRate(xs []xsection.CrossSection, e float64) float64 {
	s := SumDEdx(xs, e)
	if s <= 0 {
		return math.Inf(1)
	}
	return 1.0 / s
}

// Calculator is one of the five utility calculators, either in integral
// form (evaluates the integrand on demand) or interpolant form (uses a
// precomputed 1D table). The two forms are required to agree to within
// max(IPREC, 1e-3); see calc_test.go for that cross-check.
type Calculator struct {
	Kind      Kind
	integrand numeric.Func
	lowerRef  float64 // eLow for most kinds; mass for Decay (rest-mass clamp)
	lifetime  float64 // only meaningful for Decay; <0 means stable

	integrator *numeric.Integrator // non-nil in integral mode
	table      *numeric.Interpolant // non-nil in interpolant mode
}

// integrandFor builds the base integrand for the requested Kind.
func integrandFor(kind Kind, xsecs []xsection.CrossSection, mass float64) numeric.Func {
	switch kind {
	case Displacement:
		return func(e float64) float64 { return InverseRate(xsecs, e) }
	case Interaction:
		return func(e float64) float64 { return InverseRate(xsecs, e) * SumDNdx(xsecs, e) }
	case Decay:
		return func(e float64) float64 {
			p := particleMomentum(e, mass)
			denom := p / mass * SpeedOfLight
			if denom < decayEpsilon {
				denom = decayEpsilon
			}
			return InverseRate(xsecs, e) / denom
		}
	case ContinuousRandom:
		return func(e float64) float64 { return InverseRate(xsecs, e) * SumDE2dx(xsecs, e) }
	case Time:
		return func(e float64) float64 {
			p := particleMomentum(e, mass)
			if p <= 0 {
				return 0
			}
			return InverseRate(xsecs, e) * e / (p * SpeedOfLight)
		}
	}
	chk.Panic("calc: unknown calculator kind %d", int(kind))
	return nil
}

func particleMomentum(e, m float64) float64 {
	v := (e - m) * (e + m)
	if v <= 0 {
		return 0
	}
	return math.Sqrt(v)
}

// NewIntegral builds a Calculator that evaluates its integrand on demand.
// lifetime is only used by Decay (a negative value marks a stable particle,
// in which case Calculate/GetUpperLimit always report zero rate).
func NewIntegral(kind Kind, xsecs []xsection.CrossSection, mass, lifetime float64, ig *numeric.Integrator, eLow float64) *Calculator {
	c := &Calculator{Kind: kind, integrand: integrandFor(kind, xsecs, mass), integrator: ig, lifetime: lifetime}
	if kind == Decay {
		c.lowerRef = mass
	} else {
		c.lowerRef = eLow
	}
	return c
}

// NewInterpolantCalc builds a Calculator backed by a precomputed 1D table
// of F(E) = ∫_{lowerRef}^{E} integrand, over [lowerRef, eBig].
func NewInterpolantCalc(kind Kind, xsecs []xsection.CrossSection, mass, lifetime float64, ig *numeric.Integrator, eLow, eBig float64, n, order int, logSpaced bool) *Calculator {
	c := &Calculator{Kind: kind, integrand: integrandFor(kind, xsecs, mass), lifetime: lifetime}
	if kind == Decay {
		c.lowerRef = mass
	} else {
		c.lowerRef = eLow
	}
	lo := c.lowerRef
	c.table = numeric.NewInterpolant(lo, eBig, n, order, logSpaced, func(e float64) float64 {
		return ig.Integrate(lo, e, c.integrand, 0)
	})
	return c
}

// stable reports whether this is a Decay calculator for a stable particle,
// in which case every query reports zero rate and the rest-mass sentinel.
func (c *Calculator) stable() bool {
	return c.Kind == Decay && c.lifetime < 0
}

// Calculate computes the calculator's aux value between Ei and Ef; r is
// unused and only keeps a uniform call shape across all five calculators.
// Decay results are divided by the particle lifetime.
func (c *Calculator) Calculate(ei, ef, r float64) float64 {
	if c.stable() {
		return 0
	}
	lo := ef
	if c.Kind == Decay && lo < c.lowerRef {
		lo = c.lowerRef
	}
	if lo > ei {
		return 0
	}
	var val float64
	if c.table != nil {
		val = c.table.Interpolate(ei) - c.table.Interpolate(lo)
	} else {
		val = c.integrator.Integrate(lo, ei, c.integrand, 0)
	}
	if c.Kind == Decay && c.lifetime > 0 {
		val /= c.lifetime
	}
	return val
}

// TotalAvailable returns ∫_{lowerRef}^{Ei} integrand, the maximum weight
// GetUpperLimit can ever consume (used by utility.EnergyInteraction /
// EnergyDecay to decide their "not reached" sentinel).
func (c *Calculator) TotalAvailable(ei float64) float64 {
	if c.stable() {
		return 0
	}
	val := c.Calculate(ei, c.lowerRef, 0)
	return val
}

// GetUpperLimit finds Ef such that Calculate(Ei, Ef, r) == r. Returns
// lowerRef (clamped) if r exceeds the total available weight; callers are
// expected to have already checked TotalAvailable when "not reached"
// sentinel semantics apply.
func (c *Calculator) GetUpperLimit(ei, r float64) float64 {
	if c.stable() {
		return c.lowerRef
	}
	target := r
	if c.Kind == Decay && c.lifetime > 0 {
		target = r * c.lifetime
	}
	if c.table != nil {
		y0 := c.table.Interpolate(ei) - target
		return c.table.FindLimit(ei, y0)
	}
	total := c.integrator.Integrate(c.lowerRef, ei, c.integrand, 0)
	if total <= 0 {
		return c.lowerRef
	}
	ratio := (total - target) / total
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	c.integrator.IntegrateWithRandomRatio(c.lowerRef, ei, c.integrand, 0, ratio)
	return c.integrator.GetUpperLimit()
}
