// Package numeric implements the two leaf numerical building blocks the
// propagation engine is built on: an adaptive Romberg-style integrator,
// including an "inverted integral" mode used to sample interaction
// energies, and a tabulated interpolant with a monotone-inverse root
// finder.
//
// Both types are hand-rolled rather than delegated to a dependency: they
// are the core numerical deliverable of this engine, not an ambient
// concern better served by a general-purpose library. See DESIGN.md.
package numeric

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Func is the signature every integrand and interpolant builder function
// uses throughout this package and the calculators built on top of it.
type Func func(x float64) float64

// Integrator holds the accuracy and subdivision budget for one adaptive
// Romberg quadrature, bundling numerical tolerances into a small reusable
// settings object.
type Integrator struct {
	IPREC float64 // relative accuracy target
	IMAXS int     // maximum number of adaptive subdivisions
	IROMB int     // Romberg table depth per subinterval

	// state left behind by the last IntegrateWithRandomRatio call, consumed
	// by GetUpperLimit. Not safe for concurrent use: each propagation owns
	// its own Integrator instance.
	leaves []leaf
	total  float64
	ratio  float64
}

// leaf is one converged subinterval of an adaptive Romberg traversal,
// recorded in left-to-right order so a single traversal can answer both
// "what is the integral" and "where does the running sum cross r*total".
type leaf struct {
	a, b, val float64
}

// NewIntegrator returns an Integrator with sane defaults.
func NewIntegrator(prec float64, maxSubdivisions, rombergDepth int) *Integrator {
	if prec <= 0 {
		prec = 1e-6
	}
	if maxSubdivisions <= 0 {
		maxSubdivisions = 64
	}
	if rombergDepth <= 0 {
		rombergDepth = 6
	}
	return &Integrator{IPREC: prec, IMAXS: maxSubdivisions, IROMB: rombergDepth}
}

// romberg computes the classical Romberg estimate of ∫ₐᵇ f over one
// subinterval using depth doublings of the trapezoid rule followed by
// Richardson extrapolation. Returns NaN if f is non-finite anywhere it was
// sampled.
func romberg(a, b float64, f Func, depth int) float64 {
	if depth < 1 {
		depth = 1
	}
	fa, fb := f(a), f(b)
	if !finite(fa) || !finite(fb) {
		return math.NaN()
	}
	T := make([]float64, depth+1)
	h := b - a
	T[0] = 0.5 * h * (fa + fb)
	n := 1
	for k := 1; k <= depth; k++ {
		h /= 2
		sum := 0.0
		for i := 1; i <= n; i++ {
			x := a + float64(2*i-1)*h
			fx := f(x)
			if !finite(fx) {
				return math.NaN()
			}
			sum += fx
		}
		T[k] = 0.5*T[k-1] + h*sum
		n *= 2
	}
	R := append([]float64(nil), T...)
	for m := 1; m <= depth; m++ {
		denom := math.Pow(4, float64(m)) - 1
		for k := depth; k >= m; k-- {
			R[k] = R[k] + (R[k]-R[k-1])/denom
		}
	}
	return R[depth]
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// adaptiveLeaves recursively bisects [a,b] until each leaf's Romberg
// estimate agrees with the sum of its own two-way split to within IPREC, or
// the subdivision budget runs out. Returns leaves in left-to-right order.
func (ig *Integrator) adaptiveLeaves(a, b float64, f Func, depth int, budget *int) (float64, []leaf) {
	val := romberg(a, b, f, depth)
	if math.IsNaN(val) {
		return math.NaN(), []leaf{{a, b, math.NaN()}}
	}
	mid := 0.5 * (a + b)
	half := depth - 1
	if half < 1 {
		half = 1
	}
	va := romberg(a, mid, f, half)
	vb := romberg(mid, b, f, half)
	if math.IsNaN(va) || math.IsNaN(vb) {
		return math.NaN(), []leaf{{a, b, math.NaN()}}
	}
	errEst := math.Abs(val - (va + vb))
	tol := ig.IPREC * math.Max(math.Abs(val), 1e-300)
	if errEst <= tol || *budget <= 0 || b-a < 1e-300 {
		return val, []leaf{{a, b, val}}
	}
	*budget--
	v1, l1 := ig.adaptiveLeaves(a, mid, f, depth, budget)
	v2, l2 := ig.adaptiveLeaves(mid, b, f, depth, budget)
	if math.IsNaN(v1) || math.IsNaN(v2) {
		return math.NaN(), append(l1, l2...)
	}
	return v1 + v2, append(l1, l2...)
}

// Integrate computes ∫ₐᵇ f to the configured relative precision. order, if
// positive, overrides the Romberg table depth for this call only.
func (ig *Integrator) Integrate(a, b float64, f Func, order int) float64 {
	if a == b {
		return 0
	}
	depth := ig.IROMB
	if order > 0 {
		depth = order
	}
	sign := 1.0
	if a > b {
		a, b = b, a
		sign = -1.0
	}
	budget := ig.IMAXS
	val, _ := ig.adaptiveLeaves(a, b, f, depth, &budget)
	return sign * val
}

// IntegrateWithLog computes the same integral under the substitution
// u = log(x), which conditions integrands that vary over many decades (as
// energy-loss rates typically do) better than direct evaluation.
func (ig *Integrator) IntegrateWithLog(a, b float64, f Func, order int) float64 {
	if a <= 0 || b <= 0 {
		chk.Panic("numeric: IntegrateWithLog requires positive bounds, got a=%v b=%v", a, b)
	}
	g := func(u float64) float64 {
		x := math.Exp(u)
		return f(x) * x
	}
	return ig.Integrate(math.Log(a), math.Log(b), g, order)
}

// IntegrateWithRandomRatio integrates f over [a,b] while recording the
// left-to-right traversal of converged subintervals, bisects the subinterval
// in which the running sum crosses r * total (one Romberg estimate of its
// left half per bisection) until it is narrow, then returns the partial
// integral up to that point. The accompanying GetUpperLimit call
// reconstructs, from that recorded traversal (no integration of its own),
// the point ξ where the running sum reaches r * total.
func (ig *Integrator) IntegrateWithRandomRatio(a, b float64, f Func, order int, r float64) float64 {
	depth := ig.IROMB
	if order > 0 {
		depth = order
	}
	sign := 1.0
	if a > b {
		a, b = b, a
		sign = -1.0
	}
	budget := ig.IMAXS
	total, leaves := ig.adaptiveLeaves(a, b, f, depth, &budget)
	ig.leaves = leaves
	ig.total = total
	ig.ratio = r
	if math.IsNaN(total) {
		return math.NaN()
	}
	// bisect the leaf in which the running sum crosses r*total until it is narrow
	target := r * total
	for iter := 0; iter < 64 && target > 0; iter++ {
		cum, i := 0.0, 0
		for ; i < len(leaves)-1 && cum+leaves[i].val < target; i++ {
			cum += leaves[i].val
		}
		lf := leaves[i]
		if lf.b-lf.a <= 1e-12*(b-a) {
			break
		}
		mid := 0.5 * (lf.a + lf.b)
		va := romberg(lf.a, mid, f, depth)
		leaves = append(leaves[:i], append([]leaf{{lf.a, mid, va}, {mid, lf.b, lf.val - va}}, leaves[i+1:]...)...)
	}
	ig.leaves = leaves
	return sign * r * total
}

// GetUpperLimit returns ξ ∈ [a,b] such that ∫ₐξ f / ∫ₐᵇ f ≈ r, using the
// traversal recorded by the most recent IntegrateWithRandomRatio call. The
// crossing leaf has already been narrowed by that call, so linear
// interpolation of its own Romberg value inside it is accurate; no further
// integration calls are issued.
func (ig *Integrator) GetUpperLimit() float64 {
	if math.IsNaN(ig.total) || len(ig.leaves) == 0 {
		return math.NaN()
	}
	target := ig.ratio * ig.total
	if target <= 0 {
		return ig.leaves[0].a
	}
	cum := 0.0
	for i, lf := range ig.leaves {
		last := i == len(ig.leaves)-1
		if cum+lf.val >= target || last {
			remaining := target - cum
			if lf.val == 0 {
				return lf.b
			}
			frac := remaining / lf.val
			if frac < 0 {
				frac = 0
			}
			if frac > 1 {
				frac = 1
			}
			return lf.a + frac*(lf.b-lf.a)
		}
		cum += lf.val
	}
	return ig.leaves[len(ig.leaves)-1].b
}
