package numeric

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// Interpolant tabulates a 1D function over a fixed grid and reconstructs
// values from it with a local polynomial fit of the given order.
// Extrapolation beyond [XMin,XMax] is clamped to the nearest node rather
// than extending the polynomial.
type Interpolant struct {
	X     []float64 // grid nodes, ascending
	Y     []float64 // tabulated values
	Order int       // polynomial reconstruction order (number of neighbours - 1)
	Log   bool       // nodes are log-spaced; lookups convert to log-space first
}

// NewInterpolant builds a table over n points in [xMin,xMax], evaluating
// builder at each grid node. If logSpaced is true, nodes are geometrically
// spaced (xMin, xMax must both be positive).
func NewInterpolant(xMin, xMax float64, n, order int, logSpaced bool, builder Func) *Interpolant {
	if n < 2 {
		n = 2
	}
	it := &Interpolant{X: make([]float64, n), Y: make([]float64, n), Order: order, Log: logSpaced}
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		var x float64
		if logSpaced {
			if xMin <= 0 || xMax <= 0 {
				chk.Panic("numeric: log-spaced interpolant requires positive bounds")
			}
			x = xMin * math.Pow(xMax/xMin, t)
		} else {
			x = xMin + t*(xMax-xMin)
		}
		it.X[i] = x
		it.Y[i] = builder(x)
	}
	return it
}

// NewInterpolantFromValues wraps an already-computed table.
func NewInterpolantFromValues(x, y []float64, order int, logSpaced bool) *Interpolant {
	if len(x) != len(y) {
		chk.Panic("numeric: Interpolant requires len(x)==len(y), got %d and %d", len(x), len(y))
	}
	return &Interpolant{X: x, Y: y, Order: order, Log: logSpaced}
}

// XMin and XMax return the table bounds.
func (it *Interpolant) XMin() float64 { return it.X[0] }
func (it *Interpolant) XMax() float64 { return it.X[len(it.X)-1] }

// locate finds the index of the node at or before x via binary search.
func (it *Interpolant) locate(x float64) int {
	lo, hi := 0, len(it.X)-1
	if x <= it.X[lo] {
		return lo
	}
	if x >= it.X[hi] {
		return hi
	}
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if it.X[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// Interpolate reconstructs f(x) via Lagrange interpolation over a
// neighbourhood of Order+1 nodes around x; values outside [XMin,XMax] are
// clamped to the boundary node.
func (it *Interpolant) Interpolate(x float64) float64 {
	n := len(it.X)
	if x <= it.XMin() {
		return it.Y[0]
	}
	if x >= it.XMax() {
		return it.Y[n-1]
	}
	k := it.Order + 1
	if k > n {
		k = n
	}
	if k < 2 {
		k = 2
	}
	i0 := it.locate(x) - k/2 + 1
	if i0 < 0 {
		i0 = 0
	}
	if i0+k > n {
		i0 = n - k
	}
	if it.Log {
		lx := make([]float64, k)
		for j, xv := range it.X[i0 : i0+k] {
			lx[j] = math.Log(xv)
		}
		return lagrange(lx, it.Y[i0:i0+k], math.Log(x))
	}
	return lagrange(it.X[i0:i0+k], it.Y[i0:i0+k], x)
}

// lagrange evaluates the Lagrange interpolation polynomial through the
// given nodes at x.
func lagrange(xs, ys []float64, x float64) float64 {
	n := len(xs)
	var result float64
	for i := 0; i < n; i++ {
		term := ys[i]
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			term *= (x - xs[j]) / (xs[i] - xs[j])
		}
		result += term
	}
	return result
}

// FindLimit solves interpolate(t) = y0 for t ∈ [XMin,x0], assuming the
// underlying tabulated function is monotone (monotonicity is assumed, not
// verified). x0 anchors the search to the physically valid
// branch below the caller's current energy (calculators only ever look for
// an Ef <= Ei); it is clamped into [XMin,XMax] first. Implemented as
// bisection directly on the reconstructed Interpolate function, which is
// cheap relative to the table construction cost and needs no derivative.
// Ties (a flat region) resolve to the smaller t by preferring the low half
// of the bracket.
func (it *Interpolant) FindLimit(x0, y0 float64) float64 {
	if x0 > it.XMax() {
		x0 = it.XMax()
	}
	if x0 < it.XMin() {
		x0 = it.XMin()
	}
	lo, hi := it.XMin(), x0
	fLo, fHi := it.Interpolate(lo), it.Interpolate(hi)
	increasing := fHi >= fLo
	if (increasing && y0 <= fLo) || (!increasing && y0 >= fLo) {
		return lo
	}
	if (increasing && y0 >= fHi) || (!increasing && y0 <= fHi) {
		return hi
	}
	for iter := 0; iter < 100; iter++ {
		mid := 0.5 * (lo + hi)
		fMid := it.Interpolate(mid)
		cond := fMid < y0
		if !increasing {
			cond = fMid > y0
		}
		if cond {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo < 1e-12*math.Max(1, math.Abs(hi)) {
			break
		}
	}
	return lo
}

// Interpolant2D is the tensor-product extension over (x,v): evaluation does
// 1D reconstruction along one axis followed by the other.
type Interpolant2D struct {
	X     []float64 // outer axis nodes
	V     []float64 // inner axis nodes
	Z     [][]float64 // Z[i][j] = f(X[i], V[j])
	Order int
	LogX  bool
	LogV  bool
}

// NewInterpolant2D builds a tensor-product table evaluating builder(x,v) at
// every grid node.
func NewInterpolant2D(xMin, xMax float64, nx int, vMin, vMax float64, nv int, order int, logX, logV bool, builder func(x, v float64) float64) *Interpolant2D {
	it := &Interpolant2D{Order: order, LogX: logX, LogV: logV}
	it.X = axisNodes(xMin, xMax, nx, logX)
	it.V = axisNodes(vMin, vMax, nv, logV)
	it.Z = la.MatAlloc(len(it.X), len(it.V))
	for i, x := range it.X {
		for j, v := range it.V {
			it.Z[i][j] = builder(x, v)
		}
	}
	return it
}

func axisNodes(lo, hi float64, n int, logSpaced bool) []float64 {
	if n < 2 {
		n = 2
	}
	xs := make([]float64, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		if logSpaced {
			xs[i] = lo * math.Pow(hi/lo, t)
		} else {
			xs[i] = lo + t*(hi-lo)
		}
	}
	return xs
}

// Interpolate reconstructs f(x,v): first interpolate along V at each of the
// Order+1 neighbouring X rows, then interpolate the resulting values along
// X.
func (it *Interpolant2D) Interpolate(x, v float64) float64 {
	nx := len(it.X)
	k := it.Order + 1
	if k > nx {
		k = nx
	}
	if k < 2 {
		k = 2
	}
	i0 := locateIn(it.X, x) - k/2 + 1
	if i0 < 0 {
		i0 = 0
	}
	if i0+k > nx {
		i0 = nx - k
	}
	rowVals := make([]float64, k)
	for r := 0; r < k; r++ {
		row := &Interpolant{X: it.V, Y: it.Z[i0+r], Order: it.Order, Log: it.LogV}
		rowVals[r] = row.Interpolate(v)
	}
	return lagrange(it.X[i0:i0+k], rowVals, x)
}

func locateIn(xs []float64, x float64) int {
	lo, hi := 0, len(xs)-1
	if x <= xs[lo] {
		return lo
	}
	if x >= xs[hi] {
		return hi
	}
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if xs[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}
