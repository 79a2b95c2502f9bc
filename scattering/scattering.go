// Package scattering implements the deflection interface a sector step
// consumes and a concrete, minimal Moliere multiple-scattering model.
package scattering

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Scattering deflects a particle's direction (and applies a small lateral
// position offset) at the end of a step, given the step length and the
// endpoint energies. Implementations must be a unit-preserving rotation of
// direction plus a bounded lateral offset of position.
type Scattering interface {
	Scatter(ds, ei, ef float64, pos, dir [3]float64, u1, u2, u3, u4 float64) (newPos, newDir [3]float64)
}

// Moliere implements a small-angle multiple-scattering model: the
// deflection angle's width scales with the radiation length the way the
// Highland formula does, and the azimuth is uniform. The rotation itself is
// expressed as a 3x3 matrix product via gonum/mat rather than written out
// by hand.
type Moliere struct {
	RadiationLength float64 // cm, medium-dependent
	Mass            float64 // MeV
}

// highlandConst bundles the usual Highland-formula prefactor (MeV).
const highlandConst = 13.6

// Scatter implements Scattering.
func (m Moliere) Scatter(ds, ei, ef float64, pos, dir [3]float64, u1, u2, u3, u4 float64) (newPos, newDir [3]float64) {
	e := 0.5 * (ei + ef)
	p := math.Sqrt(math.Max((e-m.Mass)*(e+m.Mass), 0))
	if p <= 0 || m.RadiationLength <= 0 || ds <= 0 {
		return pos, dir
	}
	beta := p / e
	xOverX0 := ds / m.RadiationLength
	theta0 := highlandConst / (beta * p) * math.Sqrt(xOverX0) * (1 + 0.038*math.Log(xOverX0))
	if theta0 < 0 || math.IsNaN(theta0) {
		theta0 = 0
	}

	// draw a Gaussian-distributed polar deflection via Box-Muller and a
	// uniform azimuth, then rotate dir by (theta, phi) about its own axis.
	r := theta0 * math.Sqrt(-2*math.Log(clamp01(u1)))
	phi := 2 * math.Pi * u2

	newDir = rotateAboutAxis(dir, r, phi)

	// bounded lateral offset: classic small-angle displacement ~ ds*theta/2,
	// direction randomised independently via u3,u4.
	lateral := 0.5 * ds * r
	latPhi := 2 * math.Pi * u3
	_ = u4
	ox, oy := lateral*math.Cos(latPhi), lateral*math.Sin(latPhi)
	perp1, perp2 := orthonormalBasis(dir)
	newPos = [3]float64{
		pos[0] + ox*perp1[0] + oy*perp2[0],
		pos[1] + ox*perp1[1] + oy*perp2[1],
		pos[2] + ox*perp1[2] + oy*perp2[2],
	}
	return newPos, newDir
}

func clamp01(u float64) float64 {
	if u <= 0 {
		return 1e-300
	}
	if u >= 1 {
		return 1 - 1e-15
	}
	return u
}

// orthonormalBasis returns two unit vectors perpendicular to dir and to
// each other, used to build a lateral offset plane.
func orthonormalBasis(dir [3]float64) (p1, p2 [3]float64) {
	ref := [3]float64{0, 0, 1}
	if math.Abs(dir[2]) > 0.9 {
		ref = [3]float64{1, 0, 0}
	}
	p1 = normalize(cross(dir, ref))
	p2 = normalize(cross(dir, p1))
	return
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize(v [3]float64) [3]float64 {
	n := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if n == 0 {
		return v
	}
	return [3]float64{v[0] / n, v[1] / n, v[2] / n}
}

// rotateAboutAxis deflects dir by polar angle theta and azimuth phi around
// its own direction, composed as a rotation matrix via gonum/mat so the
// transform reads the way a frame rotation would in a larger geometry
// pipeline.
func rotateAboutAxis(dir [3]float64, theta, phi float64) [3]float64 {
	p1, p2 := orthonormalBasis(dir)
	st, ct := math.Sin(theta), math.Cos(theta)
	cp, sp := math.Cos(phi), math.Sin(phi)

	// build the new direction as a linear combination of (dir, p1, p2) using
	// a 3x3 matrix-vector product, rather than writing the combination out
	// by hand, to keep the rotation expressed as one linear map.
	basis := mat.NewDense(3, 3, []float64{
		dir[0], p1[0], p2[0],
		dir[1], p1[1], p2[1],
		dir[2], p1[2], p2[2],
	})
	coeffs := mat.NewVecDense(3, []float64{ct, st * cp, st * sp})
	var out mat.VecDense
	out.MulVec(basis, coeffs)
	return normalize([3]float64{out.AtVec(0), out.AtVec(1), out.AtVec(2)})
}
