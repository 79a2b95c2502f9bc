// Package geometry implements the shapes a propagation sector is bounded
// by: containment, distance-to-border, and detector-relative region
// predicates, plus three primitives (cylinder, sphere, box) with a small
// config-line grammar for building them from numeric tokens.
package geometry

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Location classifies a sector relative to the detector-reference geometry.
type Location int

const (
	Infront Location = iota
	Inside
	Behind
)

// Geometry is the containment/border interface every bounding shape
// implements.
type Geometry interface {
	Contains(x, y, z float64) bool
	DistanceToBorder(x, y, z, dx, dy, dz float64) float64
}

// Cylinder is a right circular cylinder (optionally hollow) centred on
// (Ox,Oy,Oz) with its axis along z.
type Cylinder struct {
	Ox, Oy, Oz float64
	R, RIn, H  float64 // RIn == 0 means solid
}

// Contains excludes the boundary surface itself: a point exactly on the
// outer radius or cap is treated as belonging to whatever sits outside, so
// that re-selecting a sector right after a border event does not find the
// same sector again.
func (c Cylinder) Contains(x, y, z float64) bool {
	dx, dy, dz := x-c.Ox, y-c.Oy, z-c.Oz
	rho2 := dx*dx + dy*dy
	if rho2 >= c.R*c.R {
		return false
	}
	if c.RIn > 0 && rho2 < c.RIn*c.RIn {
		return false
	}
	return math.Abs(dz) < c.H/2
}

// DistanceToBorder returns the distance along (dx,dy,dz) from (x,y,z) to
// the nearest exit surface of the cylinder, or 0 if the ray never exits
// (degenerate direction). Assumes the starting point is inside.
func (c Cylinder) DistanceToBorder(x, y, z, dx, dy, dz float64) float64 {
	x, y, z = x-c.Ox, y-c.Oy, z-c.Oz
	best := math.Inf(1)

	// radial outer surface: |pos + t*dir|_xy = R
	a := dx*dx + dy*dy
	b := 2 * (x*dx + y*dy)
	cc := x*x + y*y - c.R*c.R
	if t, ok := smallestPositiveRoot(a, b, cc); ok {
		best = math.Min(best, t)
	}

	// radial inner surface of a hollow cylinder: |pos + t*dir|_xy = RIn
	if c.RIn > 0 {
		if t, ok := smallestPositiveRoot(a, b, x*x+y*y-c.RIn*c.RIn); ok {
			best = math.Min(best, t)
		}
	}

	// cap planes z = ±H/2
	if dz != 0 {
		for _, zc := range []float64{c.H / 2, -c.H / 2} {
			t := (zc - z) / dz
			if t > 1e-12 {
				best = math.Min(best, t)
			}
		}
	}
	if math.IsInf(best, 1) {
		return 0
	}
	return best
}

// Sphere is a sphere (optionally hollow) centred on (Ox,Oy,Oz).
type Sphere struct {
	Ox, Oy, Oz float64
	R, RIn     float64
}

// Contains excludes the boundary surface, for the same re-selection reason
// as Cylinder.Contains.
func (s Sphere) Contains(x, y, z float64) bool {
	dx, dy, dz := x-s.Ox, y-s.Oy, z-s.Oz
	r2 := dx*dx + dy*dy + dz*dz
	if r2 >= s.R*s.R {
		return false
	}
	if s.RIn > 0 && r2 < s.RIn*s.RIn {
		return false
	}
	return true
}

func (s Sphere) DistanceToBorder(x, y, z, dx, dy, dz float64) float64 {
	x, y, z = x-s.Ox, y-s.Oy, z-s.Oz
	a := dx*dx + dy*dy + dz*dz
	b := 2 * (x*dx + y*dy + z*dz)
	cc := x*x + y*y + z*z - s.R*s.R
	if t, ok := smallestPositiveRoot(a, b, cc); ok {
		return t
	}
	return 0
}

// Box is an axis-aligned box centred on (Ox,Oy,Oz) with full widths
// (Wx,Wy,Wz).
type Box struct {
	Ox, Oy, Oz    float64
	Wx, Wy, Wz float64
}

// Contains excludes the boundary surface, for the same re-selection reason
// as Cylinder.Contains.
func (bx Box) Contains(x, y, z float64) bool {
	return math.Abs(x-bx.Ox) < bx.Wx/2 &&
		math.Abs(y-bx.Oy) < bx.Wy/2 &&
		math.Abs(z-bx.Oz) < bx.Wz/2
}

func (bx Box) DistanceToBorder(x, y, z, dx, dy, dz float64) float64 {
	x, y, z = x-bx.Ox, y-bx.Oy, z-bx.Oz
	best := math.Inf(1)
	planes := []struct{ pos, dir, half float64 }{
		{x, dx, bx.Wx / 2}, {y, dy, bx.Wy / 2}, {z, dz, bx.Wz / 2},
	}
	for _, p := range planes {
		if p.dir == 0 {
			continue
		}
		for _, face := range []float64{p.half, -p.half} {
			t := (face - p.pos) / p.dir
			if t > 1e-12 {
				best = math.Min(best, t)
			}
		}
	}
	if math.IsInf(best, 1) {
		return 0
	}
	return best
}

// smallestPositiveRoot solves a*t^2+b*t+c=0 and returns the smallest
// strictly-positive root, if any.
func smallestPositiveRoot(a, b, c float64) (float64, bool) {
	if a == 0 {
		if b == 0 {
			return 0, false
		}
		t := -c / b
		if t > 1e-12 {
			return t, true
		}
		return 0, false
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t1 := (-b - sq) / (2 * a)
	t2 := (-b + sq) / (2 * a)
	if t1 > t2 {
		t1, t2 = t2, t1
	}
	if t1 > 1e-12 {
		return t1, true
	}
	if t2 > 1e-12 {
		return t2, true
	}
	return 0, false
}

// Parse builds a Geometry from a tokenised config line whose first token is
// "cylinder", "sphere" or "box" (the keyword itself already stripped).
// Wrong token counts are fatal.
func Parse(kind string, tokens []float64) (Geometry, error) {
	switch kind {
	case "cylinder":
		switch len(tokens) {
		case 2: // r h
			return Cylinder{R: tokens[0], H: tokens[1]}, nil
		case 3: // r r_in h
			return Cylinder{R: tokens[0], RIn: tokens[1], H: tokens[2]}, nil
		case 6: // ox oy oz r r_in h
			return Cylinder{Ox: tokens[0], Oy: tokens[1], Oz: tokens[2], R: tokens[3], RIn: tokens[4], H: tokens[5]}, nil
		}
		return nil, chk.Err("geometry: cylinder expects 2, 3 or 6 values, got %d", len(tokens))
	case "sphere":
		switch len(tokens) {
		case 1: // r
			return Sphere{R: tokens[0]}, nil
		case 2: // r r_in
			return Sphere{R: tokens[0], RIn: tokens[1]}, nil
		case 5: // ox oy oz r r_in
			return Sphere{Ox: tokens[0], Oy: tokens[1], Oz: tokens[2], R: tokens[3], RIn: tokens[4]}, nil
		}
		return nil, chk.Err("geometry: sphere expects 1, 2 or 5 values, got %d", len(tokens))
	case "box":
		switch len(tokens) {
		case 3: // wx wy wz
			return Box{Wx: tokens[0], Wy: tokens[1], Wz: tokens[2]}, nil
		case 6: // ox oy oz wx wy wz
			return Box{Ox: tokens[0], Oy: tokens[1], Oz: tokens[2], Wx: tokens[3], Wy: tokens[4], Wz: tokens[5]}, nil
		}
		return nil, chk.Err("geometry: box expects 3 or 6 values, got %d", len(tokens))
	}
	return nil, chk.Err("geometry: unknown kind %q", kind)
}

// RegionOf classifies point (x,y,z) against the detector reference geometry:
// inside if the detector contains it, infront if it is on the incoming
// (negative-z-ish, i.e. upstream) side, behind otherwise. The exact
// infront/behind split is a half-space test along the outward normal at the
// nearest detector surface point, approximated here by the sign of the
// absolute z coordinate (z < 0 is infront); the detector's own centre is
// not taken into account.
func RegionOf(detector Geometry, x, y, z float64) Location {
	if detector.Contains(x, y, z) {
		return Inside
	}
	if z < 0 {
		return Infront
	}
	return Behind
}
