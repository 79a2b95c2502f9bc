package geometry

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_geometry01_cylinder_contains(tst *testing.T) {

	chk.PrintTitle("geometry01: cylinder containment and border distance")

	c := Cylinder{R: 10, H: 20}
	if !c.Contains(0, 0, 0) {
		tst.Fatal("expected origin inside solid cylinder")
	}
	if c.Contains(11, 0, 0) {
		tst.Fatal("expected point outside radius to be excluded")
	}
	if c.Contains(0, 0, 11) {
		tst.Fatal("expected point beyond half-height to be excluded")
	}

	d := c.DistanceToBorder(0, 0, 0, 0, 0, 1)
	chk.Scalar(tst, "distance to +z cap", 1e-9, d, 10)
}

func Test_geometry02_cylinder_hollow(tst *testing.T) {

	chk.PrintTitle("geometry02: hollow cylinder excludes the inner bore")

	c := Cylinder{R: 10, RIn: 5, H: 20}
	if c.Contains(0, 0, 0) {
		tst.Fatal("expected origin excluded from hollow bore")
	}
	if !c.Contains(7, 0, 0) {
		tst.Fatal("expected point between inner and outer radius to be included")
	}
}

func Test_geometry03_sphere_border(tst *testing.T) {

	chk.PrintTitle("geometry03: sphere containment and radial exit distance")

	s := Sphere{R: 5}
	if !s.Contains(0, 0, 0) {
		tst.Fatal("expected origin inside sphere")
	}
	d := s.DistanceToBorder(0, 0, 0, 1, 0, 0)
	chk.Scalar(tst, "distance to sphere border", 1e-9, d, 5)
}

func Test_geometry04_box_faces(tst *testing.T) {

	chk.PrintTitle("geometry04: box containment and nearest-face distance")

	b := Box{Wx: 4, Wy: 4, Wz: 4}
	if !b.Contains(1, 1, 1) {
		tst.Fatal("expected point inside box")
	}
	d := b.DistanceToBorder(0, 0, 0, 0, 1, 0)
	chk.Scalar(tst, "distance to +y face", 1e-9, d, 2)
}

func Test_geometry05_parse_grammar(tst *testing.T) {

	chk.PrintTitle("geometry05: config-line grammar for all three primitives")

	if _, err := Parse("cylinder", []float64{10, 20}); err != nil {
		tst.Fatal(err)
	}
	if _, err := Parse("cylinder", []float64{10, 5, 20}); err != nil {
		tst.Fatal(err)
	}
	if _, err := Parse("sphere", []float64{5}); err != nil {
		tst.Fatal(err)
	}
	if _, err := Parse("box", []float64{1, 2, 3}); err != nil {
		tst.Fatal(err)
	}
	if _, err := Parse("cylinder", []float64{1}); err == nil {
		tst.Fatal("expected error for wrong token count")
	}
	if _, err := Parse("cone", []float64{1}); err == nil {
		tst.Fatal("expected error for unknown geometry kind")
	}
}

func Test_geometry06_region_of(tst *testing.T) {

	chk.PrintTitle("geometry06: RegionOf classifies inside/infront/behind")

	det := Sphere{R: 10}
	if RegionOf(det, 0, 0, 0) != Inside {
		tst.Fatal("expected inside classification")
	}
	if RegionOf(det, 0, 0, -20) != Infront {
		tst.Fatal("expected infront classification")
	}
	if RegionOf(det, 0, 0, 20) != Behind {
		tst.Fatal("expected behind classification")
	}
}
