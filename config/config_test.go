package config

import (
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/afedynitch/PROPOSAL/geometry"
)

func Test_config01_defaults(tst *testing.T) {

	chk.PrintTitle("config01: defaults match the documented defaults")

	d, err := Parse(strings.NewReader(""))
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "seed", 0, float64(d.Seed), 1)
	chk.Scalar(tst, "brems", 0, float64(d.Brems), 1)
	chk.Scalar(tst, "photo", 0, float64(d.Photo), 12)
	chk.Scalar(tst, "brems_multiplier", 0, d.BremsMultiplier, 1.0)
}

func Test_config02_full_scenario(tst *testing.T) {

	chk.PrintTitle("config02: a minimum-ionising-muon-in-ice style config parses end to end")

	src := `
# minimum-ionising muon scenario
seed 1
brems_multiplier 1.0
ecut_inside 500
vcut_inside -1
cont_inside false
moliere
detector cylinder 0 0 0 1e7 0 1e7
sector inside cylinder 0 0 0 1e7 0 1e7
`
	d, err := Parse(strings.NewReader(src))
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "seed", 0, float64(d.Seed), 1)
	chk.Scalar(tst, "ecut_inside", 0, d.Cuts[geometry.Inside].ECut, 500)
	chk.Scalar(tst, "vcut_inside", 0, d.Cuts[geometry.Inside].VCut, -1)
	if d.Cuts[geometry.Inside].Cont {
		tst.Fatal("expected cont_inside=false")
	}
	if !d.Moliere {
		tst.Fatal("expected moliere flag set by bare directive")
	}
	if d.Detector == nil {
		tst.Fatal("expected a detector geometry")
	}
	if len(d.Sectors) != 1 {
		tst.Fatalf("expected exactly one sector, got %d", len(d.Sectors))
	}
}

func Test_config03_unrecognised_directive_keeps_previous_value(tst *testing.T) {

	chk.PrintTitle("config03: unknown directives warn and leave state untouched")

	src := "seed 7\nsome_unknown_directive 42\n"
	d, err := Parse(strings.NewReader(src))
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "seed", 0, float64(d.Seed), 7)
}

func Test_config04_malformed_value_is_fatal(tst *testing.T) {

	chk.PrintTitle("config04: a malformed required value is a configuration error")

	_, err := Parse(strings.NewReader("seed notanumber\n"))
	if err == nil {
		tst.Fatal("expected an error for a malformed seed value")
	}
}

func Test_config05_wrong_geometry_token_count_is_fatal(tst *testing.T) {

	chk.PrintTitle("config05: wrong geometry token count is fatal")

	_, err := Parse(strings.NewReader("detector cylinder 1\n"))
	if err == nil {
		tst.Fatal("expected an error for a malformed geometry line")
	}
}

func Test_config06_comment_and_blank_lines_ignored(tst *testing.T) {

	chk.PrintTitle("config06: comments and blank lines do not affect parsing")

	src := "\n# just a comment\n   \nseed 3 # trailing comment\n"
	d, err := Parse(strings.NewReader(src))
	if err != nil {
		tst.Fatal(err)
	}
	chk.Scalar(tst, "seed", 0, float64(d.Seed), 3)
}
