// Package config parses the line-oriented propagation configuration
// format: one directive per line, whitespace tokenised, '#' introduces a
// comment, unrecognised directives warn and keep the previous value.
// bufio.Scanner plus github.com/pkg/errors for line-numbered diagnostics
// is the natural fit here, since no library in the ecosystem parses this
// bespoke line grammar.
package config

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	gslio "github.com/cpmech/gosl/io"
	"github.com/pkg/errors"

	"github.com/afedynitch/PROPOSAL/geometry"
)

// RegionCuts bundles the three per-region directives (inside/infront/
// behind): energy cut, relative cut, and whether continuous randomisation
// is enabled.
type RegionCuts struct {
	ECut float64
	VCut float64
	Cont bool
}

// SectorSpec is one `sector` block as read from the config: a geometry
// primitive plus the location tag it governs within the region it
// belongs to. The config format pins geometry per sector line; cuts are
// looked up per the sector's Location from the RegionCuts map Data holds.
type SectorSpec struct {
	Geometry geometry.Geometry
	Location geometry.Location
}

// Data holds everything a single configuration file populates, with
// documented defaults pre-filled.
type Data struct {
	Seed int64

	Brems int
	Photo int

	BremsMultiplier float64
	PhotoMultiplier float64
	EpairMultiplier float64
	IonizMultiplier float64

	Cuts map[geometry.Location]*RegionCuts

	LPM       bool
	Moliere   bool
	ExactTime bool
	Integrate bool

	PathToTables string

	// Workers is the number of goroutines cmd/propagate's runBatch spawns
	// when a run propagates more than one particle (-count > 1). Ignored
	// by the single-particle path and by this package itself.
	Workers int

	Detector geometry.Geometry
	Sectors  []SectorSpec
}

// NewData returns a Data populated with the documented defaults.
func NewData() *Data {
	return &Data{
		Seed:            1,
		Brems:           1,
		Photo:           12,
		BremsMultiplier: 1.0,
		PhotoMultiplier: 1.0,
		EpairMultiplier: 1.0,
		IonizMultiplier: 1.0,
		Cuts: map[geometry.Location]*RegionCuts{
			geometry.Inside:  {ECut: -1, VCut: -1},
			geometry.Infront: {ECut: -1, VCut: -1},
			geometry.Behind:  {ECut: -1, VCut: -1},
		},
		Integrate: true,
		Workers:   1,
	}
}

// locationNames maps a directive's region suffix to the geometry.Location
// it names.
var locationNames = map[string]geometry.Location{
	"inside":  geometry.Inside,
	"infront": geometry.Infront,
	"behind":  geometry.Behind,
}

// Parse reads directives from r into a freshly defaulted Data. Unknown
// tokens generate a warning (printed via gosl/io) and leave the previous
// value untouched. Malformed required values and unknown geometry kinds
// are fatal and returned as an error.
func Parse(r io.Reader) (*Data, error) {
	d := NewData()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		directive := fields[0]
		payload := fields[1:]

		if err := d.apply(directive, payload, scanner, &lineNo); err != nil {
			return nil, errors.Wrapf(err, "config line %d", lineNo)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "config: read error")
	}
	return d, nil
}

func (d *Data) apply(directive string, payload []string, scanner *bufio.Scanner, lineNo *int) error {
	switch {
	case directive == "seed":
		return d.setInt64(directive, payload, &d.Seed)
	case directive == "brems":
		return d.setInt(directive, payload, &d.Brems)
	case directive == "photo":
		return d.setInt(directive, payload, &d.Photo)
	case directive == "brems_multiplier":
		return d.setFloat(directive, payload, &d.BremsMultiplier)
	case directive == "photo_multiplier":
		return d.setFloat(directive, payload, &d.PhotoMultiplier)
	case directive == "epair_multiplier":
		return d.setFloat(directive, payload, &d.EpairMultiplier)
	case directive == "ioniz_multiplier":
		return d.setFloat(directive, payload, &d.IonizMultiplier)
	case directive == "workers":
		return d.setInt(directive, payload, &d.Workers)
	case strings.HasPrefix(directive, "ecut_"):
		loc, ok := locationNames[strings.TrimPrefix(directive, "ecut_")]
		if !ok {
			gslio.PfYel("warning: unknown directive %q, keeping previous value\n", directive)
			return nil
		}
		return d.setFloat(directive, payload, &d.Cuts[loc].ECut)
	case strings.HasPrefix(directive, "vcut_"):
		loc, ok := locationNames[strings.TrimPrefix(directive, "vcut_")]
		if !ok {
			gslio.PfYel("warning: unknown directive %q, keeping previous value\n", directive)
			return nil
		}
		return d.setFloat(directive, payload, &d.Cuts[loc].VCut)
	case strings.HasPrefix(directive, "cont_"):
		loc, ok := locationNames[strings.TrimPrefix(directive, "cont_")]
		if !ok {
			gslio.PfYel("warning: unknown directive %q, keeping previous value\n", directive)
			return nil
		}
		return d.setBool(directive, payload, &d.Cuts[loc].Cont)
	case directive == "lpm":
		return d.setBool(directive, payload, &d.LPM)
	case directive == "moliere":
		return d.setBool(directive, payload, &d.Moliere)
	case directive == "exact_time":
		return d.setBool(directive, payload, &d.ExactTime)
	case directive == "integrate":
		return d.setBool(directive, payload, &d.Integrate)
	case directive == "path_to_tables":
		if len(payload) != 1 {
			return errors.Errorf("path_to_tables expects exactly one path, got %d tokens", len(payload))
		}
		d.PathToTables = payload[0]
		return nil
	case directive == "detector":
		geo, err := parseGeometryLine(payload)
		if err != nil {
			return err
		}
		d.Detector = geo
		return nil
	case directive == "sector":
		return d.parseSector(payload, scanner, lineNo)
	}
	gslio.PfYel("warning: unrecognised directive %q, keeping previous value\n", directive)
	return nil
}

// parseSector reads a region block: the `sector` line's own payload is the
// location tag, followed (on the same line) by the geometry keyword and
// its arguments, e.g. "sector inside cylinder 0 0 0 800 0 1000".
func (d *Data) parseSector(payload []string, scanner *bufio.Scanner, lineNo *int) error {
	if len(payload) < 2 {
		return errors.Errorf("sector expects a location tag and a geometry line, got %d tokens", len(payload))
	}
	loc, ok := locationNames[payload[0]]
	if !ok {
		return errors.Errorf("sector: unknown location tag %q", payload[0])
	}
	geo, err := parseGeometryLine(payload[1:])
	if err != nil {
		return err
	}
	d.Sectors = append(d.Sectors, SectorSpec{Geometry: geo, Location: loc})
	return nil
}

// parseGeometryLine implements the geometry line syntax: the first token
// is the primitive kind, the rest are its numeric arguments.
func parseGeometryLine(payload []string) (geometry.Geometry, error) {
	if len(payload) == 0 {
		return nil, errors.New("geometry line is empty")
	}
	kind := payload[0]
	values := make([]float64, len(payload)-1)
	for i, tok := range payload[1:] {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "geometry argument %q is not a number", tok)
		}
		values[i] = v
	}
	return geometry.Parse(kind, values)
}

func (d *Data) setInt64(name string, payload []string, dst *int64) error {
	if len(payload) != 1 {
		return errors.Errorf("%s expects exactly one integer argument", name)
	}
	v, err := strconv.ParseInt(payload[0], 10, 64)
	if err != nil {
		return errors.Wrapf(err, "%s: invalid integer %q", name, payload[0])
	}
	*dst = v
	return nil
}

func (d *Data) setInt(name string, payload []string, dst *int) error {
	if len(payload) != 1 {
		return errors.Errorf("%s expects exactly one integer argument", name)
	}
	v, err := strconv.Atoi(payload[0])
	if err != nil {
		return errors.Wrapf(err, "%s: invalid integer %q", name, payload[0])
	}
	*dst = v
	return nil
}

func (d *Data) setFloat(name string, payload []string, dst *float64) error {
	if len(payload) != 1 {
		return errors.Errorf("%s expects exactly one numeric argument", name)
	}
	v, err := strconv.ParseFloat(payload[0], 64)
	if err != nil {
		return errors.Wrapf(err, "%s: invalid number %q", name, payload[0])
	}
	*dst = v
	return nil
}

func (d *Data) setBool(name string, payload []string, dst *bool) error {
	if len(payload) == 0 {
		*dst = true // bare flag form, used by lpm / moliere / exact_time / integrate
		return nil
	}
	v, err := strconv.ParseBool(payload[0])
	if err != nil {
		return errors.Wrapf(err, "%s: invalid boolean %q", name, payload[0])
	}
	*dst = v
	return nil
}
