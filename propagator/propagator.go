// Package propagator drives a particle across an ordered list of sectors
// until it stops, decays, or reaches the requested distance, repeatedly
// handing control to whichever sector currently contains the particle.
package propagator

import (
	"github.com/cpmech/gosl/chk"

	"github.com/afedynitch/PROPOSAL/geometry"
	"github.com/afedynitch/PROPOSAL/particle"
	"github.com/afedynitch/PROPOSAL/sector"
)

// Propagator owns the ordered sector list and the detector-reference
// geometry used to classify each sector's location tag.
type Propagator struct {
	Sectors  []*sector.Sector
	Detector geometry.Geometry
	Seed     int64
}

// Uniforms is re-exported so callers only need to import this package to
// wire a deviate stream through to the sector step loop.
type Uniforms = sector.Uniforms

// selectSector returns the sector whose geometry contains st and whose
// location tag matches the detector-relative region at st's position.
// chk.Err is returned if no configured sector matches, which the caller
// should treat as a configuration error.
func (p *Propagator) selectSector(st *particle.State) (*sector.Sector, error) {
	region := geometry.RegionOf(p.Detector, st.X, st.Y, st.Z)
	for _, s := range p.Sectors {
		if s.Location == region && s.Geometry.Contains(st.X, st.Y, st.Z) {
			return s, nil
		}
	}
	return nil, chk.Err("propagator: no sector contains position (%v,%v,%v) in region %v", st.X, st.Y, st.Z, region)
}

// Propagate advances st by up to distance, handing control between sectors
// on every border event, until the particle stops (min energy or decay) or
// the distance budget is exhausted. It returns the final energy if the
// distance was reached, or the negative of the distance actually
// propagated if the particle stopped or decayed earlier.
func (p *Propagator) Propagate(st *particle.State, distance float64, rng Uniforms) (result float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = chk.Err("propagator: %v", r)
		}
	}()

	traveled := 0.0
	for traveled < distance {
		s, serr := p.selectSector(st)
		if serr != nil {
			return -traveled, serr
		}
		remaining := distance - traveled
		res := s.Propagate(st, remaining, rng)
		traveled += res.Distance

		switch res.Outcome {
		case sector.OutcomeBorder:
			continue
		case sector.OutcomeDecay, sector.OutcomeMin:
			return -traveled, nil
		case sector.OutcomeDistance:
			return st.E, nil
		}
	}
	return st.E, nil
}
