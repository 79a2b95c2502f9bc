// Package sector implements the per-sector propagation loop: compute the
// candidate stopping points for the current step, pick the one that happens
// first (the largest final energy), apply it, and check for termination.
package sector

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/afedynitch/PROPOSAL/geometry"
	"github.com/afedynitch/PROPOSAL/particle"
	"github.com/afedynitch/PROPOSAL/scattering"
	"github.com/afedynitch/PROPOSAL/utility"
)

// computerPrecision is the tolerance below which a step is considered to
// have made no spatial progress and is snapped forward along the
// direction vector instead.
const computerPrecision = 1e-10

// Outcome names why a sector step loop stopped.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeMin
	OutcomeDistance
	OutcomeDecay
	OutcomeBorder
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMin:
		return "min"
	case OutcomeDistance:
		return "distance"
	case OutcomeDecay:
		return "decay"
	case OutcomeBorder:
		return "border"
	}
	return "none"
}

// Uniforms supplies the stream of uniform deviates the step loop consumes,
// one call per quantity needed, so a sector never owns its own RNG: the
// propagator (and ultimately the caller) owns the single stream, which
// keeps a run reproducible as long as the same stream is replayed in the
// same call order.
type Uniforms interface {
	Float64() float64
}

// Sector holds one geometry region, its location tag, the utility built for
// that region's medium and cuts (which also carries the optional continuous
// randomiser), the minimum energy, the density correction and optional
// scattering, and runs the step loop.
type Sector struct {
	Geometry   geometry.Geometry
	Location   geometry.Location
	Utility    *utility.Utility
	Scattering scattering.Scattering // nil disables deflection
	MinEnergy  float64
	DensityCorrection float64 // defaults to 1.0 if left zero
}

// Result reports how one Propagate call ended.
type Result struct {
	Outcome  Outcome
	Distance float64 // distance actually advanced this call
}

// Propagate advances st in place until one of the stopping conditions
// (interaction, decay, minimum energy, border crossing, distance exhausted)
// fires. distance is the remaining budget the caller still owes this
// particle.
func (s *Sector) Propagate(st *particle.State, distance float64, rng Uniforms) Result {
	density := s.DensityCorrection
	if density <= 0 {
		density = 1.0
	}
	traveled := 0.0

	for {
		ei := st.E
		if ei <= s.MinEnergy {
			return Result{Outcome: OutcomeMin, Distance: traveled}
		}
		if traveled >= distance {
			return Result{Outcome: OutcomeDistance, Distance: traveled}
		}

		candidates := map[Outcome]float64{}

		if ef, ok := s.Utility.EnergyInteraction(ei, rng.Float64()); ok {
			candidates[OutcomeInteraction] = ef
		}
		if !st.Def.Stable() {
			if ef, ok := s.Utility.EnergyDecay(ei, rng.Float64()); ok {
				candidates[OutcomeDecay] = ef
			}
		}
		candidates[OutcomeMin] = s.MinEnergy

		dx, dy, dz := st.Direction()
		remaining := distance - traveled
		borderDist := s.Geometry.DistanceToBorder(st.X, st.Y, st.Z, dx, dy, dz)
		if borderDist > 0 {
			dsToBorder := borderDist * density
			efBorder := s.energyAtDistance(ei, dsToBorder)
			candidates[OutcomeBorder] = efBorder
		}
		efDistance := s.energyAtDistance(ei, remaining*density)
		candidates[OutcomeDistance] = efDistance

		chosen, efFinal := pickLargest(candidates)

		ds := s.Utility.Displacement.Calculate(ei, efFinal, 0) / density
		efFinal2 := s.Utility.EnergyRandomize(ei, efFinal, rng.Float64(), rng.Float64())

		oldX, oldY, oldZ := st.X, st.Y, st.Z
		dt := s.Utility.TimeElapsed(ei, efFinal2, ds)
		st.Advance(ds, dt)

		if math.Abs(st.X-oldX) < computerPrecision &&
			math.Abs(st.Y-oldY) < computerPrecision &&
			math.Abs(st.Z-oldZ) < computerPrecision && ds != 0 {
			// progress-free step: snap forward along the direction vector
			// by the computed ds to avoid looping without advancing.
			st.X = oldX + ds*dx
			st.Y = oldY + ds*dy
			st.Z = oldZ + ds*dz
		}

		if s.Scattering != nil && ds > 0 {
			pos := [3]float64{st.X, st.Y, st.Z}
			dir := [3]float64{dx, dy, dz}
			newPos, newDir := s.Scattering.Scatter(ds, ei, efFinal2, pos, dir,
				rng.Float64(), rng.Float64(), rng.Float64(), rng.Float64())
			st.X, st.Y, st.Z = newPos[0], newPos[1], newPos[2]
			st.SetDirection(newDir[0], newDir[1], newDir[2])
		}

		st.E = efFinal2
		traveled += ds

		switch chosen {
		case OutcomeInteraction:
			c, err := s.Utility.TypeInteraction(st.E, rng.Float64(), rng.Float64())
			if err != nil {
				chk.Panic("sector: %v", err)
			}
			loss := s.Utility.StochasticLoss(c, st.E, rng.Float64(), rng.Float64())
			st.E -= loss
			if st.E < st.Def.Mass {
				st.E = st.Def.Mass
			}
			continue
		case OutcomeDecay:
			st.E = 0
			return Result{Outcome: OutcomeDecay, Distance: traveled}
		case OutcomeBorder:
			return Result{Outcome: OutcomeBorder, Distance: traveled}
		case OutcomeMin:
			return Result{Outcome: OutcomeMin, Distance: traveled}
		case OutcomeDistance:
			return Result{Outcome: OutcomeDistance, Distance: traveled}
		}
	}
}

// OutcomeInteraction is a candidate-only outcome (never itself a terminal
// Result.Outcome exposed in error-free propagation, but declared alongside
// the other Outcome values since the step loop's resolution table treats
// all five candidates uniformly).
const OutcomeInteraction = Outcome(100)

// energyAtDistance finds the energy at which accumulated displacement from
// ei reaches targetDs, via the displacement calculator's GetUpperLimit
// (its interpolant root-finder in table mode, its inverted integral
// otherwise). If targetDs is at least the whole displacement available
// from ei, the rest mass is returned.
func (s *Sector) energyAtDistance(ei, targetDs float64) float64 {
	total := s.Utility.Displacement.TotalAvailable(ei)
	if targetDs >= total {
		return s.Utility.Mass
	}
	return s.Utility.Displacement.GetUpperLimit(ei, targetDs)
}

// pickLargest resolves the competing candidates: the one with the largest
// final energy happens first, since energy decreases monotonically with
// distance travelled.
func pickLargest(candidates map[Outcome]float64) (Outcome, float64) {
	best := OutcomeMin
	bestE := math.Inf(-1)
	// iterate in a fixed priority order so ties break deterministically
	// rather than on Go's randomised map iteration order.
	for _, o := range []Outcome{OutcomeInteraction, OutcomeDecay, OutcomeBorder, OutcomeMin, OutcomeDistance} {
		e, ok := candidates[o]
		if !ok {
			continue
		}
		if e > bestE {
			bestE = e
			best = o
		}
	}
	return best, bestE
}
