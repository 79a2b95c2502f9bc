// Command propagate reads a propagation configuration file, builds the
// sector list and detector geometry it describes, and propagates one
// muon/tau/electron through it (or a batch of them when -count is above 1
// and the workers directive is above 1), printing the result: flag-parsed filename
// argument, a top-level recover that prints caller info and an error
// banner, and io.Pf-style startup banners.
package main

import (
	"flag"
	"math/rand"
	"os"
	"sync"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/rnd"

	"github.com/afedynitch/PROPOSAL/calc"
	"github.com/afedynitch/PROPOSAL/config"
	"github.com/afedynitch/PROPOSAL/medium"
	"github.com/afedynitch/PROPOSAL/numeric"
	"github.com/afedynitch/PROPOSAL/particle"
	"github.com/afedynitch/PROPOSAL/propagator"
	"github.com/afedynitch/PROPOSAL/scattering"
	"github.com/afedynitch/PROPOSAL/sector"
	"github.com/afedynitch/PROPOSAL/utility"
	"github.com/afedynitch/PROPOSAL/xsection"
)

// defaultMediumName is used for every configured sector. The config
// directive grammar has no per-sector medium-name directive (medium
// composition is a separate concern from the core propagation engine),
// so the driver defaults to ice.
const defaultMediumName = "ice"

func main() {
	exitCode := run()
	os.Exit(exitCode)
}

func run() (exitCode int) {
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			for i := 8; i > 3; i-- {
				chk.CallerInfo(i)
			}
			io.PfRed("ERROR: %v\n", err)
			exitCode = 1
		}
	}()

	io.PfWhite("\npropagate -- charged-lepton Monte Carlo propagation\n\n")

	particleName := flag.String("particle", "mu", "particle kind to propagate (mu, tau, e)")
	energy := flag.Float64("energy", 1e6, "initial energy in MeV")
	distance := flag.Float64("distance", 1e5, "distance budget in cm")
	count := flag.Int("count", 1, "number of independent particles to propagate (only when the config's workers directive is above 1; otherwise one particle is propagated)")
	flag.Parse()

	if len(flag.Args()) == 0 {
		io.PfRed("Please provide a configuration filename. Ex.: muon_ice.cfg\n")
		return 1
	}
	fnamepath := flag.Arg(0)

	f, err := os.Open(fnamepath)
	if err != nil {
		io.PfRed("cannot open configuration file: %v\n", err)
		return 1
	}
	defer f.Close()

	cfg, err := config.Parse(f)
	if err != nil {
		io.PfRed("configuration error: %v\n", err)
		return 1
	}

	def, err := particle.Get(*particleName)
	if err != nil {
		io.PfRed("%v\n", err)
		return 1
	}

	if cfg.Workers > 1 && *count > 1 {
		summary, err := runBatch(cfg, def, *energy, *distance, *count, cfg.Workers)
		if err != nil {
			io.PfRed("%v\n", err)
			return 1
		}
		io.Pf("propagated %d particles across %d workers: %d reached distance target"+
			" (mean final energy %v MeV), %d stopped or decayed (mean distance %v cm)\n",
			*count, cfg.Workers, summary.reached, summary.meanFinalEnergy(),
			summary.stopped, summary.meanStoppedDistance())
		return 0
	}

	rnd.Init(cfg.Seed)
	p, err := buildPropagator(cfg, def)
	if err != nil {
		io.PfRed("configuration error: %v\n", err)
		return 1
	}
	st := particle.New(def, *energy, 0, 0, 0, 0, 0)

	result, err := p.Propagate(st, *distance, globalStream{})
	if err != nil {
		io.PfRed("%v\n", err)
		return 1
	}

	if result > 0 {
		io.Pf("reached distance target: final energy = %v MeV, position = (%v, %v, %v)\n", result, st.X, st.Y, st.Z)
	} else {
		io.Pf("stopped or decayed: propagated distance = %v cm, final energy = %v MeV\n", -result, st.E)
	}
	return 0
}

// batchSummary aggregates the outcome of a goroutine-parallel batch of
// independent propagations, guarded by mu since every worker goroutine
// reports into the same summary.
type batchSummary struct {
	mu                 sync.Mutex
	reached            int
	stopped            int
	sumFinalEnergy     float64
	sumStoppedDistance float64
}

func (b *batchSummary) addReached(finalEnergy float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reached++
	b.sumFinalEnergy += finalEnergy
}

func (b *batchSummary) addStopped(distance float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped++
	b.sumStoppedDistance += distance
}

func (b *batchSummary) meanFinalEnergy() float64 {
	if b.reached == 0 {
		return 0
	}
	return b.sumFinalEnergy / float64(b.reached)
}

func (b *batchSummary) meanStoppedDistance() float64 {
	if b.stopped == 0 {
		return 0
	}
	return b.sumStoppedDistance / float64(b.stopped)
}

// workerStream adapts a per-goroutine math/rand source to the
// propagator.Uniforms interface. gosl/rnd (used by the single-particle
// path above via globalStream) exposes only a process-wide generator with
// no per-instance equivalent anywhere in the example pack, so a genuinely
// concurrent batch seeds its own math/rand source per worker instead,
// deterministically from cfg.Seed and the worker's index.
type workerStream struct{ r *rand.Rand }

func (w workerStream) Float64() float64 { return w.r.Float64() }

// runBatch propagates count independent particles across workers
// goroutines. Each goroutine builds its own propagator.Propagator via
// buildPropagator: numeric.Integrator documents itself as not safe for
// concurrent use, so every sector (and therefore every calculator and its
// Integrator) must be a fresh instance per goroutine, never shared.
func runBatch(cfg *config.Data, def particle.Def, energy, distance float64, count, workers int) (*batchSummary, error) {
	summary := &batchSummary{}
	jobs := make(chan int)
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for w := 0; w < workers; w++ {
		p, err := buildPropagator(cfg, def)
		if err != nil {
			return nil, err
		}
		stream := workerStream{r: rand.New(rand.NewSource(cfg.Seed + int64(w) + 1))}

		wg.Add(1)
		go func(p *propagator.Propagator, stream workerStream) {
			defer wg.Done()
			for range jobs {
				st := particle.New(def, energy, 0, 0, 0, 0, 0)
				result, err := p.Propagate(st, distance, stream)
				if err != nil {
					select {
					case errs <- err:
					default:
					}
					continue
				}
				if result > 0 {
					summary.addReached(result)
				} else {
					summary.addStopped(-result)
				}
			}
		}(p, stream)
	}

	for i := 0; i < count; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(errs)

	if err := <-errs; err != nil {
		return nil, err
	}
	return summary, nil
}

// globalStream adapts gosl/rnd's process-wide generator to the
// propagator.Uniforms interface, seeded once for single-threaded
// command-line use. A multi-worker driver would instead give each
// goroutine its own stream.
type globalStream struct{}

func (globalStream) Float64() float64 { return rnd.Float64(0, 1) }

// buildPropagator wires a parsed config.Data into fully initialised
// sectors (cross-sections, calculators, utility) and a propagator.
// Interpolant-cache loading from cfg.PathToTables is not implemented: the
// engine always builds fresh integral-mode calculators, treating
// file-backed caches as an external concern rather than a core one.
func buildPropagator(cfg *config.Data, def particle.Def) (*propagator.Propagator, error) {
	if cfg.Detector == nil {
		return nil, chk.Err("configuration: missing 'detector' directive")
	}
	if len(cfg.Sectors) == 0 {
		return nil, chk.Err("configuration: no 'sector' directives found")
	}

	med, err := medium.Get(defaultMediumName)
	if err != nil {
		return nil, err
	}

	sectors := make([]*sector.Sector, 0, len(cfg.Sectors))
	for _, spec := range cfg.Sectors {
		cuts, ok := cfg.Cuts[spec.Location]
		if !ok {
			cuts = &config.RegionCuts{ECut: -1, VCut: -1}
		}
		s, err := buildSector(cfg, def, med, spec, cuts)
		if err != nil {
			return nil, err
		}
		sectors = append(sectors, s)
	}

	return &propagator.Propagator{
		Sectors:  sectors,
		Detector: cfg.Detector,
		Seed:     cfg.Seed,
	}, nil
}

func buildSector(cfg *config.Data, def particle.Def, med medium.Medium, spec config.SectorSpec, cuts *config.RegionCuts) (*sector.Sector, error) {
	energyCuts := xsection.EnergyCutSettings{ECut: cuts.ECut, VCut: cuts.VCut}

	multipliers := map[string]float64{
		"ioniz_multiplier": cfg.IonizMultiplier,
		"brems_multiplier": cfg.BremsMultiplier,
		"epair_multiplier": cfg.EpairMultiplier,
		"photo_multiplier": cfg.PhotoMultiplier,
	}
	var xsecs []xsection.CrossSection
	for _, name := range []string{"ioniz", "brems", "epair", "photo"} {
		prmName := name + "_multiplier"
		model, err := xsection.New(name, def.Mass, def.Charge, med, energyCuts,
			fun.Prms{&fun.Prm{N: prmName, V: multipliers[prmName]}})
		if err != nil {
			return nil, err
		}
		xsecs = append(xsecs, model)
	}

	ig := numeric.NewIntegrator(1e-6, 64, 6)
	u := &utility.Utility{
		XSecs:           xsecs,
		Displacement:    calc.NewIntegral(calc.Displacement, xsecs, def.Mass, def.Lifetime, ig, def.ELow),
		InteractionCalc: calc.NewIntegral(calc.Interaction, xsecs, def.Mass, def.Lifetime, ig, def.ELow),
		DecayCalc:       calc.NewIntegral(calc.Decay, xsecs, def.Mass, def.Lifetime, ig, def.ELow),
		Mass:            def.Mass,
	}
	if cuts.Cont {
		u.ContinuousRandom = calc.NewIntegral(calc.ContinuousRandom, xsecs, def.Mass, def.Lifetime, ig, def.ELow)
	}
	if cfg.ExactTime {
		u.TimeCalc = calc.NewIntegral(calc.Time, xsecs, def.Mass, def.Lifetime, ig, def.ELow)
	}

	s := &sector.Sector{
		Geometry:          spec.Geometry,
		Location:          spec.Location,
		Utility:           u,
		MinEnergy:         def.ELow,
		DensityCorrection: med.DensityCorrection,
	}
	if cfg.Moliere {
		s.Scattering = scattering.Moliere{RadiationLength: med.RadiationLength, Mass: def.Mass}
	}
	return s, nil
}
