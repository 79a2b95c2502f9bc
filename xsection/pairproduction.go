package xsection

import (
	"github.com/cpmech/gosl/fun"

	"github.com/afedynitch/PROPOSAL/medium"
)

// PairProduction is a Z^2-weighted e+e- pair production parametrisation,
// sharing the same soft-spectrum shape as Bremsstrahlung but with a
// different overall rate (no 4/3 factor, pair production's leading term is
// O(alpha^2) relative to the single power of alpha in bremsstrahlung, folded
// into the smaller rate constant below).
type PairProduction struct {
	logSpectrum
}

func init() {
	register("epair", func() Model {
		p := &PairProduction{}
		p.name = "epair"
		p.typ = TypePairProduction
		p.hard = true
		p.rate = fineStructure * fineStructure * classicalElectronRadiusSq
		p.weight = func(c medium.Component) float64 { return c.Z * c.Z }
		return p
	})
}

// Init implements Model.
func (o *PairProduction) Init(mass, charge float64, med medium.Medium, cuts EnergyCutSettings, prms fun.Prms) error {
	return o.initCommon(mass, charge, med, cuts, prms, "epair_multiplier")
}

func (o PairProduction) GetPrms() fun.Prms { return o.logSpectrum.GetPrms("epair_multiplier") }
