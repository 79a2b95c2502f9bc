package xsection

import (
	"github.com/cpmech/gosl/fun"

	"github.com/afedynitch/PROPOSAL/medium"
)

// fineStructure and classicalElectronRadiusSq bundle into the rate
// constants below; kept as named constants rather than inlined magic
// numbers since all three radiative processes reuse them.
const (
	fineStructure             = 1.0 / 137.035999
	classicalElectronRadiusSq = 7.9408e-26 // cm^2, r_e^2
)

// Bremsstrahlung is a Z^2-weighted soft-photon radiative-loss parametrisation.
type Bremsstrahlung struct {
	logSpectrum
}

func init() {
	register("brems", func() Model {
		b := &Bremsstrahlung{}
		b.name = "brems"
		b.typ = TypeBremsstrahlung
		b.hard = true
		b.rate = 4.0 / 3.0 * fineStructure * classicalElectronRadiusSq
		b.weight = func(c medium.Component) float64 { return c.Z * c.Z }
		return b
	})
}

// Init implements Model.
func (o *Bremsstrahlung) Init(mass, charge float64, med medium.Medium, cuts EnergyCutSettings, prms fun.Prms) error {
	return o.initCommon(mass, charge, med, cuts, prms, "brems_multiplier")
}

func (o Bremsstrahlung) GetPrms() fun.Prms { return o.logSpectrum.GetPrms("brems_multiplier") }
