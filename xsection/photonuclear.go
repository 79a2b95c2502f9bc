package xsection

import (
	"github.com/cpmech/gosl/fun"

	"github.com/afedynitch/PROPOSAL/medium"
)

// Photonuclear is an A-weighted virtual-photon-nucleus interaction
// parametrisation: unlike the purely electromagnetic processes above, the
// relevant scaling is with nucleon count rather than Z^2.
type Photonuclear struct {
	logSpectrum
}

func init() {
	register("photo", func() Model {
		p := &Photonuclear{}
		p.name = "photo"
		p.typ = TypePhotonuclear
		p.hard = true
		p.rate = 1e-3 * fineStructure * classicalElectronRadiusSq
		p.weight = func(c medium.Component) float64 { return c.A }
		return p
	})
}

// Init implements Model.
//
// Whether a silent-zero contribution should be emitted per-component or
// only when every component saturates vUp==vMax is ambiguous in the
// source material this is based on; this implementation applies the same
// cut-inversion clamp uniformly to every component via ClampInterval,
// deciding that ambiguity in favour of uniform treatment (see DESIGN.md).
func (o *Photonuclear) Init(mass, charge float64, med medium.Medium, cuts EnergyCutSettings, prms fun.Prms) error {
	return o.initCommon(mass, charge, med, cuts, prms, "photo_multiplier")
}

func (o Photonuclear) GetPrms() fun.Prms { return o.logSpectrum.GetPrms("photo_multiplier") }
