package xsection

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"

	"github.com/afedynitch/PROPOSAL/medium"
)

// electronMass is the rest mass of the electron in MeV, used by the
// Bethe-Bloch-style mean excitation term below.
const electronMass = 0.5109989461

// Ionization is a simplified Bethe-Bloch mean-energy-loss parametrisation.
// It has no stochastic component: all loss is continuous.
type Ionization struct {
	mass       float64
	charge     float64
	med        medium.Medium
	multiplier float64

	// derived, cached at Init time
	zOverA float64 // sum_c (multiplicity*Z) / sum_c (multiplicity*A)
	iExc   float64 // mean excitation energy, MeV
}

func init() {
	register("ioniz", func() Model { return new(Ionization) })
}

// Init implements Model.
func (o *Ionization) Init(mass, charge float64, med medium.Medium, cuts EnergyCutSettings, prms fun.Prms) error {
	if err := med.Validate(); err != nil {
		return err
	}
	o.mass = mass
	o.charge = charge
	o.med = med
	o.multiplier = multiplierFromPrms(prms, "ioniz_multiplier", 1.0)

	var sumZ, sumA float64
	for _, c := range med.Components {
		sumZ += c.Multiplicity * c.Z
		sumA += c.Multiplicity * c.A
	}
	if sumA <= 0 {
		return chk.Err("ioniz: medium %q has zero total nucleon weight", med.Name)
	}
	o.zOverA = sumZ / sumA
	// mean excitation energy, Sternheimer-style approximation I = 16*Z^0.9 eV
	var zEff float64
	if len(med.Components) > 0 {
		zEff = sumZ / float64(len(med.Components))
	}
	o.iExc = 16e-6 * math.Pow(math.Max(zEff, 1), 0.9) // MeV
	return nil
}

func (o Ionization) GetPrms() fun.Prms {
	return fun.Prms{&fun.Prm{N: "ioniz_multiplier", V: 1.0}}
}

func (o Ionization) Name() string        { return "ioniz" }
func (o Ionization) Type() Type          { return TypeIonization }
func (o Ionization) HardComponent() bool { return false }

// betaGamma returns (beta, gamma) for the current particle energy.
func (o Ionization) betaGamma(e float64) (beta, gamma float64) {
	gamma = e / o.mass
	beta = math.Sqrt(math.Max(0, 1-1/(gamma*gamma)))
	return
}

// DEdx computes a Bethe-Bloch mean energy loss rate in MeV/cm.
func (o Ionization) DEdx(e float64) float64 {
	beta, gamma := o.betaGamma(e)
	if beta <= 1e-6 {
		return 0
	}
	const k = 0.307075e-3 // MeV*cm^2/g * mol, bundled constant
	wMax := 2 * electronMass * beta * beta * gamma * gamma
	arg := wMax / o.iExc
	if arg <= 1 {
		return 0
	}
	dedx := k * o.charge * o.charge * o.zOverA / (beta * beta) *
		(0.5*math.Log(arg*wMax/o.iExc) - beta*beta)
	if dedx < 0 {
		dedx = 0
	}
	return o.multiplier * dedx * o.med.MassDensity
}

func (o Ionization) DNdx(e float64) float64            { return 0 }
func (o Ionization) DNdxBiased(e, u float64) float64    { return 0 }
func (o Ionization) DE2dx(e float64) float64 {
	// second moment of a purely-continuous process is small but nonzero;
	// approximate via the Landau width scaling dE2/dx ~ dE/dx * <w>.
	return o.DEdx(e) * 1e-3
}
func (o Ionization) StochasticLoss(e, u1, u2 float64) float64 { return 0 }
