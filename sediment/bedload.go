package sediment

import (
	"fmt"
	"math"
)

// Bedload parameters of the shear-stress rating.
type Bedload struct {
	RhoS   float64 `json:"rhos" yaml:"rhos"`     // grain density [kg/m³]
	Rho    float64 `json:"rho" yaml:"rho"`       // water density [kg/m³]
	Beta   float64 `json:"beta" yaml:"beta"`     // discharge exponent
	Alpha  float64 `json:"alpha" yaml:"alpha"`   // slope exponent
	Slope  float64 `json:"slope" yaml:"slope"`   // river-mouth gradient
	Eb     float64 `json:"eb" yaml:"eb"`         // bedload efficiency
	TanPhi float64 `json:"tanphi" yaml:"tanphi"` // tangent of the limit angle of repose
}

// DefaultBedload for quartz sand.
func DefaultBedload() Bedload {
	return Bedload{RhoS: 2670., Rho: 1000., Beta: 1., Alpha: 1., Slope: .001, Eb: .1, TanPhi: math.Tan(32.21 * math.Pi / 180.)}
}

// Flux [kg/s] for discharge q [m³/s].
func (b Bedload) Flux(q float64) (float64, error) {
	if q <= 0. {
		return 0., nil
	}
	qb := b.RhoS / (b.RhoS - b.Rho) * b.Rho * math.Pow(q, b.Beta) * math.Pow(b.Slope, b.Alpha) * b.Eb / b.TanPhi
	if math.IsNaN(qb) {
		return 0., fmt.Errorf("%w: bedload Q=%g", ErrNaN, q)
	}
	return qb, nil
}
