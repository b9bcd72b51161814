package sediment

import "math"

const secperyear = 365. * 86400.

// Reservoir upstream of the mouth.
type Reservoir struct {
	Volume   float64 `json:"volume" yaml:"volume"`     // [km³]
	Area     float64 `json:"area" yaml:"area"`         // drainage above the dam [km²]
	LargeKm3 float64 `json:"largekm3" yaml:"largekm3"` // size threshold between the two regressions
}

// TrappingEfficiency of the reservoir for a mean discharge qbar [m³/s].
// Small reservoirs follow Brown, large ones Vörösmarty.
func (r *Reservoir) TrappingEfficiency(qbar float64) float64 {
	if r == nil || r.Volume <= 0. {
		return 0.
	}
	var te float64
	if r.Volume < r.LargeKm3 {
		te = 1. - 1./(1.+.0021*r.Volume*1e9/r.Area)
	} else {
		if qbar <= 0. {
			return 1.
		}
		tau := r.Volume * 1e9 / qbar / secperyear // residence time [yr]
		te = 1. - .05/math.Sqrt(tau)
	}
	return math.Max(0., math.Min(1., te))
}
