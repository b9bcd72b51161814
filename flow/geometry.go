package flow

import "math"

// Geometry is the at-a-station hydraulic geometry of the river mouth:
// width = A·Q^B, depth = C·Q^F, velocity = K·Q^M.
type Geometry struct {
	A float64 `json:"a" yaml:"a"`
	B float64 `json:"b" yaml:"b"`
	C float64 `json:"c" yaml:"c"`
	F float64 `json:"f" yaml:"f"`
	K float64 `json:"k" yaml:"k"`
	M float64 `json:"m" yaml:"m"`
}

// DefaultGeometry satisfies continuity (A·C·K = 1, B+F+M = 1).
func DefaultGeometry() Geometry {
	return Geometry{A: 7., B: .5, C: .27, F: .4, K: 1. / (7. * .27), M: .1}
}

// At returns width [m], depth [m] and velocity [m/s] for discharge q [m³/s].
func (g Geometry) At(q float64) (w, d, v float64) {
	if q <= 0. {
		return 0., 0., 0.
	}
	return g.A * math.Pow(q, g.B), g.C * math.Pow(q, g.F), g.K * math.Pow(q, g.M)
}
