package flow

import "math"

// Components are the daily discharge series [m³/s] of one year. The routed
// components may be longer than the year (wrap window); only the first ndays
// are summed.
type Components struct {
	Glacier, Snow, Rain []float64
	SS, Exceed          []float64
}

// Aggregate sums the components over ndays days. With qbar > 0 baseflow
// [m³/s] is blended in proportionally to the day's discharge.
func Aggregate(c Components, ndays int, baseflow, qbar float64) []float64 {
	q := make([]float64, ndays)
	for d := range q {
		q[d] = c.Glacier[d] + c.Snow[d] + c.Rain[d] + c.SS[d] + c.Exceed[d]
		if qbar > 0. {
			q[d] += baseflow * q[d] / qbar
		}
	}
	return q
}

// Peak returns the largest discharge and its day.
func Peak(q []float64) (float64, int) {
	pk, dk := math.Inf(-1), -1
	for d, v := range q {
		if v > pk {
			pk, dk = v, d
		}
	}
	return pk, dk
}

// MaxFlood is the theoretical flood ceiling [m³/s] for a basin of area [km²].
func MaxFlood(coef, exp, area float64) float64 { return coef * math.Pow(area, exp) }
