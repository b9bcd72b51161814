package sediment

import (
	"errors"
	"fmt"
	"math"
)

// ErrNaN is returned when a sediment flux evaluates to NaN.
var ErrNaN = errors.New("sediment flux is NaN")

const cstd = .17

// Model generates daily suspended load about a calibrated mean.
type Model struct {
	Qsbar, Qbar float64 // [kg/s], [m³/s]
	T           float64 // basin-mean temperature [°C]
	Relief      float64 // [m]

	Correction float64 // scales the daily load to reproduce Qsbar; 1 until calibrated
	sum        float64
	n          int
}

// Cbar is the mean rating exponent.
func (m *Model) Cbar() float64 {
	return 1.4 - .025*m.T + .00013*m.Relief + .145*math.Log(m.Qsbar)
}

// CFrom maps a standard normal deviate to a rating exponent.
func (m *Model) CFrom(z float64) float64 { return m.Cbar() + cstd*z }

// PsiFrom maps a standard normal deviate to a log-normal Psi with mean 1 and
// standard deviation 0.763·0.99995^Qbar.
func (m *Model) PsiFrom(z float64) float64 {
	sd := .763 * math.Pow(.99995, m.Qbar)
	s2 := math.Log(1. + sd*sd)
	return math.Exp(-s2/2. + math.Sqrt(s2)*z)
}

// Flux returns the day's suspended load [kg/s] for discharge q [m³/s].
func (m *Model) Flux(q, psi, c float64) (float64, error) {
	qs := FluxAt(q, m.Qbar, m.Qsbar, psi, c) * m.corr()
	if math.IsNaN(qs) {
		return 0., fmt.Errorf("%w: Q=%g Qbar=%g Qsbar=%g psi=%g C=%g", ErrNaN, q, m.Qbar, m.Qsbar, psi, c)
	}
	return qs, nil
}

// FluxAt is the uncorrected rating Psi·Qsbar·(q/qbar)^C.
func FluxAt(q, qbar, qsbar, psi, c float64) float64 {
	if qbar <= 0. || q <= 0. {
		return 0.
	}
	return psi * qsbar * math.Pow(q/qbar, c)
}

func (m *Model) corr() float64 {
	if m.Correction <= 0. {
		return 1.
	}
	return m.Correction
}

// Accumulate records one day of the calibration pass.
func (m *Model) Accumulate(q, psi, c float64) {
	if m.Qbar > 0. && q > 0. {
		m.sum += psi * math.Pow(q/m.Qbar, c)
	}
	m.n++
}

// Calibrate sets the correction so the accumulated days average to Qsbar.
func (m *Model) Calibrate() float64 {
	m.Correction = 1.
	if m.sum > 0. {
		m.Correction = float64(m.n) / m.sum
	}
	m.sum, m.n = 0., 0
	return m.Correction
}
