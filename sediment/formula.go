package sediment

import (
	"fmt"
	"math"
)

// long-term mean load formulas
const (
	ART = "art" // area, relief, temperature
	QRT = "qrt" // discharge, relief, temperature
)

// Coefficients of the regional load formulas, Qsbar [kg/s] with A [km²],
// Qbar [m³/s], R [km] and T [°C].
type Coefficients struct {
	A3 float64 `json:"a3" yaml:"a3"` // ART
	A4 float64 `json:"a4" yaml:"a4"`
	A5 float64 `json:"a5" yaml:"a5"`
	A6 float64 `json:"a6" yaml:"a6"` // QRT
	A7 float64 `json:"a7" yaml:"a7"`
	A8 float64 `json:"a8" yaml:"a8"`
	K  float64 `json:"k" yaml:"k"` // temperature exponent [1/°C]
}

// DefaultCoefficients returns the regional set for a basin latitude.
func DefaultCoefficients(lat float64) Coefficients {
	switch a := math.Abs(lat); {
	case a >= 60.: // polar
		return Coefficients{A3: 2.e-2, A4: .5, A5: 1.5, A6: 1.3, A7: .31, A8: 1., K: .10}
	case a >= 30.: // temperate
		return Coefficients{A3: 3.e-2, A4: .5, A5: 1.5, A6: 1.9, A7: .31, A8: 1., K: .08}
	default: // tropical
		return Coefficients{A3: 4.e-2, A4: .5, A5: 1.5, A6: 2.6, A7: .31, A8: 1., K: .02}
	}
}

// Basin is what the load formulas need to know about the drainage.
type Basin struct {
	Area   float64 // [km²]
	Relief float64 // [km]
	T      float64 // basin-mean temperature [°C]
	Qbar   float64 // [m³/s]
	Te     float64 // reservoir trapping efficiency
}

// Qsbar is the long-term mean suspended load [kg/s].
func Qsbar(formula string, c Coefficients, b Basin) (float64, error) {
	var qs float64
	switch formula {
	case ART:
		qs = c.A3 * math.Pow(b.Area, c.A4) * math.Pow(b.Relief, c.A5) * math.Exp(c.K*b.T)
	case QRT:
		qs = c.A6 * math.Pow(b.Qbar, c.A7) * math.Pow(b.Relief, c.A8) * math.Exp(c.K*b.T)
	default:
		return 0., fmt.Errorf(" sediment.Qsbar: unknown formula %q", formula)
	}
	qs *= 1. - b.Te
	if math.IsNaN(qs) || math.IsInf(qs, 0) {
		return 0., fmt.Errorf("%w: Qsbar with %+v", ErrNaN, b)
	}
	return qs, nil
}

// OutletQsbar splits the mean load between outlets: by each outlet's mean
// discharge (QRT) or by the matching share of the area (ART).
func OutletQsbar(formula string, c Coefficients, b Basin, qbars []float64) ([]float64, error) {
	o := make([]float64, len(qbars))
	for i, qi := range qbars {
		bi := b
		if b.Qbar > 0. {
			bi.Area = b.Area * (qi / b.Qbar)
		}
		bi.Qbar = qi
		if qi <= 0. {
			continue
		}
		v, err := Qsbar(formula, c, bi)
		if err != nil {
			return nil, err
		}
		o[i] = v
	}
	return o, nil
}
