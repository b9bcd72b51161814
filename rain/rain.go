package rain

import (
	"math"

	"github.com/mcflugen/sedflux-sub001/cryo"
	"github.com/mcflugen/sedflux-sub001/forcing"
	"github.com/mcflugen/sedflux-sub001/gwru"
	"github.com/mcflugen/sedflux-sub001/hypsometry"
	"github.com/mcflugen/sedflux-sub001/massbal"
	"github.com/mcflugen/sedflux-sub001/route"
)

const (
	secperday = 86400.
	km2tom2   = 1e6
)

// Params of the rain and groundwater model.
type Params struct {
	CanopyAlpha float64 `json:"canopyalpha" yaml:"canopyalpha"` // interception depth [m/day]
	CanopyBeta  float64 `json:"canopybeta" yaml:"canopybeta"`   // interception share of rain
	Ksat        float64 `json:"ksat" yaml:"ksat"`               // saturated infiltration rate [m/day]
	InfilSlope  float64 `json:"infilslope" yaml:"infilslope"`   // capacity slope above Ksat
	GWMin       float64 `json:"gwmin" yaml:"gwmin"`             // [m³]
	GWMax       float64 `json:"gwmax" yaml:"gwmax"`             // [m³]
	GWInit      float64 `json:"gwinit" yaml:"gwinit"`           // [m³]
	GWEvapAlpha float64 `json:"gwevapalpha" yaml:"gwevapalpha"` // [m³/day]
	GWEvapBeta  float64 `json:"gwevapbeta" yaml:"gwevapbeta"`
	SSAlpha     float64 `json:"ssalpha" yaml:"ssalpha"` // subsurface storm flow [m³/s]
	SSBeta      float64 `json:"ssbeta" yaml:"ssbeta"`
}

// Day is the water budget of one day [m³].
type Day struct {
	Rain, Canopy, Ground     float64
	GWEvap, SS, GWIn, Exceed float64
	SatExcess, Infil         float64
	InfilExcess, Routed      float64
}

// Year accumulates the annual budgets of the rain and groundwater subsystems.
type Year struct {
	Rain, GW massbal.Account
	Days     []Day
}

// Model partitions rain on the unglaciated bins above freezing.
type Model struct {
	P      Params
	Layout *hypsometry.Layout
	Kernel route.Shoulder
	Lapse  float64 // [°C/km]
	Tol    float64
}

// infiltration capacity for a rain depth r [m/day]
func (m *Model) infiltration(r float64) float64 {
	if r <= m.P.Ksat {
		return r
	}
	return math.Min(r, m.P.Ksat+m.P.InfilSlope*(r-m.P.Ksat))
}

// Day runs day d: the pool drains first, then receives infiltration and the
// cryosphere diversion gwin [m³]. Routed runoff [m³/s] goes to q, subsurface
// flow to qss[d] and pool overflow to qex[d].
func (m *Model) Day(year, d int, pool gwru.Reservoir, cov cryo.Cover, frc *forcing.Forcing, gwin float64, q, qss, qex []float64) (Day, error) {
	var o Day
	ar := 0.
	bins := make([]int, 0, cov.Bottom)
	for k, b := range m.Layout.Bins {
		if cov.Glaciated(k) || forcing.Lapse(frc.Tc[d], b.Elev, m.Lapse) <= 0. {
			continue
		}
		bins = append(bins, k)
		ar += b.Area * km2tom2
	}
	o.Rain = frc.P[d] * ar
	o.Canopy = math.Min(o.Rain, m.P.CanopyAlpha*ar+m.P.CanopyBeta*o.Rain)
	o.Ground = o.Rain - o.Canopy

	s0 := pool.Storage()
	o.GWEvap, o.SS = pool.Drain(m.P.GWEvapAlpha, m.P.GWEvapBeta, m.P.SSAlpha, m.P.SSBeta)
	qss[d] += o.SS / secperday

	o.SatExcess = pool.Fullness() * o.Ground
	if r := o.Ground - o.SatExcess; r > 0. && ar > 0. {
		o.Infil = m.infiltration(r/ar) * ar
		o.InfilExcess = r - o.Infil
	}

	o.GWIn = o.Infil + gwin
	o.Exceed = pool.Overflow(o.GWIn)
	qex[d] += o.Exceed / secperday

	runoff := o.SatExcess + o.InfilExcess
	v0 := route.Volume(q)
	if runoff > 0. {
		for _, k := range bins {
			b := m.Layout.Bins[k]
			m.Kernel.Route(q, d, b.Lag, runoff*b.Area*km2tom2/ar)
		}
	}
	o.Routed = route.Volume(q) - v0

	in := o.Rain + gwin + s0
	out := o.Canopy + o.GWEvap + o.SS + o.Exceed + o.Routed + pool.Storage()
	if err := massbal.Check("rain", year, d, in, out, m.Tol); err != nil {
		return o, err
	}
	return o, nil
}

// Year runs every day of the year. A daily imbalance stops the year; the
// annual accounts are returned for the caller to check.
func (m *Model) Year(pool gwru.Reservoir, cov cryo.Cover, frc *forcing.Forcing, gwin, q, qss, qex []float64) (Year, error) {
	y := Year{Days: make([]Day, forcing.NDays)}
	g0 := pool.Storage()
	for d := 0; d < forcing.NDays; d++ {
		o, err := m.Day(frc.Year, d, pool, cov, frc, gwin[d], q, qss, qex)
		if err != nil {
			return y, err
		}
		y.Days[d] = o
		y.Rain.Add(o.Rain, o.Canopy+o.Infil+o.Routed)
		y.GW.Add(o.Infil+gwin[d], o.GWEvap+o.SS+o.Exceed)
	}
	y.GW.In += g0
	y.GW.Out += pool.Storage()
	return y, nil
}

// Check tests the annual accounts.
func (y Year) Check(year int, tol float64) error {
	if err := y.Rain.Check("rain", year, -1, tol); err != nil {
		return err
	}
	return y.GW.Check("groundwater", year, -1, tol)
}
