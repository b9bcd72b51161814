package cryo

import (
	"math"

	"github.com/mcflugen/sedflux-sub001/forcing"
	"github.com/mcflugen/sedflux-sub001/hypsometry"
	"github.com/mcflugen/sedflux-sub001/massbal"
	"github.com/mcflugen/sedflux-sub001/route"
)

// SnowParams of an epoch.
type SnowParams struct {
	DDF    float64 `json:"ddf" yaml:"ddf"`       // degree-day factor [m/°C/day]
	Evap   float64 `json:"evap" yaml:"evap"`     // share of melt lost
	GWFrac float64 `json:"gwfrac" yaml:"gwfrac"` // share of the remaining melt to groundwater
}

// SnowYear summarizes one snow year [m³].
type SnowYear struct {
	Fall, Melt, Evap, ToGW, Routed float64
	Pack0, Pack                    float64 // storage at the start and end of the year
}

// Snow accumulates and melts the pack of the unglaciated bins.
type Snow struct {
	P      SnowParams
	Layout *hypsometry.Layout
	Kernel route.Shoulder
	Lapse  float64 // [°C/km]
	Tol    float64
}

// Year updates the per-bin pack [m³] below the glacier. The pack under the
// glacier is left as it is. Routed melt [m³/s] is added to q and the
// groundwater diversion [m³] to gw.
func (s *Snow) Year(year int, pack []float64, cov Cover, frc *forcing.Forcing, q, gw []float64) ([]float64, SnowYear, error) {
	o := append([]float64(nil), pack...)
	p0 := 0.
	for _, v := range pack {
		p0 += v
	}

	sy := SnowYear{Pack0: p0}
	v0 := route.Volume(q)
	for d := 0; d < forcing.NDays; d++ {
		for k := 0; k < cov.Bottom && k < len(o); k++ {
			b := s.Layout.Bins[k]
			tb := forcing.Lapse(frc.Tc[d], b.Elev, s.Lapse)
			if tb <= 0. {
				f := frc.P[d] * b.Area * km2tom2
				o[k] += f
				sy.Fall += f
				continue
			}
			if o[k] <= 0. {
				continue
			}
			m := math.Min(o[k], s.P.DDF*tb*b.Area*km2tom2)
			o[k] -= m
			sy.Melt += m
			e := m * s.P.Evap
			dg := (m - e) * s.P.GWFrac
			sy.Evap += e
			sy.ToGW += dg
			gw[d] += dg
			s.Kernel.Route(q, d, b.Lag, m-e-dg)
		}
	}
	sy.Routed = route.Volume(q) - v0
	for _, v := range o {
		sy.Pack += v
	}

	if err := massbal.Check("snow", year, -1, p0+sy.Fall, sy.Pack+sy.Evap+sy.ToGW+sy.Routed, s.Tol); err != nil {
		return pack, sy, err
	}
	return o, sy, nil
}
