package cryo

import (
	"math"

	"github.com/maseology/glbopt"
	"github.com/maseology/mmaths"
	"github.com/mcflugen/sedflux-sub001/forcing"
	"github.com/mcflugen/sedflux-sub001/hypsometry"
	"github.com/mcflugen/sedflux-sub001/massbal"
	"github.com/mcflugen/sedflux-sub001/rng"
	"github.com/mcflugen/sedflux-sub001/route"
	"github.com/sirupsen/logrus"
)

const (
	biasStd   = .1  // [°C]
	maxOffset = 30. // [°C]
	noMelt    = 1e3
)

// GlacierParams of an epoch.
type GlacierParams struct {
	ELAStart  *float64 `json:"elastart" yaml:"elastart"`   // [m], no glacier when unset
	ELAChange float64  `json:"elachange" yaml:"elachange"` // [m/yr]
	Evap      float64  `json:"evap" yaml:"evap"`           // share of glacier precipitation lost
	GWFrac    float64  `json:"gwfrac" yaml:"gwfrac"`       // share of melt to groundwater
}

// GlacierState is carried from year to year.
type GlacierState struct {
	Init bool
	ELA  float64 // previous year's ELA [m]
	Area float64 // [km²]
	Ice  float64 // stored water equivalent [m³]
}

// GlacierYear summarizes one simulated glacier year [m³].
type GlacierYear struct {
	Cover                            Cover
	Precip, Evap, Melt, ToGW, Routed float64
	Stored                           float64 // change in ice water equivalent
	Offset                           float64 // temperature offset used to place melt [°C]
}

// Glacier melts and routes ice for the bins above the ELA.
type Glacier struct {
	P      GlacierParams
	Layout *hypsometry.Layout
	Kernel route.Shoulder
	Lapse  float64 // [°C/km]
	Start  int     // epoch start year
	Tol    float64
	Log    logrus.FieldLogger
}

// Elevation returns a settable ELA [m].
func Elevation(z float64) *float64 { return &z }

// ELA for year; +Inf when the epoch has no glacier.
func (g *Glacier) ELA(year int) float64 {
	if g.P.ELAStart == nil {
		return math.Inf(1)
	}
	return *g.P.ELAStart + g.P.ELAChange*float64(year-g.Start)
}

// Year runs the glacier for one year, adding routed melt [m³/s] to q and the
// groundwater diversion [m³] to gw. The glacier area lags the ELA by one year.
func (g *Glacier) Year(st GlacierState, frc *forcing.Forcing, bias *rng.Stream, q, gw []float64) (GlacierState, GlacierYear, error) {
	ela := g.ELA(frc.Year)
	prev := ela
	if st.Init {
		prev = st.ELA
	}
	cov := CoverAt(g.Layout, prev)
	now := CoverAt(g.Layout, ela)

	ice := st.Ice
	if !st.Init {
		ice = WaterEquivalent(cov.Area)
	}

	gy := GlacierYear{Cover: cov}
	for d := 0; d < forcing.NDays; d++ {
		for k := cov.Bottom; k < g.Layout.N(); k++ {
			gy.Precip += frc.P[d] * g.Layout.Bins[k].Area * km2tom2
		}
	}
	gy.Evap = gy.Precip * g.P.Evap

	// melt releases what the new area cannot hold; growth is limited to supply
	avail := ice + gy.Precip - gy.Evap
	gy.Melt = math.Max(0., avail-WaterEquivalent(now.Area))
	nice := avail - gy.Melt
	gy.Stored = nice - ice

	biases := make([]float64, forcing.NDays)
	for d := range biases {
		biases[d] = biasStd * bias.Gasdev()
	}

	v0 := route.Volume(q)
	if gy.Melt > 0. {
		// ice left over from a previous layout melts from wherever ice remains
		mc := cov
		if len(mc.Ice) == 0 {
			mc = now
		}
		if len(mc.Ice) == 0 {
			mc = Cover{Bottom: g.Layout.N() - 1, Ice: []int{g.Layout.N() - 1}}
		}
		w := g.weights(mc, frc, biases, 0.)
		if w.sum <= 0. {
			u, _ := glbopt.Fibonacci(func(u []float64) float64 {
				off := mmaths.LinearTransform(0., maxOffset, u[0])
				if g.weights(mc, frc, biases, off).sum <= 0. {
					return noMelt
				}
				return off
			})
			gy.Offset = mmaths.LinearTransform(0., maxOffset, u)
			w = g.weights(mc, frc, biases, gy.Offset)
			if g.Log != nil {
				g.Log.WithFields(logrus.Fields{"year": frc.Year, "offset": gy.Offset}).Warn("basin too cold for glacier melt, temperature offset applied")
			}
		}
		if w.sum <= 0. {
			w = uniform(mc, g.Layout)
		}
		for d := 0; d < forcing.NDays; d++ {
			for i, k := range mc.Ice {
				m := gy.Melt * w.pdd[d][i] / w.sum
				if m <= 0. {
					continue
				}
				dg := m * g.P.GWFrac
				gw[d] += dg
				gy.ToGW += dg
				g.Kernel.Route(q, d, g.Layout.Bins[k].Lag, m-dg)
			}
		}
	}
	gy.Routed = route.Volume(q) - v0

	in := ice + gy.Precip
	out := nice + gy.Evap + gy.ToGW + gy.Routed
	if err := massbal.Check("glacier", frc.Year, -1, in, out, g.Tol); err != nil {
		return st, gy, err
	}

	return GlacierState{Init: true, ELA: ela, Area: now.Area, Ice: nice}, gy, nil
}

type pddTable struct {
	pdd [][]float64 // [day][ice bin] area-weighted positive degree-days
	sum float64
}

func (g *Glacier) weights(cov Cover, frc *forcing.Forcing, biases []float64, off float64) pddTable {
	t := pddTable{pdd: make([][]float64, forcing.NDays)}
	for d := range t.pdd {
		t.pdd[d] = make([]float64, len(cov.Ice))
		for i, k := range cov.Ice {
			b := g.Layout.Bins[k]
			if tb := forcing.Lapse(frc.Tc[d], b.Elev, g.Lapse) + biases[d] + off; tb > 0. {
				t.pdd[d][i] = tb * b.Area
				t.sum += tb * b.Area
			}
		}
	}
	return t
}

func uniform(cov Cover, l *hypsometry.Layout) pddTable {
	t := pddTable{pdd: make([][]float64, forcing.NDays)}
	for d := range t.pdd {
		t.pdd[d] = make([]float64, len(cov.Ice))
		for i, k := range cov.Ice {
			t.pdd[d][i] = l.Bins[k].Area
			t.sum += l.Bins[k].Area
		}
	}
	return t
}
