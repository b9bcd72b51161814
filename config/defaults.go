package config

import (
	"github.com/mcflugen/sedflux-sub001/flow"
	"github.com/mcflugen/sedflux-sub001/route"
	"github.com/mcflugen/sedflux-sub001/sediment"
)

// ApplyDefaults fills unset values.
func (c *Config) ApplyDefaults() {
	if c.MassCheck <= 0. {
		c.MassCheck = 1e-5
	}
	if c.Wrap <= 0 {
		c.Wrap = 30
	}
	if c.Interval == "" {
		c.Interval = Daily
	}
	if c.ContinuityTol <= 0. {
		c.ContinuityTol = .05
	}
	if c.Geography.Velocity <= 0. {
		c.Geography.Velocity = 1.
	}
	if c.Shoulder.Left == 0. && c.Shoulder.Main == 0. && len(c.Shoulder.Right) == 0 {
		c.Shoulder = route.Shoulder{Left: .1, Main: .7, Right: []float64{.15, .05}}
	}
	for k := range c.Epochs {
		area := 0.
		if cv := c.CurveFor(k); len(cv.Area) > 1 {
			area = cv.Total()
		}
		c.Epochs[k].applyDefaults(area, c.Geography)
	}
}

func (e *Epoch) applyDefaults(area float64, g Geography) {
	cl := &e.Climate
	if cl.MaxStd <= 0. {
		cl.MaxStd = 3.
	}
	if cl.RainRange <= 0. {
		cl.RainRange = 3.
	}
	if cl.RainSkew == 0. {
		cl.RainSkew = .7
	}
	if cl.RainCV <= 0. {
		cl.RainCV = 1.5
	}
	if cl.ClusterIter <= 0 {
		cl.ClusterIter = 100
	}
	if cl.ClusterTarget <= 0 {
		cl.ClusterTarget = 8
	}
	if e.Snow.DDF <= 0. {
		e.Snow.DDF = .004
	}

	am2 := area * 1e6
	r := &e.Rain
	if r.Ksat <= 0. {
		r.Ksat = .04
	}
	if r.InfilSlope <= 0. {
		r.InfilSlope = .2
	}
	if r.GWMax <= 0. {
		r.GWMax = .5 * am2
	}
	if r.GWMin <= 0. {
		r.GWMin = .05 * am2
	}
	if r.GWInit <= 0. {
		r.GWInit = (r.GWMin + r.GWMax) / 2.
	}
	if r.GWEvapBeta <= 0. {
		r.GWEvapBeta = 1.
	}
	if r.SSBeta <= 0. {
		r.SSBeta = 1.
	}

	if e.MaxFloodCoef <= 0. {
		e.MaxFloodCoef = 100.
	}
	if e.MaxFloodExp <= 0. {
		e.MaxFloodExp = .6
	}
	if e.EventFactor <= 0. {
		e.EventFactor = 2.
	}
	if e.EventTableN <= 0 {
		e.EventTableN = 10
	}
	if e.Outlets.Mode == "" {
		e.Outlets.Mode = flow.Fixed
	}
	if e.Formula == "" {
		e.Formula = sediment.QRT
	}
	if e.Coefficients == nil {
		c := sediment.DefaultCoefficients(g.Latitude)
		e.Coefficients = &c
	}
	if e.Reservoir != nil && e.Reservoir.LargeKm3 <= 0. {
		e.Reservoir.LargeKm3 = .5
	}
	if e.Bedload.RhoS <= 0. {
		e.Bedload = sediment.DefaultBedload()
	}
	if e.Geometry.A <= 0. {
		e.Geometry = flow.DefaultGeometry()
	}
	if len(e.Grains) == 0 {
		e.Grains = []float64{1.}
	}
}
