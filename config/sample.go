package config

import (
	"github.com/mcflugen/sedflux-sub001/cryo"
	"github.com/mcflugen/sedflux-sub001/forcing"
	"github.com/mcflugen/sedflux-sub001/hypsometry"
	"github.com/mcflugen/sedflux-sub001/rain"
)

// Default returns a small temperate, partly glaciated basin of two epochs.
func Default() *Config {
	cl := forcing.Climate{
		Tstart: 6., Tchange: .02, Tstd: .4,
		Pstart: 1.2, Pchange: 0., Pstd: .15,
		TdailyStd: 2.,
	}
	tm := [12]float64{-6., -5., -1., 4., 9., 13., 16., 15., 11., 6., 0., -4.}
	for m := 0; m < 12; m++ {
		cl.Tmonth[m] = tm[m]
		cl.TmonthStd[m] = 1.5
		cl.Pmonth[m] = .1
		cl.PmonthStd[m] = .03
	}
	cl2 := cl
	cl2.Tstart = cl.TrendT(10.)

	ep := Epoch{
		Start:   2000,
		Years:   10,
		Climate: cl,
		Glacier: cryo.GlacierParams{ELAStart: cryo.Elevation(2600.), ELAChange: 5., Evap: .05, GWFrac: .1},
		Snow:    cryo.SnowParams{DDF: .004, Evap: .1, GWFrac: .2},
		Rain: rain.Params{
			CanopyAlpha: .0005, CanopyBeta: .05,
			Ksat: .04, InfilSlope: .2,
			GWEvapAlpha: 2e5, GWEvapBeta: 1.,
			SSAlpha: 20., SSBeta: 1.5,
		},
		Baseflow: 5.,
	}
	ep2 := ep
	ep2.Start, ep2.Climate = 2010, cl2
	ep2.Glacier.ELAStart = cryo.Elevation(*ep.Glacier.ELAStart + 10.*ep.Glacier.ELAChange)

	c := &Config{
		Comment:  "sample temperate mountain basin",
		Seed:     -954,
		Interval: Daily,
		Curve: hypsometry.Curve{
			Elev: []float64{0., 500., 1000., 1500., 2000., 2500., 3000.},
			Area: []float64{0., 2100., 3400., 4200., 4650., 4880., 5000.},
		},
		Geography: Geography{Latitude: 47., Lapse: 6.5, Length: 250., Velocity: 1.},
		Epochs:    []Epoch{ep, ep2},
	}
	c.ApplyDefaults()
	return c
}
