package config

import (
	"github.com/mcflugen/sedflux-sub001/cryo"
	"github.com/mcflugen/sedflux-sub001/flow"
	"github.com/mcflugen/sedflux-sub001/forcing"
	"github.com/mcflugen/sedflux-sub001/hypsometry"
	"github.com/mcflugen/sedflux-sub001/rain"
	"github.com/mcflugen/sedflux-sub001/route"
	"github.com/mcflugen/sedflux-sub001/sediment"
)

// output intervals
const (
	Daily    = "daily"
	Monthly  = "monthly"
	Seasonal = "seasonal"
	Annual   = "annual"
)

// Geography of the basin.
type Geography struct {
	Latitude float64 `json:"latitude" yaml:"latitude"` // [deg]
	Lapse    float64 `json:"lapse" yaml:"lapse"`       // temperature lapse rate [°C/km]
	Length   float64 `json:"length" yaml:"length"`     // main channel length [km]
	Velocity float64 `json:"velocity" yaml:"velocity"` // mean channel velocity [m/s]
}

// Epoch is a contiguous run of years sharing one parameter set.
type Epoch struct {
	Start int `json:"start" yaml:"start"`
	Years int `json:"years" yaml:"years"`

	Climate forcing.Climate    `json:"climate" yaml:"climate"`
	Curve   *hypsometry.Curve  `json:"curve,omitempty" yaml:"curve,omitempty"` // replaces the run curve when set
	Glacier cryo.GlacierParams `json:"glacier" yaml:"glacier"`
	Snow    cryo.SnowParams    `json:"snow" yaml:"snow"`
	Rain    rain.Params        `json:"rain" yaml:"rain"`

	Baseflow     float64           `json:"baseflow" yaml:"baseflow"` // [m³/s]
	MaxFloodCoef float64           `json:"maxfloodcoef" yaml:"maxfloodcoef"`
	MaxFloodExp  float64           `json:"maxfloodexp" yaml:"maxfloodexp"`
	EventFactor  float64           `json:"eventfactor" yaml:"eventfactor"`
	EventTableN  int               `json:"eventtable" yaml:"eventtable"`
	Outlets      flow.OutletConfig `json:"outlets" yaml:"outlets"`

	Formula      string                 `json:"formula" yaml:"formula"`
	Coefficients *sediment.Coefficients `json:"coefficients,omitempty" yaml:"coefficients,omitempty"` // by latitude when unset
	Reservoir    *sediment.Reservoir    `json:"reservoir,omitempty" yaml:"reservoir,omitempty"`
	Bedload      sediment.Bedload       `json:"bedload" yaml:"bedload"`
	Geometry     flow.Geometry          `json:"geometry" yaml:"geometry"`
	Grains       []float64              `json:"grains" yaml:"grains"` // suspended grain-size shares
}

// End is the first year after the epoch.
func (e *Epoch) End() int { return e.Start + e.Years }

// Config is a complete run.
type Config struct {
	Comment       string           `json:"comment" yaml:"comment"`
	Seed          int64            `json:"seed" yaml:"seed"`
	MassCheck     float64          `json:"masscheck" yaml:"masscheck"`
	Wrap          int              `json:"wrap" yaml:"wrap"`       // carry-over window [days]
	BinSize       float64          `json:"binsize" yaml:"binsize"` // [m], curve spacing when 0
	Interval      string           `json:"interval" yaml:"interval"`
	ContinuityTol float64          `json:"continuitytol" yaml:"continuitytol"`
	Series        string           `json:"series,omitempty" yaml:"series,omitempty"` // gob daily T/P, bypasses the climate realizer
	Curve         hypsometry.Curve `json:"curve" yaml:"curve"`
	Geography     Geography        `json:"geography" yaml:"geography"`
	Shoulder      route.Shoulder   `json:"shoulder" yaml:"shoulder"`
	Epochs        []Epoch          `json:"epochs" yaml:"epochs"`
}

// CurveFor returns the hypsometry in effect for epoch k.
func (c *Config) CurveFor(k int) hypsometry.Curve {
	if c.Epochs[k].Curve != nil {
		return *c.Epochs[k].Curve
	}
	return c.Curve
}

// Years simulated over all epochs.
func (c *Config) Years() int {
	n := 0
	for _, e := range c.Epochs {
		n += e.Years
	}
	return n
}
