package gwru

import (
	"fmt"
	"math"
)

const secperday = 86400.

// Pool is the single bounded groundwater reservoir of the basin [m³].
type Pool struct {
	Sto, Min, Max float64
}

// New returns a pool at initial storage s0, clamped into [min,max].
func New(s0, min, max float64) (*Pool, error) {
	if min < 0. || max <= min {
		return nil, fmt.Errorf(" gwru.New: invalid pool bounds [%g, %g]", min, max)
	}
	return &Pool{Sto: math.Max(min, math.Min(max, s0)), Min: min, Max: max}, nil
}

// Storage [m³]
func (p *Pool) Storage() float64 { return p.Sto }

// Fullness returns (sto-min)/(max-min) in [0,1].
func (p *Pool) Fullness() float64 {
	f := (p.Sto - p.Min) / (p.Max - p.Min)
	if f < 0. {
		return 0.
	}
	if f > 1. {
		return 1.
	}
	return f
}

// Drain removes the day's evaporation [m³/day] and subsurface storm flow
// (rates in m³/s) as power laws of fullness. Neither may take the pool below min.
func (p *Pool) Drain(evapAlpha, evapBeta, ssAlpha, ssBeta float64) (evap, ss float64) {
	phi := p.Fullness()
	avail := p.Sto - p.Min
	evap = math.Min(evapAlpha*math.Pow(phi, evapBeta), avail)
	avail -= evap
	ss = math.Min(ssAlpha*math.Pow(phi, ssBeta)*secperday, avail)
	p.Sto -= evap + ss
	return
}

// Overflow adds v [m³] to the pool and returns what spills past max.
// Negative v draws the pool down; the unmet part is returned as a negative.
func (p *Pool) Overflow(v float64) float64 {
	p.Sto += v
	if p.Sto < p.Min {
		d := p.Sto - p.Min
		p.Sto = p.Min
		return d
	} else if p.Sto > p.Max {
		d := p.Sto - p.Max
		p.Sto = p.Max
		return d
	}
	return 0.
}
