package cryo

import (
	"math"

	"github.com/mcflugen/sedflux-sub001/hypsometry"
)

const (
	iceFrac  = .35 // share of the glacier, from its toe, that is bare ice
	iceWater = .9  // ice to water-equivalent density ratio
	km3tom3  = 1e9
	km2tom2  = 1e6
)

// Cover is the glaciated part of the basin for one ELA.
type Cover struct {
	ELA                      float64
	Bottom                   int // first glaciated bin, N() when unglaciated
	Area, IceArea, AccumArea float64
	Ice                      []int // bins of the ice-covered (ablation) zone
}

// CoverAt returns the glacier cover for equilibrium-line altitude ela.
func CoverAt(l *hypsometry.Layout, ela float64) Cover {
	c := Cover{ELA: ela, Bottom: l.N()}
	if ela > l.MaxElev {
		return c
	}
	c.Bottom = l.Closest(ela)
	for k := c.Bottom; k < l.N(); k++ {
		c.Area += l.Bins[k].Area
	}
	c.IceArea = iceFrac * c.Area
	c.AccumArea = c.Area - c.IceArea

	cum := 0.
	for k := c.Bottom; k < l.N(); k++ {
		c.Ice = append(c.Ice, k)
		cum += l.Bins[k].Area
		if cum >= c.IceArea {
			break
		}
	}
	return c
}

// Glaciated reports whether bin k lies under the glacier.
func (c Cover) Glaciated(k int) bool { return k >= c.Bottom }

// Volume of ice [km³] for a glacier of area a [km²].
func Volume(a float64) float64 {
	if a <= 0. {
		return 0.
	}
	return .0335 * math.Pow(a, 1.375)
}

// WaterEquivalent of a glacier of area a [km²], in m³.
func WaterEquivalent(a float64) float64 { return Volume(a) * km3tom3 * iceWater }
