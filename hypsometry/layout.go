package hypsometry

import (
	"fmt"
	"math"

	"github.com/maseology/mmaths"
)

const secperday = 86400.

// Bin is one fixed-size elevation band.
type Bin struct {
	Elev float64 // mid-bin elevation [m]
	Area float64 // [km²]
	Lag  int     // travel time to the outlet [days]
}

// Layout is the binned hypsometry of one epoch.
type Layout struct {
	Bins             []Bin
	BinSize          float64 // [m]
	Total            float64 // [km²]
	MinElev, MaxElev float64 // [m]
}

// Build resamples the curve into bins of binSize metres (the curve spacing when
// binSize <= 0) and assigns each bin a travel-time lag from basin length [km]
// and mean channel velocity [m/s]. A bin's lag is proportional to the area
// from the mouth up to and including that bin, so the lowest bin drains first
// and the summit bin travels the full basin length. Binned area must match the
// digitized total within tol.
func Build(c Curve, binSize, lengthKm, velocity, tol float64) (*Layout, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if binSize <= 0. {
		binSize = c.Spacing()
	}
	if velocity <= 0. {
		return nil, fmt.Errorf("%w: channel velocity must be positive (%.3f)", ErrHypsometry, velocity)
	}
	zn, zx := c.Elev[0], c.Elev[len(c.Elev)-1]
	nb := int(math.Ceil((zx-zn)/binSize - 1e-9))

	l := Layout{
		Bins:    make([]Bin, nb),
		BinSize: binSize,
		Total:   c.Total(),
		MinElev: zn,
		MaxElev: zx,
	}

	tarea, a0 := 0., c.interp(zn)
	for k := 0; k < nb; k++ {
		e0, e1 := zn+float64(k)*binSize, math.Min(zn+float64(k+1)*binSize, zx)
		a1 := c.interp(e1)
		l.Bins[k] = Bin{Elev: (e0 + e1) / 2., Area: a1 - a0}
		tarea += a1 - a0
		a0 = a1
	}
	if math.Abs(tarea-l.Total) > tol*l.Total {
		return nil, fmt.Errorf("%w: binned area %.6f km² != digitized area %.6f km²", ErrHypsometry, tarea, l.Total)
	}

	// travel distance scales with the share of the basin at or below the bin
	lm, cum := lengthKm*1000., 0.
	for k := range l.Bins {
		cum += l.Bins[k].Area
		l.Bins[k].Lag = int(math.Floor(lm * cum / l.Total / velocity / secperday))
	}
	return &l, nil
}

// interp returns the cumulative area below elevation z.
func (c Curve) interp(z float64) float64 {
	n := len(c.Elev)
	if z <= c.Elev[0] {
		return c.Area[0]
	}
	if z >= c.Elev[n-1] {
		return c.Area[n-1]
	}
	i := int((z - c.Elev[0]) / c.Spacing())
	if i >= n-1 {
		i = n - 2
	}
	u := (z - c.Elev[i]) / (c.Elev[i+1] - c.Elev[i])
	return mmaths.LinearTransform(c.Area[i], c.Area[i+1], u)
}

// N is the number of bins.
func (l *Layout) N() int { return len(l.Bins) }

// Relief [m].
func (l *Layout) Relief() float64 { return l.MaxElev - l.MinElev }

// MeanElev is the area-weighted mean elevation [m].
func (l *Layout) MeanElev() float64 {
	s := 0.
	for _, b := range l.Bins {
		s += b.Elev * b.Area
	}
	return s / l.Total
}

// MaxLag is the longest bin travel time [days].
func (l *Layout) MaxLag() int {
	m := 0
	for _, b := range l.Bins {
		if b.Lag > m {
			m = b.Lag
		}
	}
	return m
}

// Closest returns the index of the bin whose mid elevation is nearest z.
func (l *Layout) Closest(z float64) int {
	k := int(math.Floor((z - l.MinElev) / l.BinSize))
	if k < 0 {
		return 0
	}
	if k >= len(l.Bins) {
		return len(l.Bins) - 1
	}
	return k
}
