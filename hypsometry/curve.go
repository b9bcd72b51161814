package hypsometry

import (
	"errors"
	"fmt"
	"math"
)

// ErrHypsometry flags a malformed hypsometric curve or a binning that lost area.
var ErrHypsometry = errors.New("invalid hypsometry")

// Curve is a digitized hypsometric curve: elevation [m] against cumulative
// area [km²] below that elevation.
type Curve struct {
	Elev []float64 `json:"elev" yaml:"elev"`
	Area []float64 `json:"area" yaml:"area"`
}

// Validate checks the curve is strictly increasing in both elevation and
// cumulative area, with uniform elevation spacing.
func (c Curve) Validate() error {
	n := len(c.Elev)
	if n < 2 || n != len(c.Area) {
		return fmt.Errorf("%w: need at least 2 matching elevation/area pairs (got %d, %d)", ErrHypsometry, len(c.Elev), len(c.Area))
	}
	if c.Area[0] < 0. {
		return fmt.Errorf("%w: negative area at %.1fm", ErrHypsometry, c.Elev[0])
	}
	dz := c.Elev[1] - c.Elev[0]
	for i := 1; i < n; i++ {
		if c.Elev[i] <= c.Elev[i-1] {
			return fmt.Errorf("%w: elevation not increasing at point %d (%.1f <= %.1f)", ErrHypsometry, i, c.Elev[i], c.Elev[i-1])
		}
		if c.Area[i] <= c.Area[i-1] {
			return fmt.Errorf("%w: area not increasing at point %d (%.3f <= %.3f)", ErrHypsometry, i, c.Area[i], c.Area[i-1])
		}
		if math.Abs((c.Elev[i]-c.Elev[i-1])-dz) > 1e-6*dz {
			return fmt.Errorf("%w: non-uniform bin size at point %d (%.3f vs %.3f)", ErrHypsometry, i, c.Elev[i]-c.Elev[i-1], dz)
		}
	}
	return nil
}

// Total drainage area [km²].
func (c Curve) Total() float64 { return c.Area[len(c.Area)-1] - c.Area[0] }

// Spacing of the digitized elevations [m].
func (c Curve) Spacing() float64 { return c.Elev[1] - c.Elev[0] }

// Equal reports whether two curves describe the same layout.
func (c Curve) Equal(o Curve) bool {
	if len(c.Elev) != len(o.Elev) || len(c.Area) != len(o.Area) {
		return false
	}
	for i := range c.Elev {
		if c.Elev[i] != o.Elev[i] || c.Area[i] != o.Area[i] {
			return false
		}
	}
	return true
}
