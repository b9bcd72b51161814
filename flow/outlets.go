package flow

import (
	"errors"
	"fmt"
	"math"

	"github.com/mcflugen/sedflux-sub001/rng"
)

// ErrOutletFractions is returned when outlet shares do not sum to one.
var ErrOutletFractions = errors.New("outlet fractions not normalized")

// outlet allocation modes
const (
	Fixed = "fixed"
	Range = "range"
	Auto  = "auto"
)

// OutletConfig sets how discharge is split between distributaries.
type OutletConfig struct {
	Mode      string    `json:"mode" yaml:"mode"`
	Fractions []float64 `json:"fractions" yaml:"fractions"` // fixed mode
	Min       int       `json:"min" yaml:"min"`             // range mode
	Max       int       `json:"max" yaml:"max"`             // range and auto modes
	Damping   float64   `json:"damping" yaml:"damping"`     // sediment filter weight, [0, 1]
}

// Capacity is the number of outlet slots the configuration can use.
func (c OutletConfig) Capacity() int {
	switch c.Mode {
	case Range, Auto:
		return c.Max
	default:
		if len(c.Fractions) == 0 {
			return 1
		}
		return len(c.Fractions)
	}
}

// Single reports whether all discharge always leaves through one fixed outlet.
func (c OutletConfig) Single() bool { return c.Mode == Fixed && c.Capacity() == 1 }

// Filter is the weight pulling outlet loads toward their discharge share of
// the basin load. A single outlet is never filtered.
func (c OutletConfig) Filter() float64 {
	if c.Single() {
		return 0.
	}
	return c.Damping
}

// Validate checks the mode and, for fixed mode, the fractions.
func (c OutletConfig) Validate(tol float64) error {
	if c.Damping < 0. || c.Damping > 1. {
		return fmt.Errorf(" flow.OutletConfig: damping %g outside [0, 1]", c.Damping)
	}
	switch c.Mode {
	case Fixed:
		if len(c.Fractions) == 0 {
			return nil
		}
		return ValidateFractions(c.Fractions, tol)
	case Range:
		if c.Min < 1 || c.Max < c.Min {
			return fmt.Errorf(" flow.OutletConfig: invalid range [%d, %d]", c.Min, c.Max)
		}
	case Auto:
		if c.Max < 1 {
			return fmt.Errorf(" flow.OutletConfig: auto mode needs max >= 1 (%d)", c.Max)
		}
	default:
		return fmt.Errorf(" flow.OutletConfig: unknown mode %q", c.Mode)
	}
	return nil
}

// ValidateFractions checks shares are non-negative and sum to 1 within tol.
func ValidateFractions(f []float64, tol float64) error {
	s := 0.
	for i, v := range f {
		if v < 0. {
			return fmt.Errorf("%w: negative share %d (%g)", ErrOutletFractions, i, v)
		}
		s += v
	}
	if math.Abs(s-1.) > tol {
		return fmt.Errorf("%w: sum = %.8f", ErrOutletFractions, s)
	}
	return nil
}

// Outlets holds the active outlet count and shares.
type Outlets struct {
	N    int
	Frac []float64 // length Capacity(), inactive slots are zero
}

// NewOutlets returns the allocation in effect before the first event: the
// configured shares in fixed mode, Min equal shares in range mode and a single
// outlet in auto mode.
func NewOutlets(c OutletConfig) Outlets {
	o := Outlets{N: 1, Frac: make([]float64, c.Capacity())}
	switch {
	case c.Mode == Fixed && len(c.Fractions) > 0:
		o.N = len(c.Fractions)
		copy(o.Frac, c.Fractions)
		return o
	case c.Mode == Range && c.Min > 1:
		o.N = c.Min
	}
	for i := 0; i < o.N; i++ {
		o.Frac[i] = 1. / float64(o.N)
	}
	return o
}

// Clone returns an independent copy.
func (o Outlets) Clone() Outlets {
	return Outlets{N: o.N, Frac: append([]float64(nil), o.Frac...)}
}

// Reroll draws a new count and shares at the start of an event. Fixed mode
// keeps its configured shares.
func (o *Outlets) Reroll(c OutletConfig, count, frac *rng.Stream) {
	switch c.Mode {
	case Range:
		o.N = c.Min + count.Intn(c.Max-c.Min+1)
	case Auto:
		o.N = 1 + count.Intn(c.Max)
	default:
		return
	}
	o.draw(frac)
}

// Regime sets n active outlets with freshly drawn shares.
func (o *Outlets) Regime(n int, frac *rng.Stream) {
	if n > len(o.Frac) {
		n = len(o.Frac)
	}
	if n < 1 {
		n = 1
	}
	o.N = n
	o.draw(frac)
}

// AutoCount is the number of outlets active during an event of the given tier
// out of tiers: the largest events open all nmax outlets, the count falling
// linearly toward one for the smallest.
func AutoCount(tier, tiers, nmax int) int {
	if tiers < 1 {
		return nmax
	}
	c := nmax - tier*nmax/tiers
	if c < 1 {
		c = 1
	}
	return c
}

func (o *Outlets) draw(frac *rng.Stream) {
	for i := range o.Frac {
		o.Frac[i] = 0.
	}

	u, s := make([]float64, o.N), 0.
	for i := range u {
		u[i] = frac.Float64() + 1e-3
		s += u[i]
	}
	// the last share closes the sum exactly
	rest := 1.
	for i := 0; i < o.N-1; i++ {
		u[i] /= s
		rest -= u[i]
	}
	u[o.N-1] = rest

	slots := frac.Perm(len(o.Frac))
	for i, v := range u {
		o.Frac[slots[i]] = v
	}
}
