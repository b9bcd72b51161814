package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/mcflugen/sedflux-sub001/sediment"
)

// ErrEpochContinuity is returned when epochs do not follow each other in time.
var ErrEpochContinuity = errors.New("epochs not contiguous")

// Validate checks everything that can be checked before simulating.
func (c *Config) Validate() error {
	if len(c.Epochs) == 0 {
		return fmt.Errorf(" config: no epochs")
	}
	if !(c.MassCheck > 0.) {
		return fmt.Errorf(" config: mass balance tolerance must be positive (%g)", c.MassCheck)
	}
	if err := c.Shoulder.Validate(); err != nil {
		return err
	}
	switch c.Interval {
	case Daily, Monthly, Seasonal, Annual:
	default:
		return fmt.Errorf(" config: unknown output interval %q", c.Interval)
	}
	if err := c.Continuity(); err != nil {
		return err
	}
	for k := range c.Epochs {
		e := &c.Epochs[k]
		if e.Years <= 0 {
			return fmt.Errorf(" config: epoch %d has %d years", k, e.Years)
		}
		if err := c.CurveFor(k).Validate(); err != nil {
			return fmt.Errorf("epoch %d: %w", k, err)
		}
		if err := e.Outlets.Validate(c.MassCheck); err != nil {
			return fmt.Errorf("epoch %d: %w", k, err)
		}
		if e.Formula != sediment.ART && e.Formula != sediment.QRT {
			return fmt.Errorf(" config: epoch %d: unknown sediment formula %q", k, e.Formula)
		}
		if e.Rain.GWMax <= e.Rain.GWMin {
			return fmt.Errorf(" config: epoch %d: groundwater max %g <= min %g", k, e.Rain.GWMax, e.Rain.GWMin)
		}
		s := 0.
		for _, g := range e.Grains {
			s += g
		}
		if math.Abs(s-1.) > 1e-6 {
			return fmt.Errorf(" config: epoch %d: grain shares sum to %f", k, s)
		}
	}
	return nil
}

// Continuity rejects epochs that leave gaps or overlap in time.
func (c *Config) Continuity() error {
	for k := 1; k < len(c.Epochs); k++ {
		if p := c.Epochs[k-1]; c.Epochs[k].Start != p.End() {
			return fmt.Errorf("%w: epoch %d starts %d, epoch %d ends %d", ErrEpochContinuity, k, c.Epochs[k].Start, k-1, p.End())
		}
	}
	return nil
}

// Drift lists climate-trend jumps between consecutive epochs larger than
// ContinuityTol (relative). They are reported, not rejected.
func (c *Config) Drift() []string {
	var o []string
	rel := func(a, b float64) float64 {
		if a == 0. {
			return math.Abs(b)
		}
		return math.Abs(b-a) / math.Abs(a)
	}
	for k := 1; k < len(c.Epochs); k++ {
		p, e := &c.Epochs[k-1].Climate, &c.Epochs[k].Climate
		n := float64(c.Epochs[k-1].Years)
		if t0, t1 := p.TrendT(n), e.Tstart; rel(t0, t1) > c.ContinuityTol {
			o = append(o, fmt.Sprintf("epoch %d: temperature trend ends %.3f, next starts %.3f", k-1, t0, t1))
		}
		if p0, p1 := p.TrendP(n), e.Pstart; rel(p0, p1) > c.ContinuityTol {
			o = append(o, fmt.Sprintf("epoch %d: precipitation trend ends %.4f, next starts %.4f", k-1, p0, p1))
		}
		if g0, g1 := c.Epochs[k-1].Glacier, c.Epochs[k].Glacier; g0.ELAStart != nil {
			end := *g0.ELAStart + g0.ELAChange*n
			if g1.ELAStart == nil || rel(end, *g1.ELAStart) > c.ContinuityTol {
				o = append(o, fmt.Sprintf("epoch %d: ELA ends at %.0f m, the glacier restarts from the next epoch's ELA", k-1, end))
			}
		}
		if !c.CurveFor(k - 1).Equal(c.CurveFor(k)) {
			o = append(o, fmt.Sprintf("epoch %d: hypsometry changes, snowpack is remapped onto the new bins", k))
		}
	}
	return o
}
