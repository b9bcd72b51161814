package hydrotrend

import (
	"github.com/mcflugen/sedflux-sub001/cryo"
	"github.com/mcflugen/sedflux-sub001/flow"
	"github.com/mcflugen/sedflux-sub001/forcing"
	"github.com/mcflugen/sedflux-sub001/rain"
	"github.com/mcflugen/sedflux-sub001/rng"
)

// yearResult is a simulated candidate year. Nothing in it is shared with the
// state it was simulated from.
type yearResult struct {
	year    int
	frc     *forcing.Forcing
	comp    flow.Components // first NDays of each series
	q       []float64       // total daily discharge [m³/s]
	peak    float64
	peakDay int

	frac    [][]float64 // [day] outlet shares, nil before the outlet passes
	inEvent []bool      // [day] discharge above the event threshold
	ended   []float64   // peaks of events that ended this year

	zC   float64   // deviate of the year's rating exponent
	zPsi []float64 // [day] deviates of Psi

	glacier cryo.GlacierYear
	snow    cryo.SnowYear
	rain    rain.Year
	annual  error // annual rain/groundwater imbalance, fatal at the end of the pass

	attempts int
	flagged  bool // accepted above the flood ceiling
}

// simulateYear runs one year from in and returns the candidate end state. in
// is never modified, so a rejected candidate is simply dropped.
func (e *epoch) simulateYear(p Pass, in *State, year int, rs *rng.Set, series *forcing.Series) (*State, *yearResult, error) {
	out := in.Clone()
	yr := &yearResult{year: year}

	if frc, ok := series.Year(year); ok {
		yr.frc = frc
	} else {
		frc, err := e.realizer.Year(year)
		if err != nil {
			return nil, nil, err
		}
		yr.frc = frc
	}

	n := forcing.NDays + e.wrap
	qg, qn, qr := carried(out.Carry.Glacier, n), carried(out.Carry.Snow, n), carried(out.Carry.Rain, n)
	qss, qex := make([]float64, forcing.NDays), make([]float64, forcing.NDays)
	gw := make([]float64, forcing.NDays)

	var err error
	if out.Glacier, yr.glacier, err = e.glacier.Year(out.Glacier, yr.frc, rs.General, qg, gw); err != nil {
		return nil, nil, err
	}
	if out.Snow, yr.snow, err = e.snow.Year(year, out.Snow, yr.glacier.Cover, yr.frc, qn, gw); err != nil {
		return nil, nil, err
	}
	if yr.rain, err = e.rain.Year(&out.Pool, yr.glacier.Cover, yr.frc, gw, qr, qss, qex); err != nil {
		return nil, nil, err
	}
	yr.annual = yr.rain.Check(year, e.tol)

	out.Carry = Carry{
		Glacier: tail(qg, e.wrap),
		Snow:    tail(qn, e.wrap),
		Rain:    tail(qr, e.wrap),
	}
	yr.comp = flow.Components{
		Glacier: qg[:forcing.NDays],
		Snow:    qn[:forcing.NDays],
		Rain:    qr[:forcing.NDays],
		SS:      qss,
		Exceed:  qex,
	}

	qbar := 0.
	if p.blended() {
		qbar = e.qbar1
	}
	yr.q = flow.Aggregate(yr.comp, forcing.NDays, e.cfg.Baseflow, qbar)
	yr.peak, yr.peakDay = flow.Peak(yr.q)

	if p.outlets() {
		yr.frac = make([][]float64, forcing.NDays)
		yr.inEvent = make([]bool, forcing.NDays)
		for d, q := range yr.q {
			start, ended := out.Event.Step(q)
			if start {
				e.regime(&out.Outlets, out.Event.PeakAhead(yr.q[d:]), rs)
			}
			yr.inEvent[d] = out.Event.Above
			if ended > 0. {
				yr.ended = append(yr.ended, ended)
			}
			yr.frac[d] = append([]float64(nil), out.Outlets.Frac...)
		}
	}

	// sediment deviates are drawn in every pass so all passes see the same climate
	yr.zC = rs.General.Gasdev()
	yr.zPsi = make([]float64, forcing.NDays)
	for d := range yr.zPsi {
		yr.zPsi[d] = rs.General.Gasdev()
	}
	return out, yr, nil
}

func carried(c []float64, n int) []float64 {
	q := make([]float64, n)
	copy(q, c)
	return q
}

func tail(q []float64, wrap int) []float64 {
	return append([]float64(nil), q[len(q)-wrap:]...)
}
