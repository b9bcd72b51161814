package hydrotrend

import (
	"github.com/mcflugen/sedflux-sub001/config"
	"github.com/mcflugen/sedflux-sub001/forcing"
)

// Aggregator averages daily records over the output interval before passing
// them on. Rates are averaged so volumes are preserved; concentrations are
// load-weighted.
type Aggregator struct {
	key  func(day int) int
	next Sink
	cur  *Record
	ck   int
	n    int
}

// NewAggregator returns a daily pass-through for an unknown interval.
func NewAggregator(interval string, next Sink) *Aggregator {
	a := &Aggregator{next: next}
	switch interval {
	case config.Monthly:
		a.key = forcing.MonthOf
	case config.Seasonal:
		a.key = func(d int) int { return forcing.MonthOf(d) / 3 }
	case config.Annual:
		a.key = func(int) int { return 0 }
	}
	return a
}

func (a *Aggregator) Put(r Record) error {
	if a.key == nil {
		return a.next.Put(r)
	}
	k := a.key(r.Day)
	if a.cur != nil && (r.Year != a.cur.Year || k != a.ck) {
		if err := a.Flush(); err != nil {
			return err
		}
	}
	if a.cur == nil {
		a.cur = &Record{Year: r.Year, Day: r.Day, Conc: make([]float64, len(r.Conc)), Outlets: make([]OutletRecord, len(r.Outlets))}
		for i, o := range r.Outlets {
			a.cur.Outlets[i].Conc = make([]float64, len(o.Conc))
		}
		a.ck, a.n = k, 0
	}
	c := a.cur
	c.Q += r.Q
	c.Qs += r.Qs
	c.Qb += r.Qb
	c.Width += r.Width
	c.Depth += r.Depth
	c.Velocity += r.Velocity
	c.Glacier += r.Glacier
	c.Snow += r.Snow
	c.Rain += r.Rain
	c.SS += r.SS
	c.Exceed += r.Exceed
	addLoad(c.Conc, r.Conc, r.Q)
	for i := range c.Outlets {
		if i >= len(r.Outlets) {
			break
		}
		o, ro := &c.Outlets[i], r.Outlets[i]
		o.Frac += ro.Frac
		o.Q += ro.Q
		o.Qs += ro.Qs
		o.Qb += ro.Qb
		o.Width += ro.Width
		o.Depth += ro.Depth
		o.Velocity += ro.Velocity
		addLoad(o.Conc, ro.Conc, ro.Q)
	}
	a.n++
	return nil
}

// Flush emits the interval in progress.
func (a *Aggregator) Flush() error {
	if a.cur == nil {
		return nil
	}
	c, f := a.cur, 1./float64(a.n)
	a.cur = nil

	c.Days = a.n
	toConc(c.Conc, c.Q)
	c.Q *= f
	c.Qs *= f
	c.Qb *= f
	c.Width *= f
	c.Depth *= f
	c.Velocity *= f
	c.Glacier *= f
	c.Snow *= f
	c.Rain *= f
	c.SS *= f
	c.Exceed *= f
	for i := range c.Outlets {
		o := &c.Outlets[i]
		toConc(o.Conc, o.Q)
		o.Frac *= f
		o.Q *= f
		o.Qs *= f
		o.Qb *= f
		o.Width *= f
		o.Depth *= f
		o.Velocity *= f
	}
	return a.next.Put(*c)
}

// addLoad sums per-grain loads conc·q [kg/s].
func addLoad(sum, conc []float64, q float64) {
	for i := range sum {
		if i < len(conc) {
			sum[i] += conc[i] * q
		}
	}
}

// toConc turns summed loads back into concentration over summed discharge.
func toConc(load []float64, sq float64) {
	for i := range load {
		if sq > 0. {
			load[i] /= sq
		} else {
			load[i] = 0.
		}
	}
}
