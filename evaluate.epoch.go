package hydrotrend

import (
	"errors"
	"math"

	"github.com/mcflugen/sedflux-sub001/flow"
	"github.com/mcflugen/sedflux-sub001/forcing"
	"github.com/mcflugen/sedflux-sub001/sediment"
	"github.com/sirupsen/logrus"
)

// MaxRetries bounds the flood-exceedance retry loop of a year.
const MaxRetries = 10

// passAcc collects the statistics a pass hands to the next.
type passAcc struct {
	sumQ  float64
	ndays int
	sumT  float64 // of annual basin-mean temperatures
	outQ  []float64

	cur    *eventAcc // open event, outlet pass only
	events []eventAcc
}

// eventAcc sums outlet discharge over the days of one event.
type eventAcc struct {
	peak float64
	outQ []float64
	days int
}

// event folds day d of an outlet-pass year into the open event.
func (acc *passAcc) event(yr *yearResult, d int) {
	if !yr.inEvent[d] {
		acc.closeEvent()
		return
	}
	if acc.cur == nil {
		acc.cur = &eventAcc{outQ: make([]float64, len(acc.outQ))}
	}
	q := yr.q[d]
	acc.cur.peak = math.Max(acc.cur.peak, q)
	acc.cur.days++
	for i, f := range yr.frac[d] {
		acc.cur.outQ[i] += q * f
	}
}

func (acc *passAcc) closeEvent() {
	if acc.cur != nil {
		acc.events = append(acc.events, *acc.cur)
		acc.cur = nil
	}
}

// tierMeans averages outlet discharge over the events of each tier of t.
func (acc *passAcc) tierMeans(t *flow.EventTable) [][]float64 {
	acc.closeEvent()
	sums, days := make([][]float64, t.Tiers()), make([]int, t.Tiers())
	for i := range sums {
		sums[i] = make([]float64, len(acc.outQ))
	}
	for _, ev := range acc.events {
		k := t.Tier(ev.peak)
		days[k] += ev.days
		for i, v := range ev.outQ {
			sums[k][i] += v
		}
	}
	for k, s := range sums {
		if days[k] == 0 {
			continue
		}
		for i := range s {
			s[i] /= float64(days[k])
		}
	}
	return sums
}

// runEpoch runs every calibration pass of epoch k. Each pass starts from the
// same carry; only the final pass commits its end state.
func (s *Simulation) runEpoch(k int, sink Sink) error {
	e, err := s.buildEpoch(k)
	if err != nil {
		return &SimulationError{Epoch: k, Year: -1, Pass: PassMeanQ, Err: err}
	}
	rep := newEpochReport(e)
	if s.state == nil {
		if s.state, err = newState(e.cfg, e.layout, e.wrap); err != nil {
			return &SimulationError{Epoch: k, Year: -1, Pass: PassMeanQ, Err: err}
		}
	} else {
		s.state = s.state.Clone()
		rep.IceWrittenOff = s.state.enterEpoch(e.cfg, e.layout)
	}

	start := s.state
	for _, p := range e.passes() {
		end, err := s.runPass(e, p, start, sink, rep)
		if err != nil {
			return err
		}
		if p == PassFinal {
			s.state = end
		}
	}
	rep.finish(e)
	s.Reports = append(s.Reports, *rep)
	s.log.WithFields(logrus.Fields{"epoch": k, "qbar": e.qbar, "qsbar": e.sed.Qsbar, "te": e.te, "correction": e.sed.Correction}).Info("epoch complete")
	return nil
}

func (s *Simulation) runPass(e *epoch, p Pass, start *State, sink Sink, rep *EpochReport) (*State, error) {
	s.rs.BeginEpoch(e.k)
	st := start.Clone()
	if p.outlets() {
		st.Outlets = flow.NewOutlets(e.cfg.Outlets)
		st.Event = flow.EventDetector{Factor: e.cfg.EventFactor, Qbar: e.qbar1}
		e.events = flow.NewEventTable(e.cfg.EventTableN)
	}
	acc := &passAcc{outQ: make([]float64, e.nout())}
	lg := s.log.WithFields(logrus.Fields{"epoch": e.k, "pass": p.String()})

	var annual []error
	for y := 0; y < e.cfg.Years; y++ {
		year := e.cfg.Start + y
		s.rs.BeginYear(year)
		if y == 0 && p.outlets() {
			// the allocation before the first event is drawn like any other
			st.Outlets.Reroll(e.cfg.Outlets, s.rs.OutletCount, s.rs.OutletFraction)
		}

		var (
			out *State
			yr  *yearResult
			err error
		)
		for attempt := 1; ; attempt++ {
			if out, yr, err = e.simulateYear(p, st, year, s.rs, s.series); err != nil {
				return nil, &SimulationError{Epoch: e.k, Year: year, Pass: p, Err: err}
			}
			yr.attempts = attempt
			if yr.peak < e.maxFlood {
				break
			}
			if attempt >= MaxRetries {
				yr.flagged = true
				lg.WithFields(logrus.Fields{"year": year, "peak": yr.peak, "maxflood": e.maxFlood}).Warn("flood ceiling exceeded, year accepted after retries")
				break
			}
		}
		if yr.annual != nil {
			annual = append(annual, yr.annual)
		}
		st = out
		for _, pk := range yr.ended {
			e.events.Add(pk)
		}
		if err := s.accept(e, p, yr, acc, sink, rep); err != nil {
			return nil, &SimulationError{Epoch: e.k, Year: year, Pass: p, Err: err}
		}
	}
	if len(annual) > 0 {
		return nil, &SimulationError{Epoch: e.k, Year: -1, Pass: p, Err: errors.Join(annual...)}
	}
	if err := e.finishPass(p, acc); err != nil {
		return nil, &SimulationError{Epoch: e.k, Year: -1, Pass: p, Err: err}
	}
	lg.WithFields(logrus.Fields{"qbar": acc.sumQ / float64(acc.ndays)}).Debug("pass complete")
	return st, nil
}

// accept folds an accepted year into the pass statistics.
func (s *Simulation) accept(e *epoch, p Pass, yr *yearResult, acc *passAcc, sink Sink, rep *EpochReport) error {
	for d, q := range yr.q {
		acc.sumQ += q
		for i, f := range yr.fracOn(d) {
			acc.outQ[i] += q * f
		}
	}
	if p == PassOutlets {
		for d := range yr.q {
			acc.event(yr, d)
		}
	}
	acc.ndays += forcing.NDays
	acc.sumT += forcing.Lapse(yr.frc.Tannual, e.layout.MeanElev(), e.glacier.Lapse)

	switch p {
	case PassSedimentCal:
		c := e.sed.CFrom(yr.zC)
		for d, q := range yr.q {
			e.sed.Accumulate(q, e.sed.PsiFrom(yr.zPsi[d]), c)
			for i, f := range yr.fracOn(d) {
				om := e.outletSed[i]
				om.Accumulate(q*f, om.PsiFrom(yr.zPsi[d]), om.CFrom(yr.zC))
			}
		}
	case PassFinal:
		rep.year(yr)
		sqs := 0.
		for d := range yr.q {
			r, err := e.dayRecord(yr, d)
			if err != nil {
				return err
			}
			sqs += r.Qs
			if err := sink.Put(r); err != nil {
				return err
			}
		}
		rep.AnnualQs = append(rep.AnnualQs, sqs/forcing.NDays)
		if s.progress != nil {
			s.progress(yr.year)
		}
	}
	return nil
}

// fracOn returns the outlet shares of day d; before the outlet passes all
// discharge leaves through the first slot.
func (yr *yearResult) fracOn(d int) []float64 {
	if yr.frac == nil {
		return []float64{1.}
	}
	return yr.frac[d]
}

// finishPass turns the statistics of a pass into what the later passes need.
func (e *epoch) finishPass(p Pass, acc *passAcc) error {
	nd := float64(acc.ndays)
	switch p {
	case PassMeanQ:
		e.qbar1 = acc.sumQ / nd
		e.basinT = acc.sumT / float64(e.cfg.Years)
	case PassOutlets:
		e.ranking = e.events.Clone()
		e.tierQbar = acc.tierMeans(e.ranking)
	case PassSedimentZero:
		e.qbar = acc.sumQ / nd
		e.outletQbar = make([]float64, len(acc.outQ))
		for i, v := range acc.outQ {
			e.outletQbar[i] = v / nd
		}
		return e.setupSediment()
	case PassSedimentCal:
		e.sed.Calibrate()
		for _, om := range e.outletSed {
			om.Calibrate()
		}
	}
	return nil
}

func (e *epoch) setupSediment() error {
	e.te = e.cfg.Reservoir.TrappingEfficiency(e.qbar)
	b := sediment.Basin{
		Area:   e.layout.Total,
		Relief: e.layout.Relief() / 1000.,
		T:      e.basinT,
		Qbar:   e.qbar,
		Te:     e.te,
	}
	qsbar, err := sediment.Qsbar(e.cfg.Formula, *e.cfg.Coefficients, b)
	if err != nil {
		return err
	}
	e.sed = &sediment.Model{Qsbar: qsbar, Qbar: e.qbar, T: e.basinT, Relief: e.layout.Relief()}

	oqs, err := sediment.OutletQsbar(e.cfg.Formula, *e.cfg.Coefficients, b, e.outletQbar)
	if err != nil {
		return err
	}
	e.outletSed = make([]*sediment.Model, len(oqs))
	for i, v := range oqs {
		e.outletSed[i] = &sediment.Model{Qsbar: v, Qbar: e.outletQbar[i], T: e.basinT, Relief: e.layout.Relief()}
	}
	return nil
}

// dayRecord builds the output record of day d of an accepted final-pass year.
func (e *epoch) dayRecord(yr *yearResult, d int) (Record, error) {
	q := yr.q[d]
	qs, err := e.sed.Flux(q, e.sed.PsiFrom(yr.zPsi[d]), e.sed.CFrom(yr.zC))
	if err != nil {
		return Record{}, err
	}
	qb, err := e.cfg.Bedload.Flux(q)
	if err != nil {
		return Record{}, err
	}
	r := Record{
		Year: yr.year, Day: d, Days: 1,
		Q: q, Qs: qs, Qb: qb,
		Conc:    concentration(qs, q, e.cfg.Grains),
		Glacier: yr.comp.Glacier[d],
		Snow:    yr.comp.Snow[d],
		Rain:    yr.comp.Rain[d],
		SS:      yr.comp.SS[d],
		Exceed:  yr.comp.Exceed[d],
	}
	r.Width, r.Depth, r.Velocity = e.cfg.Geometry.At(q)

	fr := yr.fracOn(d)
	r.Outlets = make([]OutletRecord, len(fr))
	for i, f := range fr {
		om := e.outletSed[i]
		o := OutletRecord{Frac: f, Q: q * f}
		if o.Qs, err = om.Flux(o.Q, om.PsiFrom(yr.zPsi[d]), om.CFrom(yr.zC)); err != nil {
			return Record{}, err
		}
		if w := e.cfg.Outlets.Filter(); w > 0. {
			o.Qs = (1.-w)*o.Qs + w*f*qs
		}
		if o.Qb, err = e.cfg.Bedload.Flux(o.Q); err != nil {
			return Record{}, err
		}
		o.Width, o.Depth, o.Velocity = e.cfg.Geometry.At(o.Q)
		o.Conc = concentration(o.Qs, o.Q, e.cfg.Grains)
		r.Outlets[i] = o
	}
	return r, nil
}

// concentration splits a suspended load [kg/s] over grain classes [kg/m³].
func concentration(qs, q float64, grains []float64) []float64 {
	c := make([]float64, len(grains))
	if q <= 0. {
		return c
	}
	for i, g := range grains {
		c[i] = qs * g / q
	}
	return c
}
