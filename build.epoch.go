package hydrotrend

import (
	"github.com/mcflugen/sedflux-sub001/cryo"
	"github.com/mcflugen/sedflux-sub001/flow"
	"github.com/mcflugen/sedflux-sub001/forcing"
	"github.com/mcflugen/sedflux-sub001/hypsometry"
	"github.com/mcflugen/sedflux-sub001/rain"
	"github.com/mcflugen/sedflux-sub001/route"
)

// buildEpoch derives the layout and sub-models of epoch k.
func (s *Simulation) buildEpoch(k int) (*epoch, error) {
	c := s.cfg
	ec := &c.Epochs[k]
	l, err := hypsometry.Build(c.CurveFor(k), c.BinSize, c.Geography.Length, c.Geography.Velocity, c.MassCheck)
	if err != nil {
		return nil, err
	}
	if err := route.CheckWrap(c.Shoulder, l.MaxLag(), c.Wrap); err != nil {
		return nil, err
	}

	e := &epoch{
		k:      k,
		cfg:    ec,
		layout: l,
		wrap:   c.Wrap,
		tol:    c.MassCheck,
		realizer: &forcing.Realizer{
			C:     ec.Climate,
			Start: ec.Start,
			RS:    s.rs,
			Log:   s.log,
		},
		glacier: &cryo.Glacier{
			P:      ec.Glacier,
			Layout: l,
			Kernel: c.Shoulder,
			Lapse:  c.Geography.Lapse,
			Start:  ec.Start,
			Tol:    c.MassCheck,
			Log:    s.log,
		},
		snow: &cryo.Snow{
			P:      ec.Snow,
			Layout: l,
			Kernel: c.Shoulder,
			Lapse:  c.Geography.Lapse,
			Tol:    c.MassCheck,
		},
		rain: &rain.Model{
			P:      ec.Rain,
			Layout: l,
			Kernel: c.Shoulder,
			Lapse:  c.Geography.Lapse,
			Tol:    c.MassCheck,
		},
		maxFlood: flow.MaxFlood(ec.MaxFloodCoef, ec.MaxFloodExp, l.Total),
		single:   ec.Outlets.Single(),
		events:   flow.NewEventTable(ec.EventTableN),
	}
	return e, nil
}

// passes returns the calibration sequence of the epoch. Outlet calibration is
// pointless when all water leaves through one fixed outlet.
func (e *epoch) passes() []Pass {
	if e.single {
		return []Pass{PassMeanQ, PassSedimentZero, PassSedimentCal, PassFinal}
	}
	return []Pass{PassMeanQ, PassOutlets, PassSedimentZero, PassSedimentCal, PassFinal}
}
