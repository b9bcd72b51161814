package hydrotrend

import (
	"github.com/mcflugen/sedflux-sub001/config"
	"github.com/mcflugen/sedflux-sub001/cryo"
	"github.com/mcflugen/sedflux-sub001/flow"
	"github.com/mcflugen/sedflux-sub001/forcing"
	"github.com/mcflugen/sedflux-sub001/hypsometry"
	"github.com/mcflugen/sedflux-sub001/rain"
	"github.com/mcflugen/sedflux-sub001/rng"
	"github.com/mcflugen/sedflux-sub001/sediment"
)

// epoch is everything derived once per epoch, plus what the calibration
// passes learn about it.
type epoch struct {
	k      int
	cfg    *config.Epoch
	layout *hypsometry.Layout
	wrap   int
	tol    float64

	realizer *forcing.Realizer
	glacier  *cryo.Glacier
	snow     *cryo.Snow
	rain     *rain.Model

	maxFlood float64
	single   bool // one fixed outlet

	// learned by the passes
	qbar1      float64 // mean discharge before baseflow blending
	basinT     float64 // mean temperature at the basin mean elevation [°C]
	qbar       float64
	outletQbar []float64
	te         float64
	sed        *sediment.Model
	outletSed  []*sediment.Model
	events     *flow.EventTable
	ranking    *flow.EventTable // frozen at the end of the outlet pass
	tierQbar   [][]float64      // [tier][outlet] mean event discharge [m³/s]
}

// regime sets the outlets at the start of an event whose peak discharge is pk.
// Once the outlet pass has ranked the epoch's events, auto mode opens more
// outlets for higher-ranked events; otherwise the allocation is rerolled.
func (e *epoch) regime(o *flow.Outlets, pk float64, rs *rng.Set) {
	c := e.cfg.Outlets
	if c.Mode == flow.Auto && e.ranking != nil && len(e.ranking.Peaks) > 0 {
		o.Regime(flow.AutoCount(e.ranking.Tier(pk), e.ranking.Tiers(), c.Max), rs.OutletFraction)
		return
	}
	o.Reroll(c, rs.OutletCount, rs.OutletFraction)
}

// nout is the number of outlet slots.
func (e *epoch) nout() int { return e.cfg.Outlets.Capacity() }
