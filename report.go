package hydrotrend

import (
	"fmt"
	"io"

	"github.com/maseology/objfunc"
	"github.com/mcflugen/sedflux-sub001/massbal"
)

// EpochReport summarizes the calibration and final pass of an epoch.
type EpochReport struct {
	Epoch, Start, Years int
	Bins                int
	Area, Relief        float64 // [km²], [m]
	MaxFlood            float64 // [m³/s]
	IceWrittenOff       float64 // ice water equivalent dropped at epoch entry [m³]

	Qbar1, Qbar float64 // before and after baseflow blending [m³/s]
	BasinT      float64 // [°C]
	Te          float64
	Qsbar       float64 // [kg/s]
	Correction  float64
	OutletQbar  []float64
	OutletQsbar []float64
	TierQbar    [][]float64 // outlet mean discharge per event tier [m³/s]
	Events      []float64   // largest event peaks [m³/s]
	Retries     int         // rejected candidate years, final pass
	Flagged     []int       // years accepted above the flood ceiling
	GlacierArea []float64   // [km²] per year
	AnnualQs    []float64   // realized mean load per year [kg/s]
	Bias        float64     // of the realized annual load against Qsbar
	Ledger      map[string]*massbal.Account
}

func newEpochReport(e *epoch) *EpochReport {
	return &EpochReport{
		Epoch:    e.k,
		Start:    e.cfg.Start,
		Years:    e.cfg.Years,
		Bins:     e.layout.N(),
		Area:     e.layout.Total,
		Relief:   e.layout.Relief(),
		MaxFlood: e.maxFlood,
		Ledger: map[string]*massbal.Account{
			"glacier":     {},
			"snow":        {},
			"rain":        {},
			"groundwater": {},
		},
	}
}

// year records an accepted final-pass year.
func (r *EpochReport) year(yr *yearResult) {
	r.Retries += yr.attempts - 1
	if yr.flagged {
		r.Flagged = append(r.Flagged, yr.year)
	}
	g, s := yr.glacier, yr.snow
	r.GlacierArea = append(r.GlacierArea, g.Cover.Area)
	r.Ledger["glacier"].Add(g.Precip, g.Evap+g.ToGW+g.Routed+g.Stored)
	r.Ledger["snow"].Add(s.Fall+s.Pack0, s.Evap+s.ToGW+s.Routed+s.Pack)
	r.Ledger["rain"].Add(yr.rain.Rain.In, yr.rain.Rain.Out)
	r.Ledger["groundwater"].Add(yr.rain.GW.In, yr.rain.GW.Out)
}

func (r *EpochReport) finish(e *epoch) {
	r.Qbar1, r.Qbar = e.qbar1, e.qbar
	r.BasinT, r.Te = e.basinT, e.te
	r.Qsbar, r.Correction = e.sed.Qsbar, e.sed.Correction
	r.OutletQbar = append([]float64(nil), e.outletQbar...)
	for _, om := range e.outletSed {
		r.OutletQsbar = append(r.OutletQsbar, om.Qsbar)
	}
	r.Events = append([]float64(nil), e.events.Peaks...)
	for _, qb := range e.tierQbar {
		r.TierQbar = append(r.TierQbar, append([]float64(nil), qb...))
	}

	tgt := make([]float64, len(r.AnnualQs))
	for i := range tgt {
		tgt[i] = r.Qsbar
	}
	if len(tgt) > 0 && r.Qsbar > 0. {
		r.Bias = objfunc.Bias(tgt, r.AnnualQs)
	}
}

// Print writes the report as text.
func (r *EpochReport) Print(w io.Writer) {
	fmt.Fprintf(w, "Epoch %d: %d-%d (%d years)\n", r.Epoch, r.Start, r.Start+r.Years-1, r.Years)
	fmt.Fprintf(w, " basin: %.1f km²  relief %.0f m  %d bins  max flood %.1f m³/s\n", r.Area, r.Relief, r.Bins, r.MaxFlood)
	fmt.Fprintf(w, " Qbar: %.3f m³/s (%.3f before baseflow)  basin T %.2f C\n", r.Qbar, r.Qbar1, r.BasinT)
	fmt.Fprintf(w, " Qsbar: %.4f kg/s  Te %.4f  correction %.5f  bias %.2e\n", r.Qsbar, r.Te, r.Correction, r.Bias)
	for i := range r.OutletQbar {
		fmt.Fprintf(w, "  outlet %d: Qbar %.3f  Qsbar %.4f\n", i, r.OutletQbar[i], r.OutletQsbar[i])
	}
	for t, qb := range r.TierQbar {
		fmt.Fprintf(w, "  event tier %d: outlet Qbar %.3f\n", t, qb)
	}
	if r.IceWrittenOff > 0. {
		fmt.Fprintf(w, " ice written off at epoch entry: %.4e m³\n", r.IceWrittenOff)
	}
	if len(r.Events) > 0 {
		fmt.Fprintf(w, " largest events: %.1f\n", r.Events)
	}
	if r.Retries > 0 || len(r.Flagged) > 0 {
		fmt.Fprintf(w, " flood retries: %d, accepted above ceiling: %v\n", r.Retries, r.Flagged)
	}
	for _, k := range []string{"glacier", "snow", "rain", "groundwater"} {
		a := r.Ledger[k]
		fmt.Fprintf(w, " %-12s in %.6e  out %.6e  rel %.2e\n", k, a.In, a.Out, a.Relative())
	}
}
