package hydrotrend

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcflugen/sedflux-sub001/config"
	"github.com/mcflugen/sedflux-sub001/cryo"
	"github.com/mcflugen/sedflux-sub001/flow"
	"github.com/mcflugen/sedflux-sub001/forcing"
	"github.com/mcflugen/sedflux-sub001/massbal"
	"github.com/mcflugen/sedflux-sub001/rng"
)

// shortConfig is the sample basin cut to two three-year epochs.
func shortConfig() *config.Config {
	c := config.Default()
	c.Epochs[0].Years = 3
	c.Epochs[1].Start, c.Epochs[1].Years = 2003, 3
	return c
}

func run(t *testing.T, c *config.Config, opts ...Option) (*Simulation, []Record) {
	t.Helper()
	sim, err := New(c, opts...)
	if err != nil {
		t.Fatal(err)
	}
	var ss SliceSink
	if err := sim.Run(&ss); err != nil {
		t.Fatal(err)
	}
	return sim, ss.Records
}

func TestRunDeterministic(t *testing.T) {
	_, a := run(t, shortConfig())
	_, b := run(t, shortConfig())
	if len(a) != 6*365 {
		t.Fatalf("got %d records, want %d", len(a), 6*365)
	}
	if len(a) != len(b) {
		t.Fatalf("record counts differ: %d %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Q != b[i].Q || a[i].Qs != b[i].Qs || a[i].Qb != b[i].Qb {
			t.Fatalf("day %d differs between identical runs", i)
		}
	}

	c := shortConfig()
	c.Seed--
	_, o := run(t, c)
	same := true
	for i := range a {
		if a[i].Q != o[i].Q {
			same = false
			break
		}
	}
	if same {
		t.Error("a different seed reproduced the same series")
	}
}

func TestRecordsArePhysical(t *testing.T) {
	_, rs := run(t, shortConfig())
	yr, day := 2000, 0
	for _, r := range rs {
		if r.Year != yr || r.Day != day {
			t.Fatalf("got %d/%d, want %d/%d", r.Year, r.Day, yr, day)
		}
		if day++; day == 365 {
			yr, day = yr+1, 0
		}
		if r.Q <= 0. || math.IsNaN(r.Q) {
			t.Fatalf("%d/%d: discharge %g", r.Year, r.Day, r.Q)
		}
		if r.Qs < 0. || r.Qb < 0. || r.Width <= 0. {
			t.Fatalf("%d/%d: qs %g qb %g w %g", r.Year, r.Day, r.Qs, r.Qb, r.Width)
		}
		if len(r.Conc) != 1 {
			t.Fatalf("grain classes %d", len(r.Conc))
		}
	}
}

func TestContinuityRejected(t *testing.T) {
	c := shortConfig()
	c.Epochs[1].Start = 2004
	if _, err := New(c); !errors.Is(err, ErrEpochContinuity) {
		t.Errorf("expected ErrEpochContinuity, got %v", err)
	}
}

func TestFloodCeilingRetries(t *testing.T) {
	c := shortConfig()
	for k := range c.Epochs {
		c.Epochs[k].MaxFloodCoef = 1e-9
	}
	sim, rs := run(t, c)
	if len(rs) != 6*365 {
		t.Fatalf("flagged years must still be accepted, got %d records", len(rs))
	}
	for _, r := range sim.Reports {
		if len(r.Flagged) != r.Years {
			t.Errorf("epoch %d: %d flagged years, want %d", r.Epoch, len(r.Flagged), r.Years)
		}
		if r.Retries != r.Years*(MaxRetries-1) {
			t.Errorf("epoch %d: %d retries, want %d", r.Epoch, r.Retries, r.Years*(MaxRetries-1))
		}
	}

	sim, _ = run(t, shortConfig())
	for _, r := range sim.Reports {
		if len(r.Flagged) != 0 {
			t.Errorf("epoch %d: unexpected flagged years %v", r.Epoch, r.Flagged)
		}
	}
}

func TestSingleOutletIsBasin(t *testing.T) {
	_, rs := run(t, shortConfig())
	for _, r := range rs {
		if len(r.Outlets) != 1 {
			t.Fatalf("outlets %d", len(r.Outlets))
		}
		o := r.Outlets[0]
		if o.Frac != 1. || o.Q != r.Q {
			t.Fatalf("%d/%d: outlet share %g q %g vs %g", r.Year, r.Day, o.Frac, o.Q, r.Q)
		}
		if math.Abs(o.Qs-r.Qs) > 1e-9*math.Max(1., r.Qs) {
			t.Fatalf("%d/%d: outlet load %g vs basin %g", r.Year, r.Day, o.Qs, r.Qs)
		}
	}
}

func TestFixedOutletsSplitDischarge(t *testing.T) {
	c := shortConfig()
	for k := range c.Epochs {
		c.Epochs[k].Outlets = flow.OutletConfig{Mode: flow.Fixed, Fractions: []float64{.6, .4}}
	}
	sim, rs := run(t, c)
	for _, r := range rs {
		if len(r.Outlets) != 2 {
			t.Fatalf("outlets %d", len(r.Outlets))
		}
		sq, sf := 0., 0.
		for _, o := range r.Outlets {
			sq += o.Q
			sf += o.Frac
		}
		if math.Abs(sq-r.Q) > 1e-9*r.Q || math.Abs(sf-1.) > 1e-9 {
			t.Fatalf("%d/%d: outlets carry %g of %g (shares %g)", r.Year, r.Day, sq, r.Q, sf)
		}
	}
	for _, r := range sim.Reports {
		if len(r.OutletQbar) != 2 || r.OutletQbar[0] <= r.OutletQbar[1] {
			t.Errorf("epoch %d: outlet means %v", r.Epoch, r.OutletQbar)
		}
	}
}

func TestOutletModes(t *testing.T) {
	cases := []struct {
		name     string
		oc       flow.OutletConfig
		min, max int
	}{
		{"range", flow.OutletConfig{Mode: flow.Range, Min: 2, Max: 3}, 2, 3},
		{"auto", flow.OutletConfig{Mode: flow.Auto, Max: 3}, 1, 3},
		{"fixed damped", flow.OutletConfig{Mode: flow.Fixed, Fractions: []float64{.6, .4}, Damping: 1.}, 2, 2},
	}
	for _, tc := range cases {
		c := shortConfig()
		for k := range c.Epochs {
			c.Epochs[k].Outlets = tc.oc
		}
		sim, rs := run(t, c)
		for _, r := range rs {
			if len(r.Outlets) != tc.oc.Capacity() {
				t.Fatalf("%s: %d outlet records", tc.name, len(r.Outlets))
			}
			sq, sf, act := 0., 0., 0
			for _, o := range r.Outlets {
				sq += o.Q
				sf += o.Frac
				if o.Frac > 0. {
					act++
				}
				if tc.oc.Damping == 1. && math.Abs(o.Qs-o.Frac*r.Qs) > 1e-9*math.Max(1., r.Qs) {
					t.Fatalf("%s %d/%d: damped outlet load %g, want %g", tc.name, r.Year, r.Day, o.Qs, o.Frac*r.Qs)
				}
			}
			if math.Abs(sf-1.) > 1e-9 || math.Abs(sq-r.Q) > 1e-9*r.Q {
				t.Fatalf("%s %d/%d: shares %g carry %g of %g", tc.name, r.Year, r.Day, sf, sq, r.Q)
			}
			if act < tc.min || act > tc.max {
				t.Fatalf("%s %d/%d: %d active outlets outside [%d, %d]", tc.name, r.Year, r.Day, act, tc.min, tc.max)
			}
		}
		for _, r := range sim.Reports {
			if len(r.OutletQbar) != tc.oc.Capacity() || len(r.OutletQsbar) != tc.oc.Capacity() {
				t.Errorf("%s: epoch %d outlet means %v %v", tc.name, r.Epoch, r.OutletQbar, r.OutletQsbar)
			}
			if len(r.TierQbar) == 0 {
				t.Errorf("%s: epoch %d has no event tiers", tc.name, r.Epoch)
			}
			for _, qb := range r.TierQbar {
				if len(qb) != tc.oc.Capacity() {
					t.Errorf("%s: epoch %d tier means %v", tc.name, r.Epoch, qb)
				}
			}
		}
	}
}

func TestAutoRegimeFollowsRanking(t *testing.T) {
	e := &epoch{
		cfg:     &config.Epoch{Outlets: flow.OutletConfig{Mode: flow.Auto, Max: 3}},
		ranking: &flow.EventTable{N: 3, Peaks: []float64{90., 80., 70.}},
	}
	rs := rng.NewSet(-7)
	rs.BeginYear(2000)
	cases := []struct {
		peak float64
		n    int
	}{
		{120., 3}, {85., 3}, {75., 2}, {10., 1},
	}
	for _, tc := range cases {
		o := flow.NewOutlets(e.cfg.Outlets)
		e.regime(&o, tc.peak, rs)
		if o.N != tc.n {
			t.Errorf("peak %g: %d outlets, want %d", tc.peak, o.N, tc.n)
		}
		if err := flow.ValidateFractions(o.Frac, 1e-12); err != nil {
			t.Errorf("peak %g: %v", tc.peak, err)
		}
	}
}

func TestTierMeans(t *testing.T) {
	acc := &passAcc{outQ: make([]float64, 2)}
	yr := &yearResult{
		q:       []float64{1., 30., 50., 1., 25., 1.},
		inEvent: []bool{false, true, true, false, true, false},
		frac:    [][]float64{{1., 0.}, {.5, .5}, {.5, .5}, {1., 0.}, {1., 0.}, {1., 0.}},
	}
	for d := range yr.q {
		acc.event(yr, d)
	}
	got := acc.tierMeans(&flow.EventTable{N: 1, Peaks: []float64{50.}})
	want := [][]float64{{20., 20.}, {25., 0.}}
	if len(got) != len(want) {
		t.Fatalf("tiers %v", got)
	}
	for k := range want {
		for i := range want[k] {
			if math.Abs(got[k][i]-want[k][i]) > 1e-12 {
				t.Errorf("tier means %v, want %v", got, want)
			}
		}
	}
}

func TestRainImbalanceStopsRun(t *testing.T) {
	c := shortConfig()
	for k := range c.Epochs {
		c.Epochs[k].Glacier.ELAStart = nil
	}
	n := 6 * forcing.NDays
	fs := &forcing.Series{Start: c.Epochs[0].Start, T: make([]float64, n), P: make([]float64, n)}
	for d := range fs.T {
		fs.T[d], fs.P[d] = 25., .003 // warm enough for rain on every bin
	}
	fs.P[100] = math.NaN()

	sim, err := New(c, WithSeries(fs))
	if err != nil {
		t.Fatal(err)
	}
	err = sim.Run(nil)
	if !errors.Is(err, massbal.ErrMassBalance) {
		t.Fatalf("expected a mass balance error, got %v", err)
	}
	var me *massbal.Error
	if !errors.As(err, &me) || me.Component != "rain" || me.Year != fs.Start || me.Day != 100 {
		t.Errorf("imbalance reported as %+v", me)
	}
	var se *SimulationError
	if !errors.As(err, &se) || se.Pass != PassMeanQ || se.Epoch != 0 {
		t.Errorf("simulation error %+v", se)
	}
}

func TestWithStateLeavesCheckpoint(t *testing.T) {
	sim, _ := run(t, shortConfig())
	st := sim.State()
	if st.Glacier.Ice <= 0. {
		t.Fatalf("checkpoint holds no ice: %+v", st.Glacier)
	}
	want := st.Clone()

	n := shortConfig()
	n.Epochs = n.Epochs[1:]
	n.Epochs[0].Start = 2006
	run(t, n, WithState(st))
	if _, err := RunEnsemble(n, 3, 3, WithState(st)); err != nil {
		t.Fatal(err)
	}

	if st.Glacier != want.Glacier || st.Pool != want.Pool || len(st.Snow) != len(want.Snow) {
		t.Fatalf("checkpoint modified: %+v", st)
	}
	for i := range want.Snow {
		if st.Snow[i] != want.Snow[i] {
			t.Errorf("snow bin %d: %g, was %g", i, st.Snow[i], want.Snow[i])
		}
	}
	for i := range want.Outlets.Frac {
		if st.Outlets.Frac[i] != want.Outlets.Frac[i] {
			t.Errorf("outlet share %d: %g, was %g", i, st.Outlets.Frac[i], want.Outlets.Frac[i])
		}
	}
}

func TestGlacierPerEpoch(t *testing.T) {
	cases := []struct {
		name      string
		ela       []*float64 // per epoch
		glaciated []bool
	}{
		{"above basin", []*float64{cryo.Elevation(5000.), cryo.Elevation(5000.)}, []bool{false, false}},
		{"unset", []*float64{nil, nil}, []bool{false, false}},
		{"retreats out of basin", []*float64{cryo.Elevation(2600.), cryo.Elevation(5000.)}, []bool{true, false}},
		{"sea level", []*float64{cryo.Elevation(0.), cryo.Elevation(0.)}, []bool{true, true}},
	}
	for _, tc := range cases {
		c := shortConfig()
		for k := range c.Epochs {
			c.Epochs[k].Glacier.ELAStart = tc.ela[k]
			c.Epochs[k].Glacier.ELAChange = 0.
		}
		sim, rs := run(t, c)
		qg := make([]float64, len(c.Epochs))
		for _, r := range rs {
			k := 0
			if r.Year >= c.Epochs[1].Start {
				k = 1
			}
			qg[k] += r.Glacier
		}
		for k, r := range sim.Reports {
			if !tc.glaciated[k] {
				if qg[k] != 0. {
					t.Errorf("%s: epoch %d glacier discharge %g", tc.name, k, qg[k])
				}
				for i, a := range r.GlacierArea {
					if a != 0. {
						t.Errorf("%s: epoch %d year %d glacier area %g", tc.name, k, i, a)
					}
				}
				continue
			}
			for i, a := range r.GlacierArea {
				if a <= 0. {
					t.Errorf("%s: epoch %d year %d not glaciated", tc.name, k, i)
				}
			}
			if tc.ela[k] != nil && *tc.ela[k] == 0. && math.Abs(r.GlacierArea[0]-r.Area) > 1e-3*r.Area {
				t.Errorf("%s: epoch %d glacier %g should cover the basin %g", tc.name, k, r.GlacierArea[0], r.Area)
			}
		}
		if tc.glaciated[0] && !tc.glaciated[1] && sim.Reports[1].IceWrittenOff <= 0. {
			t.Errorf("%s: ice carried into a glacier-free epoch was not written off", tc.name)
		}
	}
}

func TestMassLedger(t *testing.T) {
	sim, _ := run(t, shortConfig())
	if len(sim.Reports) != 2 {
		t.Fatalf("reports %d", len(sim.Reports))
	}
	for _, r := range sim.Reports {
		for k, a := range r.Ledger {
			if a.In == 0. && k != "glacier" {
				t.Errorf("epoch %d %s: nothing entered", r.Epoch, k)
			}
			if rel := a.Relative(); rel > 1e-4 {
				t.Errorf("epoch %d %s: relative imbalance %g", r.Epoch, k, rel)
			}
		}
		if r.Qbar <= 0. || r.Qsbar <= 0. || r.Correction <= 0. {
			t.Errorf("epoch %d: qbar %g qsbar %g correction %g", r.Epoch, r.Qbar, r.Qsbar, r.Correction)
		}
		var buf bytes.Buffer
		r.Print(&buf)
		if !strings.Contains(buf.String(), "groundwater") {
			t.Errorf("report is missing the ledger:\n%s", buf.String())
		}
	}
}

func TestIntervalsPreserveVolume(t *testing.T) {
	_, daily := run(t, shortConfig())
	vq, vs := 0., 0.
	for _, r := range daily {
		vq += r.Q
		vs += r.Qs
	}

	for _, tc := range []struct {
		interval string
		n        int
	}{
		{config.Monthly, 6 * 12},
		{config.Seasonal, 6 * 4},
		{config.Annual, 6},
	} {
		c := shortConfig()
		c.Interval = tc.interval
		_, rs := run(t, c)
		if len(rs) != tc.n {
			t.Errorf("%s: %d records, want %d", tc.interval, len(rs), tc.n)
			continue
		}
		aq, as, nd := 0., 0., 0
		for _, r := range rs {
			aq += r.Q * float64(r.Days)
			as += r.Qs * float64(r.Days)
			nd += r.Days
		}
		if nd != 6*365 {
			t.Errorf("%s: %d days", tc.interval, nd)
		}
		if math.Abs(aq-vq) > 1e-9*vq || math.Abs(as-vs) > 1e-9*vs {
			t.Errorf("%s: volumes %g/%g, want %g/%g", tc.interval, aq, as, vq, vs)
		}
	}
}

func TestAggregatorConcentration(t *testing.T) {
	var ss SliceSink
	a := NewAggregator(config.Annual, &ss)
	for _, r := range []Record{
		{Year: 1, Day: 0, Q: 1., Qs: 2., Conc: []float64{2.}},
		{Year: 1, Day: 1, Q: 3., Qs: 3., Conc: []float64{1.}},
		{Year: 2, Day: 0, Q: 2., Qs: 0., Conc: []float64{0.}},
	} {
		if err := a.Put(r); err != nil {
			t.Fatal(err)
		}
	}
	if err := a.Flush(); err != nil {
		t.Fatal(err)
	}
	if len(ss.Records) != 2 {
		t.Fatalf("records %d", len(ss.Records))
	}
	r := ss.Records[0]
	if r.Days != 2 || r.Q != 2. || r.Qs != 2.5 {
		t.Errorf("got %+v", r)
	}
	if math.Abs(r.Conc[0]-1.25) > 1e-12 { // 5 kg/s over 4 m³/s
		t.Errorf("concentration %g, want 1.25", r.Conc[0])
	}
}

func TestStateCheckpoint(t *testing.T) {
	c := shortConfig()
	sim, _ := run(t, c)
	st := sim.State()
	fp := filepath.Join(t.TempDir(), "state.gob")
	if err := st.SaveGob(fp); err != nil {
		t.Fatal(err)
	}
	got, err := LoadGobState(fp)
	if err != nil {
		t.Fatal(err)
	}
	if got.Pool != st.Pool || got.Glacier.ELA != st.Glacier.ELA || len(got.Snow) != len(st.Snow) {
		t.Errorf("state changed through gob")
	}
	for i := range st.Carry.Rain {
		if got.Carry.Rain[i] != st.Carry.Rain[i] {
			t.Fatalf("carry %d: %g vs %g", i, got.Carry.Rain[i], st.Carry.Rain[i])
		}
	}

	// continue with a following epoch from the checkpoint
	n := shortConfig()
	n.Epochs = n.Epochs[1:]
	n.Epochs[0].Start = 2006
	if _, rs := run(t, n, WithState(got)); len(rs) != 3*365 || rs[0].Year != 2006 {
		t.Errorf("resumed run gave %d records", len(rs))
	}
}

func TestSinks(t *testing.T) {
	dir := t.TempDir()
	bin, csv := NewBinarySink(filepath.Join(dir, "q.bin")), NewCSVSink(filepath.Join(dir, "q.csv"))
	_, rs := run(t, shortConfig())
	for _, r := range rs {
		if err := (MultiSink{bin, csv}).Put(r); err != nil {
			t.Fatal(err)
		}
	}
	csv.Close()
	if err := bin.Close(); err != nil {
		t.Fatal(err)
	}

	rows, err := ReadBinary(filepath.Join(dir, "q.bin"))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != len(rs) {
		t.Fatalf("rows %d, want %d", len(rows), len(rs))
	}
	for i, r := range rs {
		if rows[i][0] != float32(r.Q) || rows[i][1] != float32(r.Qs) {
			t.Fatalf("row %d: %v", i, rows[i])
		}
	}
	if fi, err := os.Stat(filepath.Join(dir, "q.csv")); err != nil || fi.Size() == 0 {
		t.Errorf("csv not written: %v", err)
	}
}

func TestEnsemble(t *testing.T) {
	c := shortConfig()
	ens, err := RunEnsemble(c, 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	_, rs := run(t, shortConfig())
	mq := 0.
	for _, r := range rs {
		mq += r.Q
	}
	mq /= float64(len(rs))
	if m := ens.Members[0]; m.Seed != c.Seed || math.Abs(m.MeanQ-mq) > 1e-9*mq {
		t.Errorf("member 0 %+v, want mean %g", m, mq)
	}
	if ens.Members[1].Seed == ens.Members[2].Seed {
		t.Error("members share a seed")
	}
	if ens.MeanQ <= 0. || ens.StdQ < 0. || ens.MeanQs <= 0. {
		t.Errorf("summary %+v", ens)
	}
}
