package flow

import (
	"errors"
	"math"
	"testing"

	"github.com/mcflugen/sedflux-sub001/rng"
)

func TestAggregate(t *testing.T) {
	c := Components{
		Glacier: []float64{1., 1., 0., 0.},
		Snow:    []float64{0., 2., 0., 0.},
		Rain:    []float64{3., 0., 1., 9.},
		SS:      []float64{1., 1., 1.},
		Exceed:  []float64{0., 0., 2.},
	}
	q := Aggregate(c, 3, 0., 0.)
	want := []float64{5., 4., 4.}
	for i := range want {
		if q[i] != want[i] {
			t.Errorf("day %d: %f != %f", i, q[i], want[i])
		}
	}
	qb := Aggregate(c, 3, 2., 4.)
	if qb[0] != 7.5 {
		t.Errorf("baseflow blend: %f != 7.5", qb[0])
	}
	if pk, d := Peak(q); pk != 5. || d != 0 {
		t.Errorf("peak %f on %d", pk, d)
	}
}

func TestMaxFlood(t *testing.T) {
	if mf := MaxFlood(10., .5, 10000.); math.Abs(mf-1000.) > 1e-9 {
		t.Errorf("max flood %f", mf)
	}
}

func TestRerollNormalizes(t *testing.T) {
	cnt, frc := rng.NewStream("c"), rng.NewStream("f")
	cnt.Reseed(-1)
	frc.Reseed(-2)
	for _, c := range []OutletConfig{{Mode: Range, Min: 2, Max: 4}, {Mode: Auto, Max: 5}} {
		o := NewOutlets(c)
		for i := 0; i < 200; i++ {
			o.Reroll(c, cnt, frc)
			if err := ValidateFractions(o.Frac, 1e-12); err != nil {
				t.Fatalf("%s: %v", c.Mode, err)
			}
			act := 0
			for _, f := range o.Frac {
				if f > 0. {
					act++
				}
			}
			if act != o.N || o.N > c.Max {
				t.Fatalf("%s: %d active shares for N=%d", c.Mode, act, o.N)
			}
			if c.Mode == Range && o.N < c.Min {
				t.Fatalf("count %d below min", o.N)
			}
		}
	}
}

func TestSingleOutlet(t *testing.T) {
	c := OutletConfig{Mode: Fixed}
	if !c.Single() {
		t.Fatal("expected a single outlet")
	}
	o := NewOutlets(c)
	o.Reroll(c, rng.NewStream("c"), rng.NewStream("f"))
	if o.N != 1 || len(o.Frac) != 1 || o.Frac[0] != 1. {
		t.Errorf("single outlet must carry the whole discharge: %+v", o)
	}
	c.Damping = .5
	if w := c.Filter(); w != 0. {
		t.Errorf("single outlet filtered with weight %g", w)
	}
	if w := (OutletConfig{Mode: Fixed, Fractions: []float64{.5, .5}, Damping: .5}).Filter(); w != .5 {
		t.Errorf("filter weight %g, want .5", w)
	}
}

func TestValidateConfig(t *testing.T) {
	if err := (OutletConfig{Mode: Fixed, Fractions: []float64{.5, .4}}).Validate(1e-5); !errors.Is(err, ErrOutletFractions) {
		t.Errorf("expected ErrOutletFractions, got %v", err)
	}
	if err := (OutletConfig{Mode: Range, Min: 3, Max: 2}).Validate(1e-5); err == nil {
		t.Errorf("expected range error")
	}
	if err := (OutletConfig{Mode: "sideways"}).Validate(1e-5); err == nil {
		t.Errorf("expected mode error")
	}
	if err := (OutletConfig{Mode: Fixed, Damping: 1.5}).Validate(1e-5); err == nil {
		t.Errorf("expected damping error")
	}
}

func TestEventDetector(t *testing.T) {
	e := EventDetector{Factor: 2., Qbar: 10.}
	q := []float64{5., 25., 30., 15., 21., 40., 10.}
	var starts []int
	var peaks []float64
	for d, v := range q {
		s, pk := e.Step(v)
		if s {
			starts = append(starts, d)
		}
		if pk > 0. {
			peaks = append(peaks, pk)
		}
	}
	if len(starts) != 2 || starts[0] != 1 || starts[1] != 4 {
		t.Errorf("event starts %v", starts)
	}
	if len(peaks) != 2 || peaks[0] != 30. || peaks[1] != 40. {
		t.Errorf("event peaks %v", peaks)
	}
}

func TestEventTable(t *testing.T) {
	tb := NewEventTable(3)
	for _, p := range []float64{5., 9., 1., 7., 8.} {
		tb.Add(p)
	}
	want := []float64{9., 8., 7.}
	if len(tb.Peaks) != 3 {
		t.Fatalf("table %v", tb.Peaks)
	}
	for i := range want {
		if tb.Peaks[i] != want[i] {
			t.Errorf("table %v, want %v", tb.Peaks, want)
		}
	}
}

func TestEventTier(t *testing.T) {
	tb := &EventTable{N: 3, Peaks: []float64{9., 8., 7.}}
	cases := []struct {
		q    float64
		tier int
	}{
		{12., 0}, {9., 0}, {8.5, 1}, {8., 1}, {7., 2}, {6.9, 3}, {0., 3},
	}
	for _, tc := range cases {
		if got := tb.Tier(tc.q); got != tc.tier {
			t.Errorf("Tier(%g) = %d, want %d", tc.q, got, tc.tier)
		}
	}
	if tb.Tiers() != 4 {
		t.Errorf("%d tiers, want 4", tb.Tiers())
	}
	cl := tb.Clone()
	cl.Add(20.)
	if tb.Peaks[0] != 9. {
		t.Errorf("clone shares peaks with the original: %v", tb.Peaks)
	}
}

func TestPeakAhead(t *testing.T) {
	e := EventDetector{Factor: 2., Qbar: 10.}
	cases := []struct {
		q    []float64
		peak float64
	}{
		{[]float64{25., 30., 22., 15., 50.}, 30.},
		{[]float64{21., 35.}, 35.}, // cut at the end of the year
		{[]float64{15., 50.}, 0.},
	}
	for _, tc := range cases {
		if got := e.PeakAhead(tc.q); got != tc.peak {
			t.Errorf("PeakAhead(%v) = %g, want %g", tc.q, got, tc.peak)
		}
	}
}

func TestAutoCount(t *testing.T) {
	cases := []struct {
		tier, tiers, max, want int
	}{
		{0, 4, 4, 4},
		{1, 4, 4, 3},
		{3, 4, 4, 1},
		{0, 11, 3, 3},
		{10, 11, 3, 1},
		{0, 0, 5, 5},
	}
	for _, tc := range cases {
		if got := AutoCount(tc.tier, tc.tiers, tc.max); got != tc.want {
			t.Errorf("AutoCount(%d, %d, %d) = %d, want %d", tc.tier, tc.tiers, tc.max, got, tc.want)
		}
	}
	// counts never rise as events rank lower
	for tr := 1; tr < 11; tr++ {
		if AutoCount(tr, 11, 3) > AutoCount(tr-1, 11, 3) {
			t.Errorf("tier %d opens more outlets than tier %d", tr, tr-1)
		}
	}
}

func TestRegime(t *testing.T) {
	frc := rng.NewStream("f")
	frc.Reseed(-3)
	o := NewOutlets(OutletConfig{Mode: Auto, Max: 4})
	for _, n := range []int{1, 3, 4, 9} {
		o.Regime(n, frc)
		want := n
		if want > 4 {
			want = 4
		}
		if o.N != want {
			t.Errorf("Regime(%d): N = %d, want %d", n, o.N, want)
		}
		if err := ValidateFractions(o.Frac, 1e-12); err != nil {
			t.Errorf("Regime(%d): %v", n, err)
		}
	}
}

func TestNewOutletsWithinRange(t *testing.T) {
	cases := []struct {
		c    OutletConfig
		n    int
		frac []float64
	}{
		{OutletConfig{Mode: Range, Min: 2, Max: 4}, 2, []float64{.5, .5, 0., 0.}},
		{OutletConfig{Mode: Range, Min: 1, Max: 3}, 1, []float64{1., 0., 0.}},
		{OutletConfig{Mode: Auto, Max: 3}, 1, []float64{1., 0., 0.}},
		{OutletConfig{Mode: Fixed, Fractions: []float64{.7, .3}}, 2, []float64{.7, .3}},
	}
	for _, tc := range cases {
		o := NewOutlets(tc.c)
		if o.N != tc.n || len(o.Frac) != len(tc.frac) {
			t.Fatalf("%s: %+v", tc.c.Mode, o)
		}
		for i := range tc.frac {
			if math.Abs(o.Frac[i]-tc.frac[i]) > 1e-12 {
				t.Errorf("%s: shares %v, want %v", tc.c.Mode, o.Frac, tc.frac)
				break
			}
		}
	}
}

func TestGeometryContinuity(t *testing.T) {
	g := DefaultGeometry()
	for _, q := range []float64{1., 50., 3000.} {
		w, d, v := g.At(q)
		if math.Abs(w*d*v-q) > 1e-9*q {
			t.Errorf("w·d·v = %f != %f", w*d*v, q)
		}
	}
}
