package route

import (
	"errors"
	"math"
	"testing"
)

var kernel = Shoulder{Left: .1, Main: .6, Right: []float64{.2, .1}}

func TestValidate(t *testing.T) {
	cases := []struct {
		s  Shoulder
		ok bool
	}{
		{kernel, true},
		{Shoulder{Main: 1.}, true},
		{Shoulder{Left: .1, Main: .8}, false},
		{Shoulder{Left: -.1, Main: 1.1}, false},
		{Shoulder{Left: .05, Main: .5, Right: []float64{.25, .15, .05}}, true},
	}
	for i, c := range cases {
		err := c.s.Validate()
		if (err == nil) != c.ok {
			t.Errorf("case %d: got %v, want ok=%v", i, err, c.ok)
		}
		if err != nil && !errors.Is(err, ErrShoulder) {
			t.Errorf("case %d: error should wrap ErrShoulder", i)
		}
	}
}

func TestRouteConservesVolume(t *testing.T) {
	q := make([]float64, 20)
	kernel.Route(q, 0, 0, 8640.)   // left shoulder folds onto day 0
	kernel.Route(q, 5, 3, 86400.)  // lagged
	kernel.Route(q, 14, 2, 43200.) // reaches the tail
	if v := Volume(q); math.Abs(v-(8640.+86400.+43200.)) > 1e-6 {
		t.Errorf("routed volume %f not conserved", v)
	}
	if q[7] != .1 || q[8] != .6 || q[9] != .2 || q[10] != .1 {
		t.Errorf("unexpected lagged distribution %v", q[6:11])
	}
}

func TestRouteOverrunPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic when routing past the series")
		}
	}()
	kernel.Route(make([]float64, 5), 3, 1, 1.)
}

func TestCheckWrap(t *testing.T) {
	if err := CheckWrap(kernel, 10, 12); err != nil {
		t.Errorf("unexpected: %v", err)
	}
	if err := CheckWrap(kernel, 11, 12); !errors.Is(err, ErrWrapTooShort) {
		t.Errorf("expected ErrWrapTooShort, got %v", err)
	}
}
