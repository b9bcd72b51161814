package config

import (
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcflugen/sedflux-sub001/cryo"
	"github.com/mcflugen/sedflux-sub001/flow"
	"github.com/mcflugen/sedflux-sub001/route"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}
	if d := c.Drift(); len(d) != 0 {
		t.Errorf("sample epochs should join smoothly: %v", d)
	}
	if c.Years() != 20 {
		t.Errorf("years %d", c.Years())
	}
}

func TestContinuity(t *testing.T) {
	c := Default()
	c.Epochs[1].Start = 2011
	if err := c.Validate(); !errors.Is(err, ErrEpochContinuity) {
		t.Errorf("expected ErrEpochContinuity, got %v", err)
	}
	c.Epochs[1].Start = 2009
	if err := c.Continuity(); !errors.Is(err, ErrEpochContinuity) {
		t.Errorf("overlap not rejected")
	}
}

func TestDrift(t *testing.T) {
	c := Default()
	c.Epochs[1].Climate.Tstart = 20.
	d := c.Drift()
	if len(d) != 1 || !strings.Contains(d[0], "temperature") {
		t.Errorf("expected one temperature drift, got %v", d)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("drift must not be fatal: %v", err)
	}

	c = Default()
	cv := c.Curve
	cv.Area = append([]float64(nil), cv.Area...)
	cv.Area[len(cv.Area)-1] = 5100.
	c.Epochs[1].Curve = &cv
	if d := c.Drift(); len(d) != 1 || !strings.Contains(d[0], "hypsometry") {
		t.Errorf("expected a hypsometry change, got %v", d)
	}

	c = Default()
	c.Epochs[1].Glacier.ELAStart = nil
	if d := c.Drift(); len(d) != 1 || !strings.Contains(d[0], "ELA") {
		t.Errorf("expected the glacier to end with a warning, got %v", d)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		mod  func(c *Config)
		is   error
	}{
		{"shoulder", func(c *Config) { c.Shoulder = route.Shoulder{Main: .9} }, route.ErrShoulder},
		{"outlets", func(c *Config) {
			c.Epochs[0].Outlets = flow.OutletConfig{Mode: flow.Fixed, Fractions: []float64{.3, .3}}
		}, flow.ErrOutletFractions},
		{"interval", func(c *Config) { c.Interval = "hourly" }, nil},
		{"formula", func(c *Config) { c.Epochs[0].Formula = "bqart" }, nil},
		{"grains", func(c *Config) { c.Epochs[0].Grains = []float64{.5, .4} }, nil},
		{"masscheck zero", func(c *Config) { c.MassCheck = 0. }, nil},
		{"masscheck negative", func(c *Config) { c.MassCheck = -1e-5 }, nil},
		{"masscheck nan", func(c *Config) { c.MassCheck = math.NaN() }, nil},
	}
	for _, tc := range cases {
		c := Default()
		tc.mod(c)
		err := c.Validate()
		if err == nil {
			t.Errorf("%s: expected an error", tc.name)
			continue
		}
		if tc.is != nil && !errors.Is(err, tc.is) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.is)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	for _, ext := range []string{".yaml", ".hjson"} {
		fp := filepath.Join(dir, "run"+ext)
		d := Default()
		d.Epochs[0].Glacier.ELAStart = cryo.Elevation(0.) // sea level
		d.Epochs[1].Glacier.ELAStart = nil
		if err := d.Save(fp); err != nil {
			t.Fatalf("%s: %v", ext, err)
		}
		c, err := Load(fp)
		if err != nil {
			t.Fatalf("%s: %v", ext, err)
		}
		if err := c.Validate(); err != nil {
			t.Errorf("%s: reloaded config invalid: %v", ext, err)
		}
		if c.Seed != -954 || len(c.Epochs) != 2 || c.Epochs[1].Start != 2010 {
			t.Errorf("%s: round trip lost values: seed %d epochs %d", ext, c.Seed, len(c.Epochs))
		}
		if g := c.Epochs[0].Glacier.ELAStart; g == nil || *g != 0. {
			t.Errorf("%s: sea-level ELA lost: %v", ext, g)
		}
		if c.Epochs[1].Glacier.ELAStart != nil {
			t.Errorf("%s: unset ELA reloaded as %g", ext, *c.Epochs[1].Glacier.ELAStart)
		}
		if c.Epochs[0].Climate.Tmonth[6] != 16. {
			t.Errorf("%s: monthly temperature lost", ext)
		}
	}
	if _, err := Load(filepath.Join(dir, "run.txt")); err == nil {
		t.Errorf("expected unknown type error")
	}
}
