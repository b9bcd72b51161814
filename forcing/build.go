package forcing

import (
	"errors"
	"fmt"
	"math"

	"github.com/mcflugen/sedflux-sub001/rng"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrRainSamples is returned when repeated regeneration cannot produce
// enough in-range daily rain samples for a month.
var ErrRainSamples = errors.New("insufficient daily rain samples")

const (
	rainPoolFactor = 3
	maxRainTries   = 8
)

// Realizer draws stochastic climate for the years of one epoch.
type Realizer struct {
	C     Climate
	Start int // first year of the epoch
	RS    *rng.Set
	Log   logrus.FieldLogger
}

// Annual draws the year's temperature [°C] and precipitation [m/yr] about the trend.
func (r *Realizer) Annual(year int) (t, p float64) {
	n := float64(year - r.Start)
	t = r.C.TrendT(n) + clamp(r.RS.General.Gasdev(), r.C.MaxStd)*r.C.Tstd
	p = r.C.TrendP(n) + clamp(r.RS.General.Gasdev(), r.C.MaxStd)*r.C.Pstd
	if p < 0. {
		p = 0.
	}
	return
}

// Monthly spreads the annual draws over 12 months. The day-weighted monthly
// temperature reproduces ta and the monthly totals sum to pa.
func (r *Realizer) Monthly(ta, pa float64) (tm, pm [12]float64) {
	tw, psum := 0., 0.
	for m := 0; m < 12; m++ {
		tm[m] = r.C.Tmonth[m] + clamp(r.RS.General.Gasdev(), r.C.MaxStd)*r.C.TmonthStd[m]
		pm[m] = math.Max(0., r.C.Pmonth[m]+clamp(r.RS.General.Gasdev(), r.C.MaxStd)*r.C.PmonthStd[m])
		tw += tm[m] * float64(DaysPerMonth[m])
		psum += pm[m]
	}
	dt := ta - tw/NDays
	for m := 0; m < 12; m++ {
		tm[m] += dt
		if psum > 0. {
			pm[m] *= pa / psum
		} else {
			pm[m] = pa * float64(DaysPerMonth[m]) / NDays
		}
	}
	return
}

// DailyRain distributes a monthly total [m] over nd days with a skewed
// distribution. The in-range samples are normalized to the target daily mean
// and standard deviation; the pool is regenerated (doubled) when too few survive.
func (r *Realizer) DailyRain(total float64, nd int) ([]float64, error) {
	o := make([]float64, nd)
	if total <= 0. || nd <= 0 {
		return o, nil
	}
	mean := total / float64(nd)
	std := r.C.RainCV * mean
	if std <= 0. {
		for i := range o {
			o[i] = mean
		}
		return o, nil
	}

	npool := rainPoolFactor * nd
	for try := 0; try < maxRainTries; try++ {
		raw := make([]float64, npool)
		for i := range raw {
			raw[i] = math.Exp(r.C.RainSkew * r.RS.General.Gasdev())
		}
		normalize(raw, mean, std)

		lo, hi := mean-r.C.RainRange*std, mean+r.C.RainRange*std
		keep := raw[:0]
		for _, v := range raw {
			if v >= lo && v <= hi {
				keep = append(keep, v)
			}
		}
		if len(keep) < nd {
			if r.Log != nil {
				r.Log.WithFields(logrus.Fields{"samples": len(keep), "days": nd, "pool": npool}).Warn("too few rain samples, regenerating")
			}
			npool *= 2
			continue
		}

		copy(o, keep[:nd])
		normalize(o, mean, std)
		for i, v := range o {
			if v < 0. {
				o[i] = 0.
			}
		}
		if s := floats.Sum(o); s > 0. {
			floats.Scale(total/s, o)
		} else {
			for i := range o {
				o[i] = mean
			}
		}
		return o, nil
	}
	return nil, fmt.Errorf("%w: %d attempts, last pool %d", ErrRainSamples, maxRainTries, npool)
}

// normalize shifts and scales x in place to the given mean and std.
func normalize(x []float64, mean, std float64) {
	m, s := stat.MeanStdDev(x, nil)
	for i, v := range x {
		if s > 0. {
			x[i] = mean + (v-m)/s*std
		} else {
			x[i] = mean
		}
	}
}
