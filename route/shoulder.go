package route

import (
	"errors"
	"fmt"
	"math"
)

const secperday = 86400.

// ErrShoulder is returned when a dispersion kernel does not sum to one.
var ErrShoulder = errors.New("shoulder kernel not normalized")

// Shoulder is the flood-wave dispersion kernel: a discharge event is spread over
// the preceding day (Left), the event day (Main) and the following days (Right).
type Shoulder struct {
	Left  float64   `json:"left" yaml:"left"`
	Main  float64   `json:"main" yaml:"main"`
	Right []float64 `json:"right" yaml:"right"`
}

// Validate checks the kernel weights are non-negative and sum to 1 (±1e-6).
func (s Shoulder) Validate() error {
	sum := s.Left + s.Main
	if s.Left < 0. || s.Main < 0. {
		return fmt.Errorf("%w: negative weight (left %.4f, main %.4f)", ErrShoulder, s.Left, s.Main)
	}
	for i, r := range s.Right {
		if r < 0. {
			return fmt.Errorf("%w: negative right weight %d (%.4f)", ErrShoulder, i, r)
		}
		sum += r
	}
	if math.Abs(sum-1.) > 1e-6 {
		return fmt.Errorf("%w: left + main + right = %.8f", ErrShoulder, sum)
	}
	return nil
}

// Len is the number of days the kernel reaches past the event day.
func (s Shoulder) Len() int { return len(s.Right) }

// Route adds a volume [m³] generated on day, lagged by lag days, to the discharge
// series q [m³/s]. q must be long enough to hold day+lag+Len(); layouts are
// validated against the wrap window before any routing takes place.
func (s Shoulder) Route(q []float64, day, lag int, vol float64) {
	if vol == 0. {
		return
	}
	j := day + lag
	if j+len(s.Right) >= len(q) {
		panic(fmt.Sprintf("route.Route: day %d lag %d overruns series of %d", day, lag, len(q)))
	}
	f := vol / secperday
	if j > 0 {
		q[j-1] += f * s.Left
	} else {
		q[j] += f * s.Left
	}
	q[j] += f * s.Main
	for i, r := range s.Right {
		q[j+1+i] += f * r
	}
}
