package route

import (
	"errors"
	"fmt"
)

// ErrWrapTooShort is returned when the carry-over window cannot hold the longest
// travel time plus the kernel tail.
var ErrWrapTooShort = errors.New("overflow window too short for basin travel time")

// CheckWrap verifies that a routed event on the last day of the year, with the
// largest bin lag, lands inside the wrap window.
func CheckWrap(s Shoulder, maxlag, wrap int) error {
	if need := maxlag + s.Len(); need > wrap {
		return fmt.Errorf("%w: max lag %d + shoulder %d = %d > wrap %d", ErrWrapTooShort, maxlag, s.Len(), need, wrap)
	}
	return nil
}

// Volume returns the total volume [m³] held in a discharge series [m³/s].
func Volume(q []float64) float64 {
	v := 0.
	for _, x := range q {
		v += x
	}
	return v * secperday
}
