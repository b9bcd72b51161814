package hydrotrend

import (
	"fmt"

	"github.com/mcflugen/sedflux-sub001/config"
)

// ErrEpochContinuity is returned when epochs do not follow each other in time.
var ErrEpochContinuity = config.ErrEpochContinuity

// SimulationError places a failure in the run.
type SimulationError struct {
	Epoch, Year int
	Pass        Pass
	Err         error
}

func (e *SimulationError) Error() string {
	if e.Year < 0 {
		return fmt.Sprintf("epoch %d, %s pass: %v", e.Epoch, e.Pass, e.Err)
	}
	return fmt.Sprintf("epoch %d, year %d, %s pass: %v", e.Epoch, e.Year, e.Pass, e.Err)
}

func (e *SimulationError) Unwrap() error { return e.Err }
