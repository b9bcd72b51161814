package flow

import "sort"

// EventDetector flags the start of discharge events: the first day discharge
// rises above Factor*Qbar after having been at or below it.
type EventDetector struct {
	Factor, Qbar float64
	Above        bool
	Peak         float64 // of the current event
}

// Step consumes one day's discharge. It reports whether an event starts today
// and, when one ended today, its peak.
func (e *EventDetector) Step(q float64) (start bool, ended float64) {
	thr := e.Factor * e.Qbar
	switch {
	case q > thr && !e.Above:
		e.Above, e.Peak = true, q
		return true, 0.
	case q > thr:
		if q > e.Peak {
			e.Peak = q
		}
	case e.Above:
		e.Above = false
		ended, e.Peak = e.Peak, 0.
	}
	return false, ended
}

// PeakAhead returns the largest discharge of the run of q that stays above the
// event threshold, starting at q[0]. An event running past the end of q is cut
// there.
func (e *EventDetector) PeakAhead(q []float64) float64 {
	thr, pk := e.Factor*e.Qbar, 0.
	for _, v := range q {
		if v <= thr {
			break
		}
		if v > pk {
			pk = v
		}
	}
	return pk
}

// EventTable keeps the N largest event peaks of an epoch, largest first.
type EventTable struct {
	N     int
	Peaks []float64
}

func NewEventTable(n int) *EventTable { return &EventTable{N: n} }

// Add ranks a peak into the table.
func (t *EventTable) Add(pk float64) {
	i := sort.Search(len(t.Peaks), func(i int) bool { return t.Peaks[i] < pk })
	if i >= t.N {
		return
	}
	t.Peaks = append(t.Peaks, 0.)
	copy(t.Peaks[i+1:], t.Peaks[i:])
	t.Peaks[i] = pk
	if len(t.Peaks) > t.N {
		t.Peaks = t.Peaks[:t.N]
	}
}

// Tier is where a peak ranks in the table: the number of kept peaks strictly
// larger than q. Peaks below every kept peak fall in tier len(Peaks).
func (t *EventTable) Tier(q float64) int {
	return sort.Search(len(t.Peaks), func(i int) bool { return t.Peaks[i] <= q })
}

// Tiers is the number of distinct tiers Tier can return.
func (t *EventTable) Tiers() int { return len(t.Peaks) + 1 }

// Clone returns an independent copy.
func (t *EventTable) Clone() *EventTable {
	return &EventTable{N: t.N, Peaks: append([]float64(nil), t.Peaks...)}
}
