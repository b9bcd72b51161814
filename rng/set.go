package rng

// stream roles
const (
	roleGeneral = iota + 1
	roleDayShuffle
	roleOutletCount
	roleOutletFraction
)

// Set holds the four independent streams of a simulation:
//
//	General        climate, melt bias and sediment deviates
//	DayShuffle     within-month placement of rain days
//	OutletCount    number of active distributary outlets per event
//	OutletFraction outlet discharge shares per event
//
// A Set is owned by one simulation; two concurrent simulations need two Sets.
type Set struct {
	General, DayShuffle, OutletCount, OutletFraction *Stream
	base                                             int64
}

func NewSet(seed int64) *Set {
	return &Set{
		General:        NewStream("general"),
		DayShuffle:     NewStream("dayshuffle"),
		OutletCount:    NewStream("outletcount"),
		OutletFraction: NewStream("outletfraction"),
		base:           seed,
	}
}

// Base returns the run seed the set derives its stream seeds from.
func (s *Set) Base() int64 { return s.base }

// derive mixes the run seed, role and position into a negative seed.
func (s *Set) derive(role, k int64) int64 {
	x := uint64(s.base)*0x9E3779B97F4A7C15 + uint64(role)*0xBF58476D1CE4E5B9 + uint64(k)*0x94D049BB133111EB
	x ^= x >> 31
	x *= 0xD6E8FEB86659FD93
	x ^= x >> 29
	return -int64(x>>2) - 1
}

// BeginEpoch reseeds the general stream. Every calibration pass of an epoch
// calls it, so each pass replays the same climate.
func (s *Set) BeginEpoch(epoch int) {
	s.General.Reseed(s.derive(roleGeneral, int64(epoch)))
}

// BeginYear reseeds the day-shuffle and outlet streams for the first month of a year.
func (s *Set) BeginYear(year int) {
	s.DayShuffle.Reseed(s.derive(roleDayShuffle, int64(year)))
	s.OutletCount.Reseed(s.derive(roleOutletCount, int64(year)))
	s.OutletFraction.Reseed(s.derive(roleOutletFraction, int64(year)))
}
