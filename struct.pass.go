package hydrotrend

// Pass is one calibration sweep over an epoch.
type Pass int

const (
	// PassMeanQ estimates the mean discharge without baseflow.
	PassMeanQ Pass = iota
	// PassOutlets runs outlet allocation to rank events and outlet shares.
	PassOutlets
	// PassSedimentZero settles the blended mean discharge with sediment scaling off.
	PassSedimentZero
	// PassSedimentCal computes Qsbar and the load correction.
	PassSedimentCal
	// PassFinal is the only pass whose output is kept.
	PassFinal
)

var passNames = [...]string{"meanQ", "outlets", "sedimentZero", "sedimentCal", "final"}

func (p Pass) String() string {
	if p < 0 || int(p) >= len(passNames) {
		return "unknown"
	}
	return passNames[p]
}

// blended passes add baseflow and the mean-discharge blend.
func (p Pass) blended() bool { return p >= PassOutlets }

func (p Pass) outlets() bool { return p >= PassOutlets }
