package gwru

// Reservoir is a bounded groundwater store fed and drained once per day.
type Reservoir interface {
	Fullness() float64
	Drain(evapAlpha, evapBeta, ssAlpha, ssBeta float64) (evap, ss float64)
	Overflow(v float64) float64
	Storage() float64
}
