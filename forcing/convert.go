package forcing

// ToMM returns daily precipitation in mm/day.
func (frc *Forcing) ToMM() []float64 {
	o := make([]float64, len(frc.P))
	for i, p := range frc.P {
		o[i] = p * 1000.
	}
	return o
}

// Lapse returns the temperature at elevation z [m] given a mouth temperature
// t [°C] and lapse rate [°C/km].
func Lapse(t, z, rate float64) float64 { return t - rate*z/1000. }
