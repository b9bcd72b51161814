package forcing

import "fmt"

// Series is an externally supplied daily record that replaces the stochastic
// realizer for the years it covers. Arrays hold whole 365-day years from Start.
type Series struct {
	Start int
	T, P  []float64 // [°C], [m/day]
}

// Validate checks the arrays hold whole years.
func (s *Series) Validate() error {
	if len(s.T) != len(s.P) {
		return fmt.Errorf(" forcing.Series: T and P lengths differ (%d, %d)", len(s.T), len(s.P))
	}
	if len(s.T)%NDays != 0 {
		return fmt.Errorf(" forcing.Series: %d days is not a whole number of years", len(s.T))
	}
	for i, p := range s.P {
		if p < 0. {
			return fmt.Errorf(" forcing.Series: negative precipitation on day %d", i)
		}
	}
	return nil
}

// Years covered.
func (s *Series) Years() int { return len(s.T) / NDays }

// Covers reports whether the series holds year.
func (s *Series) Covers(year int) bool {
	return s != nil && year >= s.Start && year < s.Start+s.Years()
}

// Year returns the year's forcing with annual and monthly summaries filled.
func (s *Series) Year(year int) (*Forcing, bool) {
	if !s.Covers(year) {
		return nil, false
	}
	i0 := (year - s.Start) * NDays
	frc := Forcing{
		Year: year,
		Tc:   append([]float64(nil), s.T[i0:i0+NDays]...),
		P:    append([]float64(nil), s.P[i0:i0+NDays]...),
	}
	for d := 0; d < NDays; d++ {
		m := MonthOf(d)
		frc.Tmonth[m] += frc.Tc[d] / float64(DaysPerMonth[m])
		frc.Pmonth[m] += frc.P[d]
		frc.Tannual += frc.Tc[d] / NDays
		frc.Pannual += frc.P[d]
	}
	return &frc, true
}
