package forcing

// DaysPerMonth of the 365-day model year.
var DaysPerMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// NDays in the model year.
const NDays = 365

// Forcing is one year of daily climate at the river mouth.
type Forcing struct {
	Year           int
	Tc, P          []float64   // [day] temperature [°C], precipitation [m/day]
	Tannual        float64     // [°C]
	Pannual        float64     // [m/yr]
	Tmonth, Pmonth [12]float64 // [°C], [m/month]
}

// MonthOf returns the month index of day-of-year d.
func MonthOf(d int) int {
	for m, n := range DaysPerMonth {
		if d < n {
			return m
		}
		d -= n
	}
	return 11
}
