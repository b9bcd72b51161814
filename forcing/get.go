package forcing

// Year realizes a full year of daily climate. Rain days are clustered with the
// day-shuffle stream, which the caller reseeds at the start of the year.
func (r *Realizer) Year(year int) (*Forcing, error) {
	frc := Forcing{
		Year: year,
		Tc:   make([]float64, NDays),
		P:    make([]float64, NDays),
	}
	frc.Tannual, frc.Pannual = r.Annual(year)
	frc.Tmonth, frc.Pmonth = r.Monthly(frc.Tannual, frc.Pannual)

	d0 := 0
	for m, nd := range DaysPerMonth {
		p, err := r.DailyRain(frc.Pmonth[m], nd)
		if err != nil {
			return nil, err
		}
		ClusterRainDays(p, r.C.ClusterTarget, r.C.ClusterIter, r.RS.DayShuffle)
		copy(frc.P[d0:], p)
		for d := d0; d < d0+nd; d++ {
			frc.Tc[d] = frc.Tmonth[m]
			if r.C.TdailyStd > 0. {
				frc.Tc[d] += r.C.TdailyStd * r.RS.General.Gasdev()
			}
		}
		d0 += nd
	}
	return &frc, nil
}
