package forcing

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
)

// CheckAndPrint writes an annual/monthly summary of the year's forcing.
func (frc *Forcing) CheckAndPrint(w io.Writer) {
	fmt.Fprintf(w, "Forcing summary, year %d:\n", frc.Year)
	fmt.Fprintf(w, " annual: T = %.2f C  P = %.4f m/yr\n", frc.Tannual, frc.Pannual)

	sp, wet := 0., 0
	for _, p := range frc.P {
		sp += p
		if p > 0. {
			wet++
		}
	}
	fmt.Fprintf(w, " daily total P = %.4f m (%d wet days, max %.1f mm/day)\n", sp, wet, floats.Max(frc.ToMM()))
	for m := 0; m < 12; m++ {
		fmt.Fprintf(w, "  %2d  T %7.2f  P %.5f\n", m+1, frc.Tmonth[m], frc.Pmonth[m])
	}
}
