package forcing

// Climate holds the trend and variability parameters of an epoch.
type Climate struct {
	Tstart  float64 `json:"tstart" yaml:"tstart"`   // mean annual temperature at the mouth [°C]
	Tchange float64 `json:"tchange" yaml:"tchange"` // [°C/yr]
	Tstd    float64 `json:"tstd" yaml:"tstd"`
	Pstart  float64 `json:"pstart" yaml:"pstart"` // annual precipitation [m/yr]
	Pchange float64 `json:"pchange" yaml:"pchange"`
	Pstd    float64 `json:"pstd" yaml:"pstd"`

	Tmonth    [12]float64 `json:"tmonth" yaml:"tmonth"`
	TmonthStd [12]float64 `json:"tmonthstd" yaml:"tmonthstd"`
	Pmonth    [12]float64 `json:"pmonth" yaml:"pmonth"` // [m/month]
	PmonthStd [12]float64 `json:"pmonthstd" yaml:"pmonthstd"`

	MaxStd    float64 `json:"maxstd" yaml:"maxstd"`       // clamp on annual and monthly deviates
	TdailyStd float64 `json:"tdailystd" yaml:"tdailystd"` // [°C]

	RainSkew  float64 `json:"rainskew" yaml:"rainskew"`   // exponent on the normal deviate
	RainRange float64 `json:"rainrange" yaml:"rainrange"` // outlier cut in target std-devs
	RainCV    float64 `json:"raincv" yaml:"raincv"`       // daily std / daily mean

	ClusterTarget int `json:"clustertarget" yaml:"clustertarget"` // wet/dry transitions per month
	ClusterIter   int `json:"clusteriter" yaml:"clusteriter"`
}

// TrendT is the trend temperature n years into the epoch.
func (c *Climate) TrendT(n float64) float64 { return c.Tstart + c.Tchange*n }

// TrendP is the trend precipitation n years into the epoch.
func (c *Climate) TrendP(n float64) float64 { return c.Pstart + c.Pchange*n }

func clamp(z, mx float64) float64 {
	if mx <= 0. {
		return z
	}
	if z > mx {
		return mx
	}
	if z < -mx {
		return -mx
	}
	return z
}
