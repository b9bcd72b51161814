package hypsometry

// RemapSnow carries per-bin snow volumes [m³] onto a layout of n bins.
//  - more bins: the old bins keep their position relative to the basin top
//  - same count: copied
//  - fewer bins: the lowest surplus bins are merged into the new lowest bin
// Total volume is unchanged in every case.
func RemapSnow(prev []float64, n int) []float64 {
	o := make([]float64, n)
	np := len(prev)
	switch {
	case np == 0 || n == 0:
		// nothing to carry
	case n > np:
		copy(o[n-np:], prev)
	case n == np:
		copy(o, prev)
	default:
		k := np - n
		for i := 0; i <= k; i++ {
			o[0] += prev[i]
		}
		copy(o[1:], prev[k+1:])
	}
	return o
}
