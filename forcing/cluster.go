package forcing

import "github.com/mcflugen/sedflux-sub001/rng"

// switchiness counts wet/dry transitions between consecutive days.
func switchiness(x []float64) int {
	c := 0
	for i := 1; i < len(x); i++ {
		if (x[i] > 0.) != (x[i-1] > 0.) {
			c++
		}
	}
	return c
}

// ClusterRainDays swaps random pairs of days, keeping a swap only when it
// lowers the transition count, until the count reaches target or maxIter
// swaps were tried. The monthly total is untouched. Returns the final count.
func ClusterRainDays(x []float64, target, maxIter int, s *rng.Stream) int {
	n := len(x)
	cost := switchiness(x)
	if n < 2 {
		return cost
	}
	for it := 0; it < maxIter && cost > target; it++ {
		i, j := s.Intn(n), s.Intn(n)
		if (x[i] > 0.) == (x[j] > 0.) {
			continue
		}
		x[i], x[j] = x[j], x[i]
		if c := switchiness(x); c < cost {
			cost = c
		} else {
			x[i], x[j] = x[j], x[i]
		}
	}
	return cost
}
