package harness

import "golang.org/x/exp/constraints"

type number interface {
	constraints.Integer | constraints.Float
}

func mean[T number](xs []T) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += float64(x)
	}
	return sum / float64(len(xs))
}

func minMax[T constraints.Ordered](xs []T) (lo, hi T) {
	if len(xs) == 0 {
		return
	}
	lo, hi = xs[0], xs[0]
	for _, x := range xs[1:] {
		lo = min(lo, x)
		hi = max(hi, x)
	}
	return
}

// perSecond is the rate of n events over the given nanoseconds.
func perSecond[T number](n T, nanos int64) float64 {
	if nanos <= 0 {
		return 0
	}
	return float64(n) * 1e9 / float64(nanos)
}
