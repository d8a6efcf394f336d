package params

import (
	"cmp"
	"math"
	"slices"
)

const (
	// LosslessRatio is the compression ratio that denotes a lossless layer.
	LosslessRatio = 1.0

	// LosslessQuality is the PSNR value that denotes a lossless layer.
	LosslessQuality = 0.0
)

// normalizeLayers removes duplicates and orders layer values.
// The lossless sentinel always sorts last; the rest ascend or descend.
func normalizeLayers(values []float64, ascending bool, lossless float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}

	slices.SortFunc(out, func(a, b float64) int {
		switch {
		case a == lossless && b != lossless:
			return 1
		case b == lossless && a != lossless:
			return -1
		case ascending:
			return cmp.Compare(a, b)
		default:
			return cmp.Compare(b, a)
		}
	})
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
