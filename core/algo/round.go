package algo

import "math"

// roundEpsilon absorbs representation error at exact .25 and .75 boundaries.
const roundEpsilon = 1e-9

// RoundHalf rounds x to the nearest 0.5, with halves rounding up.
func RoundHalf(x float64) float64 {
	return math.Floor((x+roundEpsilon)*2+0.5) / 2
}
