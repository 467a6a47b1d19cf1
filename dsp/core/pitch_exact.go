//go:build !fastmath

package core

import "math"

func exp2(x float64) float64 {
	return math.Exp2(x)
}
