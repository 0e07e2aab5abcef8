package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

// PercentDraw returns a draw in [0, 100)
func PercentDraw(r Roller) float64 {
	return r.Float64() * 100
}

// RollPercent reports whether a fresh draw lands under chance percent
func RollPercent(r Roller, chance int) bool {
	return PercentDraw(r) < float64(chance)
}

// UniformCents draws an amount uniformly in [min, max] at cent granularity
func UniformCents(r Roller, min, max decimal.Decimal) decimal.Decimal {
	lo := min.Shift(2).IntPart()
	hi := max.Shift(2).IntPart()
	if hi <= lo {
		return min.Round(2)
	}
	span := hi - lo + 1
	if span > math.MaxInt32 {
		span = math.MaxInt32
	}
	return decimal.New(lo+int64(r.IntN(int(span))), -2)
}

// VarianceFactor maps a draw onto [1-variance, 1+variance)
func VarianceFactor(r Roller, variance float64) float64 {
	if variance <= 0 {
		return 1
	}
	return 1 - variance + 2*variance*r.Float64()
}

// FloorInt floors a non-negative float product to an int
func FloorInt(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Floor(v))
}
