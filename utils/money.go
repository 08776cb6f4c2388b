package utils

import "math"

// MoneyTolerance absorbs float rounding when comparing amounts.
const MoneyTolerance = 0.01

// RoundMoney rounds to two decimal places.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// MoneyEquals compares two amounts within the rounding tolerance.
func MoneyEquals(a, b float64) bool {
	return math.Abs(a-b) <= MoneyTolerance
}

// MoneyGreater reports a > b beyond the rounding tolerance.
func MoneyGreater(a, b float64) bool {
	return a-b > MoneyTolerance
}
