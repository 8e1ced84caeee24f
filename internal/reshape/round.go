package reshape

import "github.com/shopspring/decimal"

// DiscretePlaces is the precision of Record.Discrete.
const DiscretePlaces = 2

// RoundHalfEven rounds v to places decimals using banker's rounding on the
// decimal representation of v, so 2.675 rounds to 2.68 rather than the 2.67
// a binary float computation would give.
func RoundHalfEven(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).RoundBank(places).InexactFloat64()
}
