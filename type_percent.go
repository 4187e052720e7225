package capgains

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a ratio in percent, used for presentation only.
type Percent float64

// ReturnOn returns gain as a percentage of cost, 0 if cost is zero.
func ReturnOn(gain, cost Money) Percent {
	if cost.IsZero() {
		return 0
	}
	f, _ := gain.Decimal().Div(cost.Decimal()).Mul(decimal.NewFromInt(100)).Float64()
	return Percent(f)
}

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

// SignedString returns the percentage with a sign, 0 is represented as a "-".
func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}
