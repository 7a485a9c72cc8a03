package market

import (
	"math"

	"github.com/cockroachdb/apd/v3"
)

// maxPrecision bounds the precision search. Beyond 15 digits a float64
// cannot round-trip through decimal anyway, so the loop must stop.
const maxPrecision = 15

// PrecisionOf returns the number of decimal digits needed so that tick
// survives rounding to that many digits unchanged. Non-finite and zero
// input yields 0.
func PrecisionOf(tick float64) int {
	if tick == 0 || math.IsInf(tick, 0) || math.IsNaN(tick) {
		return 0
	}
	for p := 0; p <= maxPrecision; p++ {
		scale := math.Pow(10, float64(p))
		if math.Round(tick*scale)/scale == tick {
			return p
		}
	}
	return maxPrecision
}

// Round truncates amount toward zero at the precision derived from
// tick and renders it as a plain decimal string. The output never
// contains an exponent marker: exchanges reject scientific notation,
// so 1e-7 must come out as "0.0000001". Conversion goes through apd
// using the shortest decimal representation of the float, which keeps
// binary representation noise out of the result.
func Round(amount, tick float64) string {
	var d apd.Decimal
	if _, err := d.SetFloat64(amount); err != nil {
		return "0"
	}

	prec := PrecisionOf(tick)
	ctx := apd.BaseContext.WithPrecision(30)
	ctx.Rounding = apd.RoundDown
	if _, err := ctx.Quantize(&d, &d, int32(-prec)); err != nil {
		return "0"
	}

	// Quantize pads to the tick precision; trailing zeros carry no
	// information and are stripped.
	d.Reduce(&d)
	return d.Text('f')
}

// Step moves amount by exactly one tick, upward when up is true, and
// truncates the result to the tick precision. The sum is taken in
// decimal: adding the tick as a float first can land a hair below the
// intended value and truncation would then eat a whole tick.
func Step(amount, tick float64, up bool) string {
	var d, t apd.Decimal
	if _, err := d.SetFloat64(amount); err != nil {
		return "0"
	}
	if _, err := t.SetFloat64(tick); err != nil {
		return "0"
	}

	ctx := apd.BaseContext.WithPrecision(30)
	ctx.Rounding = apd.RoundDown

	var err error
	if up {
		_, err = ctx.Add(&d, &d, &t)
	} else {
		_, err = ctx.Sub(&d, &d, &t)
	}
	if err != nil {
		return "0"
	}

	if _, err := ctx.Quantize(&d, &d, int32(-PrecisionOf(tick))); err != nil {
		return "0"
	}
	d.Reduce(&d)
	return d.Text('f')
}
