package stats

import (
	"math"

	"github.com/shopspring/decimal"
)

// Summary aggregates count, range, and population standard deviation of a
// value sequence. Range and Std are nil when the input is too small to
// define them.
type Summary struct {
	Count int
	Range *float64
	Std   *float64
}

// Compute summarises values. The empty input yields Count 0 with nil
// Range and Std; a single value has Range 0 and nil Std; Std is the
// population standard deviation.
func Compute(values []float64) Summary {
	out := Summary{Count: len(values)}
	if out.Count == 0 {
		return out
	}

	minV, maxV := values[0], values[0]
	sum := 0.0
	for _, v := range values {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
		sum += v
	}
	span := maxV - minV
	out.Range = &span

	if out.Count < 2 {
		return out
	}
	mean := sum / float64(out.Count)
	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(out.Count)
	std := math.Sqrt(variance)
	out.Std = &std
	return out
}

// Floats widens an int64 series for Compute.
func Floats(values []int64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}

// PercentChange computes (last-first)/first*100 with decimal precision.
// The second return is false when first is zero and the change is
// undefined.
func PercentChange(first, last int64) (decimal.Decimal, bool) {
	if first == 0 {
		return decimal.Zero, false
	}
	f := decimal.NewFromInt(first)
	l := decimal.NewFromInt(last)
	return l.Sub(f).Div(f).Mul(decimal.NewFromInt(100)), true
}
