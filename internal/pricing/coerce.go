package pricing

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

var numericNoise = strings.NewReplacer(",", "", "₹", "", "Rs.", "", "Rs", "", " ", "", " ", "")

// Coerce converts an untyped backend value to a number. Missing and
// malformed input becomes zero, as do booleans and non-finite floats.
func Coerce(v any) float64 {
	switch t := v.(type) {
	case bool:
		return 0
	case string:
		v = numericNoise.Replace(strings.TrimSpace(t))
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// CoerceDecimal is Coerce returning a decimal.
func CoerceDecimal(v any) decimal.Decimal {
	return decimal.NewFromFloat(Coerce(v))
}
