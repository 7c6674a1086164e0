package analytics

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// MaxSafeInteger is the largest integer a JSON number carries without loss.
const MaxSafeInteger = 1<<53 - 1

var (
	maxSafe = decimal.NewFromInt(MaxSafeInteger)
	minSafe = decimal.NewFromInt(-MaxSafeInteger)
)

// CoerceNumber turns aggregate values into numbers where that is lossless.
// Whole values outside the safe integer range come back as decimal strings,
// fractional values as float64. Anything that is not numeric is returned
// unchanged.
func CoerceNumber(v any) any {
	switch n := v.(type) {
	case nil:
		return nil
	case int:
		return coerceInt(int64(n))
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return coerceInt(n)
	case uint:
		return coerceDecimal(decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(n)), 0))
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return coerceDecimal(decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0))
	case float32:
		return float64(n)
	case float64:
		return n
	case *big.Int:
		if n == nil {
			return nil
		}
		return coerceDecimal(decimal.NewFromBigInt(n, 0))
	case decimal.Decimal:
		return coerceDecimal(n)
	case []byte:
		return coerceString(string(n))
	case string:
		return coerceString(n)
	default:
		return v
	}
}

func coerceInt(n int64) any {
	if n > MaxSafeInteger || n < -MaxSafeInteger {
		return decimal.NewFromInt(n).String()
	}
	return n
}

func coerceString(s string) any {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return s
	}
	return coerceDecimal(d)
}

func coerceDecimal(d decimal.Decimal) any {
	if !d.Equal(d.Truncate(0)) {
		f, _ := d.Float64()
		return f
	}
	if d.GreaterThan(maxSafe) || d.LessThan(minSafe) {
		return d.Truncate(0).String()
	}
	return d.IntPart()
}

// rankValue converts a coerced value into a decimal for ordering rows.
// Non-numeric values rank as zero.
func rankValue(v any) decimal.Decimal {
	switch n := v.(type) {
	case int64:
		return decimal.NewFromInt(n)
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(n)
	case string:
		d, err := decimal.NewFromString(n)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}
