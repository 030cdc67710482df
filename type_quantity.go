package portfel

import (
	"strings"

	"github.com/shopspring/decimal"
)

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		panic("unsupported type")
	}
}

// parseDecimal parses a user typed number, accepting ',' as the decimal separator.
func parseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
}

// Quantity is a number of units held.
type Quantity struct {
	value decimal.Decimal
}

func Q[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Quantity {
	return Quantity{value: newDecimal(value)}
}

func (t Quantity) Decimal() decimal.Decimal       { return t.value }
func (t Quantity) Equal(p Quantity) bool          { return t.value.Equal(p.value) }
func (t Quantity) Add(p Quantity) Quantity        { return Quantity{value: t.value.Add(p.value)} }
func (t Quantity) IsNegative() bool               { return t.value.IsNegative() }
func (t Quantity) IsZero() bool                   { return t.value.IsZero() }
func (t Quantity) String() string                 { return t.value.String() }
func (t Quantity) StringFixed(places int32) string { return t.value.StringFixed(places) }
func (t Quantity) AsFloat() float64               { return t.value.InexactFloat64() }
