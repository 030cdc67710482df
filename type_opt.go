package portfel

import "github.com/shopspring/decimal"

// Opt is a value that may be unknown.
//
// Market data and everything derived from it can be missing. Opt makes the
// difference between a known zero and an unknown value explicit, so that an
// unavailable quote never silently becomes 0.
type Opt[T any] struct {
	v  T
	ok bool
}

// Some returns a known value.
func Some[T any](v T) Opt[T] { return Opt[T]{v: v, ok: true} }

// None returns an unknown value.
func None[T any]() Opt[T] { return Opt[T]{} }

// Known reports whether the value is known.
func (o Opt[T]) Known() bool { return o.ok }

// Get returns the value and whether it is known.
func (o Opt[T]) Get() (T, bool) { return o.v, o.ok }

// Value returns the value, or the zero value of T if unknown.
func (o Opt[T]) Value() T { return o.v }

// Price is a raw market price or rate, with no currency attached.
type Price = Opt[decimal.Decimal]

// P returns a known Price.
func P[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Price {
	return Some(newDecimal(value))
}
