package treasury

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Amount represents a signed monetary value. Negative amounts are
// expenses, non-negative amounts income. All arithmetic is exact.
type Amount struct {
	value decimal.Decimal // as major unit value
	cur   string
}

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
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromUint64(uint64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	default:
		return decimal.Decimal{}
	}
}

// A creates an Amount from a numeric value and a currency code.
func A[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency string) Amount {
	return Amount{value: newDecimal(value), cur: currency}
}

// ParseAmount parses a decimal string like "-123.45" into an Amount.
func ParseAmount(s, currency string) (Amount, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{value: v, cur: currency}, nil
}

// currency returns the amount's currency.
func (a Amount) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, a.cur).Currency()
}

// String returns the amount formatted in its currency.
func (a Amount) String() string {
	cur := a.currency()
	dec := a.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// DecimalString returns the bare decimal value, suitable for persistence.
func (a Amount) DecimalString() string { return a.value.String() }

func (a Amount) Currency() string      { return a.cur }
func (a Amount) Equal(b Amount) bool   { return a.value.Equal(b.value) && a.cur == b.cur }
func (a Amount) IsZero() bool          { return a.value.IsZero() }
func (a Amount) IsPositive() bool      { return a.value.IsPositive() }
func (a Amount) IsNegative() bool      { return a.value.IsNegative() }
func (a Amount) Neg() Amount           { return Amount{value: a.value.Neg(), cur: a.cur} }
func (a Amount) Add(b Amount) Amount   { return Amount{value: a.value.Add(b.value), cur: cur(a, b)} }
func (a Amount) Sub(b Amount) Amount   { return Amount{value: a.value.Sub(b.value), cur: cur(a, b)} }
func (a Amount) LessThan(b Amount) bool { return a.value.LessThan(b.value) }

// makes the "" currency totally weak.
func cur(a, b Amount) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic("currency mismatch " + a.cur + "!=" + b.cur)
	}
	return a.cur
}

// SignedString returns the string representation of the amount with a sign.
// 0 is represented as a "-".
func (a Amount) SignedString() string {
	if a.value.IsZero() {
		return "-"
	}
	if a.value.IsPositive() {
		return "+" + a.String()
	}
	return a.String()
}
