// Package money implements the fixed-point amount used for prices and totals.
//
// An amount is stored as a whole number of cents. It is stored in BIGINT columns,
// rendered as a two-decimal string on the wire and parsed from decimal strings, so
// cart, checkout and order totals never drift apart through float rounding.
package money

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const scale = 2

var (
	ErrPrecision = errors.New("money: amount has more than two decimal places")
	ErrNegative  = errors.New("money: amount must not be negative")
)

// Money is an amount in cents.
type Money int64

// Zero is the empty amount.
const Zero Money = 0

func FromCents(cents int64) Money {
	return Money(cents)
}

// Parse reads a decimal string such as "10", "10.5" or "10.50".
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("money: parse %q: %w", s, err)
	}

	return fromDecimal(d)
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return m
}

func fromDecimal(d decimal.Decimal) (Money, error) {
	if d.IsNegative() {
		return Zero, ErrNegative
	}

	shifted := d.Shift(scale)
	if !shifted.Equal(shifted.Truncate(0)) {
		return Zero, ErrPrecision
	}

	return Money(shifted.IntPart()), nil
}

func (m Money) Cents() int64 {
	return int64(m)
}

func (m Money) Add(other Money) Money {
	return m + other
}

// Mul returns the amount for qty units of m.
func (m Money) Mul(qty int) Money {
	return m * Money(qty)
}

func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -scale)
}

func (m Money) String() string {
	return m.Decimal().StringFixed(scale)
}

// Sum adds up amounts.
func Sum(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}

	return total
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts both "10.50" and 10.50.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("money: decode json: %w", err)
	}

	parsed, err := fromDecimal(d)
	if err != nil {
		return err
	}

	*m = parsed
	return nil
}

func (m Money) Value() (driver.Value, error) {
	return int64(m), nil
}

// Scan reads integer columns as cents and text or numeric columns as a decimal amount.
func (m *Money) Scan(src any) error {
	switch v := src.(type) {
	case int64:
		*m = Money(v)
	case int32:
		*m = Money(v)
	case []byte:
		return m.scanString(string(v))
	case string:
		return m.scanString(v)
	case nil:
		return errors.New("money: cannot scan NULL")
	default:
		return fmt.Errorf("money: cannot scan %T", src)
	}

	return nil
}

func (m *Money) scanString(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("money: scan %q: %w", s, err)
	}

	parsed, err := fromDecimal(d)
	if err != nil {
		return fmt.Errorf("money: scan %q: %w", s, err)
	}

	*m = parsed
	return nil
}
