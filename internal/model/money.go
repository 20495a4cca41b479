package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Money is an exact amount with two decimal places, stored as NUMERIC(10,2).
// It reads plain JSON numbers or strings and always writes a string such as
// "80.00".
type Money struct {
	decimal.Decimal
}

func NewMoney(amount float64) Money {
	return Money{decimal.NewFromFloat(amount)}
}

func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

func (m Money) String() string {
	return m.StringFixed(2)
}

// Equal compares amounts, so 80 and 80.00 are equal.
func (m Money) Equal(other Money) bool {
	return m.Decimal.Equal(other.Decimal)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}
