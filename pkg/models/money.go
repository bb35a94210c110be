package models

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// Money is a decimal ringgit amount. It persists as a plain DynamoDB number
// so the stored shape stays a bare numeric field.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps a decimal value.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// MoneyFromString parses a decimal string such as "80" or "49.50".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{Decimal: d}, nil
}

// MoneyFromInt builds an amount from whole ringgit.
func MoneyFromInt(v int64) Money {
	return Money{Decimal: decimal.NewFromInt(v)}
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{Decimal: m.Decimal.Add(o.Decimal)}
}

// Percent returns pct% of m, rounded to sen.
func (m Money) Percent(pct int64) Money {
	d := m.Decimal.Mul(decimal.NewFromInt(pct)).Div(decimal.NewFromInt(100))
	return Money{Decimal: d.Round(2)}
}

// Cents returns the amount in sen, as the gateway bills in cents.
func (m Money) Cents() int64 {
	return m.Decimal.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// Positive reports whether the amount is strictly greater than zero.
func (m Money) Positive() bool {
	return m.Decimal.IsPositive()
}

// MarshalJSON emits a bare JSON number, not decimal's default quoted string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

// UnmarshalJSON accepts both a bare number and a quoted numeric string.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", s, err)
	}
	m.Decimal = d
	return nil
}

// MarshalDynamoDBAttributeValue stores the amount as a number attribute.
func (m Money) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: m.Decimal.String()}, nil
}

// UnmarshalDynamoDBAttributeValue reads a number (or numeric string) attribute.
func (m *Money) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	var raw string
	switch v := av.(type) {
	case *types.AttributeValueMemberN:
		raw = v.Value
	case *types.AttributeValueMemberS:
		raw = v.Value
	default:
		return fmt.Errorf("cannot unmarshal %T into Money", av)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid stored amount %q: %w", raw, err)
	}
	m.Decimal = d
	return nil
}
