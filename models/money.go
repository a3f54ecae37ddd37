package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Money is a decimal amount. It is stored in Mongo as a string so no precision is lost.
type Money struct {
	decimal.Decimal
}

func MoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

func MustMoney(s string) Money {
	return Money{decimal.RequireFromString(s)}
}

func (m Money) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(m.Decimal.StringFixed(2))
}

func (m *Money) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		d, err := decimal.NewFromString(raw.StringValue())
		if err != nil {
			return fmt.Errorf("invalid money value: %w", err)
		}
		m.Decimal = d
	case bsontype.Double:
		m.Decimal = decimal.NewFromFloat(raw.Double())
	case bsontype.Int32:
		m.Decimal = decimal.NewFromInt32(raw.Int32())
	case bsontype.Int64:
		m.Decimal = decimal.NewFromInt(raw.Int64())
	case bsontype.Null:
		m.Decimal = decimal.Zero
	default:
		return fmt.Errorf("cannot decode money from bson type %s", t)
	}
	return nil
}
