package utils

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func NumericToFloat64(value pgtype.Numeric) float64 {
	if !value.Valid {
		return 0
	}
	f, err := value.Float64Value()
	if err == nil {
		return f.Float64
	}
	text, err := value.MarshalJSON()
	if err != nil {
		return 0
	}
	var out float64
	if _, err := fmt.Sscan(string(text), &out); err != nil {
		return 0
	}
	return out
}

// FormatAmount renders a money amount with two decimals, the display
// rounding used on every page and ticket.
func FormatAmount(value decimal.Decimal) string {
	return value.StringFixed(2)
}

func FormatPLN(value decimal.Decimal) string {
	return FormatAmount(value) + " PLN"
}
