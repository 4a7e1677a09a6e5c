package utils

import (
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func TestNumericToFloat64(t *testing.T) {
	var n pgtype.Numeric
	if err := n.Scan("38.50"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if got := NumericToFloat64(n); got != 38.5 {
		t.Fatalf("expected 38.5, got %v", got)
	}
	if got := NumericToFloat64(pgtype.Numeric{}); got != 0 {
		t.Fatalf("expected 0 for invalid numeric, got %v", got)
	}
}

func TestFormatPLN(t *testing.T) {
	if got := FormatPLN(decimal.RequireFromString("70.005")); got != "70.01 PLN" {
		t.Fatalf("unexpected %s", got)
	}
	if got := FormatAmount(decimal.Zero); got != "0.00" {
		t.Fatalf("unexpected %s", got)
	}
}
