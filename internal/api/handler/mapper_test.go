package handler

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestToTransactionInput(t *testing.T) {
	in, err := toTransactionInput(transactionRequest{
		Type:   "expense",
		Amount: json.Number("25000.50"),
		Date:   "2024-05-02",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !in.Amount.Equal(decimal.RequireFromString("25000.5")) {
		t.Fatalf("amount = %s", in.Amount)
	}
	if !in.Date.Equal(time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date = %s", in.Date)
	}

	in, err = toTransactionInput(transactionRequest{Type: "income", Amount: "10", Date: "2024-05-02T10:30:00+07:00"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !in.Date.Equal(time.Date(2024, 5, 2, 3, 30, 0, 0, time.UTC)) {
		t.Fatalf("date = %s", in.Date)
	}

	in, err = toTransactionInput(transactionRequest{Type: "income", Amount: "10"})
	if err != nil || !in.Date.IsZero() {
		t.Fatalf("empty date should stay zero, got %s (%v)", in.Date, err)
	}
}

func TestToTransactionInput_Rejects(t *testing.T) {
	cases := map[string]transactionRequest{
		"amount": {Type: "income", Amount: "ten"},
		"date":   {Type: "income", Amount: "10", Date: "02/05/2024"},
	}
	for name, req := range cases {
		if _, err := toTransactionInput(req); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestValidator_Messages(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&createCategoryRequest{Name: "", Color: "orange"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	want := "name is required; color must be a hex color such as #ff8800"
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}

	if err := v.Validate(&createCategoryRequest{Name: "Makan", Type: "expense", Color: "#ff8800"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
