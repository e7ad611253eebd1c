package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

func TestSummarize_SplitsIncomeAndExpense(t *testing.T) {
	txs := []Transaction{
		{Type: TransactionIncome, Amount: decimal.NewFromInt(50000)},
		{Type: TransactionExpense, Amount: decimal.NewFromInt(12500)},
		{Type: TransactionIncome, Amount: decimal.RequireFromString("0.5")},
		{Type: "transfer", Amount: decimal.NewFromInt(100)}, // unknown types count as expense
	}

	s := Summarize(txs)

	if !s.TotalIncome.Equal(decimal.RequireFromString("50000.5")) {
		t.Fatalf("unexpected income: %s", s.TotalIncome)
	}
	if !s.TotalExpense.Equal(decimal.NewFromInt(12600)) {
		t.Fatalf("unexpected expense: %s", s.TotalExpense)
	}
	if !s.Balance().Equal(decimal.RequireFromString("37400.5")) {
		t.Fatalf("unexpected balance: %s", s.Balance())
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if !s.TotalIncome.IsZero() || !s.TotalExpense.IsZero() {
		t.Fatalf("expected zero totals, got %+v", s)
	}
}

func TestProfilePatch_ApplyPreservesUnsetFields(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	u := UserProfile{ID: "1", Username: "u", Email: "old", Name: "A", CreatedAt: created}
	email := "x"

	got := ProfilePatch{Email: &email}.Apply(u)

	want := UserProfile{ID: "1", Username: "u", Email: "x", Name: "A", CreatedAt: created}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestProfilePatch_Empty(t *testing.T) {
	if !(ProfilePatch{}).Empty() {
		t.Fatal("zero patch should be empty")
	}
	name := ""
	if (ProfilePatch{Name: &name}).Empty() {
		t.Fatal("patch with an explicit empty name is not empty")
	}
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": exp.Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	got, ok := TokenExpiry(signed)
	if !ok {
		t.Fatal("expected expiry to be found")
	}
	if !got.Equal(exp) {
		t.Fatalf("got %v, want %v", got, exp)
	}

	if _, ok := TokenExpiry("opaque-token"); ok {
		t.Fatal("opaque token should have no expiry")
	}
}

func TestErrors_DisplayMessagesHideCauses(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.1:5000: connect: connection refused")
	netErr := &NetworkError{Op: "GET transactions", Err: cause}

	if netErr.Error() == cause.Error() {
		t.Fatal("network error must not surface the raw cause")
	}
	if !errors.Is(netErr, cause) {
		t.Fatal("cause must stay reachable through Unwrap")
	}

	authErr := &AuthRequiredError{Op: "GET profile"}
	if !errors.Is(authErr, ErrNoSession) {
		t.Fatal("AuthRequiredError should wrap ErrNoSession")
	}
	if !IsAuthRequired(authErr) {
		t.Fatal("IsAuthRequired should match")
	}

	apiErr, ok := AsAPIError(&APIError{Status: 404, Message: "Transaksi tidak ditemukan"})
	if !ok || apiErr.Status != 404 {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
	if (&APIError{Status: 500}).Error() == "" {
		t.Fatal("api error without message needs a fallback")
	}
}
