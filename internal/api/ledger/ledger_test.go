package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/dompet/finance-gateway/internal/core/domain"
)

func newTestLedger() *Ledger {
	return New(WithBcryptCost(bcrypt.MinCost))
}

func mustRegister(t *testing.T, l *Ledger, username string) *User {
	t.Helper()
	u, err := l.Register(username, "rahasia", "Name "+username, username+"@example.com")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	return u
}

func TestLedger_RegisterAndAuthenticate(t *testing.T) {
	l := newTestLedger()
	u := mustRegister(t, l, "Budi")

	if u.ID == "" || u.PasswordHash == "rahasia" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if _, err := l.Register("budi", "x", "", ""); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	got, err := l.Authenticate("BUDI", "rahasia")
	if err != nil || got.ID != u.ID {
		t.Fatalf("Authenticate = %+v, %v", got, err)
	}
	if _, err := l.Authenticate("budi", "salah"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := l.Authenticate("ghost", "rahasia"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestLedger_UpdateProfile(t *testing.T) {
	l := newTestLedger()
	u := mustRegister(t, l, "budi")
	mustRegister(t, l, "sari")

	taken := "Sari"
	if _, err := l.UpdateProfile(u.ID, ProfileChanges{Username: &taken}); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	name, username := "Budi Santoso", "budis"
	updated, err := l.UpdateProfile(u.ID, ProfileChanges{Name: &name, Username: &username})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated.Name != name || updated.Username != username || updated.Email != u.Email {
		t.Fatalf("unexpected user: %+v", updated)
	}
	if _, err := l.Authenticate("budis", "rahasia"); err != nil {
		t.Fatalf("new username should authenticate: %v", err)
	}
	if _, err := l.Authenticate("budi", "rahasia"); err == nil {
		t.Fatalf("old username should be released")
	}
}

func TestLedger_ChangePassword(t *testing.T) {
	l := newTestLedger()
	u := mustRegister(t, l, "budi")

	if err := l.ChangePassword(u.ID, "salah", "baru"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if err := l.ChangePassword(u.ID, "rahasia", "baru"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}
	if _, err := l.Authenticate("budi", "baru"); err != nil {
		t.Fatalf("new password should authenticate: %v", err)
	}
}

func TestLedger_TransactionsLifecycle(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(WithBcryptCost(bcrypt.MinCost), WithClock(func() time.Time { return base }))
	u := mustRegister(t, l, "budi")

	for i, in := range []domain.TransactionInput{
		{Type: domain.TransactionIncome, Amount: decimal.NewFromInt(100), Date: base.Add(1 * time.Hour)},
		{Type: domain.TransactionExpense, Amount: decimal.NewFromInt(30), Date: base.Add(3 * time.Hour)},
		{Type: domain.TransactionExpense, Amount: decimal.NewFromInt(20)},
	} {
		if _, err := l.CreateTransaction(u.ID, in); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	if _, err := l.CreateTransaction(u.ID, domain.TransactionInput{Type: domain.TransactionIncome}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := l.CreateTransaction(u.ID, domain.TransactionInput{Type: "gift", Amount: decimal.NewFromInt(1)}); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}

	expenses, _ := l.Transactions(u.ID, domain.TransactionExpense)
	if len(expenses) != 2 || !expenses[0].Date.After(expenses[1].Date) {
		t.Fatalf("expected two expenses newest first, got %+v", expenses)
	}

	summary, recent, err := l.Dashboard(u.ID, 2)
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	if !summary.Balance().Equal(decimal.NewFromInt(50)) || len(recent) != 2 {
		t.Fatalf("unexpected dashboard: %+v %d", summary, len(recent))
	}

	target := recent[0].ID
	updated, err := l.UpdateTransaction(u.ID, target, domain.TransactionInput{Type: domain.TransactionIncome, Amount: decimal.NewFromInt(5), Description: "refund"})
	if err != nil || updated.ID != target || updated.Description != "refund" {
		t.Fatalf("UpdateTransaction = %+v, %v", updated, err)
	}

	if err := l.DeleteTransaction(u.ID, target); err != nil {
		t.Fatalf("DeleteTransaction returned error: %v", err)
	}
	if err := l.DeleteTransaction(u.ID, target); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
	if _, err := l.UpdateTransaction(u.ID, "missing", domain.TransactionInput{Type: domain.TransactionIncome, Amount: decimal.NewFromInt(1)}); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestLedger_AccountsAreIsolated(t *testing.T) {
	l := newTestLedger()
	a := mustRegister(t, l, "a")
	b := mustRegister(t, l, "b")

	tx, err := l.CreateTransaction(a.ID, domain.TransactionInput{Type: domain.TransactionIncome, Amount: decimal.NewFromInt(1)})
	if err != nil {
		t.Fatalf("CreateTransaction returned error: %v", err)
	}
	if err := l.DeleteTransaction(b.ID, tx.ID); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("other accounts must not see the transaction, got %v", err)
	}
}

func TestLedger_Categories(t *testing.T) {
	l := newTestLedger()
	u := mustRegister(t, l, "budi")

	for _, name := range []string{"Transport", "Makan"} {
		if _, err := l.CreateCategory(u.ID, domain.CategoryInput{Name: name}); err != nil {
			t.Fatalf("CreateCategory returned error: %v", err)
		}
	}
	cats, _ := l.Categories(u.ID)
	if len(cats) != 2 || cats[0].Name != "Makan" {
		t.Fatalf("expected categories sorted by name, got %+v", cats)
	}

	if err := l.DeleteCategory(u.ID, cats[0].ID); err != nil {
		t.Fatalf("DeleteCategory returned error: %v", err)
	}
	if err := l.DeleteCategory(u.ID, cats[0].ID); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestTokenIssuer_IssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	u := &User{ID: "u-1", Username: "budi"}

	token, err := issuer.Issue(u)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	sub, err := issuer.Verify(token)
	if err != nil || sub != "u-1" {
		t.Fatalf("Verify = %q, %v", sub, err)
	}

	if _, err := NewTokenIssuer("other", time.Hour).Verify(token); err == nil {
		t.Fatalf("expected signature failure")
	}

	expired := NewTokenIssuer("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, _ := expired.Issue(u)
	if _, err := issuer.Verify(old); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}
