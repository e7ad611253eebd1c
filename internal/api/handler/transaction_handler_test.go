package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dompet/finance-gateway/internal/api/ledger"
	"github.com/dompet/finance-gateway/internal/core/domain"
)

type stubTransactions struct {
	txs     []domain.Transaction
	gotType domain.TransactionType
	created domain.TransactionInput
	deleted string
	recent  int
}

func (s *stubTransactions) Transactions(userID string, typ domain.TransactionType) ([]domain.Transaction, error) {
	s.gotType = typ
	return s.txs, nil
}

func (s *stubTransactions) CreateTransaction(userID string, in domain.TransactionInput) (*domain.Transaction, error) {
	s.created = in
	return &domain.Transaction{ID: "t-new", Type: in.Type, Amount: in.Amount, Description: in.Description, Date: in.Date}, nil
}

func (s *stubTransactions) UpdateTransaction(userID, txID string, in domain.TransactionInput) (*domain.Transaction, error) {
	return nil, ledger.ErrTransactionNotFound
}

func (s *stubTransactions) DeleteTransaction(userID, txID string) error {
	s.deleted = txID
	return nil
}

func (s *stubTransactions) Dashboard(userID string, recent int) (domain.Summary, []domain.Transaction, error) {
	s.recent = recent
	return domain.Summarize(s.txs), s.txs, nil
}

func sampleTransactions() []domain.Transaction {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Transaction{
		{ID: "t-2", Type: domain.TransactionExpense, Amount: decimal.NewFromInt(40000), Date: day.AddDate(0, 0, 1)},
		{ID: "t-1", Type: domain.TransactionIncome, Amount: decimal.NewFromInt(100000), Date: day},
	}
}

func TestTransactionHandler_List(t *testing.T) {
	stub := &stubTransactions{txs: sampleTransactions()}
	handler := NewTransactionHandler(stub, 5)

	c, rec := newContext(http.MethodGet, "/api/transactions?type=expense", "", "u-1")
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.gotType != domain.TransactionExpense {
		t.Fatalf("type filter not forwarded: %q", stub.gotType)
	}

	var resp transactionListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(resp.Transactions))
	}
	if resp.Summary.TotalIncome != "100000" || resp.Summary.TotalExpense != "40000" || resp.Summary.Balance != "60000" {
		t.Fatalf("unexpected summary: %+v", resp.Summary)
	}
}

func TestTransactionHandler_List_BadType(t *testing.T) {
	handler := NewTransactionHandler(&stubTransactions{}, 5)

	c, _ := newContext(http.MethodGet, "/api/transactions?type=transfer", "", "u-1")
	if code := httpCode(t, handler.List(c)); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
}

func TestTransactionHandler_Create(t *testing.T) {
	stub := &stubTransactions{}
	handler := NewTransactionHandler(stub, 5)

	c, rec := newContext(http.MethodPost, "/api/transactions",
		`{"type":"expense","amount":15000,"description":"Kopi","date":"2024-05-03"}`, "u-1")
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if !stub.created.Amount.Equal(decimal.NewFromInt(15000)) || stub.created.Description != "Kopi" {
		t.Fatalf("unexpected input: %+v", stub.created)
	}

	var resp transactionEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Message != "Transaksi berhasil dibuat" || resp.Transaction.ID != "t-new" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestTransactionHandler_Create_Invalid(t *testing.T) {
	handler := NewTransactionHandler(&stubTransactions{}, 5)

	c, _ := newContext(http.MethodPost, "/api/transactions", `{"type":"gift","amount":15000}`, "u-1")
	if code := httpCode(t, handler.Create(c)); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}

	c, _ = newContext(http.MethodPost, "/api/transactions", `{"type":"income","amount":1,"date":"tomorrow"}`, "u-1")
	if code := httpCode(t, handler.Create(c)); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
}

func TestTransactionHandler_UpdateMissing(t *testing.T) {
	handler := NewTransactionHandler(&stubTransactions{}, 5)

	c, _ := newContext(http.MethodPut, "/api/transactions/t-404", `{"type":"income","amount":1}`, "u-1")
	c.SetParamNames("id")
	c.SetParamValues("t-404")
	if err := handler.Update(c); !errors.Is(err, ledger.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestTransactionHandler_DeleteAndDashboard(t *testing.T) {
	stub := &stubTransactions{txs: sampleTransactions()}
	handler := NewTransactionHandler(stub, 0)

	c, _ := newContext(http.MethodDelete, "/api/transactions/t-1", "", "u-1")
	c.SetParamNames("id")
	c.SetParamValues("t-1")
	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.deleted != "t-1" {
		t.Fatalf("deleted %q", stub.deleted)
	}

	c, rec := newContext(http.MethodGet, "/api/transactions/dashboard", "", "u-1")
	if err := handler.Dashboard(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.recent != 5 {
		t.Fatalf("default recent limit = %d, want 5", stub.recent)
	}
	var resp dashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.RecentTransactions) != 2 || resp.Summary.Balance != "60000" {
		t.Fatalf("unexpected dashboard: %+v", resp)
	}
}
