package handler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dompet/finance-gateway/internal/api/ledger"
	"github.com/dompet/finance-gateway/internal/core/domain"
)

// --- Request → ledger input ---

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02"}

func toTransactionInput(req transactionRequest) (domain.TransactionInput, error) {
	amount, err := decimal.NewFromString(req.Amount.String())
	if err != nil {
		return domain.TransactionInput{}, fmt.Errorf("amount must be a number")
	}

	var date time.Time
	if req.Date != "" {
		for _, layout := range dateLayouts {
			if date, err = time.Parse(layout, req.Date); err == nil {
				break
			}
		}
		if err != nil {
			return domain.TransactionInput{}, fmt.Errorf("date must be RFC 3339 or YYYY-MM-DD")
		}
	}

	return domain.TransactionInput{
		Type:        domain.TransactionType(req.Type),
		Amount:      amount,
		Description: req.Description,
		Date:        date,
		CategoryID:  req.CategoryID,
	}, nil
}

func toProfileChanges(req updateProfileRequest) ledger.ProfileChanges {
	return ledger.ProfileChanges{Username: req.Username, Email: req.Email, Name: req.Name}
}

// --- Ledger result → HTTP response ---

func toUserResponse(u *ledger.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt.UTC(),
	}
}

func toTransactionResponse(tx domain.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Type:        string(tx.Type),
		Amount:      json.Number(tx.Amount.String()),
		Description: tx.Description,
		Date:        tx.Date.UTC(),
		CategoryID:  tx.CategoryID,
	}
}

func toTransactionResponses(txs []domain.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	return out
}

func toSummaryResponse(s domain.Summary) summaryResponse {
	return summaryResponse{
		TotalIncome:  json.Number(s.TotalIncome.String()),
		TotalExpense: json.Number(s.TotalExpense.String()),
		Balance:      json.Number(s.Balance().String()),
	}
}
