package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/dompet/finance-gateway/internal/core/domain"
	"github.com/dompet/finance-gateway/internal/core/ports"
	"github.com/dompet/finance-gateway/internal/pkg/metrics"
)

// DefaultRecentLimit bounds the dashboard's recent transaction list when no
// limit is configured.
const DefaultRecentLimit = 5

// ErrMissingID is returned by operations addressing a resource by an empty
// id, or by "." or "..", which would resolve to a different path.
var ErrMissingID = errors.New("an id is required")

// resourcePath joins collection and id into a single path segment.
func resourcePath(collection, id string) (string, error) {
	switch id {
	case "", ".", "..":
		return "", ErrMissingID
	}
	return collection + "/" + url.PathEscape(id), nil
}

// TransactionService implements the transaction and dashboard operations. It
// keeps no local copy of transactions; callers re-fetch after mutations.
type TransactionService struct {
	api         ports.Dispatcher
	log         zerolog.Logger
	recentLimit int
	now         func() time.Time
}

// NewTransactionService bounds dashboard recent transactions to recentLimit,
// or DefaultRecentLimit when recentLimit <= 0.
func NewTransactionService(api ports.Dispatcher, recentLimit int, log zerolog.Logger) *TransactionService {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	return &TransactionService{api: api, log: log, recentLimit: recentLimit, now: time.Now}
}

type transactionBody struct {
	Type        domain.TransactionType `json:"type"`
	Amount      json.Number            `json:"amount"`
	Description string                 `json:"description"`
	Date        string                 `json:"date"`
	CategoryID  string                 `json:"categoryId,omitempty"`
}

type transactionListResponse struct {
	Transactions []wireTransaction `json:"transactions"`
	Summary      *wireSummary      `json:"summary"`
}

type transactionResponse struct {
	envelope
	Transaction *wireTransaction `json:"transaction"`
}

type dashboardResponse struct {
	Success            *bool             `json:"success"`
	Message            string            `json:"message"`
	Summary            *wireSummary      `json:"summary"`
	RecentTransactions []wireTransaction `json:"recentTransactions"`
}

func (s *TransactionService) body(in domain.TransactionInput) transactionBody {
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}
	return transactionBody{
		Type:        in.Type,
		Amount:      json.Number(in.Amount.String()),
		Description: in.Description,
		Date:        date.UTC().Format(time.RFC3339),
		CategoryID:  in.CategoryID,
	}
}

// FetchTransactions lists transactions. It never fails: on any error the
// result has Success=false, the error's display message, no transactions and
// zero totals. When the server omits the summary it is computed from the
// returned transactions.
func (s *TransactionService) FetchTransactions(ctx context.Context, filter domain.TransactionFilter) domain.TransactionList {
	list, err := s.fetchTransactions(ctx, filter)
	if err != nil {
		metrics.FallbacksTotal.WithLabelValues("fetch_transactions").Inc()
		s.log.Warn().Err(err).Str("type", string(filter.Type)).Msg("transaction list unavailable, returning empty result")
		return domain.TransactionList{
			Success:      false,
			Message:      err.Error(),
			Transactions: []domain.Transaction{},
			Summary:      zeroSummary(),
		}
	}
	return list
}

func (s *TransactionService) fetchTransactions(ctx context.Context, filter domain.TransactionFilter) (domain.TransactionList, error) {
	var query url.Values
	if filter.Type != "" {
		query = url.Values{"type": []string{string(filter.Type)}}
	}

	raw, err := s.api.Send(ctx, ports.Request{
		Method:   http.MethodGet,
		Path:     "transactions",
		Query:    query,
		Auth:     true,
		Fallback: "Failed to fetch transactions",
	})
	if err != nil {
		return domain.TransactionList{}, err
	}

	var resp transactionListResponse
	if err := decode("fetch transactions", raw, &resp); err != nil {
		return domain.TransactionList{}, err
	}

	txs := toTransactions(resp.Transactions)
	summary := domain.Summarize(txs)
	if resp.Summary != nil {
		summary = toSummary(resp.Summary)
	}
	return domain.TransactionList{Success: true, Transactions: txs, Summary: summary}, nil
}

// CreateTransaction records a new transaction. A zero Date is sent as now.
func (s *TransactionService) CreateTransaction(ctx context.Context, in domain.TransactionInput) (*domain.TransactionResult, error) {
	raw, err := s.api.Send(ctx, ports.Request{
		Method:   http.MethodPost,
		Path:     "transactions",
		Body:     s.body(in),
		Auth:     true,
		Fallback: "Gagal membuat transaksi",
	})
	if err != nil {
		return nil, err
	}
	return transactionResult("create transaction", raw)
}

// UpdateTransaction replaces every field of transaction id.
func (s *TransactionService) UpdateTransaction(ctx context.Context, id string, in domain.TransactionInput) (*domain.TransactionResult, error) {
	path, err := resourcePath("transactions", id)
	if err != nil {
		return nil, err
	}
	raw, err := s.api.Send(ctx, ports.Request{
		Method:   http.MethodPut,
		Path:     path,
		Route:    "transactions/:id",
		Body:     s.body(in),
		Auth:     true,
		Fallback: "Gagal mengupdate transaksi",
	})
	if err != nil {
		return nil, err
	}
	return transactionResult("update transaction", raw)
}

// DeleteTransaction permanently removes transaction id.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) (*domain.Ack, error) {
	path, err := resourcePath("transactions", id)
	if err != nil {
		return nil, err
	}
	raw, err := s.api.Send(ctx, ports.Request{
		Method:   http.MethodDelete,
		Path:     path,
		Route:    "transactions/:id",
		Auth:     true,
		Fallback: "Gagal menghapus transaksi",
	})
	if err != nil {
		return nil, err
	}
	return ack("delete transaction", raw)
}

func transactionResult(op string, raw json.RawMessage) (*domain.TransactionResult, error) {
	var resp transactionResponse
	if err := decode(op, raw, &resp); err != nil {
		return nil, err
	}
	res := &domain.TransactionResult{Success: resp.succeeded(), Message: resp.Message, Raw: raw}
	if resp.Transaction != nil {
		tx := toTransaction(*resp.Transaction)
		res.Transaction = &tx
	}
	return res, nil
}

// GetDashboardData returns totals and recent transactions. It never fails: on
// any error the result has Success=false, the error's display message, zero
// totals and no transactions. Top-level fields the gateway does not model are
// kept in Extra.
func (s *TransactionService) GetDashboardData(ctx context.Context) domain.Dashboard {
	dash, err := s.dashboard(ctx)
	if err != nil {
		metrics.FallbacksTotal.WithLabelValues("dashboard").Inc()
		s.log.Warn().Err(err).Msg("dashboard unavailable, returning empty result")
		return domain.Dashboard{
			Success:            false,
			Message:            err.Error(),
			Summary:            zeroSummary(),
			RecentTransactions: []domain.Transaction{},
		}
	}
	return dash
}

func (s *TransactionService) dashboard(ctx context.Context) (domain.Dashboard, error) {
	raw, err := s.api.Send(ctx, ports.Request{
		Method:   http.MethodGet,
		Path:     "transactions/dashboard",
		Auth:     true,
		Fallback: "Failed to fetch dashboard data",
	})
	if err != nil {
		return domain.Dashboard{}, err
	}

	var resp dashboardResponse
	if err := decode("dashboard", raw, &resp); err != nil {
		return domain.Dashboard{}, err
	}
	var fields map[string]json.RawMessage
	if err := decode("dashboard", raw, &fields); err != nil {
		return domain.Dashboard{}, err
	}
	for _, known := range []string{"success", "message", "summary", "recentTransactions"} {
		delete(fields, known)
	}

	recent := toTransactions(resp.RecentTransactions)
	if len(recent) > s.recentLimit {
		recent = recent[:s.recentLimit]
	}

	// A success flag in the payload wins over the default, as the payload is
	// merged over {success: true}.
	success := true
	if resp.Success != nil {
		success = *resp.Success
	}

	return domain.Dashboard{
		Success:            success,
		Message:            resp.Message,
		Summary:            toSummary(resp.Summary),
		RecentTransactions: recent,
		Extra:              fields,
	}, nil
}
