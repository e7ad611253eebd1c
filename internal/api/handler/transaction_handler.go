package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dompet/finance-gateway/internal/core/domain"
)

// Transactions is the ledger the transaction handler works on.
type Transactions interface {
	Transactions(userID string, typ domain.TransactionType) ([]domain.Transaction, error)
	CreateTransaction(userID string, in domain.TransactionInput) (*domain.Transaction, error)
	UpdateTransaction(userID, txID string, in domain.TransactionInput) (*domain.Transaction, error)
	DeleteTransaction(userID, txID string) error
	Dashboard(userID string, recent int) (domain.Summary, []domain.Transaction, error)
}

type TransactionHandler struct {
	ledger      Transactions
	recentLimit int
}

// NewTransactionHandler lists at most recentLimit transactions on the
// dashboard.
func NewTransactionHandler(ledger Transactions, recentLimit int) *TransactionHandler {
	if recentLimit <= 0 {
		recentLimit = 5
	}
	return &TransactionHandler{ledger: ledger, recentLimit: recentLimit}
}

// List returns the caller's transactions, newest first, with totals.
//
// @Summary      List transactions
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        type  query     string  false  "income or expense"
// @Success      200   {object}  transactionListResponse
// @Failure      401   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	typ := domain.TransactionType(c.QueryParam("type"))
	if typ != "" && !typ.Valid() {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "type must be one of: income expense")
	}

	txs, err := h.ledger.Transactions(userID, typ)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transactionListResponse{
		Success:      true,
		Transactions: toTransactionResponses(txs),
		Summary:      toSummaryResponse(domain.Summarize(txs)),
	})
}

// Create records a transaction.
//
// @Summary      Create transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      transactionRequest  true  "Transaction"
// @Success      201   {object}  transactionEnvelope
// @Failure      422   {object}  messageResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	in, err := h.bindInput(c)
	if err != nil {
		return err
	}

	tx, err := h.ledger.CreateTransaction(userID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, transactionEnvelope{
		Success:     true,
		Message:     "Transaksi berhasil dibuat",
		Transaction: toTransactionResponse(*tx),
	})
}

// Update replaces a transaction.
//
// @Summary      Update transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Transaction id"
// @Param        body  body      transactionRequest  true  "Transaction"
// @Success      200   {object}  transactionEnvelope
// @Failure      404   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Router       /api/transactions/{id} [put]
func (h *TransactionHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	in, err := h.bindInput(c)
	if err != nil {
		return err
	}

	tx, err := h.ledger.UpdateTransaction(userID, c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transactionEnvelope{
		Success:     true,
		Message:     "Transaksi berhasil diupdate",
		Transaction: toTransactionResponse(*tx),
	})
}

// Delete removes a transaction.
//
// @Summary      Delete transaction
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Transaction id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.ledger.DeleteTransaction(userID, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Transaksi berhasil dihapus"})
}

// Dashboard returns totals and the latest transactions.
//
// @Summary      Dashboard
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  messageResponse
// @Router       /api/transactions/dashboard [get]
func (h *TransactionHandler) Dashboard(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	summary, recent, err := h.ledger.Dashboard(userID, h.recentLimit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{
		Success:            true,
		Summary:            toSummaryResponse(summary),
		RecentTransactions: toTransactionResponses(recent),
	})
}

func (h *TransactionHandler) bindInput(c echo.Context) (domain.TransactionInput, error) {
	var req transactionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return domain.TransactionInput{}, err
	}
	in, err := toTransactionInput(req)
	if err != nil {
		return domain.TransactionInput{}, echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return in, nil
}
