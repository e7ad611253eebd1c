package handler

import (
	"encoding/json"
	"time"

	"github.com/dompet/finance-gateway/internal/core/domain"
)

// messageResponse is the envelope of acknowledgements and of every 4xx/5xx
// response.
type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// --- Auth & profile ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=6"`
}

type updateProfileRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email"    validate:"omitempty,email"`
	Username *string `json:"username" validate:"omitempty,min=3,max=30"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type authResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Token   string       `json:"token,omitempty"`
	User    userResponse `json:"user"`
}

type profileResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    userResponse `json:"user"`
}

// --- Transactions ---

type transactionRequest struct {
	Type        string      `json:"type"        validate:"required,oneof=income expense"`
	Amount      json.Number `json:"amount"      validate:"required"`
	Description string      `json:"description" validate:"max=255"`
	// Date is RFC 3339 or YYYY-MM-DD. Empty means now.
	Date       string `json:"date"`
	CategoryID string `json:"categoryId"`
}

type transactionResponse struct {
	ID          string      `json:"id"`
	Type        string      `json:"type"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	Date        time.Time   `json:"date"`
	CategoryID  string      `json:"categoryId,omitempty"`
}

type summaryResponse struct {
	TotalIncome  json.Number `json:"totalIncome"`
	TotalExpense json.Number `json:"totalExpense"`
	Balance      json.Number `json:"balance"`
}

type transactionListResponse struct {
	Success      bool                  `json:"success"`
	Transactions []transactionResponse `json:"transactions"`
	Summary      summaryResponse       `json:"summary"`
}

type transactionEnvelope struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message"`
	Transaction transactionResponse `json:"transaction"`
}

type dashboardResponse struct {
	Success            bool                  `json:"success"`
	Summary            summaryResponse       `json:"summary"`
	RecentTransactions []transactionResponse `json:"recentTransactions"`
}

// --- Categories ---

type createCategoryRequest struct {
	Name  string `json:"name"  validate:"required,max=50"`
	Type  string `json:"type"  validate:"omitempty,oneof=income expense"`
	Icon  string `json:"icon"  validate:"max=50"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

type categoryListResponse struct {
	Success    bool              `json:"success"`
	Categories []domain.Category `json:"categories"`
}

type categoryEnvelope struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Category domain.Category `json:"category"`
}
