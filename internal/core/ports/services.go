package ports

import (
	"context"

	"github.com/dompet/finance-gateway/internal/core/domain"
)

// AuthService covers sign-in, sign-up, password changes and sign-out.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*domain.AuthResult, error)
	Register(ctx context.Context, username, password, name, email string) (*domain.Ack, error)
	ChangePassword(ctx context.Context, current, next string) (*domain.Ack, error)
	Logout(ctx context.Context) error
}

// ProfileUpdate is the body of a profile update. Nil fields are omitted.
type ProfileUpdate struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Username *string `json:"username,omitempty"`
}

// ProfileService reads and updates the remote profile.
type ProfileService interface {
	GetProfile(ctx context.Context) (*domain.ProfileResult, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (*domain.ProfileResult, error)
}

// TransactionService manages transactions. FetchTransactions and
// GetDashboardData never fail; failures are reported in the result.
type TransactionService interface {
	FetchTransactions(ctx context.Context, filter domain.TransactionFilter) domain.TransactionList
	CreateTransaction(ctx context.Context, in domain.TransactionInput) (*domain.TransactionResult, error)
	UpdateTransaction(ctx context.Context, id string, in domain.TransactionInput) (*domain.TransactionResult, error)
	DeleteTransaction(ctx context.Context, id string) (*domain.Ack, error)
	GetDashboardData(ctx context.Context) domain.Dashboard
}

// CategoryService manages categories.
type CategoryService interface {
	FetchCategories(ctx context.Context) (*domain.CategoryList, error)
	CreateCategory(ctx context.Context, in domain.CategoryInput) (*domain.CategoryResult, error)
	DeleteCategory(ctx context.Context, id string) (*domain.Ack, error)
}
