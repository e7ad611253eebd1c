package ports

import (
	"context"

	"github.com/dompet/finance-gateway/internal/core/domain"
)

// TokenSource yields the current bearer token. ReadToken returns
// domain.ErrNoSession when nothing usable is stored.
type TokenSource interface {
	ReadToken(ctx context.Context) (string, error)
}

// SessionStore owns the persisted session record.
type SessionStore interface {
	TokenSource
	SaveSession(ctx context.Context, token string, profile domain.UserProfile) error
	ReadProfile(ctx context.Context) (*domain.UserProfile, error)
	MergeProfile(ctx context.Context, patch domain.ProfilePatch) (*domain.UserProfile, error)
	ClearSession(ctx context.Context) error
}
