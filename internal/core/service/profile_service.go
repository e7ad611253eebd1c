package service

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/dompet/finance-gateway/internal/core/domain"
	"github.com/dompet/finance-gateway/internal/core/ports"
)

// ProfileService reads and updates the remote profile and keeps the cached
// copy in step with confirmed updates.
type ProfileService struct {
	api      ports.Dispatcher
	sessions ports.SessionStore
	log      zerolog.Logger
}

func NewProfileService(api ports.Dispatcher, sessions ports.SessionStore, log zerolog.Logger) *ProfileService {
	return &ProfileService{api: api, sessions: sessions, log: log}
}

type profileResponse struct {
	envelope
	User *wireUser `json:"user"`
}

// GetProfile returns the server's view of the profile. The cache is not
// refreshed.
func (s *ProfileService) GetProfile(ctx context.Context) (*domain.ProfileResult, error) {
	raw, err := s.api.Send(ctx, ports.Request{
		Method:   http.MethodGet,
		Path:     "profile",
		Auth:     true,
		Fallback: "Failed to fetch profile",
	})
	if err != nil {
		return nil, err
	}

	var resp profileResponse
	if err := decode("get profile", raw, &resp); err != nil {
		return nil, err
	}
	return &domain.ProfileResult{
		Success: resp.succeeded(),
		Message: resp.Message,
		User:    toProfile(resp.User),
		Raw:     raw,
	}, nil
}

// UpdateProfile sends the update and, on success, merges the name, email and
// username the server returned into the cached profile. On failure the cache
// is left untouched.
func (s *ProfileService) UpdateProfile(ctx context.Context, update ports.ProfileUpdate) (*domain.ProfileResult, error) {
	raw, err := s.api.Send(ctx, ports.Request{
		Method:   http.MethodPut,
		Path:     "profile",
		Body:     update,
		Auth:     true,
		Fallback: "Gagal mengupdate profil",
	})
	if err != nil {
		return nil, err
	}

	var resp profileResponse
	if err := decode("update profile", raw, &resp); err != nil {
		return nil, err
	}

	patch := profilePatch(resp.User)
	if patch.Empty() {
		s.log.Warn().Msg("profile update response carried no user fields, cache not refreshed")
	} else if _, err := s.sessions.MergeProfile(ctx, patch); err != nil {
		s.log.Error().Err(err).Msg("failed to refresh cached profile")
		return nil, err
	}

	return &domain.ProfileResult{
		Success: resp.succeeded(),
		Message: resp.Message,
		User:    toProfile(resp.User),
		Raw:     raw,
	}, nil
}
