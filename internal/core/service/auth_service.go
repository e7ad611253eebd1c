package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/dompet/finance-gateway/internal/core/domain"
	"github.com/dompet/finance-gateway/internal/core/ports"
)

// AuthService implements sign-in, sign-up, password changes and sign-out.
type AuthService struct {
	api      ports.Dispatcher
	sessions ports.SessionStore
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(api ports.Dispatcher, sessions ports.SessionStore, log zerolog.Logger) *AuthService {
	return &AuthService{api: api, sessions: sessions, log: log, now: time.Now}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string    `json:"token"`
	User  *wireUser `json:"user"`
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// Login authenticates against the service and persists the session. The
// session is only written once the response has been fully validated.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.AuthResult, error) {
	raw, err := s.api.Send(ctx, ports.Request{
		Method:   http.MethodPost,
		Path:     "auth/login",
		Body:     loginRequest{Username: username, Password: password},
		Fallback: "Login failed",
	})
	if err != nil {
		return nil, err
	}

	var resp loginResponse
	if err := decode("login", raw, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &domain.MalformedResponseError{Op: "login", Err: errors.New("response carries no token")}
	}

	user := loginProfile(resp.User, username, s.now())
	if err := s.sessions.SaveSession(ctx, resp.Token, user); err != nil {
		s.log.Error().Err(err).Str("username", user.Username).Msg("failed to persist session")
		return nil, err
	}

	evt := s.log.Info().Str("username", user.Username)
	if exp, ok := domain.TokenExpiry(resp.Token); ok {
		evt = evt.Time("expires_at", exp)
	}
	evt.Msg("signed in")

	return &domain.AuthResult{Token: resp.Token, User: user}, nil
}

// Register creates an account. It does not sign in.
func (s *AuthService) Register(ctx context.Context, username, password, name, email string) (*domain.Ack, error) {
	raw, err := s.api.Send(ctx, ports.Request{
		Method:   http.MethodPost,
		Path:     "auth/register",
		Body:     registerRequest{Username: username, Password: password, Name: name, Email: email},
		Fallback: "Registration failed",
	})
	if err != nil {
		return nil, err
	}
	return ack("register", raw)
}

// ChangePassword never touches the stored session, whatever the outcome.
func (s *AuthService) ChangePassword(ctx context.Context, current, next string) (*domain.Ack, error) {
	raw, err := s.api.Send(ctx, ports.Request{
		Method:   http.MethodPost,
		Path:     "auth/change-password",
		Body:     changePasswordRequest{CurrentPassword: current, NewPassword: next},
		Auth:     true,
		Fallback: "Gagal mengubah kata sandi",
	})
	if err != nil {
		return nil, err
	}
	return ack("change password", raw)
}

// Logout forgets the stored session. It is safe to call when signed out.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.sessions.ClearSession(ctx); err != nil {
		return err
	}
	s.log.Info().Msg("signed out")
	return nil
}

// CurrentSession returns the stored session without contacting the service.
// The token is not validated.
func (s *AuthService) CurrentSession(ctx context.Context) (*domain.Session, error) {
	token, err := s.sessions.ReadToken(ctx)
	if err != nil {
		return nil, err
	}
	profile, err := s.sessions.ReadProfile(ctx)
	if err != nil {
		return nil, err
	}
	session := &domain.Session{Token: token}
	if profile != nil {
		session.User = *profile
	}
	if exp, ok := domain.TokenExpiry(token); ok {
		session.ExpiresAt = &exp
	}
	return session, nil
}

// ack decodes the status envelope of a response and keeps the body verbatim.
func ack(op string, raw json.RawMessage) (*domain.Ack, error) {
	var env envelope
	if err := decode(op, raw, &env); err != nil {
		return nil, err
	}
	return &domain.Ack{Success: env.succeeded(), Message: env.Message, Raw: raw}, nil
}
