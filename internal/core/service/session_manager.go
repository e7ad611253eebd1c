package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dompet/finance-gateway/internal/core/domain"
	"github.com/dompet/finance-gateway/internal/core/ports"
	"github.com/dompet/finance-gateway/internal/pkg/metrics"
)

// Storage keys. The token record is {"token": "<opaque>"}; the profile record
// is the JSON-encoded domain.UserProfile.
const (
	TokenKey   = "token"
	ProfileKey = "userData"
)

type tokenRecord struct {
	Token string `json:"token"`
}

// SessionManager owns the persisted session: one token record and one cached
// profile record in a key-value store. Mutations are serialized within the
// process; reads are not.
type SessionManager struct {
	store ports.KeyValueStore
	log   zerolog.Logger
	mu    sync.Mutex
}

// NewSessionManager returns a SessionManager backed by store.
func NewSessionManager(store ports.KeyValueStore, log zerolog.Logger) *SessionManager {
	return &SessionManager{store: store, log: log}
}

// SaveSession writes the profile and then the token. If either write fails,
// both keys are removed best-effort so no partial session survives.
func (m *SessionManager) SaveSession(ctx context.Context, token string, profile domain.UserProfile) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { metrics.SessionWritesTotal.WithLabelValues("save", metrics.Result(err)).Inc() }()

	if token == "" {
		return errors.New("save session: empty token")
	}

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("save session: encode profile: %w", err)
	}
	tokenJSON, err := json.Marshal(tokenRecord{Token: token})
	if err != nil {
		return fmt.Errorf("save session: encode token: %w", err)
	}

	if err := m.store.Set(ctx, ProfileKey, string(profileJSON)); err != nil {
		m.discard(ctx)
		return fmt.Errorf("save session: write profile: %w", err)
	}
	if err := m.store.Set(ctx, TokenKey, string(tokenJSON)); err != nil {
		m.discard(ctx)
		return fmt.Errorf("save session: write token: %w", err)
	}
	return nil
}

// discard removes both keys after a failed save. Failures are only logged; the
// caller already has the original error.
func (m *SessionManager) discard(ctx context.Context) {
	for _, key := range []string{TokenKey, ProfileKey} {
		if err := m.store.Remove(ctx, key); err != nil {
			m.log.Warn().Err(err).Str("key", key).Msg("failed to discard partial session")
		}
	}
}

// ReadToken returns the stored bearer token, or domain.ErrNoSession when the
// record is missing, empty or unreadable. Storage failures are returned as-is.
func (m *SessionManager) ReadToken(ctx context.Context) (string, error) {
	raw, found, err := m.store.Get(ctx, TokenKey)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	if !found {
		return "", domain.ErrNoSession
	}

	var rec tokenRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		m.log.Warn().Err(err).Msg("ignoring unreadable token record")
		return "", domain.ErrNoSession
	}
	if rec.Token == "" {
		return "", domain.ErrNoSession
	}
	return rec.Token, nil
}

// ReadProfile returns the cached profile, or nil when none is stored.
func (m *SessionManager) ReadProfile(ctx context.Context) (*domain.UserProfile, error) {
	raw, found, err := m.store.Get(ctx, ProfileKey)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	if !found {
		return nil, nil
	}

	var profile domain.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		m.log.Warn().Err(err).Msg("ignoring unreadable profile record")
		return nil, nil
	}
	return &profile, nil
}

// MergeProfile overwrites the supplied fields of the cached profile and
// persists the result in a single write. Without a cached profile it does
// nothing and returns nil.
func (m *SessionManager) MergeProfile(ctx context.Context, patch domain.ProfilePatch) (_ *domain.UserProfile, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { metrics.SessionWritesTotal.WithLabelValues("merge", metrics.Result(err)).Inc() }()

	current, err := m.ReadProfile(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		m.log.Debug().Msg("no cached profile to merge into")
		return nil, nil
	}

	merged := patch.Apply(*current)
	encoded, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("merge profile: encode: %w", err)
	}
	if err := m.store.Set(ctx, ProfileKey, string(encoded)); err != nil {
		return nil, fmt.Errorf("merge profile: write: %w", err)
	}
	return &merged, nil
}

// ClearSession removes the token and profile records. Clearing an absent
// session is not an error.
func (m *SessionManager) ClearSession(ctx context.Context) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { metrics.SessionWritesTotal.WithLabelValues("clear", metrics.Result(err)).Inc() }()

	var errs []error
	for _, key := range []string{TokenKey, ProfileKey} {
		if rmErr := m.store.Remove(ctx, key); rmErr != nil {
			errs = append(errs, fmt.Errorf("clear session: remove %s: %w", key, rmErr))
		}
	}
	return errors.Join(errs...)
}
