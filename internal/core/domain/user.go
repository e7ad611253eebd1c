package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserProfile is the locally cached view of the signed-in account.
type UserProfile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProfilePatch carries the profile fields to overwrite. Nil fields are left
// untouched.
type ProfilePatch struct {
	Username *string
	Email    *string
	Name     *string
}

// Empty reports whether the patch would change nothing.
func (p ProfilePatch) Empty() bool {
	return p.Username == nil && p.Email == nil && p.Name == nil
}

// Apply returns a copy of u with the patch applied. ID and CreatedAt are never
// touched.
func (p ProfilePatch) Apply(u UserProfile) UserProfile {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	return u
}

// Session is the (token, cached profile) pair for the current device.
// ExpiresAt is read from the token when it carries an exp claim.
type Session struct {
	Token     string      `json:"token"`
	User      UserProfile `json:"user"`
	ExpiresAt *time.Time  `json:"expiresAt,omitempty"`
}

// TokenExpiry returns the exp claim of a JWT-shaped token. Tokens are opaque to
// the gateway, so the value is informational only and the signature is not
// verified.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
