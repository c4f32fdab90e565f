// package session owns the client-side authentication state: one canonical
// in-memory Session backed by a single persistence adapter.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AnonymousName is the display identity reported when no session exists.
const AnonymousName = "Guest"

// Identity is the cached display identity of the authenticated user.
//
// Advisory only: it is derived from token claims and may be stale or absent
// even when a valid access token is held.
type Identity struct {
	UserID   int    `json:"user_id,omitempty"`
	Username string `json:"username,omitempty"`
}

// Session is the client's record of whether, and as whom, the user is
// authenticated. The access token alone decides "is authenticated".
type Session struct {
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Identity     *Identity `json:"identity,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
}

// Authenticated reports whether the session holds an access token.
func (s *Session) Authenticated() bool {
	return s != nil && s.AccessToken != ""
}

// DisplayName returns the cached username, or the anonymous placeholder.
func (s *Session) DisplayName() string {
	if s == nil || s.Identity == nil || s.Identity.Username == "" {
		return AnonymousName
	}
	return s.Identity.Username
}

// Expired reports whether the access token's exp claim has passed.
// Sessions without a known expiry never report expired.
func (s *Session) Expired(now time.Time) bool {
	if s == nil || s.ExpiresAt.IsZero() {
		return false
	}
	return now.After(s.ExpiresAt)
}

// IdentityFromToken extracts the display identity and expiry from the
// backend's JWT access token (claims sub, id, exp) without verifying the
// signature; the client has no key and treats claims as advisory.
//
// Returns a nil identity for tokens that do not parse as JWTs: an opaque
// token still counts as authenticated.
func IdentityFromToken(token string) (*Identity, time.Time) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, time.Time{}
	}

	ident := &Identity{}
	if sub, err := claims.GetSubject(); err == nil {
		ident.Username = sub
	}
	if id, ok := claims["id"].(float64); ok {
		ident.UserID = int(id)
	}

	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}

	if ident.Username == "" && ident.UserID == 0 {
		return nil, expiresAt
	}
	return ident, expiresAt
}
