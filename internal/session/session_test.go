package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSession(t *testing.T) {
	t.Run("Authenticated", func(t *testing.T) {
		tests := []struct {
			name string
			sess *Session
			want bool
		}{
			{name: "nil session", sess: nil, want: false},
			{name: "empty session", sess: &Session{}, want: false},
			{name: "with access token", sess: &Session{AccessToken: "tok"}, want: true},
			{name: "refresh token alone does not count", sess: &Session{RefreshToken: "r"}, want: false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := tt.sess.Authenticated(); got != tt.want {
					t.Errorf("Authenticated() = %v, want %v", got, tt.want)
				}
			})
		}
	})

	t.Run("DisplayName", func(t *testing.T) {
		var nilSess *Session
		if nilSess.DisplayName() != AnonymousName {
			t.Error("expected anonymous name for nil session")
		}

		sess := &Session{AccessToken: "tok"}
		if sess.DisplayName() != AnonymousName {
			t.Error("expected anonymous name without identity")
		}

		sess.Identity = &Identity{Username: "ivan"}
		if sess.DisplayName() != "ivan" {
			t.Errorf("expected 'ivan', got %q", sess.DisplayName())
		}
	})

	t.Run("Expired", func(t *testing.T) {
		now := time.Now()

		unknownExpiry := &Session{AccessToken: "tok"}
		if unknownExpiry.Expired(now) {
			t.Error("session without known expiry must never report expired")
		}

		future := &Session{AccessToken: "tok", ExpiresAt: now.Add(time.Hour)}
		if future.Expired(now) {
			t.Error("expected future expiry to not be expired")
		}

		past := &Session{AccessToken: "tok", ExpiresAt: now.Add(-time.Minute)}
		if !past.Expired(now) {
			t.Error("expected past expiry to be expired")
		}
	})
}

func TestIdentityFromToken(t *testing.T) {
	t.Run("extracts claims from a backend token", func(t *testing.T) {
		exp := time.Now().Add(30 * time.Minute)
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "ivan",
			"id":  float64(42),
			"exp": exp.Unix(),
		}).SignedString([]byte("test-key"))
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}

		ident, expiresAt := IdentityFromToken(token)

		if ident == nil {
			t.Fatal("expected identity to be extracted")
		}
		if ident.Username != "ivan" {
			t.Errorf("expected username 'ivan', got %q", ident.Username)
		}
		if ident.UserID != 42 {
			t.Errorf("expected user ID 42, got %d", ident.UserID)
		}
		if expiresAt.Unix() != exp.Unix() {
			t.Errorf("expected expiry %v, got %v", exp, expiresAt)
		}
	})

	t.Run("opaque tokens yield no identity", func(t *testing.T) {
		ident, expiresAt := IdentityFromToken("not-a-jwt")

		if ident != nil {
			t.Errorf("expected nil identity, got %+v", ident)
		}
		if !expiresAt.IsZero() {
			t.Errorf("expected zero expiry, got %v", expiresAt)
		}
	})

	t.Run("token without identity claims yields nil", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"aud": "zametka",
		}).SignedString([]byte("test-key"))
		if err != nil {
			t.Fatalf("failed to sign token: %v", err)
		}

		ident, _ := IdentityFromToken(token)
		if ident != nil {
			t.Errorf("expected nil identity, got %+v", ident)
		}
	})
}

func TestMemoryStorage(t *testing.T) {
	storage := NewMemoryStorage()

	sess, err := storage.Load()
	if err != nil || sess != nil {
		t.Errorf("expected empty storage, got %v, %v", sess, err)
	}

	if err := storage.Save(&Session{AccessToken: "tok"}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	sess, err = storage.Load()
	if err != nil || sess == nil || sess.AccessToken != "tok" {
		t.Errorf("expected saved session, got %v, %v", sess, err)
	}

	if err := storage.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	sess, _ = storage.Load()
	if sess != nil {
		t.Error("expected storage to be empty after clear")
	}
}
