package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/avdeyev/zmx/internal/shared"
	tu "github.com/avdeyev/zmx/internal/testing"
	"github.com/golang-jwt/jwt/v5"
)

// signedToken builds a JWT the way the backend issues them: username in sub,
// numeric user ID in a custom id claim.
func signedToken(t *testing.T, username string, userID int, exp time.Time) string {
	t.Helper()

	claims := jwt.MapClaims{"sub": username, "id": float64(userID)}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestStoreLogin(t *testing.T) {
	t.Run("successful login adopts and persists the session", func(t *testing.T) {
		access := signedToken(t, "ivan", 42, time.Now().Add(time.Hour))

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/auth/token" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if err := r.ParseForm(); err != nil {
				t.Fatalf("failed to parse form: %v", err)
			}
			if r.Form.Get("grant_type") != "password" {
				t.Errorf("expected password grant, got %q", r.Form.Get("grant_type"))
			}
			if r.Form.Get("username") != "ivan" || r.Form.Get("password") != "secret" {
				t.Errorf("unexpected credentials %v", r.Form)
			}

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token": "` + access + `", "token_type": "bearer", "refresh_token": "refresh-1"}`))
		}))
		defer server.Close()

		dir := t.TempDir()
		storage, err := NewFileStorage(dir)
		if err != nil {
			t.Fatalf("failed to create storage: %v", err)
		}

		store := NewStore(server.URL, storage, nil, nil)
		if err := store.Login(context.Background(), "ivan", "secret"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !store.Authenticated() {
			t.Error("expected store to be authenticated")
		}
		if store.DisplayName() != "ivan" {
			t.Errorf("expected display name 'ivan', got %q", store.DisplayName())
		}
		if store.Current().Identity == nil || store.Current().Identity.UserID != 42 {
			t.Errorf("expected user ID 42, got %+v", store.Current().Identity)
		}
		if store.Current().RefreshToken != "refresh-1" {
			t.Error("expected refresh token to be retained")
		}

		tu.AssertFileExists(t, filepath.Join(dir, "session.json"))
	})

	t.Run("server rejection surfaces the detail message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail": "Incorrect username or password"}`))
		}))
		defer server.Close()

		store := NewStore(server.URL, nil, nil, nil)
		err := store.Login(context.Background(), "ivan", "wrong")

		if !errors.Is(err, shared.ErrAuthRejected) {
			t.Fatalf("expected ErrAuthRejected, got %v", err)
		}
		if !strings.Contains(err.Error(), "Incorrect username or password") {
			t.Errorf("expected detail in error, got %v", err)
		}
		if store.Authenticated() {
			t.Error("expected store to stay unauthenticated")
		}
	})

	t.Run("unreachable backend maps to a network error", func(t *testing.T) {
		client := &http.Client{
			Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused")),
		}

		store := NewStore("http://example.com", nil, client, nil)
		err := store.Login(context.Background(), "ivan", "secret")

		if !errors.Is(err, shared.ErrNetwork) {
			t.Errorf("expected ErrNetwork, got %v", err)
		}
	})

	t.Run("opaque access token still authenticates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token": "opaque-token", "token_type": "bearer"}`))
		}))
		defer server.Close()

		store := NewStore(server.URL, nil, nil, nil)
		if err := store.Login(context.Background(), "ivan", "secret"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !store.Authenticated() {
			t.Error("expected store to be authenticated")
		}
		if store.DisplayName() != AnonymousName {
			t.Errorf("expected anonymous display name, got %q", store.DisplayName())
		}
	})
}

func TestStoreRegister(t *testing.T) {
	t.Run("mismatched passwords fail locally without a network call", func(t *testing.T) {
		client := &http.Client{
			Transport: tu.NewMockRoundTripper(nil, errors.New("should not be called")),
		}

		store := NewStore("http://example.com", nil, client, nil)
		err := store.Register(context.Background(), "ivan", "secret", "different")

		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("submits the registration form", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/auth/register" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
				t.Errorf("expected form content type, got %q", ct)
			}
			if err := r.ParseForm(); err != nil {
				t.Fatalf("failed to parse form: %v", err)
			}
			if r.Form.Get("login") != "ivan" {
				t.Errorf("expected login 'ivan', got %q", r.Form.Get("login"))
			}
			if r.Form.Get("confirm_password") != "secret" {
				t.Errorf("expected confirm_password, got %q", r.Form.Get("confirm_password"))
			}
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		store := NewStore(server.URL, nil, nil, nil)
		if err := store.Register(context.Background(), "ivan", "secret", "secret"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("duplicate username surfaces the detail message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail": "Username already registered"}`))
		}))
		defer server.Close()

		store := NewStore(server.URL, nil, nil, nil)
		err := store.Register(context.Background(), "ivan", "secret", "secret")

		if !errors.Is(err, shared.ErrAuthRejected) {
			t.Fatalf("expected ErrAuthRejected, got %v", err)
		}
		if !strings.Contains(err.Error(), "Username already registered") {
			t.Errorf("expected detail in error, got %v", err)
		}
	})
}

func TestStoreImport(t *testing.T) {
	t.Run("adopts tokens lifted from a browser session", func(t *testing.T) {
		access := signedToken(t, "ivan", 42, time.Now().Add(time.Hour))

		store := NewStore("http://example.com", nil, nil, nil)
		if err := store.Import(access, "refresh-1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if !store.Authenticated() {
			t.Error("expected store to be authenticated")
		}
		if store.DisplayName() != "ivan" {
			t.Errorf("expected display name 'ivan', got %q", store.DisplayName())
		}
	})

	t.Run("rejects an empty access token", func(t *testing.T) {
		store := NewStore("http://example.com", nil, nil, nil)
		err := store.Import("", "refresh-1")

		if !errors.Is(err, shared.ErrValidation) {
			t.Errorf("expected ErrValidation, got %v", err)
		}
	})
}

func TestStoreLogout(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewFileStorage(dir)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}

	store := NewStore("http://example.com", storage, nil, nil)
	if err := store.Import(signedToken(t, "ivan", 42, time.Time{}), ""); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if err := store.Logout(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if store.Authenticated() {
		t.Error("expected store to be unauthenticated after logout")
	}
	if store.DisplayName() != AnonymousName {
		t.Errorf("expected anonymous display name, got %q", store.DisplayName())
	}
	if _, err := os.Stat(filepath.Join(dir, "session.json")); !errors.Is(err, os.ErrNotExist) {
		t.Error("expected persisted session to be removed")
	}
}

func TestStoreRestore(t *testing.T) {
	t.Run("restores a persisted session", func(t *testing.T) {
		dir := t.TempDir()
		storage, err := NewFileStorage(dir)
		if err != nil {
			t.Fatalf("failed to create storage: %v", err)
		}

		first := NewStore("http://example.com", storage, nil, nil)
		if err := first.Import(signedToken(t, "ivan", 42, time.Now().Add(time.Hour)), "refresh-1"); err != nil {
			t.Fatalf("import failed: %v", err)
		}

		second := NewStore("http://example.com", storage, nil, nil)
		sess := second.Restore()

		if !sess.Authenticated() {
			t.Error("expected restored session to be authenticated")
		}
		if sess.DisplayName() != "ivan" {
			t.Errorf("expected display name 'ivan', got %q", sess.DisplayName())
		}
	})

	t.Run("absent state yields the anonymous session", func(t *testing.T) {
		storage, err := NewFileStorage(t.TempDir())
		if err != nil {
			t.Fatalf("failed to create storage: %v", err)
		}

		store := NewStore("http://example.com", storage, nil, nil)
		sess := store.Restore()

		if sess.Authenticated() {
			t.Error("expected anonymous session")
		}
		if sess.DisplayName() != AnonymousName {
			t.Errorf("expected %q, got %q", AnonymousName, sess.DisplayName())
		}
	})

	t.Run("corrupt state yields the anonymous session", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "session.json"), []byte("{not json"), 0600); err != nil {
			t.Fatalf("failed to write corrupt state: %v", err)
		}

		storage, err := NewFileStorage(dir)
		if err != nil {
			t.Fatalf("failed to create storage: %v", err)
		}

		store := NewStore("http://example.com", storage, nil, nil)
		sess := store.Restore()

		if sess.Authenticated() {
			t.Error("expected anonymous session for corrupt state")
		}
	})
}
