package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avdeyev/zmx/internal/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
)

// Store is the single authority for reading, writing and clearing
// authentication credentials.
//
// /auth/token is a standard OAuth2 password-grant endpoint, so login rides
// on [oauth2.Config.PasswordCredentialsToken]; registration is a plain form
// POST the oauth2 package has no flow for.
type Store struct {
	baseURL    string
	oauth      *oauth2.Config
	httpClient *http.Client
	storage    Storage
	logger     *log.Logger
	current    *Session
}

// NewStore creates a session store for the backend at baseURL.
func NewStore(baseURL string, storage Storage, client *http.Client, logger *log.Logger) *Store {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if storage == nil {
		storage = NewMemoryStorage()
	}

	baseURL = strings.TrimRight(baseURL, "/")

	return &Store{
		baseURL: baseURL,
		oauth: &oauth2.Config{
			Endpoint: oauth2.Endpoint{
				TokenURL:  baseURL + "/auth/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: client,
		storage:    storage,
		logger:     logger,
	}
}

// Current returns the in-memory session, never nil.
func (s *Store) Current() *Session {
	if s.current == nil {
		s.current = &Session{}
	}
	return s.current
}

// Authenticated reports whether an access token is held.
func (s *Store) Authenticated() bool {
	return s.current.Authenticated()
}

// AccessToken returns the current bearer credential, or "".
func (s *Store) AccessToken() string {
	if s.current == nil {
		return ""
	}
	return s.current.AccessToken
}

// DisplayName returns the cached username or the anonymous placeholder.
func (s *Store) DisplayName() string {
	return s.current.DisplayName()
}

// Login submits credentials as a password grant and persists the resulting
// session. A server rejection surfaces the backend's detail message as
// [shared.ErrAuthRejected]; an unreachable backend maps to [shared.ErrNetwork].
func (s *Store) Login(ctx context.Context, username, password string) error {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)

	token, err := s.oauth.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			detail := detailMessage(retrieveErr.Body)
			if detail == "" {
				detail = "login failed"
			}
			return fmt.Errorf("%w: %s", shared.ErrAuthRejected, detail)
		}
		return fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}

	sess := &Session{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	sess.Identity, sess.ExpiresAt = IdentityFromToken(token.AccessToken)

	return s.adopt(sess)
}

// Register creates an account. Mismatched passwords fail locally with
// [shared.ErrValidation] and never reach the network.
func (s *Store) Register(ctx context.Context, login, password, confirmPassword string) error {
	if password != confirmPassword {
		return fmt.Errorf("%w: passwords do not match", shared.ErrValidation)
	}

	form := url.Values{
		"login":            {login},
		"password":         {password},
		"confirm_password": {confirmPassword},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/auth/register", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		detail := detailMessage(body)
		if detail == "" {
			detail = "registration failed"
		}
		return fmt.Errorf("%w: %s", shared.ErrAuthRejected, detail)
	}

	return nil
}

// Import adopts tokens lifted from a browser session (cURL cookie import).
func (s *Store) Import(accessToken, refreshToken string) error {
	if accessToken == "" {
		return fmt.Errorf("%w: no access_token cookie present", shared.ErrValidation)
	}

	sess := &Session{AccessToken: accessToken, RefreshToken: refreshToken}
	sess.Identity, sess.ExpiresAt = IdentityFromToken(accessToken)

	return s.adopt(sess)
}

// Logout unconditionally clears the in-memory session and the persisted
// state. It never reports auth-state errors; callers gate the affordance on
// [Store.Authenticated].
func (s *Store) Logout() error {
	s.current = &Session{}
	if err := s.storage.Clear(); err != nil {
		return fmt.Errorf("failed to clear persisted session: %w", err)
	}
	return nil
}

// Restore loads persisted state into the store. Absent or corrupt state
// yields the anonymous session rather than an error.
func (s *Store) Restore() *Session {
	sess, err := s.storage.Load()
	if err != nil {
		s.logger.Warn("discarding unreadable session state", "error", err)
		sess = nil
	}
	if sess == nil {
		sess = &Session{}
	}

	if sess.Authenticated() && sess.Expired(time.Now()) {
		s.logger.Warn("restored session has an expired access token", "expired_at", sess.ExpiresAt)
	}

	s.current = sess
	return sess
}

// adopt installs a session in memory and persists it through the adapter.
func (s *Store) adopt(sess *Session) error {
	s.current = sess
	if err := s.storage.Save(sess); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// detailMessage extracts the backend's JSON {"detail": "..."} error field.
func detailMessage(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Detail
}
