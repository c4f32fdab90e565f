// Zametka backend implementation of [Service]
//
// Request and response shapes follow the backend's FastAPI routers; errors
// carry the server's JSON detail field when present.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/avdeyev/zmx/internal/models"
	"github.com/avdeyev/zmx/internal/shared"
)

// massMoveRequest is the PATCH /note/mass_move/ payload.
type massMoveRequest struct {
	NoteIDs  []int `json:"note_ids"`
	FolderID int   `json:"folder_id"`
}

// NotesClient implements [Service] against a Zametka backend.
//
// The access token is propagated both as an Authorization bearer header and
// as an access_token cookie: different backend routes read different
// sources, and the header is attached uniformly to every mutating call.
type NotesClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenProvider
}

var _ Service = (*NotesClient)(nil)

// NewNotesClient creates a backend client rooted at baseURL.
func NewNotesClient(baseURL string, client *http.Client, tokens TokenProvider) *NotesClient {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &NotesClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		tokens:     tokens,
	}
}

func (c *NotesClient) Name() string {
	return "Zametka"
}

// doRequest performs an HTTP request against the backend API.
//
// body is JSON-encoded when non-nil; result is JSON-decoded when non-nil.
func (c *NotesClient) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token := c.accessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		if detail := detailMessage(respBody); detail != "" {
			return fmt.Errorf("%w: %s", shared.ErrRequestFailed, detail)
		}
		return fmt.Errorf("%w: status %d", shared.ErrRequestFailed, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func (c *NotesClient) accessToken() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.AccessToken()
}

// CreateFolder creates a folder. Validation failures never reach the network.
func (c *NotesClient) CreateFolder(ctx context.Context, draft models.FolderDraft) (*models.Folder, error) {
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	var folder models.Folder
	if err := c.doRequest(ctx, http.MethodPost, "/folder/", draft, &folder); err != nil {
		return nil, err
	}
	return &folder, nil
}

// UserFolders retrieves all folders belonging to the given user.
func (c *NotesClient) UserFolders(ctx context.Context, userID int) ([]models.Folder, error) {
	var folders []models.Folder
	endpoint := fmt.Sprintf("/folder/by_user/%d/", userID)
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// CreateNote creates a note. Validation failures never reach the network.
func (c *NotesClient) CreateNote(ctx context.Context, draft models.NoteDraft) (*models.Note, error) {
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	var note models.Note
	if err := c.doRequest(ctx, http.MethodPost, "/note/", draft, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

// FolderNotes retrieves the notes of one folder.
func (c *NotesClient) FolderNotes(ctx context.Context, folderID int) ([]models.Note, error) {
	var notes []models.Note
	endpoint := fmt.Sprintf("/note/by_folder/%d/", folderID)
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// MoveNotes reassigns the given notes to the target folder with one batched
// request, never one round-trip per note.
func (c *NotesClient) MoveNotes(ctx context.Context, noteIDs []int, targetFolderID int) error {
	if len(noteIDs) == 0 {
		return fmt.Errorf("%w: no note IDs provided", shared.ErrValidation)
	}

	payload := massMoveRequest{NoteIDs: noteIDs, FolderID: targetFolderID}
	return c.doRequest(ctx, http.MethodPatch, "/note/mass_move/", payload, nil)
}

// DeleteNotes deletes the given notes with one batched request.
func (c *NotesClient) DeleteNotes(ctx context.Context, noteIDs []int) error {
	if len(noteIDs) == 0 {
		return fmt.Errorf("%w: no note IDs provided", shared.ErrValidation)
	}

	return c.doRequest(ctx, http.MethodDelete, "/note/mass_deleting/", noteIDs, nil)
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
