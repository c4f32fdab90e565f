// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"testing"

	"github.com/avdeyev/zmx/internal/models"
)

// MockService is a configurable test double for [services.Service]. Zero
// value succeeds with empty results; set fields to shape responses and
// inspect the Calls log afterwards.
type MockService struct {
	Folders    []models.Folder
	FolderErr  error
	Notes      []models.Note
	NotesErr   error
	Created    *models.Note
	CreateErr  error
	MoveErr    error
	DeleteErr  error
	Calls      []string
	MovedIDs   []int
	MovedTo    int
	DeletedIDs []int
}

func (m *MockService) CreateFolder(ctx context.Context, draft models.FolderDraft) (*models.Folder, error) {
	m.Calls = append(m.Calls, "CreateFolder")
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	return &models.Folder{ID: 1, Name: draft.Name, Color: draft.Color, IsPublic: draft.IsPublic}, nil
}

func (m *MockService) UserFolders(ctx context.Context, userID int) ([]models.Folder, error) {
	m.Calls = append(m.Calls, "UserFolders")
	return m.Folders, m.FolderErr
}

func (m *MockService) CreateNote(ctx context.Context, draft models.NoteDraft) (*models.Note, error) {
	m.Calls = append(m.Calls, "CreateNote")
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	if m.Created != nil {
		return m.Created, nil
	}
	return &models.Note{ID: 1, Name: draft.Name, Text: draft.Text, FolderID: draft.FolderID, IsPublic: draft.IsPublic}, nil
}

func (m *MockService) FolderNotes(ctx context.Context, folderID int) ([]models.Note, error) {
	m.Calls = append(m.Calls, "FolderNotes")
	return m.Notes, m.NotesErr
}

func (m *MockService) MoveNotes(ctx context.Context, noteIDs []int, folderID int) error {
	m.Calls = append(m.Calls, "MoveNotes")
	if m.MoveErr != nil {
		return m.MoveErr
	}
	m.MovedIDs = append([]int{}, noteIDs...)
	m.MovedTo = folderID
	return nil
}

func (m *MockService) DeleteNotes(ctx context.Context, noteIDs []int) error {
	m.Calls = append(m.Calls, "DeleteNotes")
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.DeletedIDs = append([]int{}, noteIDs...)
	return nil
}

func (m *MockService) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
	Requests []*http.Request
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	m.Requests = append(m.Requests, r)
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
