package ui

import (
	"bytes"
	"context"
	"testing"

	"github.com/avdeyev/zmx/internal/models"
	"github.com/avdeyev/zmx/internal/selection"
	"github.com/avdeyev/zmx/internal/shared"
	tu "github.com/avdeyev/zmx/internal/testing"
	tea "github.com/charmbracelet/bubbletea"
)

// gatedFolderService blocks UserFolders until released, holding the
// candidate fetch in flight for as long as a test needs.
type gatedFolderService struct {
	tu.MockService
	release chan struct{}
}

func (s *gatedFolderService) UserFolders(ctx context.Context, userID int) ([]models.Folder, error) {
	<-s.release
	return s.Folders, s.FolderErr
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func openNotesView(t *testing.T, m *Model) {
	t.Helper()
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.Update(notesFetchedMsg{
		folder: models.Folder{ID: 3, Name: "work"},
		notes: []models.Note{
			{ID: 10, Name: "a", FolderID: 3},
			{ID: 11, Name: "b", FolderID: 3},
		},
	})
	if m.view != NoteSelectView {
		t.Fatalf("expected note select view, got %v", m.view)
	}
}

func TestMoveDialogDispatch(t *testing.T) {
	var buf bytes.Buffer
	logger := shared.NewLogger(&buf)

	t.Run("parks in flight until candidates arrive", func(t *testing.T) {
		svc := &tu.MockService{Folders: []models.Folder{{ID: 3, Name: "work"}, {ID: 4, Name: "home"}}}
		m := NewModel(context.Background(), svc, logger, 42)
		openNotesView(t, m)

		m.Update(keyPress(' '))
		if len(m.controller.SelectedIDs()) != 1 {
			t.Fatalf("expected 1 selected, got %d", len(m.controller.SelectedIDs()))
		}

		_, cmd := m.Update(keyPress('m'))
		if m.view != InFlightView {
			t.Fatalf("expected in-flight view while candidates load, got %v", m.view)
		}
		if cmd == nil {
			t.Fatal("expected a dialog command")
		}

		// Grid keys must not reach the controller before the dialog opens.
		m.Update(keyPress(' '))
		m.Update(keyPress('a'))
		if got := len(m.controller.SelectedIDs()); got != 1 {
			t.Errorf("expected selection untouched during fetch, got %d", got)
		}

		msg := cmd()
		dialog, ok := msg.(moveDialogOpenedMsg)
		if !ok {
			t.Fatalf("expected dialog message, got %T", msg)
		}
		for _, candidate := range dialog.candidates {
			if candidate.ID == 3 {
				t.Errorf("open folder leaked into candidates: %+v", candidate)
			}
		}

		m.Update(msg)
		if m.view != MoveTargetView {
			t.Errorf("expected move target view, got %v", m.view)
		}
		if m.controller.State() != selection.MoveDialogOpen {
			t.Errorf("expected move dialog open, got %v", m.controller.State())
		}
	})

	t.Run("concurrent key presses during a slow fetch", func(t *testing.T) {
		svc := &gatedFolderService{
			MockService: tu.MockService{Folders: []models.Folder{{ID: 3, Name: "work"}, {ID: 4, Name: "home"}}},
			release:     make(chan struct{}),
		}
		m := NewModel(context.Background(), svc, logger, 42)
		openNotesView(t, m)

		m.Update(keyPress(' '))
		_, cmd := m.Update(keyPress('m'))
		if cmd == nil {
			t.Fatal("expected a dialog command")
		}

		done := make(chan tea.Msg, 1)
		go func() { done <- cmd() }()

		for i := 0; i < 10; i++ {
			m.Update(keyPress(' '))
			m.Update(keyPress('a'))
		}
		close(svc.release)

		m.Update(<-done)
		if m.view != MoveTargetView {
			t.Errorf("expected move target view, got %v", m.view)
		}
		if got := len(m.controller.SelectedIDs()); got != 1 {
			t.Errorf("expected selection untouched, got %d", got)
		}
	})

	t.Run("no selection shows a status instead", func(t *testing.T) {
		svc := &tu.MockService{}
		m := NewModel(context.Background(), svc, logger, 42)
		openNotesView(t, m)

		m.Update(keyPress('m'))
		if m.view != NoteSelectView {
			t.Errorf("expected to stay on the note view, got %v", m.view)
		}
		if m.status == "" {
			t.Error("expected a status line")
		}
	})
}
