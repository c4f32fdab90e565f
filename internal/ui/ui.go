package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/avdeyev/zmx/internal/models"
	"github.com/avdeyev/zmx/internal/selection"
	"github.com/avdeyev/zmx/internal/services"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	FolderListView ViewState = iota
	NoteSelectView
	MoveTargetView
	ConfirmDeleteView
	InFlightView
	ResultView
)

// statusTTL is how long a transient status line stays visible.
const statusTTL = 5 * time.Second

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	svc        services.Service
	logger     *log.Logger
	userID     int
	view       ViewState
	width      int
	height     int
	folderList list.Model
	folders    []models.Folder
	noteList   list.Model
	targetList list.Model
	controller *selection.Controller
	current    models.Folder
	result     opCompleteMsg
	status     string
	statusID   int
	err        error
	help       help.Model
	keys       keyMap
}

// NewModel creates a new TUI model for the given user's folders.
func NewModel(ctx context.Context, svc services.Service, logger *log.Logger, userID int) *Model {
	return &Model{
		ctx:    ctx,
		svc:    svc,
		logger: logger,
		userID: userID,
		view:   FolderListView,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by fetching the user's folders.
func (m *Model) Init() tea.Cmd {
	return m.fetchFolders()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.folderList.Width() == 0 {
			m.folderList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.noteList.Width() == 0 {
			m.noteList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case FolderListView:
			return m.handleFolderListKeys(msg)
		case NoteSelectView:
			return m.handleNoteSelectKeys(msg)
		case MoveTargetView:
			return m.handleMoveTargetKeys(msg)
		case ConfirmDeleteView:
			return m.handleConfirmDeleteKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case foldersFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.folders = msg.folders
		items := make([]list.Item, len(msg.folders))
		for i, folder := range msg.folders {
			items[i] = folderItem{folder: folder}
		}
		m.folderList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.folderList.Title = "Folders"
		m.folderList.SetSize(m.width-4, m.height-8)
		return m, nil

	case notesFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = FolderListView
			return m, nil
		}
		m.current = msg.folder
		m.controller = selection.NewController(m.svc, m.logger, msg.folder.ID, m.userID)
		m.controller.SetRendered(msg.notes)
		m.noteList = list.New(m.noteItems(), list.NewDefaultDelegate(), 0, 0)
		m.noteList.Title = fmt.Sprintf("Notes in '%s'", msg.folder.Name)
		m.noteList.SetSize(m.width-4, m.height-8)
		m.view = NoteSelectView
		return m, nil

	case moveDialogOpenedMsg:
		items := make([]list.Item, len(msg.candidates))
		for i, candidate := range msg.candidates {
			items[i] = targetItem{candidate: candidate}
		}
		m.targetList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.targetList.Title = "Move to folder"
		m.targetList.SetSize(m.width-4, m.height-8)
		m.view = MoveTargetView
		return m, nil

	case opCompleteMsg:
		m.result = msg
		m.view = ResultView
		m.refreshNoteList()
		return m, nil

	case statusExpiredMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case FolderListView:
		return m.renderFolderList()
	case NoteSelectView:
		return m.renderNoteSelect()
	case MoveTargetView:
		return m.renderMoveTarget()
	case ConfirmDeleteView:
		return m.renderConfirmDelete()
	case InFlightView:
		return m.renderInFlight()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleFolderListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.folderList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(folderItem); ok {
				return m, m.fetchNotes(item.folder)
			}
		}
	}

	var cmd tea.Cmd
	m.folderList, cmd = m.folderList.Update(msg)
	return m, cmd
}

func (m *Model) handleNoteSelectKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = FolderListView
		m.controller = nil
		return m, nil
	case " ":
		if item, ok := m.noteList.SelectedItem().(noteItem); ok {
			m.controller.ToggleNote(item.note.ID)
			m.refreshNoteList()
		}
		return m, nil
	case "a":
		m.controller.ToggleAll(!m.controller.AllSelected())
		m.refreshNoteList()
		return m, nil
	case "m":
		if !m.controller.HasSelection() {
			return m, m.setStatus("Select notes first")
		}
		// Park in the in-flight view while the candidate fetch runs off
		// the update loop; no key handler touches the controller there.
		m.view = InFlightView
		return m, m.openMoveDialog()
	case "d":
		if err := m.controller.RequestDelete(); err != nil {
			return m, m.setStatus("Select notes first")
		}
		m.view = ConfirmDeleteView
		return m, nil
	}

	var cmd tea.Cmd
	m.noteList, cmd = m.noteList.Update(msg)
	return m, cmd
}

func (m *Model) handleMoveTargetKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.controller.CloseMoveDialog()
		m.view = NoteSelectView
		return m, nil
	case "enter":
		if item, ok := m.targetList.SelectedItem().(targetItem); ok {
			m.view = InFlightView
			return m, m.startMove(item.candidate.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.targetList, cmd = m.targetList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.controller.CancelDelete()
		m.view = NoteSelectView
		return m, nil
	case "y":
		m.view = InFlightView
		return m, m.startDelete()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r", "enter", "esc":
		m.view = NoteSelectView
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case FolderListView:
		m.folderList, cmd = m.folderList.Update(msg)
	case NoteSelectView:
		m.noteList, cmd = m.noteList.Update(msg)
	case MoveTargetView:
		m.targetList, cmd = m.targetList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchFolders() tea.Cmd {
	return func() tea.Msg {
		folders, err := m.svc.UserFolders(m.ctx, m.userID)
		return foldersFetchedMsg{folders: folders, err: err}
	}
}

func (m *Model) fetchNotes(folder models.Folder) tea.Cmd {
	return func() tea.Msg {
		notes, err := m.svc.FolderNotes(m.ctx, folder.ID)
		return notesFetchedMsg{folder: folder, notes: notes, err: err}
	}
}

func (m *Model) openMoveDialog() tea.Cmd {
	return func() tea.Msg {
		return moveDialogOpenedMsg{candidates: m.controller.OpenMoveDialog(m.ctx)}
	}
}

func (m *Model) startMove(targetID int) tea.Cmd {
	count := len(m.controller.SelectedIDs())
	return func() tea.Msg {
		err := m.controller.ConfirmMove(m.ctx, targetID)
		return opCompleteMsg{verb: "moved", count: count, err: err}
	}
}

func (m *Model) startDelete() tea.Cmd {
	count := len(m.controller.SelectedIDs())
	return func() tea.Msg {
		err := m.controller.ConfirmDelete(m.ctx)
		return opCompleteMsg{verb: "deleted", count: count, err: err}
	}
}

// setStatus shows a transient status line that auto-dismisses after statusTTL.
func (m *Model) setStatus(status string) tea.Cmd {
	m.status = status
	m.statusID++
	id := m.statusID
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return statusExpiredMsg{id: id}
	})
}

// noteItems rebuilds the list items from the controller's grid and selection.
func (m *Model) noteItems() []list.Item {
	rendered := m.controller.Rendered()
	items := make([]list.Item, len(rendered))
	for i, note := range rendered {
		items[i] = noteItem{note: note, checked: m.controller.Selected(note.ID)}
	}
	return items
}

func (m *Model) refreshNoteList() {
	if m.controller == nil {
		return
	}
	index := m.noteList.Index()
	m.noteList.SetItems(m.noteItems())
	if index >= len(m.controller.Rendered()) {
		index = len(m.controller.Rendered()) - 1
	}
	if index >= 0 {
		m.noteList.Select(index)
	}
}

func (m *Model) renderFolderList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.folderList.View(), helpView)
}

func (m *Model) renderNoteSelect() string {
	helpKeys := []key.Binding{m.keys.toggle, m.keys.toggleAll, m.keys.move, m.keys.del, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	counter := fmt.Sprintf("%d selected", len(m.controller.SelectedIDs()))
	if m.controller.AllSelected() {
		counter += " (all)"
	}

	out := fmt.Sprintf("%s\n%s\n\n%s", m.noteList.View(), styles.warn.Render(counter), helpView)
	if m.status != "" {
		out = fmt.Sprintf("%s\n%s", out, styles.help.Render(m.status))
	}
	return out
}

func (m *Model) renderMoveTarget() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.targetList.View(), helpView)
}

func (m *Model) renderConfirmDelete() string {
	count := len(m.controller.SelectedIDs())
	title := styles.title.Render(fmt.Sprintf("Delete %d notes from '%s'?", count, m.current.Name))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n\n%s", title, helpView)
}

func (m *Model) renderInFlight() string {
	title := styles.title.Render("Working")
	return fmt.Sprintf("%s\n\nWaiting for the server...", title)
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.result.err != nil {
		body := styles.err.Render(fmt.Sprintf("Operation failed: %v", m.result.err))
		return fmt.Sprintf("%s\n\nYour selection is untouched.\n\n%s", body, helpView)
	}

	title := styles.ok.Render(fmt.Sprintf("✓ %s %d notes",
		capitalizeVerb(m.result.verb), m.result.count))
	return fmt.Sprintf("%s\n\n%s", title, helpView)
}

func capitalizeVerb(verb string) string {
	switch verb {
	case "moved":
		return "Moved"
	case "deleted":
		return "Deleted"
	}
	return verb
}
