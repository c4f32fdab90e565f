// package selection implements the multi-select bulk operation protocol for
// the notes of one folder view: track which notes are checked, stage a batch
// action, call the bulk endpoint, reconcile the grid with server-confirmed
// state.
//
// The controller exposes typed commands and holds no UI references; a
// presentation layer (TUI, CLI) binds them to events, which keeps the whole
// state machine testable without a terminal.
package selection

import (
	"context"
	"fmt"

	"github.com/avdeyev/zmx/internal/models"
	"github.com/avdeyev/zmx/internal/services"
	"github.com/avdeyev/zmx/internal/shared"
	"github.com/charmbracelet/log"
)

// State enumerates the controller's per-folder-view state machine.
type State int

const (
	Idle State = iota
	HasSelection
	MoveDialogOpen
	MoveInFlight
	DeleteConfirm
	DeleteInFlight
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case HasSelection:
		return "has_selection"
	case MoveDialogOpen:
		return "move_dialog_open"
	case MoveInFlight:
		return "move_in_flight"
	case DeleteConfirm:
		return "delete_confirm"
	case DeleteInFlight:
		return "delete_in_flight"
	default:
		return ""
	}
}

// InFlight reports whether a bulk mutation is outstanding.
func (s State) InFlight() bool {
	return s == MoveInFlight || s == DeleteInFlight
}

// Controller owns the selection set for the currently open folder and
// orchestrates bulk move/delete against the backend.
//
// Invariants: selected ⊆ rendered; a note removed from the grid is evicted
// from the selection in the same call; at most one bulk mutation is in
// flight at a time.
type Controller struct {
	svc      services.Service
	logger   *log.Logger
	folderID int
	userID   int

	state    State
	rendered []models.Note
	selected map[int]struct{}

	// Candidate folders are fetched at most once per view session, success
	// or failure, and reused for every later dialog opening.
	candidates       []models.FolderCandidate
	candidatesLoaded bool
}

// NewController creates a controller for the folder view identified by
// folderID, owned by userID.
func NewController(svc services.Service, logger *log.Logger, folderID, userID int) *Controller {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Controller{
		svc:      svc,
		logger:   logger,
		folderID: folderID,
		userID:   userID,
		selected: make(map[int]struct{}),
	}
}

// State returns the current machine state.
func (c *Controller) State() State {
	return c.state
}

// FolderID returns the folder this view session is bound to.
func (c *Controller) FolderID() int {
	return c.folderID
}

// Rendered returns the notes currently in the grid, in grid order.
func (c *Controller) Rendered() []models.Note {
	return c.rendered
}

// Selected reports whether the given note is checked.
func (c *Controller) Selected(id int) bool {
	_, ok := c.selected[id]
	return ok
}

// SelectedIDs returns the checked note ids in grid order.
func (c *Controller) SelectedIDs() []int {
	ids := make([]int, 0, len(c.selected))
	for _, note := range c.rendered {
		if _, ok := c.selected[note.ID]; ok {
			ids = append(ids, note.ID)
		}
	}
	return ids
}

// HasSelection reports whether at least one note is checked. Bulk action
// controls are enabled exactly when this is true.
func (c *Controller) HasSelection() bool {
	return len(c.selected) > 0
}

// AllSelected reports whether every rendered note is checked. Drives the
// two-way bound "select all" checkbox.
func (c *Controller) AllSelected() bool {
	return len(c.rendered) > 0 && len(c.selected) == len(c.rendered)
}

// SetRendered replaces the grid contents. Selected ids that are no longer
// rendered are evicted synchronously.
func (c *Controller) SetRendered(notes []models.Note) {
	c.rendered = notes

	present := make(map[int]struct{}, len(notes))
	for _, note := range notes {
		present[note.ID] = struct{}{}
	}
	for id := range c.selected {
		if _, ok := present[id]; !ok {
			delete(c.selected, id)
		}
	}

	c.settle()
}

// AddNote appends a note card to the grid, unselected. Adding an already
// rendered note is a no-op.
func (c *Controller) AddNote(note models.Note) {
	for _, existing := range c.rendered {
		if existing.ID == note.ID {
			return
		}
	}
	c.rendered = append(c.rendered, note)
	c.settle()
}

// RemoveNote removes a note card and evicts its id from the selection.
// Removing an absent note is a no-op.
func (c *Controller) RemoveNote(id int) {
	for i, note := range c.rendered {
		if note.ID == id {
			c.rendered = append(c.rendered[:i], c.rendered[i+1:]...)
			delete(c.selected, id)
			c.settle()
			return
		}
	}
}

// ToggleNote flips the checkbox of one rendered note. Ids that are not
// rendered are ignored.
func (c *Controller) ToggleNote(id int) {
	if c.state.InFlight() {
		return
	}

	rendered := false
	for _, note := range c.rendered {
		if note.ID == id {
			rendered = true
			break
		}
	}
	if !rendered {
		return
	}

	if _, ok := c.selected[id]; ok {
		delete(c.selected, id)
	} else {
		c.selected[id] = struct{}{}
	}
	c.settle()
}

// ToggleAll checks or unchecks every currently rendered note. Notes not in
// the grid are never touched, so stale ids cannot leak back in.
func (c *Controller) ToggleAll(checked bool) {
	if c.state.InFlight() {
		return
	}

	if !checked {
		clear(c.selected)
	} else {
		for _, note := range c.rendered {
			c.selected[note.ID] = struct{}{}
		}
	}
	c.settle()
}

// OpenMoveDialog stages a bulk move: fetches (or reuses) the candidate
// folder list, excluding the folder currently open. A fetch failure opens
// the dialog with an empty list and a logged warning instead of failing.
func (c *Controller) OpenMoveDialog(ctx context.Context) []models.FolderCandidate {
	if !c.HasSelection() || c.state.InFlight() {
		return nil
	}

	if !c.candidatesLoaded {
		folders, err := c.svc.UserFolders(ctx, c.userID)
		if err != nil {
			c.logger.Warn("failed to load move candidates", "error", err)
			folders = nil
		}

		c.candidates = make([]models.FolderCandidate, 0, len(folders))
		for _, folder := range folders {
			if folder.ID == c.folderID {
				continue
			}
			c.candidates = append(c.candidates, models.FolderCandidate{ID: folder.ID, Name: folder.Name})
		}
		c.candidatesLoaded = true
	}

	c.state = MoveDialogOpen
	return c.candidates
}

// CloseMoveDialog abandons a staged move.
func (c *Controller) CloseMoveDialog() {
	if c.state == MoveDialogOpen {
		c.settle()
	}
}

// ConfirmMove issues one batched request moving the whole selection to the
// target folder. On success the moved cards leave the grid and the
// selection empties; on failure both stay untouched.
func (c *Controller) ConfirmMove(ctx context.Context, targetFolderID int) error {
	if c.state.InFlight() {
		return shared.ErrOpInFlight
	}
	if !c.HasSelection() {
		return shared.ErrEmptySelection
	}
	if targetFolderID <= 0 {
		return fmt.Errorf("%w: choose a target folder", shared.ErrValidation)
	}
	if targetFolderID == c.folderID {
		return fmt.Errorf("%w: notes are already in folder %d", shared.ErrValidation, targetFolderID)
	}

	ids := c.SelectedIDs()
	c.state = MoveInFlight

	if err := c.svc.MoveNotes(ctx, ids, targetFolderID); err != nil {
		c.state = HasSelection
		return err
	}

	c.removeAll(ids)
	return nil
}

// RequestDelete stages a bulk delete behind an explicit yes/no gate.
func (c *Controller) RequestDelete() error {
	if c.state.InFlight() {
		return shared.ErrOpInFlight
	}
	if !c.HasSelection() {
		return shared.ErrEmptySelection
	}
	c.state = DeleteConfirm
	return nil
}

// CancelDelete abandons a staged delete.
func (c *Controller) CancelDelete() {
	if c.state == DeleteConfirm {
		c.settle()
	}
}

// ConfirmDelete issues one batched request deleting the whole selection.
// Requires a prior RequestDelete: the gate is part of the protocol, not a
// UI nicety.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	if c.state.InFlight() {
		return shared.ErrOpInFlight
	}
	if c.state != DeleteConfirm {
		return shared.ErrNotConfirmed
	}
	if !c.HasSelection() {
		return shared.ErrEmptySelection
	}

	ids := c.SelectedIDs()
	c.state = DeleteInFlight

	if err := c.svc.DeleteNotes(ctx, ids); err != nil {
		c.state = HasSelection
		return err
	}

	c.removeAll(ids)
	return nil
}

// CreateNote posts a new note into the current folder and appends the
// server's card to the grid, unselected. Independent of selection state.
func (c *Controller) CreateNote(ctx context.Context, name, text string, isPublic bool) (*models.Note, error) {
	draft := models.NoteDraft{
		Name:     name,
		Text:     text,
		FolderID: c.folderID,
		IsPublic: isPublic,
	}
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	note, err := c.svc.CreateNote(ctx, draft)
	if err != nil {
		return nil, err
	}

	c.AddNote(*note)
	return note, nil
}

// removeAll reconciles the grid after a server-confirmed bulk operation.
func (c *Controller) removeAll(ids []int) {
	for _, id := range ids {
		for i, note := range c.rendered {
			if note.ID == id {
				c.rendered = append(c.rendered[:i], c.rendered[i+1:]...)
				break
			}
		}
		delete(c.selected, id)
	}
	c.settle()
}

// settle recomputes the resting state from the selection. Grid mutations
// while a dialog is staged collapse the dialog; in-flight transitions are
// resolved by Confirm* themselves.
func (c *Controller) settle() {
	if c.state.InFlight() {
		return
	}
	if c.HasSelection() {
		c.state = HasSelection
	} else {
		c.state = Idle
	}
}
