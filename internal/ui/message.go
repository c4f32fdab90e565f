package ui

import (
	"github.com/avdeyev/zmx/internal/models"
)

// foldersFetchedMsg carries the user's folder list into the model.
type foldersFetchedMsg struct {
	folders []models.Folder
	err     error
}

// notesFetchedMsg carries one folder's notes into the model.
type notesFetchedMsg struct {
	folder models.Folder
	notes  []models.Note
	err    error
}

// moveDialogOpenedMsg carries the candidate folders for a staged move.
type moveDialogOpenedMsg struct {
	candidates []models.FolderCandidate
}

// opCompleteMsg signals that a bulk move or delete has finished.
type opCompleteMsg struct {
	verb  string // "moved" or "deleted"
	count int
	err   error
}

// statusExpiredMsg dismisses a transient status line after its timer fires.
type statusExpiredMsg struct {
	id int
}
