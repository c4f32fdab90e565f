package ui

import (
	"fmt"

	"github.com/avdeyev/zmx/internal/models"
	"github.com/avdeyev/zmx/internal/shared"
	"github.com/charmbracelet/bubbles/list"
)

var (
	_ list.Item = folderItem{}
	_ list.Item = noteItem{}
	_ list.Item = targetItem{}
)

// folderItem wraps [models.Folder] to implement [list.Item].
type folderItem struct {
	folder models.Folder
}

func (i folderItem) FilterValue() string { return i.folder.Name }
func (i folderItem) Title() string       { return i.folder.Name }
func (i folderItem) Description() string {
	desc := shared.VisibilityString(i.folder.IsPublic)
	if i.folder.Color != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.folder.Color)
	}
	return desc
}

// noteItem wraps [models.Note] with its checkbox state to implement [list.Item].
type noteItem struct {
	note    models.Note
	checked bool
}

func (i noteItem) FilterValue() string { return i.note.Name }
func (i noteItem) Title() string {
	glyph := "[ ]"
	if i.checked {
		glyph = "[x]"
	}
	return fmt.Sprintf("%s %s", glyph, i.note.Name)
}
func (i noteItem) Description() string {
	text := i.note.Text
	if len(text) > 60 {
		text = text[:57] + "..."
	}
	return text
}

// targetItem wraps [models.FolderCandidate] to implement [list.Item].
type targetItem struct {
	candidate models.FolderCandidate
}

func (i targetItem) FilterValue() string { return i.candidate.Name }
func (i targetItem) Title() string       { return i.candidate.Name }
func (i targetItem) Description() string {
	return fmt.Sprintf("folder #%d", i.candidate.ID)
}
