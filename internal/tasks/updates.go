package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchFolders Phase = iota
	FetchNotes
	MoveBatch
	DeleteBatch
	CacheFolders
	ExportFolders
)

func (p Phase) String() string {
	switch p {
	case FetchFolders:
		return "fetch_folders"
	case FetchNotes:
		return "fetch_notes"
	case MoveBatch:
		return "move_batch"
	case DeleteBatch:
		return "delete_batch"
	case CacheFolders:
		return "cache_folders"
	case ExportFolders:
		return "export_folders"
	default:
		return ""
	}
}

func fetchFoldersUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchFolders,
		Step:    step,
		Total:   total,
		Message: "Fetching folder list...",
	}
}

func movingNotesUpdate(count, folderID int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MoveBatch,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Moving %d notes to folder %d...", count, folderID),
	}
}

func movedNotesUpdate(count, folderID int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MoveBatch,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Moved %d notes to folder %d", count, folderID),
	}
}

func deletingNotesUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DeleteBatch,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Deleting %d notes...", count),
	}
}

func deletedNotesUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DeleteBatch,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Deleted %d notes", count),
	}
}

func cachingFolderUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CacheFolders,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Caching folder: %s", step, total, name),
	}
}

func exportingFolderUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFolders,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFolders,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, reason string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportFolders,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %s", step, total, name, reason),
	}
}
