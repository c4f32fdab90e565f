package formatter

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avdeyev/zmx/internal/models"
	th "github.com/avdeyev/zmx/internal/testing"
)

func sampleExport() *FolderExport {
	return &FolderExport{
		Folder: models.Folder{
			ID:       3,
			Name:     "groceries",
			Color:    "#FFAA00",
			IsPublic: true,
		},
		Notes: []models.Note{
			{ID: 10, Name: "weekly run", Text: "milk, eggs", FolderID: 3, IsPublic: false},
			{ID: 11, Name: "market", Text: "apples", FolderID: 3, IsPublic: true},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleExport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ID,Name,Text,FolderID,Public") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "weekly run") {
			t.Error("CSV missing note name")
		}
		if !strings.Contains(output, "milk, eggs") && !strings.Contains(output, `"milk, eggs"`) {
			t.Error("CSV missing note text")
		}

		lines := strings.Split(strings.TrimSpace(output), "\n")
		if len(lines) != 3 {
			t.Errorf("expected header plus 2 records, got %d lines", len(lines))
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(sampleExport())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "# groceries") {
			t.Error("Markdown missing folder heading")
		}
		if !strings.Contains(output, "**Notes**: 2") {
			t.Error("Markdown missing note count")
		}
		if !strings.Contains(output, "**Visibility**: Public") {
			t.Error("Markdown missing visibility")
		}
		if !strings.Contains(output, "## weekly run") {
			t.Error("Markdown missing note section")
		}
		if !strings.Contains(output, "milk, eggs") {
			t.Error("Markdown missing note body")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleExport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Folder: groceries") {
			t.Error("text missing folder name")
		}
		if !strings.Contains(output, "1. weekly run") {
			t.Error("text missing numbered note")
		}
		if !strings.Contains(output, "2. market") {
			t.Error("text missing second note")
		}
	})

	t.Run("ToMetadataJSON", func(t *testing.T) {
		data, err := ToMetadataJSON(sampleExport().Folder)
		if err != nil {
			t.Fatalf("ToMetadataJSON failed: %v", err)
		}

		var folder models.Folder
		if err := json.Unmarshal(data, &folder); err != nil {
			t.Fatalf("metadata is not valid JSON: %v", err)
		}
		if folder.Name != "groceries" {
			t.Errorf("expected folder name 'groceries', got %q", folder.Name)
		}
	})
}

func TestFileWriters(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "3")

		result, err := WriteCSVExport(sampleExport(), base)
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}

		th.AssertFileExists(t, result.NotesFile)
		th.AssertFileExists(t, result.MetadataFile)

		if !strings.HasSuffix(result.NotesFile, "_notes.csv") {
			t.Errorf("unexpected notes file name %s", result.NotesFile)
		}
		if !strings.HasSuffix(result.MetadataFile, "_metadata.json") {
			t.Errorf("unexpected metadata file name %s", result.MetadataFile)
		}
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "groceries.md")

		written, err := WriteMarkdownExport(sampleExport(), path)
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}

		th.AssertFileExists(t, written)
		if !strings.Contains(th.MustReadFile(t, written), "# groceries") {
			t.Error("written Markdown missing folder heading")
		}
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")

		written, err := WriteTextExport(sampleExport(), path)
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}

		th.AssertFileExists(t, written)
	})

	t.Run("WriteJSONExport", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "3.json")

		written, err := WriteJSONExport(sampleExport(), path)
		if err != nil {
			t.Fatalf("WriteJSONExport failed: %v", err)
		}

		var export FolderExport
		if err := json.Unmarshal([]byte(th.MustReadFile(t, written)), &export); err != nil {
			t.Fatalf("export is not valid JSON: %v", err)
		}
		if len(export.Notes) != 2 {
			t.Errorf("expected 2 notes in export, got %d", len(export.Notes))
		}
	})

	t.Run("WriteManifest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "manifest.json")
		summary := map[string]any{"total_folders": 2}

		if err := WriteManifest(summary, path); err != nil {
			t.Fatalf("WriteManifest failed: %v", err)
		}

		th.AssertFileExists(t, path)
	})
}
