// package formatter provides functions to export folder data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/avdeyev/zmx/internal/models"
	"github.com/avdeyev/zmx/internal/shared"
)

// FolderExport bundles a folder with its notes for export.
type FolderExport struct {
	Folder models.Folder `json:"folder"`
	Notes  []models.Note `json:"notes"`
}

// ExportToCSV converts a FolderExport to CSV format with columns: ID, Name, Text, FolderID, Public
func ExportToCSV(export *FolderExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Text", "FolderID", "Public"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, note := range export.Notes {
		record := []string{
			strconv.Itoa(note.ID),
			note.Name,
			note.Text,
			strconv.Itoa(note.FolderID),
			strconv.FormatBool(note.IsPublic),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a FolderExport to Markdown format, one section per note
func ExportToMarkdown(export *FolderExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Folder.Name))
	buf.WriteString(fmt.Sprintf("**Notes**: %d\n", len(export.Notes)))
	buf.WriteString(fmt.Sprintf("**Visibility**: %s\n\n", shared.VisibilityString(export.Folder.IsPublic)))

	for _, note := range export.Notes {
		buf.WriteString(fmt.Sprintf("## %s\n\n", note.Name))
		buf.WriteString(note.Text)
		buf.WriteString("\n\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts a FolderExport to plain text format
func ExportToText(export *FolderExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Folder: %s\n", export.Folder.Name))
	buf.WriteString(fmt.Sprintf("Notes: %d\n\n", len(export.Notes)))

	for i, note := range export.Notes {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, note.Name))
		buf.WriteString(note.Text)
		buf.WriteString("\n\n")
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of folder metadata (without notes)
func ToMetadataJSON(folder models.Folder) ([]byte, error) {
	return shared.MarshalJSON(folder, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	NotesFile    string
	MetadataFile string
}

// WriteCSVExport exports a folder to CSV format with accompanying metadata JSON file.
//
// Creates {base}_notes.csv and {base}_metadata.json
func WriteCSVExport(export *FolderExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = strconv.Itoa(export.Folder.ID)
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	notesFile := baseFilepath + "_notes.csv"
	if err := os.WriteFile(notesFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export.Folder)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		NotesFile:    notesFile,
		MetadataFile: metadataFile,
	}, nil
}

// WriteMarkdownExport exports a folder to Markdown format.
//
// Filename defaults to {folder.ID}.md.
func WriteMarkdownExport(export *FolderExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%d.md", export.Folder.ID)
	}

	mdData, err := ExportToMarkdown(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	if err := os.WriteFile(filepath, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return filepath, nil
}

// WriteTextExport exports a folder to plain text format.
//
// Filename defaults to {folder.ID}_notes.txt.
func WriteTextExport(export *FolderExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%d_notes.txt", export.Folder.ID)
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// WriteJSONExport exports a folder with its notes as pretty-printed JSON.
//
// Filename defaults to {folder.ID}.json.
func WriteJSONExport(export *FolderExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%d.json", export.Folder.ID)
	}

	data, err := shared.MarshalJSON(export, true)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}

	return filepath, nil
}

// WriteManifest writes an export summary as pretty-printed JSON.
func WriteManifest(v any, filepath string) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to generate manifest: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}
