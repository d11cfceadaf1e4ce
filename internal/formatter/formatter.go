// package formatter exports passport history to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/desertthunder/passport/internal/models"
	"github.com/desertthunder/passport/internal/shared"
)

// Supported export formats
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
)

// Formats lists every supported export format.
var Formats = []string{FormatJSON, FormatCSV, FormatMarkdown, FormatText}

// ParseFormat validates a user-supplied format name. "md" and "text" are accepted as aliases.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatText, "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: format must be one of %s", shared.ErrInvalidFlag, strings.Join(Formats, ", "))
}

// PassportExport is one country's exploration history for a user.
type PassportExport struct {
	Username   string                `json:"username"`
	Country    string                `json:"country"`
	Entries    []models.HistoryEntry `json:"entries"`
	ExportedAt time.Time             `json:"exported_at"`
}

// Slug turns a country name into a file-safe name.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "unknown"
	}
	return out
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}

// ExportToCSV converts a PassportExport to CSV format with columns: Song ID, Title, Artist, Country, Date
func ExportToCSV(export *PassportExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Song ID", "Title", "Artist", "Country", "Date"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, e := range export.Entries {
		country := e.Country
		if country == "" {
			country = export.Country
		}
		record := []string{e.SongID, e.SongTitle, e.Artist, country, formatDate(e.Date)}
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

// ExportToMarkdown converts a PassportExport to a Markdown page
func ExportToMarkdown(export *PassportExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Passport: %s\n\n", export.Country)
	if export.Username != "" {
		fmt.Fprintf(&buf, "**Explorer**: %s\n", export.Username)
	}
	fmt.Fprintf(&buf, "**Songs**: %d\n\n", len(export.Entries))

	buf.WriteString("## Songs\n\n")
	for i, e := range export.Entries {
		datePart := ""
		if d := formatDate(e.Date); d != "" {
			datePart = fmt.Sprintf(" [%s]", d)
		}
		fmt.Fprintf(&buf, "%d. %s - %s%s\n", i+1, e.Artist, e.SongTitle, datePart)
	}

	return buf.Bytes(), nil
}

// ExportToText converts a PassportExport to plain text format
func ExportToText(export *PassportExport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Country: %s\n", export.Country)
	if export.Username != "" {
		fmt.Fprintf(&buf, "Explorer: %s\n", export.Username)
	}
	fmt.Fprintf(&buf, "Songs: %d\n\n", len(export.Entries))

	for i, e := range export.Entries {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, e.Artist, e.SongTitle)
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a PassportExport to indented JSON
func ExportToJSON(export *PassportExport) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// ToMetadataJSON generates a JSON representation of the export metadata (without entries)
func ToMetadataJSON(export *PassportExport) ([]byte, error) {
	return shared.MarshalJSON(map[string]any{
		"username":    export.Username,
		"country":     export.Country,
		"songs":       len(export.Entries),
		"exported_at": export.ExportedAt,
	}, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	SongsFile    string
	MetadataFile string
}

// WriteCSVExport writes {base}_songs.csv and {base}_metadata.json.
//
// Defaults to the country slug as the base filename.
func WriteCSVExport(export *PassportExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = Slug(export.Country)
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	songsFile := baseFilepath + "_songs.csv"
	if err := os.WriteFile(songsFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{SongsFile: songsFile, MetadataFile: metadataFile}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
}

// WriteMarkdownExport writes {dir}/README.md. Directory name defaults to the country slug.
func WriteMarkdownExport(export *PassportExport, outputDir string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = Slug(export.Country)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportToMarkdown(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return &MarkdownExportResult{Directory: outputDir, Files: []string{mdFile}}, nil
}

// WriteTextExport writes the plain text export. Defaults to {slug}_songs.txt.
func WriteTextExport(export *PassportExport, path string) (string, error) {
	if path == "" {
		path = Slug(export.Country) + "_songs.txt"
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}

// WriteJSONExport writes the JSON export. Defaults to {slug}.json.
func WriteJSONExport(export *PassportExport, path string) (string, error) {
	if path == "" {
		path = Slug(export.Country) + ".json"
	}

	data, err := ExportToJSON(export)
	if err != nil {
		return "", fmt.Errorf("JSON marshal failed: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("JSON write failed: %w", err)
	}

	return path, nil
}

// WriteExport writes export into dir in the given format and returns the files created.
func WriteExport(export *PassportExport, format, dir string) ([]string, error) {
	slug := Slug(export.Country)

	switch format {
	case FormatCSV:
		res, err := WriteCSVExport(export, filepath.Join(dir, slug))
		if err != nil {
			return nil, fmt.Errorf("CSV export failed: %w", err)
		}
		return []string{res.SongsFile, res.MetadataFile}, nil
	case FormatMarkdown:
		res, err := WriteMarkdownExport(export, filepath.Join(dir, slug))
		if err != nil {
			return nil, fmt.Errorf("markdown export failed: %w", err)
		}
		return res.Files, nil
	case FormatText:
		path, err := WriteTextExport(export, filepath.Join(dir, slug+"_songs.txt"))
		if err != nil {
			return nil, fmt.Errorf("text export failed: %w", err)
		}
		return []string{path}, nil
	default:
		path, err := WriteJSONExport(export, filepath.Join(dir, slug+".json"))
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	}
}
