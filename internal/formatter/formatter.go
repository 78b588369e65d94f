// package formatter renders hymns and search results for the CLI (plain text, Markdown, JSON, CSV)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/hymns/internal/models"
	"github.com/desertthunder/hymns/internal/shared"
)

// Format names an output format accepted by the CLI's --format flag.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
)

// ParseFormat resolves a --format value. "md" and "txt" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	default:
		return "txt"
	}
}

// verseLabels numbers verses and labels choruses the way a printed hymnal does.
func verseLabels(verses []models.Verse) []string {
	labels := make([]string, len(verses))
	n := 0
	for i, v := range verses {
		switch v.Type {
		case models.VerseTypeVerse:
			n++
			labels[i] = fmt.Sprintf("%d", n)
		case models.VerseTypeChorus:
			labels[i] = "Chorus"
		}
	}
	return labels
}

// HymnToText renders a hymn as plain text. Choruses are indented.
func HymnToText(hymn *models.UiHymn) ([]byte, error) {
	if hymn == nil {
		return nil, fmt.Errorf("%w: no hymn to format", shared.ErrMissingArgument)
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("%s (%s %s)\n", hymn.Title, hymn.Identifier.Type, hymn.Identifier.Number))
	if hymn.Category != "" {
		category := hymn.Category
		if hymn.Subcategory != "" {
			category += " / " + hymn.Subcategory
		}
		buf.WriteString(fmt.Sprintf("Category: %s\n", category))
	}
	if hymn.Author != "" {
		buf.WriteString(fmt.Sprintf("Author: %s\n", hymn.Author))
	}

	labels := verseLabels(hymn.Lyrics)
	for i, verse := range hymn.Lyrics {
		buf.WriteString("\n")
		indent := ""
		if verse.Type == models.VerseTypeChorus {
			indent = "  "
		}
		if labels[i] != "" {
			buf.WriteString(fmt.Sprintf("%s%s\n", indent, labels[i]))
		}
		for _, line := range verse.Content {
			buf.WriteString(indent + line + "\n")
		}
	}

	return buf.Bytes(), nil
}

// HymnToMarkdown renders a hymn as Markdown with a metadata list and a link to the lead sheet when known.
func HymnToMarkdown(hymn *models.UiHymn) ([]byte, error) {
	if hymn == nil {
		return nil, fmt.Errorf("%w: no hymn to format", shared.ErrMissingArgument)
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("# %s\n\n", hymn.Title))
	buf.WriteString(fmt.Sprintf("**Hymn**: %s %s\n", hymn.Identifier.Type, hymn.Identifier.Number))
	if hymn.Category != "" {
		buf.WriteString(fmt.Sprintf("**Category**: %s\n", hymn.Category))
	}
	if hymn.Subcategory != "" {
		buf.WriteString(fmt.Sprintf("**Subcategory**: %s\n", hymn.Subcategory))
	}
	if hymn.Author != "" {
		buf.WriteString(fmt.Sprintf("**Author**: %s\n", hymn.Author))
	}
	if hymn.PdfSheet != nil {
		for _, d := range hymn.PdfSheet.Data {
			buf.WriteString(fmt.Sprintf("**%s**: [%s](%s)\n", hymn.PdfSheet.Name, d.Value, d.Path))
		}
	}

	labels := verseLabels(hymn.Lyrics)
	for i, verse := range hymn.Lyrics {
		buf.WriteString("\n")
		switch verse.Type {
		case models.VerseTypeCopyright, models.VerseTypeNote:
			buf.WriteString(fmt.Sprintf("_%s_\n", strings.Join(verse.Content, " ")))
			continue
		}
		if labels[i] != "" {
			buf.WriteString(fmt.Sprintf("## %s\n\n", labels[i]))
		}
		prefix := ""
		if verse.Type == models.VerseTypeChorus {
			prefix = "> "
		}
		for _, line := range verse.Content {
			buf.WriteString(prefix + line + "  \n")
		}
	}

	return buf.Bytes(), nil
}

type hymnJSON struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	Number      string            `json:"number"`
	Title       string            `json:"title"`
	Category    string            `json:"category,omitempty"`
	Subcategory string            `json:"subcategory,omitempty"`
	Author      string            `json:"author,omitempty"`
	Lyrics      []models.Verse    `json:"lyrics"`
	Sheet       *models.MetaDatum `json:"sheet,omitempty"`
}

// HymnToJSON renders a hymn as indented JSON.
func HymnToJSON(hymn *models.UiHymn) ([]byte, error) {
	if hymn == nil {
		return nil, fmt.Errorf("%w: no hymn to format", shared.ErrMissingArgument)
	}
	return json.MarshalIndent(hymnJSON{
		ID:          hymn.Identifier.Key(),
		Type:        string(hymn.Identifier.Type),
		Number:      hymn.Identifier.Number,
		Title:       hymn.Title,
		Category:    hymn.Category,
		Subcategory: hymn.Subcategory,
		Author:      hymn.Author,
		Lyrics:      hymn.Lyrics,
		Sheet:       hymn.PdfSheet,
	}, "", "  ")
}

// FormatHymn dispatches to the renderer for f. CSV is not a hymn format.
func FormatHymn(hymn *models.UiHymn, f Format) ([]byte, error) {
	switch f {
	case FormatText:
		return HymnToText(hymn)
	case FormatMarkdown:
		return HymnToMarkdown(hymn)
	case FormatJSON:
		return HymnToJSON(hymn)
	default:
		return nil, fmt.Errorf("%w: %s is not supported for hymns", shared.ErrInvalidArgument, f)
	}
}

// ResultsToCSV converts search results to CSV with columns: ID, Type, Number, Title
func ResultsToCSV(results []models.UiSongResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Type", "Number", "Title"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range results {
		record := []string{
			r.Identifier.Key(),
			string(r.Identifier.Type),
			r.Identifier.Number,
			r.Name,
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

type resultJSON struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type resultsPageJSON struct {
	Results      []resultJSON `json:"results"`
	HasMorePages bool         `json:"has_more_pages"`
}

// ResultsToJSON renders a page of results as indented JSON, keyed by identifier.
func ResultsToJSON(page models.UiSongResultsPage) ([]byte, error) {
	out := resultsPageJSON{Results: make([]resultJSON, 0, len(page.Results)), HasMorePages: page.HasMorePages}
	for _, r := range page.Results {
		out.Results = append(out.Results, resultJSON{ID: r.Identifier.Key(), Title: r.Name})
	}
	return json.MarshalIndent(out, "", "  ")
}

// ResultsToText renders results as a numbered list.
func ResultsToText(results []models.UiSongResult) []byte {
	var buf bytes.Buffer
	for i, r := range results {
		buf.WriteString(fmt.Sprintf("%d. %s [%s]\n", i+1, r.Name, r.Identifier.Key()))
	}
	return buf.Bytes()
}

// WriteHymnExport writes a hymn to a file in format f.
//
// Defaults to {type}_{number}.{ext} as the filename.
func WriteHymnExport(hymn *models.UiHymn, f Format, filepath string) (string, error) {
	data, err := FormatHymn(hymn, f)
	if err != nil {
		return "", err
	}

	if filepath == "" {
		filepath = fmt.Sprintf("%s_%s.%s", hymn.Identifier.Type, hymn.Identifier.Number, f.Extension())
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", f, err)
	}

	return filepath, nil
}
