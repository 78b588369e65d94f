package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/hymns/internal/models"
	"github.com/desertthunder/hymns/internal/shared"
	th "github.com/desertthunder/hymns/internal/testing"
)

func sampleHymn() *models.UiHymn {
	return &models.UiHymn{
		Identifier:  models.NewIdentifier(models.Classic, "1151", nil),
		Title:       "Drink! A river pure and clear",
		Category:    "Experience of Christ",
		Subcategory: "As Life",
		Author:      "Witness Lee",
		Lyrics: []models.Verse{
			{Type: models.VerseTypeVerse, Content: []string{"Drink! A river pure and clear", "That's flowing from the throne;"}},
			{Type: models.VerseTypeChorus, Content: []string{"Flowing in the spirit here,"}},
			{Type: models.VerseTypeVerse, Content: []string{"Eat! The tree of life with fruits,"}},
			{Type: models.VerseTypeCopyright, Content: []string{"Used by permission."}},
		},
		PdfSheet: &models.MetaDatum{
			Name: "Lead Sheet",
			Data: []models.Datum{{Value: "Piano", Path: "/en/hymn/h/1151/f=ppdf"}},
		},
	}
}

func sampleResults() []models.UiSongResult {
	return []models.UiSongResult{
		{Name: "Hymn: O Lord, breathe Thy Spirit", Identifier: models.NewIdentifier(models.Classic, "257", nil)},
		{Name: "New Tune: Lord, \"revive\" us", Identifier: models.NewIdentifier(models.NewTune, "257", map[string]string{"gb": "1"})},
	}
}

func TestParseFormat(t *testing.T) {
	tt := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "", want: FormatText},
		{input: "txt", want: FormatText},
		{input: "Markdown", want: FormatMarkdown},
		{input: "md", want: FormatMarkdown},
		{input: "json", want: FormatJSON},
		{input: "csv", want: FormatCSV},
		{input: "pdf", wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseFormat(tc.input)
			if tc.wantErr {
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Fatalf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("ParseFormat(%q) = %s, want %s", tc.input, got, tc.want)
			}
		})
	}
}

func TestHymnFormatters(t *testing.T) {
	t.Run("HymnToText", func(t *testing.T) {
		data, err := HymnToText(sampleHymn())
		if err != nil {
			t.Fatalf("HymnToText failed: %v", err)
		}
		output := string(data)

		for _, want := range []string{
			"Drink! A river pure and clear (classic 1151)",
			"Category: Experience of Christ / As Life",
			"Author: Witness Lee",
			"1\nDrink! A river pure and clear\n",
			"  Chorus\n  Flowing in the spirit here,\n",
			"2\nEat! The tree of life with fruits,\n",
			"Used by permission.",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("text missing %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("HymnToMarkdown", func(t *testing.T) {
		data, err := HymnToMarkdown(sampleHymn())
		if err != nil {
			t.Fatalf("HymnToMarkdown failed: %v", err)
		}
		output := string(data)

		for _, want := range []string{
			"# Drink! A river pure and clear",
			"**Hymn**: classic 1151",
			"**Subcategory**: As Life",
			"**Lead Sheet**: [Piano](/en/hymn/h/1151/f=ppdf)",
			"## 1",
			"## Chorus",
			"> Flowing in the spirit here,",
			"_Used by permission._",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("markdown missing %q, got:\n%s", want, output)
			}
		}
		if strings.Contains(output, "## 3") {
			t.Error("copyright block should not be numbered")
		}
	})

	t.Run("HymnToJSON", func(t *testing.T) {
		data, err := HymnToJSON(sampleHymn())
		if err != nil {
			t.Fatalf("HymnToJSON failed: %v", err)
		}

		var got map[string]any
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got["id"] != "h/1151" {
			t.Errorf("expected id h/1151, got %v", got["id"])
		}
		if lyrics, ok := got["lyrics"].([]any); !ok || len(lyrics) != 4 {
			t.Errorf("expected 4 verses, got %v", got["lyrics"])
		}
	})

	t.Run("nil hymn", func(t *testing.T) {
		for _, f := range []Format{FormatText, FormatMarkdown, FormatJSON} {
			if _, err := FormatHymn(nil, f); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("%s: expected ErrMissingArgument, got %v", f, err)
			}
		}
	})

	t.Run("csv is not a hymn format", func(t *testing.T) {
		if _, err := FormatHymn(sampleHymn(), FormatCSV); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestResultFormatters(t *testing.T) {
	t.Run("ResultsToCSV", func(t *testing.T) {
		data, err := ResultsToCSV(sampleResults())
		if err != nil {
			t.Fatalf("ResultsToCSV failed: %v", err)
		}

		records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("invalid CSV: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected header and 2 rows, got %d", len(records))
		}
		if strings.Join(records[0], ",") != "ID,Type,Number,Title" {
			t.Errorf("unexpected headers %v", records[0])
		}
		if records[2][0] != "nt/257?gb=1" || records[2][3] != `New Tune: Lord, "revive" us` {
			t.Errorf("unexpected row %v", records[2])
		}
	})

	t.Run("ResultsToJSON", func(t *testing.T) {
		data, err := ResultsToJSON(models.UiSongResultsPage{Results: sampleResults(), HasMorePages: true})
		if err != nil {
			t.Fatalf("ResultsToJSON failed: %v", err)
		}

		var got resultsPageJSON
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if !got.HasMorePages || len(got.Results) != 2 || got.Results[0].ID != "h/257" {
			t.Errorf("unexpected page %+v", got)
		}
	})

	t.Run("ResultsToJSON empty", func(t *testing.T) {
		data, err := ResultsToJSON(models.UiSongResultsPage{})
		if err != nil {
			t.Fatalf("ResultsToJSON failed: %v", err)
		}
		if !strings.Contains(string(data), `"results": []`) {
			t.Errorf("expected empty results array, got %s", data)
		}
	})

	t.Run("ResultsToText", func(t *testing.T) {
		output := string(ResultsToText(sampleResults()))
		if !strings.Contains(output, "1. Hymn: O Lord, breathe Thy Spirit [h/257]") {
			t.Errorf("text missing first result, got:\n%s", output)
		}
		if !strings.Contains(output, "2. New Tune") {
			t.Errorf("text missing second result, got:\n%s", output)
		}
	})
}

func TestWriteHymnExport(t *testing.T) {
	t.Run("default filename", func(t *testing.T) {
		wd := th.MustGetwd(t)
		th.MustChdir(t, t.TempDir())
		t.Cleanup(func() { th.MustChdir(t, wd) })

		path, err := WriteHymnExport(sampleHymn(), FormatMarkdown, "")
		if err != nil {
			t.Fatalf("WriteHymnExport failed: %v", err)
		}
		if path != "h_1151.md" {
			t.Errorf("expected h_1151.md, got %s", path)
		}
		th.AssertFileExists(t, path)
		if content := th.MustReadFile(t, path); !strings.Contains(content, "# Drink!") {
			t.Errorf("unexpected content %s", content)
		}
	})

	t.Run("explicit filename", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "hymn.txt")
		got, err := WriteHymnExport(sampleHymn(), FormatText, path)
		if err != nil {
			t.Fatalf("WriteHymnExport failed: %v", err)
		}
		if got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
		th.AssertFileExists(t, path)
	})

	t.Run("unwritable path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "hymn.txt")
		if _, err := WriteHymnExport(sampleHymn(), FormatText, path); err == nil {
			t.Error("expected error writing into a missing directory")
		}
	})
}
