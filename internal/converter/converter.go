package converter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hymns/internal/models"
	"github.com/desertthunder/hymns/internal/shared"
)

// Metadata field names as sent by the hymnal API.
const (
	metaCategory    = "Category"
	metaSubcategory = "Subcategory"
	metaAuthor      = "Author"
	metaComposer    = "Composer"
	metaKey         = "Key"
	metaTime        = "Time"
	metaMeter       = "Meter"
	metaScriptures  = "Scriptures"
	metaHymnCode    = "Hymn Code"
	metaMusic       = "Music"
	metaLeadSheet   = "Lead Sheet"
	metaSheetMusic  = "Sheet Music"
)

var (
	errEmptyTitle  = errors.New("title was empty")
	errEmptyLyrics = errors.New("lyrics json was empty")
)

func conversionError(id models.Identifier, err error) error {
	return fmt.Errorf("%w: %s: %w", shared.ErrConversion, id.Key(), err)
}

// ToHymnEntity converts a hymn received from the API to its storage form.
func ToHymnEntity(id models.Identifier, hymn *models.Hymn) (*models.HymnEntity, error) {
	if hymn == nil {
		return nil, conversionError(id, errors.New("hymn was nil"))
	}
	if strings.TrimSpace(hymn.Title) == "" {
		return nil, conversionError(id, errEmptyTitle)
	}
	if len(hymn.Lyrics) == 0 {
		return nil, conversionError(id, errEmptyLyrics)
	}

	lyrics, err := json.Marshal(hymn.Lyrics)
	if err != nil {
		return nil, conversionError(id, err)
	}

	entity := &models.HymnEntity{
		Type:        id.Type,
		Number:      id.Number,
		QueryParams: models.EncodeQueryParams(id.QueryParams),
		Title:       hymn.Title,
		LyricsJSON:  string(lyrics),
		LyricsText:  lyricsText(hymn.Lyrics),
		Category:    metaValues(hymn.MetaData, metaCategory),
		Subcategory: metaValues(hymn.MetaData, metaSubcategory),
		Author:      metaValues(hymn.MetaData, metaAuthor),
		Composer:    metaValues(hymn.MetaData, metaComposer),
		Key:         metaValues(hymn.MetaData, metaKey),
		Time:        metaValues(hymn.MetaData, metaTime),
		Meter:       metaValues(hymn.MetaData, metaMeter),
		Scriptures:  metaValues(hymn.MetaData, metaScriptures),
		HymnCode:    metaValues(hymn.MetaData, metaHymnCode),
	}

	if entity.MusicJSON, err = metaJSON(hymn.MetaData, metaMusic); err != nil {
		return nil, conversionError(id, err)
	}

	sheet := findMeta(hymn.MetaData, metaLeadSheet)
	if sheet == nil {
		sheet = findMeta(hymn.MetaData, metaSheetMusic)
	}
	if sheet != nil {
		b, err := json.Marshal(sheet)
		if err != nil {
			return nil, conversionError(id, err)
		}
		entity.SheetJSON = string(b)
	}

	return entity, nil
}

// ToUiHymn converts a stored hymn to its display form.
//
// A nil entity is absence and yields (nil, nil).
func ToUiHymn(id models.Identifier, entity *models.HymnEntity) (*models.UiHymn, error) {
	if entity == nil {
		return nil, nil
	}
	if strings.TrimSpace(entity.LyricsJSON) == "" {
		return nil, conversionError(id, errEmptyLyrics)
	}
	if strings.TrimSpace(entity.Title) == "" {
		return nil, conversionError(id, errEmptyTitle)
	}

	var lyrics []models.Verse
	if err := json.Unmarshal([]byte(entity.LyricsJSON), &lyrics); err != nil {
		return nil, conversionError(id, err)
	}

	hymn := &models.UiHymn{
		Identifier:  id,
		Title:       entity.Title,
		Lyrics:      lyrics,
		Category:    entity.Category,
		Subcategory: entity.Subcategory,
		Author:      entity.Author,
	}

	if entity.SheetJSON != "" {
		var sheet models.MetaDatum
		if err := json.Unmarshal([]byte(entity.SheetJSON), &sheet); err != nil {
			return nil, conversionError(id, err)
		}
		hymn.PdfSheet = &sheet
	}

	return hymn, nil
}

// HymnToUiHymn converts an API hymn straight to its display form, applying the same validation as [ToUiHymn].
func HymnToUiHymn(id models.Identifier, hymn *models.Hymn) (*models.UiHymn, error) {
	entity, err := ToHymnEntity(id, hymn)
	if err != nil {
		return nil, err
	}
	return ToUiHymn(id, entity)
}

// ToSongResultEntities parses the paths of a remote page, dropping results that do not name a hymn.
func ToSongResultEntities(page *models.SongResultsPage, logger *log.Logger) ([]models.SongResultEntity, bool) {
	if page == nil {
		return nil, false
	}

	entities := make([]models.SongResultEntity, 0, len(page.Results))
	for _, result := range page.Results {
		id, err := ParsePath(result.Path)
		if err != nil {
			if logger != nil {
				logger.Debug("dropping search result", "name", result.Name, "error", err)
			}
			continue
		}
		entities = append(entities, models.SongResultEntity{
			Type:        id.Type,
			Number:      id.Number,
			QueryParams: id.QueryParams,
			Title:       result.Name,
		})
	}
	return entities, page.HasMorePages
}

// ToUiSongResultsPage converts ranked or parsed results to a displayable page, preserving order.
func ToUiSongResultsPage(entities []models.SongResultEntity, hasMorePages bool) models.UiSongResultsPage {
	results := make([]models.UiSongResult, len(entities))
	for i, e := range entities {
		results[i] = models.UiSongResult{
			Name:       e.Title,
			Identifier: models.NewIdentifier(e.Type, e.Number, e.QueryParams),
		}
	}
	return models.UiSongResultsPage{Results: results, HasMorePages: hasMorePages}
}

func findMeta(data []models.MetaDatum, name string) *models.MetaDatum {
	for i := range data {
		if strings.EqualFold(data[i].Name, name) {
			return &data[i]
		}
	}
	return nil
}

// metaValues joins the values of the named field with ";", the separator used by the hymnal site.
func metaValues(data []models.MetaDatum, name string) string {
	meta := findMeta(data, name)
	if meta == nil {
		return ""
	}
	values := make([]string, 0, len(meta.Data))
	for _, d := range meta.Data {
		if d.Value != "" {
			values = append(values, d.Value)
		}
	}
	return strings.Join(values, ";")
}

func metaJSON(data []models.MetaDatum, name string) (string, error) {
	meta := findMeta(data, name)
	if meta == nil {
		return "", nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// lyricsText joins every line of every verse with newlines.
func lyricsText(verses []models.Verse) string {
	var lines []string
	for _, v := range verses {
		lines = append(lines, v.Content...)
	}
	return strings.Join(lines, "\n")
}
