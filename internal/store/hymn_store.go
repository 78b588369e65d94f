package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"strings"
	"unicode"

	"github.com/desertthunder/hymns/internal/models"
	"github.com/desertthunder/hymns/internal/shared"
)

const hymnColumns = `id, hymn_type, hymn_number, query_params, title, lyrics, lyrics_text, category, subcategory,
	author, composer, hymn_key, hymn_time, meter, scriptures, hymn_code, music, sheet_music`

// HymnStore persists hymns and serves full-text search over them.
type HymnStore struct {
	db *sql.DB
}

// NewHymnStore creates a new HymnStore with the given database connection. Migrations must already be applied.
func NewHymnStore(db *sql.DB) *HymnStore {
	return &HymnStore{db: db}
}

// Ready reports whether the underlying database can serve queries.
func (s *HymnStore) Ready() bool {
	return s.db != nil && s.db.Ping() == nil
}

// GetHymn retrieves the hymn stored under id. Returns (nil, nil) when there is none.
func (s *HymnStore) GetHymn(ctx context.Context, id models.Identifier) (*models.HymnEntity, error) {
	if s.db == nil {
		return nil, shared.ErrStorageUnavailable
	}

	query := `SELECT ` + hymnColumns + `
		FROM hymns
		WHERE hymn_type = ? AND hymn_number = ? AND query_params = ?`

	row := s.db.QueryRowContext(ctx, query, string(id.Type), id.Number, models.EncodeQueryParams(id.QueryParams))
	entity, err := scanHymn(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// SaveHymn inserts the hymn or replaces the stored fields of the hymn with the same identifier.
//
// Uses an upsert rather than INSERT OR REPLACE so the search index triggers see an update instead of a silent delete.
func (s *HymnStore) SaveHymn(ctx context.Context, entity *models.HymnEntity) error {
	if s.db == nil {
		return shared.ErrStorageUnavailable
	}

	query := `
		INSERT INTO hymns (hymn_type, hymn_number, query_params, title, lyrics, lyrics_text, category, subcategory,
			author, composer, hymn_key, hymn_time, meter, scriptures, hymn_code, music, sheet_music)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (hymn_type, hymn_number, query_params) DO UPDATE SET
			title = excluded.title,
			lyrics = excluded.lyrics,
			lyrics_text = excluded.lyrics_text,
			category = excluded.category,
			subcategory = excluded.subcategory,
			author = excluded.author,
			composer = excluded.composer,
			hymn_key = excluded.hymn_key,
			hymn_time = excluded.hymn_time,
			meter = excluded.meter,
			scriptures = excluded.scriptures,
			hymn_code = excluded.hymn_code,
			music = excluded.music,
			sheet_music = excluded.sheet_music,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := s.db.ExecContext(ctx, query,
		string(entity.Type),
		entity.Number,
		entity.QueryParams,
		entity.Title,
		entity.LyricsJSON,
		entity.LyricsText,
		entity.Category,
		entity.Subcategory,
		entity.Author,
		entity.Composer,
		entity.Key,
		entity.Time,
		entity.Meter,
		entity.Scriptures,
		entity.HymnCode,
		entity.MusicJSON,
		entity.SheetJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save hymn %s/%s: %w", entity.Type, entity.Number, err)
	}
	return nil
}

// SearchHymns matches query against hymn titles and lyrics text.
//
// Every word of the query must match as a prefix. A query without any word yields nothing.
// The sequence runs the query afresh each time it is ranged over. A failure is yielded once as the final element.
func (s *HymnStore) SearchHymns(ctx context.Context, query string) iter.Seq2[models.SearchResultEntity, error] {
	return func(yield func(models.SearchResultEntity, error) bool) {
		match := MatchExpression(query)
		if match == "" {
			return
		}
		if s.db == nil {
			yield(models.SearchResultEntity{}, shared.ErrStorageUnavailable)
			return
		}

		q := `
			SELECT h.hymn_type, h.hymn_number, h.query_params, h.title, matchinfo(hymns_search, 's')
			FROM hymns_search
			JOIN hymns h ON h.id = hymns_search.docid
			WHERE hymns_search MATCH ?
		`

		rows, err := s.db.QueryContext(ctx, q, match)
		if err != nil {
			yield(models.SearchResultEntity{}, fmt.Errorf("failed to search hymns: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var (
				hymnType    string
				number      string
				queryParams string
				title       sql.NullString
				matchInfo   []byte
			)
			if err := rows.Scan(&hymnType, &number, &queryParams, &title, &matchInfo); err != nil {
				yield(models.SearchResultEntity{}, fmt.Errorf("failed to scan search result: %w", err))
				return
			}

			params, err := models.DecodeQueryParams(queryParams)
			if err != nil {
				yield(models.SearchResultEntity{}, fmt.Errorf("stored query params for %s/%s: %w", hymnType, number, err))
				return
			}

			result := models.SearchResultEntity{
				Type:        models.HymnType(hymnType),
				Number:      number,
				QueryParams: params,
				Title:       title.String,
				MatchInfo:   matchInfo,
			}
			if !yield(result, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(models.SearchResultEntity{}, fmt.Errorf("row iteration error: %w", err))
		}
	}
}

// MatchExpression turns free text into an FTS MATCH expression of prefix terms, e.g. "Glory be!" becomes "glory* be*".
func MatchExpression(query string) string {
	words := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, w := range words {
		words[i] = w + "*"
	}
	return strings.Join(words, " ")
}

// scanHymn scans a single [sql.Row] into a [models.HymnEntity]
func scanHymn(row *sql.Row) (*models.HymnEntity, error) {
	var (
		entity   models.HymnEntity
		hymnType string
		nullable [14]sql.NullString
	)

	err := row.Scan(&entity.ID, &hymnType, &entity.Number, &entity.QueryParams,
		&nullable[0], &nullable[1], &nullable[2], &nullable[3], &nullable[4], &nullable[5], &nullable[6],
		&nullable[7], &nullable[8], &nullable[9], &nullable[10], &nullable[11], &nullable[12], &nullable[13])
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan hymn: %w", err)
	}

	entity.Type = models.HymnType(hymnType)
	entity.Title = nullable[0].String
	entity.LyricsJSON = nullable[1].String
	entity.LyricsText = nullable[2].String
	entity.Category = nullable[3].String
	entity.Subcategory = nullable[4].String
	entity.Author = nullable[5].String
	entity.Composer = nullable[6].String
	entity.Key = nullable[7].String
	entity.Time = nullable[8].String
	entity.Meter = nullable[9].String
	entity.Scriptures = nullable[10].String
	entity.HymnCode = nullable[11].String
	entity.MusicJSON = nullable[12].String
	entity.SheetJSON = nullable[13].String

	return &entity, nil
}
