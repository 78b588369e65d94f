package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/hymns/internal/models"
	"github.com/desertthunder/hymns/internal/shared"
)

// HistoryStore records the hymns a user viewed, newest first.
type HistoryStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewHistoryStore creates a new HistoryStore with the given database connection.
func NewHistoryStore(db *sql.DB) *HistoryStore {
	return &HistoryStore{db: db, now: time.Now}
}

// StoreRecentSong records a view of id, moving it to the front of the history.
func (s *HistoryStore) StoreRecentSong(ctx context.Context, id models.Identifier, title string) error {
	if s.db == nil {
		return shared.ErrStorageUnavailable
	}

	query := `
		INSERT INTO recent_songs (id, hymn_type, hymn_number, query_params, title, viewed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (hymn_type, hymn_number, query_params) DO UPDATE SET
			title = excluded.title,
			viewed_at = excluded.viewed_at
	`

	_, err := s.db.ExecContext(ctx, query,
		shared.GenerateID(),
		string(id.Type),
		id.Number,
		models.EncodeQueryParams(id.QueryParams),
		title,
		s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to store recent song %s: %w", id.Key(), err)
	}
	return nil
}

// RecentSongs returns up to limit recently viewed hymns, most recent first. A non-positive limit returns all of them.
func (s *HistoryStore) RecentSongs(ctx context.Context, limit int) ([]models.RecentSong, error) {
	if s.db == nil {
		return nil, shared.ErrStorageUnavailable
	}
	if limit <= 0 {
		limit = -1
	}

	query := `
		SELECT hymn_type, hymn_number, query_params, title
		FROM recent_songs
		ORDER BY viewed_at DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent songs: %w", err)
	}
	defer rows.Close()

	var songs []models.RecentSong
	for rows.Next() {
		var hymnType, number, queryParams, title string
		if err := rows.Scan(&hymnType, &number, &queryParams, &title); err != nil {
			return nil, fmt.Errorf("failed to scan recent song: %w", err)
		}

		params, err := models.DecodeQueryParams(queryParams)
		if err != nil {
			return nil, fmt.Errorf("stored query params for %s/%s: %w", hymnType, number, err)
		}

		songs = append(songs, models.RecentSong{
			Identifier: models.NewIdentifier(models.HymnType(hymnType), number, params),
			Title:      title,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}
