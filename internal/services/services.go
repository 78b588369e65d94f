// package services defines interface Service for the hymnal HTTP API
package services

import (
	"context"

	"github.com/desertthunder/hymns/internal/models"
)

// Service defines the operations the app needs from a hymnal provider.
type Service interface {
	// GetHymn retrieves one hymn by identifier.
	GetHymn(ctx context.Context, id models.Identifier) (*models.Hymn, error)

	// Search retrieves one page of search results. Pages start at 1.
	Search(ctx context.Context, query string, page int) (*models.SongResultsPage, error)

	// Name returns the name of the service (e.g., "Hymnal.net")
	Name() string
}

var _ Service = (*HymnalService)(nil)
