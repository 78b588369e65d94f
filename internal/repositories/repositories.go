package repositories

import (
	"context"
	"iter"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hymns/internal/models"
	"github.com/desertthunder/hymns/internal/shared"
)

// DataStore is the local store consumed by the repositories. Implemented by [store.HymnStore].
type DataStore interface {
	// Ready reports whether the store can serve reads.
	Ready() bool

	// GetHymn returns the stored hymn for id, or (nil, nil) when absent.
	GetHymn(ctx context.Context, id models.Identifier) (*models.HymnEntity, error)

	// SaveHymn inserts or replaces a hymn.
	SaveHymn(ctx context.Context, entity *models.HymnEntity) error

	// SearchHymns lazily yields full-text matches for query.
	SearchHymns(ctx context.Context, query string) iter.Seq2[models.SearchResultEntity, error]
}

// HymnalService is the remote service consumed by the repositories. Implemented by [services.HymnalService].
type HymnalService interface {
	GetHymn(ctx context.Context, id models.Identifier) (*models.Hymn, error)
	Search(ctx context.Context, query string, page int) (*models.SongResultsPage, error)
}

// NetworkProbe reports connectivity. Implemented by [services.NetworkProbe].
type NetworkProbe interface {
	IsNetworkAvailable() bool
}

// Dependencies bundles the collaborators shared by the repositories.
type Dependencies struct {
	Store   DataStore
	Service HymnalService
	Probe   NetworkProbe
	Logger  *log.Logger
}

func (d Dependencies) logger(component string) *log.Logger {
	l := d.Logger
	if l == nil {
		l = shared.NewLogger(nil)
	}
	return shared.WithLogger(l, "component", component)
}
