package repositories

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hymns/internal/converter"
	"github.com/desertthunder/hymns/internal/models"
	"github.com/desertthunder/hymns/internal/resource"
)

// SearchKey scopes one search resolution.
type SearchKey struct {
	Query string
	Page  int
}

// SongResultsRepository runs paginated searches. Every call re-resolves.
type SongResultsRepository struct {
	coordinator *resource.Coordinator[SearchKey, []models.SearchResultEntity, *models.SongResultsPage, models.UiSongResultsPage]
}

// NewSongResultsRepository creates a new SongResultsRepository.
func NewSongResultsRepository(deps Dependencies) *SongResultsRepository {
	logger := deps.logger("song_results")
	var source resource.Source[SearchKey, []models.SearchResultEntity, *models.SongResultsPage, models.UiSongResultsPage] = &songResultsSource{
		store:   deps.Store,
		service: deps.Service,
		probe:   deps.Probe,
		logger:  logger,
	}

	return &SongResultsRepository{
		coordinator: resource.NewCoordinator(source, resource.WithLogger(logger)),
	}
}

// Search resolves one page of results for query.
//
// Local matches are ranked and never report more pages. When the network is available the remote page replaces them.
func (r *SongResultsRepository) Search(ctx context.Context, query string, page int) <-chan resource.Resource[models.UiSongResultsPage] {
	return r.coordinator.Resolve(ctx, SearchKey{Query: query, Page: page})
}

type songResultsSource struct {
	store   DataStore
	service HymnalService
	probe   NetworkProbe
	logger  *log.Logger
}

// LoadLocal collects every local match for the query regardless of page.
//
// An unavailable store or a failed read is logged and treated as no matches.
func (s *songResultsSource) LoadLocal(ctx context.Context, key SearchKey) ([]models.SearchResultEntity, error) {
	if s.store == nil || !s.store.Ready() {
		s.logger.Warn("local store not ready, skipping local search", "query", key.Query)
		return nil, nil
	}

	var rows []models.SearchResultEntity
	for row, err := range s.store.SearchHymns(ctx, key.Query) {
		if err != nil {
			s.logger.Warn("local search failed", "query", key.Query, "error", err)
			return nil, nil
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *songResultsSource) ConvertLocal(_ SearchKey, rows []models.SearchResultEntity) (models.UiSongResultsPage, bool, error) {
	page := converter.ToUiSongResultsPage(SortByRank(rows), false)
	return page, len(page.Results) > 0, nil
}

func (s *songResultsSource) ShouldFetch(SearchKey, models.UiSongResultsPage, bool) bool {
	return s.probe != nil && s.probe.IsNetworkAvailable()
}

func (s *songResultsSource) FetchRemote(ctx context.Context, key SearchKey) (*models.SongResultsPage, error) {
	return s.service.Search(ctx, key.Query, key.Page)
}

// ConvertToLocal produces nothing: remote search pages are not persisted.
func (s *songResultsSource) ConvertToLocal(SearchKey, *models.SongResultsPage) ([]models.SearchResultEntity, error) {
	return nil, nil
}

func (s *songResultsSource) SaveLocal(context.Context, SearchKey, []models.SearchResultEntity) error {
	return nil
}

func (s *songResultsSource) ConvertRemote(_ SearchKey, page *models.SongResultsPage) (models.UiSongResultsPage, bool, error) {
	entities, hasMore := converter.ToSongResultEntities(page, s.logger)
	return converter.ToUiSongResultsPage(entities, hasMore), true, nil
}
