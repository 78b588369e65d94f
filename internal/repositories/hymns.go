package repositories

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hymns/internal/converter"
	"github.com/desertthunder/hymns/internal/models"
	"github.com/desertthunder/hymns/internal/resource"
	"github.com/desertthunder/hymns/internal/shared"
	"github.com/patrickmn/go-cache"
)

// HymnsRepository looks up single hymns, local first, with an identity cache in front.
type HymnsRepository struct {
	cache       *cache.Cache
	coordinator *resource.Coordinator[models.Identifier, *models.HymnEntity, *models.Hymn, *models.UiHymn]
	logger      *log.Logger
}

// NewHymnsRepository creates a new HymnsRepository with its own empty identity cache.
func NewHymnsRepository(deps Dependencies) *HymnsRepository {
	logger := deps.logger("hymns")
	var source resource.Source[models.Identifier, *models.HymnEntity, *models.Hymn, *models.UiHymn] = &hymnSource{
		store:   deps.Store,
		service: deps.Service,
		probe:   deps.Probe,
	}

	return &HymnsRepository{
		cache:       cache.New(cache.NoExpiration, 0),
		coordinator: resource.NewCoordinator(source, resource.WithoutLoading(), resource.WithLogger(logger)),
		logger:      logger,
	}
}

// GetHymn yields exactly one value for id and closes the channel.
//
// A cached hymn is yielded without touching the store or the network.
// A failed resolution is logged and yields nil, as does a hymn found nowhere.
func (r *HymnsRepository) GetHymn(ctx context.Context, id models.Identifier) <-chan *models.UiHymn {
	out := make(chan *models.UiHymn, 1)
	key := id.Key()

	if cached, ok := r.cache.Get(key); ok {
		out <- cached.(*models.UiHymn)
		close(out)
		return out
	}

	go func() {
		defer close(out)
		for res := range r.coordinator.Resolve(ctx, id) {
			switch res.Status {
			case resource.StatusSuccess:
				if res.Data != nil {
					r.cache.Set(key, res.Data, cache.NoExpiration)
				}
				out <- res.Data
			case resource.StatusError:
				r.logger.Error("failed to resolve hymn", "id", key, "error", res.Err)
				out <- nil
			}
		}
	}()

	return out
}

// Cached reports whether id is in the identity cache.
func (r *HymnsRepository) Cached(id models.Identifier) bool {
	_, ok := r.cache.Get(id.Key())
	return ok
}

type hymnSource struct {
	store   DataStore
	service HymnalService
	probe   NetworkProbe
}

func (s *hymnSource) LoadLocal(ctx context.Context, id models.Identifier) (*models.HymnEntity, error) {
	if s.store == nil || !s.store.Ready() {
		return nil, fmt.Errorf("%w: store not ready", shared.ErrStorageUnavailable)
	}
	return s.store.GetHymn(ctx, id)
}

func (s *hymnSource) ConvertLocal(id models.Identifier, entity *models.HymnEntity) (*models.UiHymn, bool, error) {
	hymn, err := converter.ToUiHymn(id, entity)
	return hymn, hymn != nil, err
}

func (s *hymnSource) ShouldFetch(_ models.Identifier, _ *models.UiHymn, present bool) bool {
	return !present && s.probe != nil && s.probe.IsNetworkAvailable()
}

func (s *hymnSource) FetchRemote(ctx context.Context, id models.Identifier) (*models.Hymn, error) {
	return s.service.GetHymn(ctx, id)
}

func (s *hymnSource) ConvertToLocal(id models.Identifier, hymn *models.Hymn) (*models.HymnEntity, error) {
	return converter.ToHymnEntity(id, hymn)
}

func (s *hymnSource) SaveLocal(ctx context.Context, _ models.Identifier, entity *models.HymnEntity) error {
	return s.store.SaveHymn(ctx, entity)
}

func (s *hymnSource) ConvertRemote(id models.Identifier, hymn *models.Hymn) (*models.UiHymn, bool, error) {
	converted, err := converter.HymnToUiHymn(id, hymn)
	return converted, converted != nil, err
}
