// package tasks implements long-running hymnal jobs such as offline prefetching.
package tasks

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/hymns/internal/models"
	"github.com/desertthunder/hymns/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers = 4
	maxWorkers     = 10
)

// HymnFetcher resolves single hymns. Implemented by [repositories.HymnsRepository].
type HymnFetcher interface {
	GetHymn(ctx context.Context, id models.Identifier) <-chan *models.UiHymn
}

// PrefetchOpts contains configuration for a prefetch run.
type PrefetchOpts struct {
	Type       models.HymnType // Hymn type to walk
	From, To   int             // Inclusive number range
	NumWorkers int             // Concurrent workers (default: 4, max: 10)
	RateLimit  float64         // Hymns per second, non-positive for unpaced
}

// PrefetchResult summarises a prefetch run.
type PrefetchResult struct {
	Total   int
	Fetched int
	Missing []models.Identifier // Sorted by number
}

// Prefetcher warms the local store by resolving a range of hymns.
type Prefetcher struct {
	hymns  HymnFetcher
	logger *log.Logger
}

// NewPrefetcher creates a new Prefetcher.
func NewPrefetcher(hymns HymnFetcher, logger *log.Logger) *Prefetcher {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Prefetcher{hymns: hymns, logger: shared.WithLogger(logger, "component", "prefetch")}
}

type prefetchOutcome struct {
	id   models.Identifier
	hymn *models.UiHymn
}

// Run resolves every hymn in the range and reports progress as hymns complete.
//
// Canceling ctx stops dispatching new numbers; the partial result is returned with ctx's error.
func (p *Prefetcher) Run(ctx context.Context, progress chan<- ProgressUpdate, opts PrefetchOpts) (*PrefetchResult, error) {
	if p.hymns == nil {
		return nil, fmt.Errorf("%w: hymns repository not initialized", shared.ErrServiceUnavailable)
	}
	if _, ok := models.ParseHymnType(string(opts.Type)); !ok {
		return nil, fmt.Errorf("%w: unknown hymn type %q", shared.ErrInvalidArgument, opts.Type)
	}
	if opts.From < 1 || opts.To < opts.From {
		return nil, fmt.Errorf("%w: invalid range %d-%d", shared.ErrInvalidArgument, opts.From, opts.To)
	}

	workers := opts.NumWorkers
	if workers <= 0 {
		workers = defaultWorkers
	}
	workers = min(workers, maxWorkers)

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	limiter := rate.NewLimiter(limit, 1)

	total := opts.To - opts.From + 1
	result := &PrefetchResult{Total: total}
	sendProgress(progress, prefetchStartUpdate(total, opts.Type))

	jobs := make(chan models.Identifier)
	outcomes := make(chan prefetchOutcome, workers)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				outcomes <- prefetchOutcome{id: id, hymn: <-p.hymns.GetHymn(ctx, id)}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for n := opts.From; n <= opts.To; n++ {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			select {
			case jobs <- models.NewIdentifier(opts.Type, strconv.Itoa(n), nil):
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	completed := 0
	for outcome := range outcomes {
		completed++
		if outcome.hymn == nil {
			result.Missing = append(result.Missing, outcome.id)
			p.logger.Debug("hymn not available", "id", outcome.id.Key())
			sendProgress(progress, prefetchMissingUpdate(completed, total, outcome.id))
			continue
		}
		result.Fetched++
		sendProgress(progress, prefetchHymnUpdate(completed, total, outcome.hymn))
	}

	slices.SortFunc(result.Missing, func(a, b models.Identifier) int {
		x, _ := strconv.Atoi(a.Number)
		y, _ := strconv.Atoi(b.Number)
		return x - y
	})

	sendProgress(progress, prefetchDoneUpdate(result))
	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}
