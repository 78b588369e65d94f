package tasks

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/desertthunder/hymns/internal/models"
	"github.com/desertthunder/hymns/internal/repositories"
	"github.com/desertthunder/hymns/internal/shared"
	tu "github.com/desertthunder/hymns/internal/testing"
)

type mockFetcher struct {
	mu      sync.Mutex
	missing map[string]bool
	calls   []string
}

func (m *mockFetcher) GetHymn(ctx context.Context, id models.Identifier) <-chan *models.UiHymn {
	m.mu.Lock()
	m.calls = append(m.calls, id.Key())
	missing := m.missing[id.Key()]
	m.mu.Unlock()

	ch := make(chan *models.UiHymn, 1)
	if !missing {
		ch <- &models.UiHymn{Identifier: id, Title: "Hymn " + id.Number}
	}
	close(ch)
	return ch
}

func (m *mockFetcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func drain(progress chan ProgressUpdate) []ProgressUpdate {
	var updates []ProgressUpdate
	for {
		select {
		case u := <-progress:
			updates = append(updates, u)
		default:
			return updates
		}
	}
}

func TestPrefetcher(t *testing.T) {
	t.Run("Run", func(t *testing.T) {
		t.Run("resolves every number in range", func(t *testing.T) {
			fetcher := &mockFetcher{missing: map[string]bool{"h/3": true, "h/5": true}}
			p := NewPrefetcher(fetcher, shared.NewLogger(&tu.FWriter{}))
			progress := make(chan ProgressUpdate, 32)

			result, err := p.Run(context.Background(), progress, PrefetchOpts{Type: models.Classic, From: 1, To: 6, NumWorkers: 3})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result.Total != 6 {
				t.Errorf("expected total 6, got %d", result.Total)
			}
			if result.Fetched != 4 {
				t.Errorf("expected 4 fetched, got %d", result.Fetched)
			}
			if len(result.Missing) != 2 || result.Missing[0].Number != "3" || result.Missing[1].Number != "5" {
				t.Errorf("expected missing [3 5], got %v", result.Missing)
			}
			if fetcher.callCount() != 6 {
				t.Errorf("expected 6 fetches, got %d", fetcher.callCount())
			}
		})

		t.Run("reports progress in order of phases", func(t *testing.T) {
			fetcher := &mockFetcher{missing: map[string]bool{"nt/2": true}}
			p := NewPrefetcher(fetcher, shared.NewLogger(&tu.FWriter{}))
			progress := make(chan ProgressUpdate, 32)

			if _, err := p.Run(context.Background(), progress, PrefetchOpts{Type: models.NewTune, From: 1, To: 3}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			updates := drain(progress)
			if len(updates) != 5 {
				t.Fatalf("expected 5 updates, got %d", len(updates))
			}
			if updates[0].Phase != PrefetchStart || updates[0].Total != 3 {
				t.Errorf("expected start update with total 3, got %+v", updates[0])
			}
			if last := updates[len(updates)-1]; last.Phase != PrefetchDone {
				t.Errorf("expected final update to be done, got %s", last.Phase)
			}

			var hymns, missing int
			for i, u := range updates[1:4] {
				if u.Step != i+1 {
					t.Errorf("expected step %d, got %d", i+1, u.Step)
				}
				switch u.Phase {
				case PrefetchHymn:
					hymns++
				case PrefetchMissing:
					missing++
				}
			}
			if hymns != 2 || missing != 1 {
				t.Errorf("expected 2 hymn and 1 missing updates, got %d and %d", hymns, missing)
			}
		})

		t.Run("does not block without a reader", func(t *testing.T) {
			p := NewPrefetcher(&mockFetcher{}, shared.NewLogger(&tu.FWriter{}))
			progress := make(chan ProgressUpdate)

			result, err := p.Run(context.Background(), progress, PrefetchOpts{Type: models.Classic, From: 1, To: 10})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.Fetched != 10 {
				t.Errorf("expected 10 fetched, got %d", result.Fetched)
			}
		})

		t.Run("nil progress channel", func(t *testing.T) {
			p := NewPrefetcher(&mockFetcher{}, nil)
			if _, err := p.Run(context.Background(), nil, PrefetchOpts{Type: models.Classic, From: 5, To: 5}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})

		t.Run("canceled context dispatches nothing", func(t *testing.T) {
			fetcher := &mockFetcher{}
			p := NewPrefetcher(fetcher, shared.NewLogger(&tu.FWriter{}))
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			result, err := p.Run(ctx, nil, PrefetchOpts{Type: models.Classic, From: 1, To: 100, RateLimit: 1})
			if !errors.Is(err, context.Canceled) {
				t.Fatalf("expected context.Canceled, got %v", err)
			}
			if result == nil || result.Fetched != 0 {
				t.Errorf("expected empty partial result, got %+v", result)
			}
			if fetcher.callCount() != 0 {
				t.Errorf("expected no fetches, got %d", fetcher.callCount())
			}
		})

		t.Run("invalid options", func(t *testing.T) {
			p := NewPrefetcher(&mockFetcher{}, shared.NewLogger(&tu.FWriter{}))
			tt := []struct {
				name string
				opts PrefetchOpts
			}{
				{name: "unknown type", opts: PrefetchOpts{Type: "zz", From: 1, To: 2}},
				{name: "zero start", opts: PrefetchOpts{Type: models.Classic, From: 0, To: 2}},
				{name: "reversed range", opts: PrefetchOpts{Type: models.Classic, From: 5, To: 2}},
			}

			for _, tc := range tt {
				t.Run(tc.name, func(t *testing.T) {
					if _, err := p.Run(context.Background(), nil, tc.opts); !errors.Is(err, shared.ErrInvalidArgument) {
						t.Errorf("expected ErrInvalidArgument, got %v", err)
					}
				})
			}
		})

		t.Run("nil fetcher", func(t *testing.T) {
			p := NewPrefetcher(nil, shared.NewLogger(&tu.FWriter{}))
			if _, err := p.Run(context.Background(), nil, PrefetchOpts{Type: models.Classic, From: 1, To: 1}); !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})

		t.Run("persists through hymns repository", func(t *testing.T) {
			service := &tu.MockService{Hymns: map[string]*models.Hymn{}}
			for n := 1; n <= 3; n++ {
				id := models.NewIdentifier(models.Children, strconv.Itoa(n), nil)
				service.Hymns[id.Key()] = &models.Hymn{
					Title:  "Children " + id.Number,
					Lyrics: []models.Verse{{Type: models.VerseTypeVerse, Content: []string{"line"}}},
				}
			}
			store := tu.NewMockStore()
			repo := repositories.NewHymnsRepository(repositories.Dependencies{
				Store:   store,
				Service: service,
				Probe:   tu.MockProbe{Online: true},
				Logger:  shared.NewLogger(&tu.FWriter{}),
			})

			p := NewPrefetcher(repo, shared.NewLogger(&tu.FWriter{}))
			result, err := p.Run(context.Background(), nil, PrefetchOpts{Type: models.Children, From: 1, To: 4, NumWorkers: 2})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result.Fetched != 3 || len(result.Missing) != 1 || result.Missing[0].Number != "4" {
				t.Errorf("expected 3 fetched and c/4 missing, got %+v", result)
			}
			for n := 1; n <= 3; n++ {
				id := models.NewIdentifier(models.Children, strconv.Itoa(n), nil)
				if store.Saved(id) == nil {
					t.Errorf("expected %s to be persisted", id)
				}
				if !repo.Cached(id) {
					t.Errorf("expected %s to be cached", id)
				}
			}
		})
	})
}

func TestPhaseString(t *testing.T) {
	tt := []struct {
		phase Phase
		want  string
	}{
		{PrefetchStart, "prefetch_start"},
		{PrefetchHymn, "prefetch_hymn"},
		{PrefetchMissing, "prefetch_missing"},
		{PrefetchDone, "prefetch_done"},
		{Phase(99), ""},
	}

	for _, tc := range tt {
		if got := tc.phase.String(); got != tc.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tc.phase, got, tc.want)
		}
	}
}
