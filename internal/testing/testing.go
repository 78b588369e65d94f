// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"os"
	"slices"
	"sync"
	"testing"

	"github.com/desertthunder/hymns/internal/models"
	"github.com/desertthunder/hymns/internal/shared"
)

// MockStore is an in-memory test double for [repositories.DataStore]
type MockStore struct {
	mu         sync.Mutex
	hymns      map[string]*models.HymnEntity
	SearchRows []models.SearchResultEntity
	NotReady   bool
	GetErr     error
	SaveErr    error
	SearchErr  error
	GetCalls   int
	SaveCalls  int
}

func NewMockStore() *MockStore {
	return &MockStore{hymns: make(map[string]*models.HymnEntity)}
}

// Put stores entity under id without counting as a save.
func (m *MockStore) Put(id models.Identifier, entity *models.HymnEntity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hymns[id.Key()] = entity
}

// Saved returns the entity stored under id, if any.
func (m *MockStore) Saved(id models.Identifier) *models.HymnEntity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hymns[id.Key()]
}

func (m *MockStore) Ready() bool { return !m.NotReady }

func (m *MockStore) GetHymn(ctx context.Context, id models.Identifier) (*models.HymnEntity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCalls++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return m.hymns[id.Key()], nil
}

func (m *MockStore) SaveHymn(ctx context.Context, entity *models.HymnEntity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	params, err := models.DecodeQueryParams(entity.QueryParams)
	if err != nil {
		return err
	}
	m.hymns[models.NewIdentifier(entity.Type, entity.Number, params).Key()] = entity
	return nil
}

func (m *MockStore) SearchHymns(ctx context.Context, query string) iter.Seq2[models.SearchResultEntity, error] {
	return func(yield func(models.SearchResultEntity, error) bool) {
		m.mu.Lock()
		rows := slices.Clone(m.SearchRows)
		err := m.SearchErr
		m.mu.Unlock()

		for _, row := range rows {
			if !yield(row, nil) {
				return
			}
		}
		if err != nil {
			yield(models.SearchResultEntity{}, err)
		}
	}
}

// MockService is a test double for [repositories.HymnalService] that counts its calls
type MockService struct {
	mu          sync.Mutex
	Hymns       map[string]*models.Hymn
	Pages       map[int]*models.SongResultsPage
	Err         error
	HymnCalls   int
	SearchCalls int
	Queries     []string
}

func (m *MockService) Name() string { return "mock" }

func (m *MockService) GetHymn(ctx context.Context, id models.Identifier) (*models.Hymn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HymnCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	hymn, ok := m.Hymns[id.Key()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrHymnNotFound, id.Key())
	}
	return hymn, nil
}

func (m *MockService) Search(ctx context.Context, query string, page int) (*models.SongResultsPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SearchCalls++
	m.Queries = append(m.Queries, query)
	if m.Err != nil {
		return nil, m.Err
	}
	if p, ok := m.Pages[page]; ok {
		return p, nil
	}
	return &models.SongResultsPage{}, nil
}

// Calls returns the number of hymn and search requests made so far.
func (m *MockService) Calls() (hymns, searches int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.HymnCalls, m.SearchCalls
}

// MockProbe is a test double for [repositories.NetworkProbe]
type MockProbe struct {
	Online bool
}

func (m MockProbe) IsNetworkAvailable() bool { return m.Online }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
