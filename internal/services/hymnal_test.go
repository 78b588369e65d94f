package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/hymns/internal/models"
	"github.com/desertthunder/hymns/internal/shared"
	tu "github.com/desertthunder/hymns/internal/testing"
)

func TestHymnalService(t *testing.T) {
	ctx := context.Background()

	t.Run("NewHymnalService", func(t *testing.T) {
		t.Run("creates service with default URL", func(t *testing.T) {
			if svc := NewHymnalService("", nil, 0); svc.baseURL != defaultHymnalBaseURL {
				t.Errorf("expected baseURL to be %s, got %s", defaultHymnalBaseURL, svc.baseURL)
			}
		})

		t.Run("creates service with custom URL", func(t *testing.T) {
			customURL := "http://localhost:9000"
			if svc := NewHymnalService(customURL, nil, 0); svc.baseURL != customURL {
				t.Errorf("expected baseURL to be %s, got %s", customURL, svc.baseURL)
			}
		})
	})

	t.Run("Name", func(t *testing.T) {
		if svc := NewHymnalService("", nil, 0); svc.Name() != "Hymnal.net" {
			t.Errorf("expected name to be 'Hymnal.net', got %s", svc.Name())
		}
	})

	t.Run("GetHymn", func(t *testing.T) {
		mockHymn := map[string]any{
			"title": "Hymn 594",
			"meta_data": []map[string]any{
				{"name": "Category", "data": []map[string]string{{"value": "Praise", "path": ""}}},
			},
			"lyrics": []map[string]any{
				{"verse_type": "verse", "verse_content": []string{"line 1", "line 2"}},
			},
		}

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v2/hymn/h/594" {
				t.Errorf("expected path /v2/hymn/h/594, got %s", r.URL.Path)
			}
			if r.URL.RawQuery != "gb=1&query=3" {
				t.Errorf("expected sorted query params, got %s", r.URL.RawQuery)
			}
			if r.Header.Get("X-Request-ID") == "" {
				t.Error("expected X-Request-ID header")
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(mockHymn)
		}))
		defer server.Close()

		svc := NewHymnalService(server.URL, server.Client(), 0)
		hymn, err := svc.GetHymn(ctx, models.NewIdentifier(models.Classic, "594", map[string]string{"query": "3", "gb": "1"}))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if hymn.Title != "Hymn 594" {
			t.Errorf("expected title 'Hymn 594', got %s", hymn.Title)
		}
		if len(hymn.Lyrics) != 1 || hymn.Lyrics[0].Type != models.VerseTypeVerse || len(hymn.Lyrics[0].Content) != 2 {
			t.Errorf("unexpected lyrics %+v", hymn.Lyrics)
		}
		if len(hymn.MetaData) != 1 || hymn.MetaData[0].Data[0].Value != "Praise" {
			t.Errorf("unexpected metadata %+v", hymn.MetaData)
		}
	})

	t.Run("Search", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.EscapedPath() != "/v2/search/amazing%20grace/2" {
				t.Errorf("expected escaped search path, got %s", r.URL.EscapedPath())
			}
			w.Write([]byte(`{"results":[{"name":"Amazing grace","path":"/en/hymn/h/313"}],"has_more_pages":true}`))
		}))
		defer server.Close()

		svc := NewHymnalService(server.URL, server.Client(), 100)
		page, err := svc.Search(ctx, "amazing grace", 2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(page.Results) != 1 || page.Results[0].Path != "/en/hymn/h/313" {
			t.Errorf("unexpected results %+v", page.Results)
		}
		if !page.HasMorePages {
			t.Error("expected has_more_pages to decode")
		}
	})

	t.Run("errors wrap ErrNetwork", func(t *testing.T) {
		tc := []struct {
			name     string
			status   int
			body     string
			notFound bool
		}{
			{name: "not found", status: http.StatusNotFound, notFound: true},
			{name: "server error", status: http.StatusInternalServerError},
			{name: "invalid json", status: http.StatusOK, body: "{"},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
					w.Write([]byte(tt.body))
				}))
				defer server.Close()

				_, err := NewHymnalService(server.URL, server.Client(), 0).GetHymn(ctx, models.NewIdentifier(models.Classic, "1", nil))
				if !errors.Is(err, shared.ErrNetwork) {
					t.Fatalf("expected ErrNetwork, got %v", err)
				}
				if errors.Is(err, shared.ErrHymnNotFound) != tt.notFound {
					t.Errorf("unexpected not found classification: %v", err)
				}
			})
		}
	})

	t.Run("transport failure", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
		_, err := NewHymnalService("http://hymnal.invalid", client, 0).Search(ctx, "grace", 1)
		if !errors.Is(err, shared.ErrNetwork) {
			t.Errorf("expected ErrNetwork, got %v", err)
		}
	})

	t.Run("unreadable body", func(t *testing.T) {
		resp := &http.Response{StatusCode: http.StatusOK, Body: &tu.FCloser{}, Header: http.Header{}}
		client := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}

		_, err := NewHymnalService("http://hymnal.invalid", client, 0).GetHymn(ctx, models.NewIdentifier(models.Classic, "1", nil))
		if !errors.Is(err, shared.ErrNetwork) {
			t.Errorf("expected ErrNetwork, got %v", err)
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := NewHymnalService("http://hymnal.invalid", nil, 1).Search(canceled, "grace", 1)
		if !errors.Is(err, shared.ErrNetwork) {
			t.Errorf("expected ErrNetwork, got %v", err)
		}
	})
}

func TestNewHTTPClient(t *testing.T) {
	t.Run("without oauth", func(t *testing.T) {
		cfg := shared.DefaultConfig().Remote
		client := NewHTTPClient(context.Background(), cfg)
		if client.Timeout != cfg.Timeout() {
			t.Errorf("expected timeout %v, got %v", cfg.Timeout(), client.Timeout)
		}
	})

	t.Run("client credentials", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"hymn-token","token_type":"bearer","expires_in":3600}`))
		})
		mux.HandleFunc("/v2/hymn/h/1", func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer hymn-token" {
				t.Errorf("expected bearer token, got %q", got)
			}
			w.Write([]byte(`{"title":"Hymn 1","lyrics":[]}`))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		cfg := shared.DefaultConfig().Remote
		cfg.OAuth = shared.OAuthConfig{ClientID: "id", ClientSecret: "secret", TokenURL: server.URL + "/token"}

		svc := NewHymnalService(server.URL, NewHTTPClient(context.Background(), cfg), 0)
		if _, err := svc.GetHymn(context.Background(), models.NewIdentifier(models.Classic, "1", nil)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}
