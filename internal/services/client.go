package services

import (
	"context"
	"net/http"

	"github.com/desertthunder/hymns/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// NewHTTPClient builds the HTTP client for the hymnal API.
//
// When client credentials are configured the client attaches a bearer token, fetching and refreshing it through [clientcredentials.Config].
// Token requests and API requests share the configured timeout.
func NewHTTPClient(ctx context.Context, cfg shared.RemoteConfig) *http.Client {
	base := &http.Client{Timeout: cfg.Timeout()}
	if !cfg.OAuth.Enabled() {
		return base
	}

	cc := clientcredentials.Config{
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		TokenURL:     cfg.OAuth.TokenURL,
		Scopes:       cfg.OAuth.Scopes,
	}

	client := cc.Client(context.WithValue(ctx, oauth2.HTTPClient, base))
	client.Timeout = cfg.Timeout()
	return client
}
