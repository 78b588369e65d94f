// Package services implements the remote collaborators of the hymnal: the [Service] interface over the hymnal API and the [NetworkProbe].
//
// # Hymnal API
//
// [HymnalService] issues GET requests against two endpoints:
//   - /v2/hymn/{type}/{number}?{params} : one hymn as title, metadata and verses
//   - /v2/search/{query}/{page} : one page of results with opaque paths
//
// Requests are paced with a [rate.Limiter] and tagged with an X-Request-ID header.
// When [shared.OAuthConfig] carries client credentials, [NewHTTPClient] returns an [oauth2] client that fetches and refreshes bearer tokens.
//
// # Connectivity
//
// [NetworkProbe] dials the API host over TCP and memoises the answer for an interval.
// Repositories consult it synchronously before deciding to go to the network.
//
// # Error Handling
//
// Every failure wraps [shared.ErrNetwork]; a 404 additionally wraps [shared.ErrHymnNotFound].
package services
