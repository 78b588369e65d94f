// Package search drives an interactive hymn search: debounced queries, recent hymns, number lookup and pagination.
//
// A [Session] is a state machine owned by the goroutine running [Session.Run].
// [Session.Activate], [Session.Deactivate], [Session.QueryChanged] and [Session.LoadMore] only post events to that goroutine, so they are safe to call from anywhere.
// Repository work runs on worker goroutines and its results are posted back before they touch state.
//
// # States
//
//   - Inactive : no search in progress, query cleared
//   - Active : query, page, hasMorePages, isLoading and a [Display] of Results, Loading or Empty
//
// # Stale Results
//
// Every fetch captures the query text and a reset epoch when it is issued.
// A completion whose query or epoch no longer matches, or that arrives after deactivation, is dropped without mutating state.
package search
