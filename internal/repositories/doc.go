// Package repositories resolves hymns and search results from the local store and the hymnal API.
//
// Both repositories are built on [resource.Coordinator] and differ in policy:
//   - [HymnsRepository] : local first, remote only on a miss while online; successful lookups are kept in an in-memory identity cache for the life of the repository
//   - [SongResultsRepository] : ranked local matches, replaced by the remote page whenever the network is available; nothing is cached or persisted
//
// Local search rows are ordered with [SortByRank], which weighs title matches twice as much as lyrics matches.
//
// Collaborators are injected through [Dependencies] so tests can substitute doubles directly.
package repositories
