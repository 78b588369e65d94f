// Package models defines the hymnal's domain types in each of the three formats data moves through.
//
// The package contains three categories of types:
//
// 1. Wire records: JSON payloads decoded from the hymnal API
//   - [Hymn] : Title, metadata and verses of one hymn
//   - [SongResultsPage] : One page of remote search results with opaque paths
//
// 2. Storage records: rows read from and written to the local SQLite store
//   - [HymnEntity] : Persisted hymn with its lyrics serialized as JSON
//   - [SearchResultEntity] : Full-text search row carrying its match-info blob
//   - [SongResultEntity] : Ranked search row stripped of match statistics
//   - [RecentSong] : Recently viewed hymn used for the recent-items list
//
// 3. Presentation records: values handed to the CLI and TUI
//   - [UiHymn] : Validated hymn with decoded verses
//   - [UiSongResultsPage] : Page of [UiSongResult] entries
//
// [Identifier] names a hymn across all three formats. Its [Identifier.Key] is the canonical string used for identity-cache lookups and equality.
package models
