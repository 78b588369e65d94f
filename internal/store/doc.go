// Package store implements the local SQLite store for hymns and viewing history.
//
// The schema lives in the shared migrations:
//   - hymns : one row per identifier, lyrics stored as a JSON blob plus their plain text
//   - hymns_search : FTS4 index over hymns(title, lyrics_text), kept in sync by triggers
//   - recent_songs : recently viewed hymns keyed by identifier
//
// # Search
//
// [HymnStore.SearchHymns] returns a lazy, restartable sequence of matches.
// Each row carries matchinfo(hymns_search, 's'): one native-endian uint32 per column holding the longest common subsequence of query phrases matched in that column.
// The title count starts at byte 0 and the lyrics count at byte 4.
//
// The sequence holds a connection open while it is being ranged over, so consumers must not issue other queries from inside the loop.
package store
