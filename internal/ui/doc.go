// Package ui implements an interactive terminal hymnal using bubbletea's Elm architecture.
//
// The TUI has two views:
//  1. [SearchView] : Query input above a result list. Empty input lists recent hymns, a number lists matching hymn numbers, anything else runs a search.
//  2. [HymnView] : Scrollable lyrics of the selected hymn.
//
// The query input and list feed a [search.Session], which owns debounce, paging and stale-result rejection.
// The session notifies the model through a one-slot channel; the model then reads the latest [search.State] snapshot, so bursts of changes collapse into one render.
//
// Opening a hymn resolves it through the hymns repository and records the view in history.
package ui
