package models

// SongResult is one remote search hit. Path is opaque until parsed into an [Identifier].
type SongResult struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// SongResultsPage is one page of remote search results.
type SongResultsPage struct {
	Results      []SongResult `json:"results"`
	HasMorePages bool         `json:"has_more_pages"`
}

// SearchResultEntity is a row produced by the local full-text search.
//
// MatchInfo is the raw match statistics blob; see repositories.Rank for the layout it relies on.
type SearchResultEntity struct {
	Type        HymnType
	Number      string
	QueryParams map[string]string
	Title       string
	MatchInfo   []byte
}

// SongResultEntity is a search row after ranking, or a remote hit after its path was parsed.
type SongResultEntity struct {
	Type        HymnType
	Number      string
	QueryParams map[string]string
	Title       string
}

// UiSongResult is a displayable search result.
type UiSongResult struct {
	Name       string     `json:"name"`
	Identifier Identifier `json:"-"`
}

// Equal reports whether both results display the same hymn under the same name.
func (r UiSongResult) Equal(o UiSongResult) bool {
	return r.Name == o.Name && r.Identifier.Equal(o.Identifier)
}

// UiSongResultsPage is one page of displayable results.
type UiSongResultsPage struct {
	Results      []UiSongResult `json:"results"`
	HasMorePages bool           `json:"has_more_pages"`
}
