package models

// VerseType classifies a block of lyrics.
type VerseType string

const (
	VerseTypeVerse     VerseType = "verse"
	VerseTypeChorus    VerseType = "chorus"
	VerseTypeOther     VerseType = "other"
	VerseTypeCopyright VerseType = "copyright"
	VerseTypeNote      VerseType = "note"
)

// Verse is one block of lyrics. The JSON shape is shared by the API and the lyrics blob in storage.
type Verse struct {
	Type    VerseType `json:"verse_type"`
	Content []string  `json:"verse_content"`
}

// Datum is a single metadata value, optionally pointing at another resource.
type Datum struct {
	Value string `json:"value"`
	Path  string `json:"path"`
}

// MetaDatum groups the values of one named metadata field (e.g. "Category", "Lead Sheet").
type MetaDatum struct {
	Name string  `json:"name"`
	Data []Datum `json:"data"`
}

// Hymn is the wire representation returned by the hymnal API.
type Hymn struct {
	Title    string      `json:"title"`
	MetaData []MetaDatum `json:"meta_data"`
	Lyrics   []Verse     `json:"lyrics"`
}

// HymnEntity is the storage representation of a hymn.
//
// Lyrics and the music/sheet fields are JSON blobs. LyricsText holds the verse lines alone and is what full-text search indexes.
// Empty strings stand for absent values.
type HymnEntity struct {
	ID          int64
	Type        HymnType
	Number      string
	QueryParams string
	Title       string
	LyricsJSON  string
	LyricsText  string
	Category    string
	Subcategory string
	Author      string
	Composer    string
	Key         string
	Time        string
	Meter       string
	Scriptures  string
	HymnCode    string
	MusicJSON   string
	SheetJSON   string
}

// Identifier rebuilds the [Identifier] the entity was stored under.
func (e *HymnEntity) Identifier() (Identifier, error) {
	params, err := DecodeQueryParams(e.QueryParams)
	if err != nil {
		return Identifier{}, err
	}
	return Identifier{Type: e.Type, Number: e.Number, QueryParams: params}, nil
}

// UiHymn is a validated hymn ready for display.
type UiHymn struct {
	Identifier  Identifier
	Title       string
	Lyrics      []Verse
	PdfSheet    *MetaDatum
	Category    string
	Subcategory string
	Author      string
}

// RecentSong is a hymn the user viewed recently.
type RecentSong struct {
	Identifier Identifier
	Title      string
}
