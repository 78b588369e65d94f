package models

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
)

// HymnType is the discriminant of an [Identifier]. Its value is the token used in hymnal API paths.
type HymnType string

const (
	Classic       HymnType = "h"
	NewTune       HymnType = "nt"
	NewSong       HymnType = "ns"
	Children      HymnType = "c"
	HowardHigashi HymnType = "lb"
)

var hymnTypes = map[string]HymnType{
	string(Classic):       Classic,
	string(NewTune):       NewTune,
	string(NewSong):       NewSong,
	string(Children):      Children,
	string(HowardHigashi): HowardHigashi,
}

// ParseHymnType resolves a path token to a [HymnType].
func ParseHymnType(token string) (HymnType, bool) {
	t, ok := hymnTypes[strings.ToLower(token)]
	return t, ok
}

func (t HymnType) String() string {
	switch t {
	case Classic:
		return "classic"
	case NewTune:
		return "new tune"
	case NewSong:
		return "new song"
	case Children:
		return "children"
	case HowardHigashi:
		return "howard higashi"
	default:
		return string(t)
	}
}

// Identifier names one hymn: a type, a number and optional query parameters.
//
// Identifiers are treated as immutable values. Maps are not comparable, so equality and cache lookups go through [Identifier.Key].
type Identifier struct {
	Type        HymnType
	Number      string
	QueryParams map[string]string
}

// NewIdentifier creates an [Identifier], copying params so later changes to the caller's map are not observed.
func NewIdentifier(t HymnType, number string, params map[string]string) Identifier {
	var qp map[string]string
	if len(params) > 0 {
		qp = maps.Clone(params)
	}
	return Identifier{Type: t, Number: number, QueryParams: qp}
}

// EncodeQueryParams renders params as "k=v&k2=v2" with keys sorted and both sides query-escaped,
// so a value containing "&" or "=" cannot collide with a different set of params. Returns "" when there are none.
func EncodeQueryParams(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}

	keys := slices.Sorted(maps.Keys(params))
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, url.QueryEscape(k)+"="+url.QueryEscape(params[k]))
	}
	return strings.Join(pairs, "&")
}

// DecodeQueryParams parses the output of [EncodeQueryParams].
func DecodeQueryParams(s string) (map[string]string, error) {
	if s == "" {
		return nil, nil
	}

	var err error
	params := make(map[string]string)
	for pair := range strings.SplitSeq(s, "&") {
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("malformed query parameter %q", pair)
		}
		if k, err = url.QueryUnescape(k); err != nil {
			return nil, fmt.Errorf("malformed query parameter %q: %w", pair, err)
		}
		if v, err = url.QueryUnescape(v); err != nil {
			return nil, fmt.Errorf("malformed query parameter %q: %w", pair, err)
		}
		if _, dup := params[k]; dup {
			return nil, fmt.Errorf("duplicate query parameter %q", k)
		}
		params[k] = v
	}
	if len(params) == 0 {
		return nil, nil
	}
	return params, nil
}

// Key returns the canonical form "type/number[?params]".
func (i Identifier) Key() string {
	key := string(i.Type) + "/" + i.Number
	if qp := EncodeQueryParams(i.QueryParams); qp != "" {
		key += "?" + qp
	}
	return key
}

// Equal reports whether both identifiers name the same hymn.
func (i Identifier) Equal(o Identifier) bool {
	return i.Key() == o.Key()
}

func (i Identifier) String() string {
	return i.Key()
}
