package converter

import (
	"fmt"
	"regexp"

	"github.com/desertthunder/hymns/internal/models"
	"github.com/desertthunder/hymns/internal/shared"
)

// pathPattern matches "/{lang}/hymn/{type}/{number}" with an optional trailing "?k=v&k2=v2".
var pathPattern = regexp.MustCompile(`^/(\w+)/hymn/(\w+)/(\d+)/?(?:\?(.*))?$`)

// ParsePath parses a hymnal path such as "/en/hymn/h/594?gb=1&query=3" into an [models.Identifier].
func ParsePath(path string) (models.Identifier, error) {
	m := pathPattern.FindStringSubmatch(path)
	if m == nil {
		return models.Identifier{}, fmt.Errorf("%w: %q", shared.ErrParse, path)
	}

	hymnType, ok := models.ParseHymnType(m[2])
	if !ok {
		return models.Identifier{}, fmt.Errorf("%w: unknown hymn type %q in %q", shared.ErrParse, m[2], path)
	}

	params, err := models.DecodeQueryParams(m[4])
	if err != nil {
		return models.Identifier{}, fmt.Errorf("%w: %w", shared.ErrParse, err)
	}

	return models.NewIdentifier(hymnType, m[3], params), nil
}
