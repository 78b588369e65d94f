package repositories

import (
	"cmp"
	"slices"

	"github.com/desertthunder/hymns/internal/models"
)

// Rank scores a full-text match: title matches (byte 0) count twice as much as lyrics matches (byte 4).
//
// matchInfo must hold at least 5 bytes, which the store guarantees for every search row.
func Rank(matchInfo []byte) int {
	return 2*int(matchInfo[0]) + int(matchInfo[4])
}

// SortByRank orders rows by descending [Rank] and strips their match statistics. Rows of equal rank keep their order.
func SortByRank(rows []models.SearchResultEntity) []models.SongResultEntity {
	ranked := slices.Clone(rows)
	slices.SortStableFunc(ranked, func(a, b models.SearchResultEntity) int {
		return cmp.Compare(Rank(b.MatchInfo), Rank(a.MatchInfo))
	})

	entities := make([]models.SongResultEntity, len(ranked))
	for i, r := range ranked {
		entities[i] = models.SongResultEntity{
			Type:        r.Type,
			Number:      r.Number,
			QueryParams: r.QueryParams,
			Title:       r.Title,
		}
	}
	return entities
}
