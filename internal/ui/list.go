package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/hymns/internal/models"
)

var _ list.Item = resultItem{}

// resultItem wraps [models.UiSongResult] to implement [list.Item].
type resultItem struct {
	result models.UiSongResult
}

func (i resultItem) FilterValue() string { return i.result.Name }
func (i resultItem) Title() string       { return i.result.Name }
func (i resultItem) Description() string {
	id := i.result.Identifier
	return id.Type.String() + " " + id.Number
}

func toItems(results []models.UiSongResult) []list.Item {
	items := make([]list.Item, len(results))
	for i, r := range results {
		items[i] = resultItem{result: r}
	}
	return items
}
