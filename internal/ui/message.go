package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/hymns/internal/models"
	"github.com/desertthunder/hymns/internal/search"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgStateChanged MsgKind = iota
	MsgHymnLoaded
)

// stateChangedMsg is the constructor for [MsgStateChanged]
func stateChangedMsg(state search.State) Msg {
	return Msg{kind: MsgStateChanged, data: state}
}

type hymnLoaded struct {
	id   models.Identifier
	hymn *models.UiHymn
}

// hymnLoadedMsg is the constructor for [MsgHymnLoaded]. A nil hymn means it could not be resolved.
func hymnLoadedMsg(id models.Identifier, hymn *models.UiHymn) Msg {
	return Msg{kind: MsgHymnLoaded, data: hymnLoaded{id: id, hymn: hymn}}
}
