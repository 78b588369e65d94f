// Package converter moves hymn data between its wire, storage and presentation formats.
//
// Every conversion that can meet structurally invalid data returns an error wrapping [shared.ErrConversion].
// Absence is not an error: a nil entity converts to a nil hymn.
//
// [ParsePath] turns the opaque paths carried by remote search results into [models.Identifier] values.
// Results whose path cannot be parsed are dropped by [ToSongResultEntities] rather than failing the page.
package converter
