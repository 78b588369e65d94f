package tasks

import (
	"fmt"

	"github.com/desertthunder/hymns/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	PrefetchStart Phase = iota
	PrefetchHymn
	PrefetchMissing
	PrefetchDone
)

func (p Phase) String() string {
	switch p {
	case PrefetchStart:
		return "prefetch_start"
	case PrefetchHymn:
		return "prefetch_hymn"
	case PrefetchMissing:
		return "prefetch_missing"
	case PrefetchDone:
		return "prefetch_done"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func prefetchStartUpdate(total int, hymnType models.HymnType) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PrefetchStart,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Prefetching %d %s hymns...", total, hymnType),
	}
}

func prefetchHymnUpdate(step, total int, hymn *models.UiHymn) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PrefetchHymn,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Cached %s: %s", hymn.Identifier, hymn.Title),
		Data:    hymn,
	}
}

func prefetchMissingUpdate(step, total int, id models.Identifier) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PrefetchMissing,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("No hymn found for %s", id),
		Data:    id,
	}
}

func prefetchDoneUpdate(result *PrefetchResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PrefetchDone,
		Step:    result.Total,
		Total:   result.Total,
		Message: fmt.Sprintf("Prefetch complete: %d cached, %d missing", result.Fetched, len(result.Missing)),
		Data:    result,
	}
}
