package tasks

import (
	"fmt"

	"github.com/aveledo/tracktop/internal/models"
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
	ParseLibrary Phase = iota
	RankTracks
	WriteData
	AlbumArt
	ArtistArt
	Relink
	Cleanup
)

func (p Phase) String() string {
	switch p {
	case ParseLibrary:
		return "parse_library"
	case RankTracks:
		return "rank_tracks"
	case WriteData:
		return "write_data"
	case AlbumArt:
		return "album_art"
	case ArtistArt:
		return "artist_art"
	case Relink:
		return "relink"
	case Cleanup:
		return "cleanup"
	default:
		return ""
	}
}

func parseLibraryUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ParseLibrary,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Parsing library export (%s)...", path),
	}
}

func rankTracksUpdate(found int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RankTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Ranking %d played tracks...", found),
	}
}

func writeDataUpdate(path string, data *models.MusicData) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteData,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing music data (%s)...", path),
		Data:    data,
	}
}

func albumArtUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AlbumArt,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, name),
	}
}

func artistArtUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ArtistArt,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, name),
	}
}

func artDoneUpdate(phase Phase, step, total int, name, outcome string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%s)", step, total, name, outcome),
	}
}

func artFailedUpdate(phase Phase, step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}

func relinkUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Relink,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Relinked: %s", step, total, name),
	}
}

func cleanupUpdate(removed int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Cleanup,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Removed %d superseded placeholders", removed),
	}
}
