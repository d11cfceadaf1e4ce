package tasks

import "fmt"

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
	FetchCountries Phase = iota
	FetchHistory
	ExportCountry
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case FetchCountries:
		return "fetch_countries"
	case FetchHistory:
		return "fetch_history"
	case ExportCountry:
		return "export_country"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func fetchingCountriesUpdate() ProgressUpdate {
	return ProgressUpdate{Phase: FetchCountries, Step: 1, Total: 1, Message: "Fetching explored countries..."}
}

func fetchingHistoryUpdate(step, total int, country string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchHistory,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Fetching history: %s...", step, total, country),
	}
}

func exportCompletedUpdate(step, total int, country string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportCountry,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, country, filesCount),
	}
}

func exportFailedUpdate(step, total int, country string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportCountry,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, country, err),
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{Phase: WriteManifest, Step: 1, Total: 1, Message: "Manifest written: " + path, Data: path}
}
