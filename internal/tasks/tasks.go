// package tasks implements long-running passport operations.
package tasks

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/passport/internal/models"
	"github.com/desertthunder/passport/internal/shared"
)

// HistorySource fetches explored countries and their history.
type HistorySource interface {
	ExploredCountries(ctx context.Context, user string) ([]models.ExploredCountry, error)
	HistoryForCountry(ctx context.Context, user, country string) ([]models.HistoryEntry, error)
}

// ExportEngine runs bulk passport exports.
type ExportEngine struct {
	source HistorySource
	runs   models.Repository[*models.ExportRun]
	logger *log.Logger
}

// NewExportEngine creates an ExportEngine. runs and logger may be nil.
func NewExportEngine(source HistorySource, runs models.Repository[*models.ExportRun], logger *log.Logger) *ExportEngine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ExportEngine{source: source, runs: runs, logger: shared.WithLogger(logger, "task", "export")}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ExportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
