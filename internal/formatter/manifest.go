package formatter

import (
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/passport/internal/shared"
)

// CountryExportResult is the outcome of exporting one country.
type CountryExportResult struct {
	Country string
	Songs   int
	Success bool
	Files   []string
	Error   error
}

// BulkExportResult summarizes a bulk passport export.
type BulkExportResult struct {
	Username          string
	TotalCountries    int
	SuccessfulExports int
	FailedExports     int
	Results           []CountryExportResult
	OutputDirectory   string
	ManifestPath      string
}

type manifestEntry struct {
	Country string   `json:"country"`
	Songs   int      `json:"songs"`
	Status  string   `json:"status"`
	Files   []string `json:"files,omitempty"`
	Error   string   `json:"error,omitempty"`
}

type manifest struct {
	Username          string          `json:"username"`
	Format            string          `json:"format"`
	ExportedAt        time.Time       `json:"exported_at"`
	TotalCountries    int             `json:"total_countries"`
	SuccessfulExports int             `json:"successful_exports"`
	FailedExports     int             `json:"failed_exports"`
	Countries         []manifestEntry `json:"countries"`
}

// WriteBulkExportManifest writes a JSON summary of result to path.
func WriteBulkExportManifest(result *BulkExportResult, format, path string) error {
	m := manifest{
		Username:          result.Username,
		Format:            format,
		ExportedAt:        time.Now().UTC(),
		TotalCountries:    result.TotalCountries,
		SuccessfulExports: result.SuccessfulExports,
		FailedExports:     result.FailedExports,
		Countries:         make([]manifestEntry, 0, len(result.Results)),
	}

	for _, r := range result.Results {
		entry := manifestEntry{Country: r.Country, Songs: r.Songs, Status: "success", Files: r.Files}
		if !r.Success {
			entry.Status = "failed"
			if r.Error != nil {
				entry.Error = r.Error.Error()
			}
		}
		m.Countries = append(m.Countries, entry)
	}

	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
