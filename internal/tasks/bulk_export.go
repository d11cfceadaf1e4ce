package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/passport/internal/formatter"
	"github.com/desertthunder/passport/internal/models"
	"github.com/desertthunder/passport/internal/shared"
)

// BulkExportOpts contains configuration for bulk passport exports.
type BulkExportOpts struct {
	Format     string   // Export format: json, csv, markdown, txt
	OutputDir  string   // Base output directory (default: passport_export_{epoch})
	NumWorkers int      // Concurrent workers (default: 4, max 10)
	RateLimit  float64  // History requests per second (default: 5)
	Countries  []string // Countries to export; empty exports every explored country
}

// countryJob is one fetched history waiting to be written.
type countryJob struct {
	export *formatter.PassportExport
}

// BulkExport exports the passport history of every selected country concurrently.
//
// History fetches are rate limited; writing is spread across a worker pool. A failed
// country is recorded in the result and the run continues.
func (e *ExportEngine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	user, username string,
	opts BulkExportOpts,
) (*formatter.BulkExportResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: history source not initialized", shared.ErrServiceUnavailable)
	}
	if user == "" {
		return nil, shared.ErrNotAuthenticated
	}

	format, err := formatter.ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	opts.Format = format
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("passport_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	countries := opts.Countries
	if len(countries) == 0 {
		e.sendProgress(prog, fetchingCountriesUpdate())
		explored, err := e.source.ExploredCountries(ctx, user)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch explored countries: %w", err)
		}
		for _, c := range explored {
			countries = append(countries, c.Country)
		}
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &formatter.BulkExportResult{
		Username:        username,
		TotalCountries:  len(countries),
		OutputDirectory: opts.OutputDir,
		Results:         make([]formatter.CountryExportResult, 0, len(countries)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan countryJob, len(countries))
	results := make(chan formatter.CountryExportResult, len(countries))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, country := range countries {
			if err := limiter.Wait(ctx); err != nil {
				results <- formatter.CountryExportResult{Country: country, Error: err}
				continue
			}

			e.sendProgress(prog, fetchingHistoryUpdate(i+1, len(countries), country))
			entries, err := e.source.HistoryForCountry(ctx, user, country)
			if err != nil {
				results <- formatter.CountryExportResult{
					Country: country,
					Error:   fmt.Errorf("failed to fetch history: %w", err),
				}
				continue
			}

			jobs <- countryJob{export: &formatter.PassportExport{
				Username:   username,
				Country:    country,
				Entries:    entries,
				ExportedAt: time.Now().UTC(),
			}}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(countries), res.Country, len(res.Files)))
		} else {
			result.FailedExports++
			e.logger.Warn("country export failed", "country", res.Country, "error", res.Error)
			e.sendProgress(prog, exportFailedUpdate(completed, len(countries), res.Country, res.Error))
		}
	}

	e.recordRun(user, opts, result)

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteBulkExportManifest(result, opts.Format, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	e.sendProgress(prog, manifestUpdate(manifestPath))

	return result, nil
}

// exportWorker writes every job it receives until jobs is closed.
func (e *ExportEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan countryJob,
	results chan<- formatter.CountryExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		res := formatter.CountryExportResult{Country: job.export.Country, Songs: len(job.export.Entries)}
		if err := ctx.Err(); err != nil {
			res.Error = err
			results <- res
			continue
		}

		files, err := formatter.WriteExport(job.export, opts.Format, opts.OutputDir)
		if err != nil {
			res.Error = err
		} else {
			res.Files = files
			res.Success = true
		}
		results <- res
	}
}

// recordRun persists the run summary. Failures are logged, not returned.
func (e *ExportEngine) recordRun(user string, opts BulkExportOpts, result *formatter.BulkExportResult) {
	if e.runs == nil {
		return
	}

	run := models.NewExportRun(user, opts.Format, opts.OutputDir)
	run.Countries = result.TotalCountries
	run.Failed = result.FailedExports
	if err := e.runs.Create(run); err != nil {
		e.logger.Error("failed to record export run", "error", err)
	}
}
