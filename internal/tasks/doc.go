// Package tasks runs long passport operations with real-time progress reporting.
//
// # Bulk Export
//
// [ExportEngine.BulkExport] writes one file set per explored country:
//   - a producer fetches each country's history, paced by a token-bucket rate limiter
//   - a bounded worker pool renders the files through package formatter
//   - a manifest summarizing successes and failures is written last
//
// Partial failures do not abort the run; each country's outcome is recorded in the result.
// When a run repository is configured the run is persisted to the export_runs table.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
// The [ProgressUpdate] struct contains phase, step counters and a message.
// Updates use select with default to prevent blocking.
package tasks
