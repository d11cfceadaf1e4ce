// Package repositories implements SQLite persistence for the passport client.
//
// Key Implementations:
//   - [ClientStateRepository] : durable key/value client state backing [session.Storage]
//   - [ExportRunRepository] : bulk export bookkeeping implementing models.Repository[*models.ExportRun]
//
// Group writes and deletes run in a single transaction so the session token and
// identity entries are never observed half-written.
package repositories
