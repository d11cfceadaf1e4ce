// Package models defines the domain entities exchanged with the Passport backend and the client's persistence interfaces.
//
// The package contains two categories of types:
//
// 1. Backend entities, decoded at the service boundary:
//   - [Identity] : the logged-in user's id and username
//   - [Playlist], [PlaylistSummary] : owner-scoped playlists of song ids
//   - [Recommendation] : system-curated or community-submitted songs for a country
//   - [ExploredCountry], [HistoryEntry] : passport data per country
//   - [ReportCount] : report bookkeeping keyed by an arbitrary object id
//
// 2. Persistent entities stored in the local SQLite database:
//   - [ExportRun] : bookkeeping for bulk passport exports
//
// Song identifiers arrive in several shapes; [NormalizeSongID] resolves them to a plain id.
package models
