// Package stores holds the client's in-memory state containers.
//
// Each store keeps a snapshot of backend data, a loading flag and the last error message.
// Actions validate locally, call an API module from package services, and only after
// the backend confirms the change reconcile the snapshot. Network calls are made without
// holding the store's lock; every getter returns a copy.
//
// # Stores
//
//   - [AuthStore] : session and identity; the only writer of the durable session
//   - [PlaylistStore] : playlist list and the selected playlist, reconciled with [ApplyPlaylist]
//   - [PassportStore] : explored countries and per-country history with a fetch dedup guard
//   - [RecommendationStore] : per-country system and community recommendations
//   - [ReportStore] : per-object report status for the current user
//
// Validation failures ([shared.ErrInvalidInput], [shared.ErrNotAuthenticated]) are returned
// before any request is sent.
package stores
