// Package services implements the passport backend client: a session-aware request
// pipeline and one API module per backend resource.
//
// # Request Pipeline
//
// [Client] is the single request-sending capability. Every action is an HTTP POST of a JSON
// body to /{Collection}/{action} (or /{Collection}/_{query} for read-only queries).
//
// Before dispatch the stored session token is merged into the body under "session"
// unless it is absent or the literal "undefined". The caller's payload is never mutated.
//
// # Error Handling
//
// The backend reports failures two ways, and both are checked on every response:
//   - non-2xx status : [*APIError] wrapping [shared.ErrAPIRequest]
//   - {"error": "..."} in a 2xx body : [*APIError] wrapping [shared.ErrBackend]
//   - transport failure : wraps [shared.ErrAPIRequest]
//
// A response carrying "Invalid session token" runs the registered invalid-session handler,
// navigates to the login view, and returns an error wrapping [shared.ErrInvalidSession].
//
// # API Modules
//
//   - [AuthService] : register, login, logout, user lookups
//   - [PlaylistService] : playlist queries and mutations
//   - [PassportService] : exploration log and per-country history
//   - [RecommendationService] : system and community recommendations
//   - [ReportingService] : report counts and reporters
//
// Modules never pass the session themselves; the pipeline injects it.
// Response shapes are normalized at this boundary: recommendation field names are
// remapped, single-entity queries are unwrapped and history rows are flattened.
package services
