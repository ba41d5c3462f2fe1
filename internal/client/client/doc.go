// Package client contains the client-side building blocks that talk to the
// outside world.
//
// # Overview
//
//  1. A transport-agnostic API contract (the Client interface) for the portal
//     REST backend: authentication, password reset, profile updates, areas
//     and dashboards.
//  2. A concrete HTTP+JSON implementation (HTTPClient) built on
//     go-retryablehttp: bearer token from a TokenSource, per-request timeout,
//     one retry on transport errors and 5xx, X-Request-ID on every call, and
//     status codes mapped to the sentinel errors of package common.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations): an SQLite
//     database with embedded goose migrations.
//
// # Error Handling
//
// Failed calls return *common.APIError whose message is display-ready and
// which unwraps to common.ErrUnauthenticated, ErrForbidden, ErrValidation,
// ErrNotFound or ErrUnavailable. Transport failures wrap ErrUnavailable.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. Every call takes a context.Context
// and honors cancellation.
package client
