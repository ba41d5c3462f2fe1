// Package cli provides the interactive portal client.
//
// It wires configuration, local storage, the REST client, the session
// manager and an interactive REPL. Typical flow: open the local database,
// resolve any stored session in the background, watch storage for changes
// made by other client processes, and execute user commands. Every command
// is a page: it mounts a route guard, waits while the session is loading,
// then either runs or reports where the user was sent instead.
//
// Key features:
//   - Login / Logout / password recovery
//   - Browse areas and dashboards visible to the user
//   - Favorites kept locally
//   - Admin CRUD for areas and dashboards
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
