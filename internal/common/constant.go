// Package common contains shared constants and sentinel errors used across
// the areaportal client components.
package common

// Storage keys. The token lives under exactly one key; the cached user and
// the favorites list each get their own.
const (
	TokenKey     = "token"
	UserKey      = "user"
	FavoritesKey = "favorites"
)

// AuthorizationHeaderName carries the bearer token on outbound requests.
const AuthorizationHeaderName = "Authorization"

// RequestIDHeaderName carries a per-request correlation id.
const RequestIDHeaderName = "X-Request-ID"
