// Package storage provides the client's persistent key/value storage, the
// local equivalent of browser storage. It backs the token store and the
// favorites list and lives in an SQLite table shared by every process that
// opens the same database file.
package storage
