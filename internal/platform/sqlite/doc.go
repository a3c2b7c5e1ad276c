// Package sqlite provides the file-backed SQLite implementation of the
// storage interfaces defined in the internal/store package, using the
// pure-Go modernc.org/sqlite driver.
package sqlite
