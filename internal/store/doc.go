// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, so the service layer works the same on
// SQLite and PostgreSQL.
package store
