// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package. It is selected
// with database.driver=postgres and talks to the server through the pgx
// database/sql driver.
package postgres
