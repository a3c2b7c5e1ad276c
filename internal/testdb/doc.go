// Package testdb provides helpers for tests that need a real database.
//
// SQLite databases are created as files under t.TempDir() with the schema
// already applied. PostgreSQL helpers skip the test unless
// TASKS_TEST_POSTGRES_URL points at a disposable database.
package testdb
