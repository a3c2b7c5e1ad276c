// Package migrations embeds the task schema and applies it with goose.
//
// There is a single baseline migration per dialect. Its DDL uses IF NOT
// EXISTS, so it also adopts a database file that already holds a task
// table, and goose's version table makes repeated runs a no-op.
package migrations
