// Package postgres implements the store interfaces on PostgreSQL using GORM
// over the pgx driver. It owns the row structs, the translation between rows
// and domain entities, the mapping of driver errors onto store sentinels and
// the embedded goose migrations.
package postgres
