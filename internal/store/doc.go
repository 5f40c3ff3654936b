// Package store defines the persistence interfaces for employees and tasks,
// the sentinel errors every implementation maps onto and a transaction
// helper. The PostgreSQL implementation lives in internal/platform/postgres.
package store
