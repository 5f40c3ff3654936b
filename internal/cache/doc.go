// Package cache mirrors employee and task rows in a key-value backend using
// the cache-aside pattern. Callers read through the typed caches, populate
// them after a store read and invalidate them after every store write.
//
// Backend failures never reach callers: they are logged, counted and
// reported as a miss so the caller falls back to the store.
package cache
