// Package service contains the application use cases. It composes the
// stores (internal/store), the entity caches (internal/cache), the mapper
// and the task lifecycle rules from internal/domain.
//
// Every operation returns a Response envelope. Expected failures such as
// validation errors, missing rows or duplicate emails are reported through
// Response.Outcome; only infrastructure failures are logged as errors.
//
// Reads are cache-aside: the cache is consulted first and populated from
// the store on a miss. Writes go to the store first and then update or
// invalidate the affected cache entries. Cache failures never fail a
// request.
package service
