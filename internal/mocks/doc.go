// Package mocks provides shared test doubles for the store, service, auth
// and notify interfaces.
//
// Store mocks keep their data in memory and behave like the PostgreSQL
// stores, including the optimistic version check on tasks. Most methods can
// be overridden through an Fn field, and setting Err fails all calls:
//
//	employees := mocks.NewMockEmployeeStore(&domain.Employee{ID: 1, FirstName: "Ada"})
//	tasks := mocks.NewMockTaskStore(employees)
//	tasks.Err = errors.New("database down")
//
// Service mocks are plain function-field structs; an unset function returns
// a Failure response. The JWT mock falls back to fixed token and claims
// fields.
package mocks
