// Package domain holds the employee and task entities together with the
// task lifecycle: allowed status transitions, date rules and the values
// derived from a task at a given time. Nothing here touches storage.
package domain
