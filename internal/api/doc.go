// Package api serves the workforce HTTP endpoints: sign-in, employees and
// tasks. Handlers decode and validate requests, call the services and turn
// their Response envelopes into status codes and JSON bodies.
package api
