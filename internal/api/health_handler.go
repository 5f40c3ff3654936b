package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/phrazzld/workforce-api/internal/api/shared"
	"github.com/phrazzld/workforce-api/internal/platform/logger"
	"github.com/phrazzld/workforce-api/internal/redact"
)

// HealthCheck pings one dependency. A failing Optional check degrades the
// report without failing it; the service keeps answering without that
// dependency, as it does when the cache is down.
type HealthCheck struct {
	Ping     func(ctx context.Context) error
	Optional bool
}

// Required wraps a ping whose failure makes the service unavailable.
func Required(ping func(ctx context.Context) error) HealthCheck {
	return HealthCheck{Ping: ping}
}

// Optional wraps a ping whose failure only degrades the service.
func Optional(ping func(ctx context.Context) error) HealthCheck {
	return HealthCheck{Ping: ping, Optional: true}
}

// Health report states.
const (
	HealthOK          = "ok"
	HealthDegraded    = "degraded"
	HealthUnavailable = "unavailable"
)

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthHandler reports whether the service and its dependencies respond.
type HealthHandler struct {
	checks  map[string]HealthCheck
	timeout time.Duration
}

// NewHealthHandler creates a HealthHandler running checks with a shared
// timeout.
func NewHealthHandler(checks map[string]HealthCheck, timeout time.Duration) *HealthHandler {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthHandler{checks: checks, timeout: timeout}
}

// ServeHTTP responds 503 when a required check fails and 200 otherwise. The
// body is "degraded" when only optional checks fail.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	body := HealthStatus{Status: HealthOK, Checks: make(map[string]string, len(names))}
	for _, name := range names {
		check := h.checks[name]
		if err := check.Ping(ctx); err != nil {
			logger.FromContext(r.Context()).Warn("health check failed",
				"check", name,
				"optional", check.Optional,
				"error", redact.Error(err))
			body.Checks[name] = HealthUnavailable
			switch {
			case !check.Optional:
				body.Status = HealthUnavailable
			case body.Status == HealthOK:
				body.Status = HealthDegraded
			}
			continue
		}
		body.Checks[name] = HealthOK
	}

	status := http.StatusOK
	if body.Status == HealthUnavailable {
		status = http.StatusServiceUnavailable
	}
	shared.RespondWithJSON(w, r, status, body)
}
