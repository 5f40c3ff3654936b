package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp redis:6379: connection refused") }

	t.Run("all checks pass", func(t *testing.T) {
		h := NewHealthHandler(map[string]HealthCheck{"database": Required(ok), "cache": Optional(ok)}, time.Second)

		rec := serve(t, h, request(http.MethodGet, "/health", "", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","checks":{"cache":"ok","database":"ok"}}`, rec.Body.String())
	})

	t.Run("cache down degrades but stays up", func(t *testing.T) {
		h := NewHealthHandler(map[string]HealthCheck{"database": Required(ok), "cache": Optional(down)}, 0)

		rec := serve(t, h, request(http.MethodGet, "/health", "", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"degraded","checks":{"cache":"unavailable","database":"ok"}}`, rec.Body.String())
		assert.NotContains(t, rec.Body.String(), "redis:6379")
	})

	t.Run("database down is unavailable", func(t *testing.T) {
		h := NewHealthHandler(map[string]HealthCheck{"database": Required(down), "cache": Optional(down)}, 0)

		rec := serve(t, h, request(http.MethodGet, "/health", "", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"status":"unavailable","checks":{"cache":"unavailable","database":"unavailable"}}`, rec.Body.String())
	})

	t.Run("no checks", func(t *testing.T) {
		rec := serve(t, NewHealthHandler(nil, time.Second), request(http.MethodGet, "/health", "", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})
}
