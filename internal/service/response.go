package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/redact"
	"github.com/phrazzld/workforce-api/internal/store"
)

// Outcome classifies a service result so the API layer can pick a status
// code without inspecting errors.
type Outcome int

// Outcomes.
const (
	OutcomeOK Outcome = iota
	OutcomeValidation
	OutcomeNotFound
	OutcomeConflict
	OutcomeStale
	OutcomeUnauthorized
	OutcomeForbidden
	OutcomeFailure
)

var outcomeNames = [...]string{
	OutcomeOK:           "ok",
	OutcomeValidation:   "validation",
	OutcomeNotFound:     "not_found",
	OutcomeConflict:     "conflict",
	OutcomeStale:        "stale",
	OutcomeUnauthorized: "unauthorized",
	OutcomeForbidden:    "forbidden",
	OutcomeFailure:      "failure",
}

func (o Outcome) String() string {
	if o >= 0 && int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Response is the envelope every service operation returns. Expected
// failures (validation, not found, conflicts) are reported here rather
// than as errors.
type Response[T any] struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Data    T       `json:"data"`
	Outcome Outcome `json:"-"`
}

// OK builds a successful response.
func OK[T any](data T, message string) Response[T] {
	return Response[T]{Success: true, Message: message, Data: data, Outcome: OutcomeOK}
}

// Fail builds a failed response with the zero value as data.
func Fail[T any](outcome Outcome, message string) Response[T] {
	return Response[T]{Success: false, Message: message, Outcome: outcome}
}

// NotFound builds a not-found response.
func NotFound[T any](format string, args ...any) Response[T] {
	return Fail[T](OutcomeNotFound, fmt.Sprintf(format, args...))
}

// fromError converts err into a failed response. Validation errors carry
// their own message; anything unexpected is logged and reported with a
// generic message naming the operation.
func fromError[T any](ctx context.Context, log *slog.Logger, op string, err error) Response[T] {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		log.DebugContext(ctx, "validation failed",
			"operation", op,
			"field", ve.Field,
			"error", ve.Message)
		return Fail[T](OutcomeValidation, ve.Message)
	case errors.Is(err, store.ErrInvalidEntity):
		log.WarnContext(ctx, "database rejected row",
			"operation", op,
			"error", redact.Error(err))
		return Fail[T](OutcomeValidation, MsgInvalidData)
	case errors.Is(err, store.ErrVersionConflict):
		log.InfoContext(ctx, "optimistic concurrency conflict", "operation", op)
		return Fail[T](OutcomeStale, MsgVersionConflict)
	case errors.Is(err, store.ErrEmailExists):
		return Fail[T](OutcomeConflict, MsgEmailExists)
	case errors.Is(err, context.Canceled):
		log.InfoContext(ctx, "request cancelled", "operation", op)
		return Fail[T](OutcomeFailure, "Error "+op+".")
	default:
		log.ErrorContext(ctx, "operation failed",
			"operation", op,
			"error", redact.Error(err))
		return Fail[T](OutcomeFailure, "Error "+op+".")
	}
}
