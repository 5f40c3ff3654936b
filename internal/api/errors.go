package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/workforce-api/internal/api/shared"
	"github.com/phrazzld/workforce-api/internal/service"
)

// StatusForOutcome maps a service outcome to the HTTP status code returned
// to clients. A duplicate email is reported as a plain bad request; only a
// concurrent task edit yields 409.
func StatusForOutcome(o service.Outcome) int {
	switch o {
	case service.OutcomeOK:
		return http.StatusOK
	case service.OutcomeValidation, service.OutcomeConflict:
		return http.StatusBadRequest
	case service.OutcomeNotFound:
		return http.StatusNotFound
	case service.OutcomeStale:
		return http.StatusConflict
	case service.OutcomeUnauthorized:
		return http.StatusUnauthorized
	case service.OutcomeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeResponse renders a service envelope. Successful results are written
// with status, or as an empty body when status is 204. Failures become an
// ErrorResponse carrying the envelope's message.
func writeResponse[T any](w http.ResponseWriter, r *http.Request, status int, resp service.Response[T]) {
	if !resp.Success {
		writeFailure(w, r, resp.Outcome, resp.Message)
		return
	}
	if status == http.StatusNoContent {
		shared.RespondNoContent(w)
		return
	}
	shared.RespondWithJSON(w, r, status, resp)
}

func writeFailure(w http.ResponseWriter, r *http.Request, o service.Outcome, message string) {
	var opts []shared.ResponseOption
	if o == service.OutcomeUnauthorized || o == service.OutcomeForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	if message == "" {
		message = http.StatusText(StatusForOutcome(o))
	}
	shared.RespondWithErrorAndLog(w, r, StatusForOutcome(o), message, nil, opts...)
}

// SanitizeValidationError turns a request validation failure into a client
// message naming the first offending field. Errors from validator are the
// only ones inspected; anything else yields a generic message.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request body"
	}
	fe := verrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), validationTagMessage(fe.Tag()))
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
