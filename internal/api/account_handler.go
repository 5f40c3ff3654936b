package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/workforce-api/internal/api/shared"
	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/platform/logger"
	"github.com/phrazzld/workforce-api/internal/redact"
	"github.com/phrazzld/workforce-api/internal/service"
	"github.com/phrazzld/workforce-api/internal/service/auth"
)

// AccountHandler signs employees in and out with a session cookie.
type AccountHandler struct {
	employees  service.EmployeeService
	jwtService auth.JWTService
	cookieName string
	now        func() time.Time
	logger     *slog.Logger
}

// NewAccountHandler creates an AccountHandler.
func NewAccountHandler(
	employees service.EmployeeService,
	jwtService auth.JWTService,
	cookieName string,
	logger *slog.Logger,
) *AccountHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AccountHandler")
	}
	return &AccountHandler{
		employees:  employees,
		jwtService: jwtService,
		cookieName: cookieName,
		now:        time.Now,
		logger:     logger.With(slog.String("component", "account_handler")),
	}
}

// Login handles POST /Account/Login.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp := h.employees.Authenticate(r.Context(), req.Email, req.Password)
	if !resp.Success {
		logger.FromContext(r.Context()).Info("login rejected", "email", redact.Email(req.Email))
		writeFailure(w, r, resp.Outcome, resp.Message)
		return
	}

	dto := resp.Data
	token, err := h.jwtService.GenerateToken(r.Context(), &domain.Employee{
		ID:        dto.ID,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Role:      domain.Role(dto.Role),
		Email:     dto.Email,
	})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create session", err)
		return
	}

	lifetime := h.jwtService.Lifetime()
	expiresAt := h.now().UTC().Add(lifetime)
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(lifetime / time.Second),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("employee signed in", "employee_id", dto.ID, "role", dto.Role)
	shared.RespondWithJSON(w, r, http.StatusOK,
		service.OK(&LoginResult{Employee: dto, ExpiresAt: expiresAt}, "Login successful"))
}

// Logout handles POST /Account/Logout by expiring the session cookie.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	shared.RespondNoContent(w)
}
