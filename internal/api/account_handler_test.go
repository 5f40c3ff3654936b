package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/phrazzld/workforce-api/internal/mapper"
	"github.com/phrazzld/workforce-api/internal/mocks"
	"github.com/phrazzld/workforce-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionCookie = "workforce_session"

func newAccountHandler(employees *mocks.MockEmployeeService, jwt *mocks.MockJWTService) *AccountHandler {
	h := NewAccountHandler(employees, jwt, sessionCookie, discardLogger())
	h.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	return h
}

func TestAccountHandler_Login(t *testing.T) {
	t.Parallel()

	grace := &mapper.EmployeeDTO{ID: 2, FirstName: "Grace", LastName: "Hopper", Role: "Employee", Email: "grace@example.com"}

	t.Run("sets the session cookie", func(t *testing.T) {
		var issuedFor *domain.Employee
		jwt := &mocks.MockJWTService{
			TTL: 8 * time.Hour,
			GenerateTokenFn: func(_ context.Context, e *domain.Employee) (string, error) {
				issuedFor = e
				return "signed-token", nil
			},
		}
		employees := &mocks.MockEmployeeService{
			AuthenticateFn: func(_ context.Context, email, password string) service.Response[*mapper.EmployeeDTO] {
				assert.Equal(t, "grace@example.com", email)
				assert.Equal(t, "grace-pass", password)
				return service.OK(grace, "Login successful")
			},
		}
		h := newAccountHandler(employees, jwt)

		rec := serve(t, http.HandlerFunc(h.Login),
			request(http.MethodPost, "/Account/Login", `{"email":"grace@example.com","password":"grace-pass"}`, nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, issuedFor)
		assert.Equal(t, domain.RoleEmployee, issuedFor.Role)
		assert.Equal(t, int64(2), issuedFor.ID)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, sessionCookie, c.Name)
		assert.Equal(t, "signed-token", c.Value)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, 8*3600, c.MaxAge)
		assert.Equal(t, "/", c.Path)

		var body struct {
			Success bool        `json:"success"`
			Data    LoginResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, "grace@example.com", body.Data.Employee.Email)
		assert.Equal(t, time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC), body.Data.ExpiresAt)
		assert.NotContains(t, rec.Body.String(), "signed-token")
	})

	t.Run("rejected credentials", func(t *testing.T) {
		employees := &mocks.MockEmployeeService{
			AuthenticateFn: func(context.Context, string, string) service.Response[*mapper.EmployeeDTO] {
				return service.Fail[*mapper.EmployeeDTO](service.OutcomeUnauthorized, service.MsgInvalidCredentials)
			},
		}
		h := newAccountHandler(employees, &mocks.MockJWTService{})

		rec := serve(t, http.HandlerFunc(h.Login),
			request(http.MethodPost, "/Account/Login", `{"email":"grace@example.com","password":"wrong"}`, nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), service.MsgInvalidCredentials)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("malformed body", func(t *testing.T) {
		h := newAccountHandler(&mocks.MockEmployeeService{}, &mocks.MockJWTService{})

		tests := map[string]string{
			"not json":      `{"email":`,
			"invalid email": `{"email":"grace","password":"x"}`,
			"no password":   `{"email":"grace@example.com"}`,
		}
		for name, body := range tests {
			rec := serve(t, http.HandlerFunc(h.Login), request(http.MethodPost, "/Account/Login", body, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code, name)
		}
	})

	t.Run("token signing fails", func(t *testing.T) {
		employees := &mocks.MockEmployeeService{
			AuthenticateFn: func(context.Context, string, string) service.Response[*mapper.EmployeeDTO] {
				return service.OK(grace, "Login successful")
			},
		}
		h := newAccountHandler(employees, &mocks.MockJWTService{Err: errors.New("hmac failure")})

		rec := serve(t, http.HandlerFunc(h.Login),
			request(http.MethodPost, "/Account/Login", `{"email":"grace@example.com","password":"grace-pass"}`, nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "hmac")
		assert.Empty(t, rec.Result().Cookies())
	})
}

func TestAccountHandler_Logout(t *testing.T) {
	t.Parallel()

	h := newAccountHandler(&mocks.MockEmployeeService{}, &mocks.MockJWTService{})

	rec := serve(t, http.HandlerFunc(h.Logout), request(http.MethodPost, "/Account/Logout", "", employee))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookie, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
