package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/workforce-api/internal/api"
	apiMiddleware "github.com/phrazzld/workforce-api/internal/api/middleware"
	"github.com/phrazzld/workforce-api/internal/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupRouter registers every route with its middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(apiMiddleware.Metrics)

	accountHandler := api.NewAccountHandler(app.employeeService, app.jwtService, app.config.Auth.CookieName, app.logger)
	employeeHandler := api.NewEmployeeHandler(app.employeeService, app.taskService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.config.Auth.CookieName)

	adminOnly := apiMiddleware.RequireRole(domain.RoleAdmin)
	taskManagers := apiMiddleware.RequireRole(domain.RoleAdmin, domain.RoleManager)

	r.Method(http.MethodGet, "/health", api.NewHealthHandler(app.healthChecks, 0))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/Account", func(r chi.Router) {
		r.Post("/Login", accountHandler.Login)
		r.Post("/Logout", accountHandler.Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Route("/api/employees", func(r chi.Router) {
			r.Get("/", employeeHandler.List)
			r.Get("/{id}", employeeHandler.Get)
			r.Get("/{id}/tasks", employeeHandler.Tasks)

			r.With(adminOnly).Post("/", employeeHandler.Create)
			r.With(adminOnly).Put("/{id}", employeeHandler.Update)
			r.With(adminOnly).Delete("/{id}", employeeHandler.Delete)
		})

		r.Route("/api/Tasks", func(r chi.Router) {
			r.Get("/", taskHandler.List)
			r.Get("/{id}", taskHandler.Get)
			r.Patch("/{id}/status", taskHandler.UpdateStatus)

			r.With(taskManagers).Post("/", taskHandler.Create)
			r.With(taskManagers).Put("/{id}", taskHandler.Update)
			r.With(taskManagers).Delete("/{id}", taskHandler.Delete)
			r.With(taskManagers).Post("/{id}/send-reminder", taskHandler.SendReminder)
		})
	})

	return r
}
