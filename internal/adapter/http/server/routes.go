package server

import (
	"net/http"

	"fleetmaster/internal/adapter/http/middleware"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	// System health
	mux.HandleFunc("/health", routes.health.HealthCheck)

	setupSwaggerRoutes(mux)
	setupMetricsRoute(mux)

	setupAuthRoutes(mux, routes, m)
	setupDriverAuthRoutes(mux, routes, m)
	setupFleetRoutes(mux, routes, m)
}

func setupAuthRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.HandleFunc("POST /auth/register", routes.auth.Register)
	mux.HandleFunc("POST /auth/login", routes.auth.Login)
	mux.HandleFunc("POST /auth/refresh", routes.auth.Refresh)
	mux.Handle("POST /auth/logout", m.RequireOwner(routes.auth.Logout))
	mux.Handle("GET /auth/me", m.RequireOwner(routes.auth.Me))
}

func setupDriverAuthRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.HandleFunc("POST /driver-auth/login", routes.driverAuth.Login)
	mux.HandleFunc("POST /driver-auth/refresh", routes.driverAuth.Refresh)
	mux.Handle("GET /driver-auth/me", m.RequireDriver(routes.driverAuth.Me))

	mux.Handle("POST /drivers/me/shifts/start", m.RequireDriver(routes.driverAuth.StartShift))
	mux.Handle("POST /drivers/me/shifts/end", m.RequireDriver(routes.driverAuth.EndShift))
	mux.Handle("GET /drivers/me/missing-shifts", m.RequireDriver(routes.driverAuth.MissingShifts))
}

// setupFleetRoutes setups the owner-facing CRUD and analytics routes.
func setupFleetRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("POST /vehicles", m.RequireOwner(routes.vehicle.Create))
	mux.Handle("GET /vehicles", m.RequireOwner(routes.vehicle.List))
	mux.Handle("GET /vehicles/{id}", m.RequireOwner(routes.vehicle.Get))
	mux.Handle("PUT /vehicles/{id}", m.RequireOwner(routes.vehicle.Update))
	mux.Handle("DELETE /vehicles/{id}", m.RequireOwner(routes.vehicle.Delete))

	mux.Handle("POST /drivers", m.RequireOwner(routes.driver.Create))
	mux.Handle("GET /drivers", m.RequireOwner(routes.driver.List))
	mux.Handle("GET /drivers/{id}", m.RequireOwner(routes.driver.Get))
	mux.Handle("PUT /drivers/{id}", m.RequireOwner(routes.driver.Update))
	mux.Handle("DELETE /drivers/{id}", m.RequireOwner(routes.driver.Delete))
	mux.Handle("POST /drivers/{id}/access-code", m.RequireOwner(routes.driver.RegenerateAccessCode)) // Rotate the login code

	mux.Handle("POST /maintenance", m.RequireOwner(routes.maintenance.Create))
	mux.Handle("GET /maintenance", m.RequireOwner(routes.maintenance.List))
	mux.Handle("GET /maintenance/overview", m.RequireOwner(routes.analytics.Overview))
	mux.Handle("GET /maintenance/{id}", m.RequireOwner(routes.maintenance.Get))
	mux.Handle("PUT /maintenance/{id}", m.RequireOwner(routes.maintenance.Update))
	mux.Handle("DELETE /maintenance/{id}", m.RequireOwner(routes.maintenance.Delete))

	mux.Handle("GET /ws/fleet", m.RequireOwner(routes.fleetHub.HandleWS)) // WebSocket channel for maintenance alerts
}

// setupSwaggerRoutes configures the Swagger UI endpoint
func setupSwaggerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/swagger/", httpSwagger.Handler())
}

// setupMetricsRoute configures the Prometheus metrics endpoint
func setupMetricsRoute(mux *http.ServeMux) {
	mux.Handle("/metrics", promhttp.Handler())
}
