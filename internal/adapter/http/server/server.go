package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fleetmaster/config"
	"fleetmaster/internal/adapter/http/handler"
	"fleetmaster/internal/adapter/http/middleware"
	wshandler "fleetmaster/internal/adapter/http/ws"
	"fleetmaster/pkg/logger"
	wrap "fleetmaster/pkg/logger/wrapper"
)

const serverIPAddress = "%s:%s"

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	cfg  config.Config
	log  logger.Logger
}

type handlers struct {
	auth        *handler.Auth
	driverAuth  *handler.DriverAuth
	vehicle     *handler.Vehicle
	driver      *handler.Driver
	maintenance *handler.Maintenance
	analytics   *handler.Analytics
	health      *handler.Health
	fleetHub    *wshandler.FleetHub
}

type Services struct {
	Auth         handler.AuthService
	OwnerTokens  handler.TokenService
	DriverAuth   handler.DriverAuthService
	DriverTokens handler.DriverTokenService
	Fleet        FleetService
	Shifts       handler.ShiftService
	Reports      handler.ShiftReporter
	Analytics    handler.AnalyticsService
	Identity     middleware.IdentityService
}

// FleetService bundles the owner-facing CRUD surfaces that all live on
// one service implementation.
type FleetService interface {
	handler.VehicleService
	handler.FleetDriverService
	handler.MaintenanceService
}

func New(cfg config.Config, services Services, fleetHub *wshandler.FleetHub, log logger.Logger) (*API, error) {
	if services.Identity == nil {
		return nil, errors.New("identity service is required")
	}

	addr := fmt.Sprintf(serverIPAddress, "0.0.0.0", cfg.Server.Port)

	routes := &handlers{
		auth:        handler.NewAuth(services.Auth, services.OwnerTokens, log),
		driverAuth:  handler.NewDriverAuth(services.DriverAuth, services.DriverTokens, services.Shifts, services.Reports, log),
		vehicle:     handler.NewVehicle(services.Fleet, log),
		driver:      handler.NewDriver(services.Fleet, log),
		maintenance: handler.NewMaintenance(services.Fleet, log),
		analytics:   handler.NewAnalytics(services.Analytics, log),
		health:      handler.NewHealth("fleetmaster", log),
		fleetHub:    fleetHub,
	}

	mid := middleware.NewMiddleware(services.Identity, log)

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      mid,
		addr:   addr,
		cfg:    cfg,
		log:    log,
	}

	api.server = &http.Server{
		Addr:    api.addr,
		Handler: api.withMiddleware(),
	}

	setupRoutes(api.mux, api.routes, api.m)

	return api, nil
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

// withMiddleware applies middlewares to the mux
func (a *API) withMiddleware() http.Handler {
	return a.m.Recover(a.m.RequestID(a.m.Metrics(a.m.Logging(a.m.Auth(a.mux)))))
}
