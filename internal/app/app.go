package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleetmaster/config"
	httpserver "fleetmaster/internal/adapter/http/server"
	wshandler "fleetmaster/internal/adapter/http/ws"
	"fleetmaster/internal/adapter/postgres"
	rabbitadapter "fleetmaster/internal/adapter/rabbit"
	"fleetmaster/internal/service/analytics"
	"fleetmaster/internal/service/auth"
	"fleetmaster/internal/service/driverauth"
	"fleetmaster/internal/service/fleet"
	"fleetmaster/pkg/logger"
	postgresclient "fleetmaster/pkg/postgres"
	rabbitclient "fleetmaster/pkg/rabbit"
	"fleetmaster/pkg/ratelimit"
	"fleetmaster/pkg/trm"
	ws "fleetmaster/pkg/wshub"
)

type App struct {
	postgresDB *postgresclient.PostgreDB
	rabbitMQ   *rabbitclient.RabbitMQ
	connHub    *ws.ConnectionHub
	httpServer *httpserver.API

	cfg config.Config
	log logger.Logger
}

func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	db, err := postgresclient.New(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	rabbitMQ, err := rabbitclient.New(ctx, cfg.RabbitMQ.GetDSN(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	txManager := trm.New(db.Pool)

	// repositories
	userRepo := postgres.NewUserRepo(db.Pool)
	refreshRepo := postgres.NewRefreshTokenRepo(db.Pool)
	vehicleRepo := postgres.NewVehicleRepo(db.Pool)
	driverRepo := postgres.NewDriverRepo(db.Pool)
	maintenanceRepo := postgres.NewMaintenanceRepo(db.Pool)
	shiftRepo := postgres.NewShiftRepo(db.Pool)
	analyticsRepo := postgres.NewAnalyticsRepo(db.Pool)

	// messaging
	producer := rabbitadapter.NewFleetProducer(rabbitMQ)
	if err := producer.Setup(ctx); err != nil {
		return nil, fmt.Errorf("failed to setup fleet producer: %w", err)
	}

	connHub := ws.NewConnHub(log)

	// services
	tokenSvc := auth.NewTokenService(cfg.Auth.JWTSecret, userRepo, refreshRepo, txManager, cfg.Auth.RefreshTokenTTL, cfg.Auth.AccessTokenTTL, log)
	authSvc := auth.NewAuthService(userRepo, refreshRepo, tokenSvc, txManager, log)

	driverTokenSvc := driverauth.NewDriverTokenService(cfg.Auth.JWTSecret, refreshRepo, txManager, cfg.Auth.DriverRefreshTokenTTL, cfg.Auth.DriverAccessTokenTTL, log)
	throttle := ratelimit.New(cfg.Throttle.Limit, cfg.Throttle.Window)
	driverAuthSvc := driverauth.NewDriverAuthService(driverRepo, driverTokenSvc, throttle, log)

	resolver := auth.NewIdentityResolver(tokenSvc, driverTokenSvc, userRepo, log)

	fleetSvc := fleet.New(vehicleRepo, driverRepo, maintenanceRepo, shiftRepo, producer, connHub, txManager, log)
	analyticsSvc := analytics.New(analyticsRepo, vehicleRepo, shiftRepo, log)

	services := httpserver.Services{
		Auth:         authSvc,
		OwnerTokens:  tokenSvc,
		DriverAuth:   driverAuthSvc,
		DriverTokens: driverTokenSvc,
		Fleet:        fleetSvc,
		Shifts:       fleetSvc,
		Reports:      analyticsSvc,
		Analytics:    analyticsSvc,
		Identity:     resolver,
	}

	fleetHub := wshandler.NewFleetHub(connHub, log)

	server, err := httpserver.New(cfg, services, fleetHub, log)
	if err != nil {
		return nil, fmt.Errorf("failed to init http server: %w", err)
	}

	return &App{
		postgresDB: db,
		rabbitMQ:   rabbitMQ,
		connHub:    connHub,
		httpServer: server,
		cfg:        cfg,
		log:        log,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	defer func() {
		a.close(ctx)
		a.log.Info(ctx, "application closed")
	}()

	errCh := make(chan error, 1)
	a.httpServer.Run(ctx, errCh)

	// Waiting signal
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	a.log.Info(ctx, "application started")
	select {
	case errRun := <-errCh:
		return errRun
	case sig := <-shutdownCh:
		a.log.Info(ctx, "shutting down application", "signal", sig.String())
		return nil
	}
}

func (a *App) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.log.Error(ctx, "failed to shutdown HTTP server", err)
	}

	a.connHub.Close()

	if err := a.rabbitMQ.Close(ctx); err != nil {
		a.log.Error(ctx, "failed to close rabbitmq connection", err)
	}

	a.postgresDB.Pool.Close()
}
