package middleware

import (
	"context"

	"fleetmaster/internal/domain/models"
	"fleetmaster/pkg/logger"
)

type (
	// IdentityService resolves a bearer token into a request identity.
	IdentityService interface {
		Resolve(ctx context.Context, token string) (models.Identity, error)
	}

	Middleware struct {
		identity IdentityService
		log      logger.Logger
	}
)

func NewMiddleware(identity IdentityService, log logger.Logger) *Middleware {
	return &Middleware{
		identity: identity,
		log:      log,
	}
}
