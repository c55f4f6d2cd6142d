package driverauth

import (
	"context"
	"time"

	"fleetmaster/internal/domain/models"
	"fleetmaster/pkg/uuid"
)

type DriverRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Driver, error)
	FindByCredentials(ctx context.Context, firstName, lastName string, dateOfBirth time.Time, accessCode string) ([]models.Driver, error)
}

type RefreshTokenRepo interface {
	Save(ctx context.Context, record *models.RefreshTokenRecord) error
	Get(ctx context.Context, tokenID uuid.UUID) (*models.RefreshTokenRecord, error)
	MarkUsed(ctx context.Context, tokenID uuid.UUID) error
}

// Throttle limits failed login attempts per credential key.
type Throttle interface {
	Allowed(key string) bool
	Fail(key string)
	Reset(key string)
}

type DriverTokenProvider interface {
	GenerateTokens(ctx context.Context, driver *models.Driver) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Validate(ctx context.Context, token string) (*models.DriverClaims, error)
}
