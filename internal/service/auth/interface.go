package auth

import (
	"context"

	"fleetmaster/internal/domain/models"
	"fleetmaster/pkg/uuid"
)

type UserRepo interface {
	CreateUser(ctx context.Context, user *models.User) (uuid.UUID, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	CreateProfile(ctx context.Context, profile *models.Profile) (uuid.UUID, error)
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

type RefreshTokenRepo interface {
	Save(ctx context.Context, record *models.RefreshTokenRecord) error
	Get(ctx context.Context, tokenID uuid.UUID) (*models.RefreshTokenRecord, error)
	MarkUsed(ctx context.Context, tokenID uuid.UUID) error
	RevokeAllForSubject(ctx context.Context, subjectID uuid.UUID) error
}

type TokenProvider interface {
	GenerateTokens(ctx context.Context, user *models.User) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Validate(ctx context.Context, token string) (*models.OwnerClaims, error)
}

// DriverTokenValidator lets the identity resolver fall back to the
// driver token family after an owner parse fails.
type DriverTokenValidator interface {
	Validate(ctx context.Context, token string) (*models.DriverClaims, error)
}
