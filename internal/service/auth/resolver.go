package auth

import (
	"context"

	"fleetmaster/internal/domain/models"
	"fleetmaster/pkg/logger"
	wrap "fleetmaster/pkg/logger/wrapper"
)

// IdentityResolver turns a bearer token into a request identity.
// Owner validation always runs first; only when the token fails the
// owner claim shape is the driver family tried. A missing token
// resolves to the anonymous identity, not an error.
type IdentityResolver struct {
	ownerTokens  TokenProvider
	driverTokens DriverTokenValidator
	userRepo     UserRepo
	log          logger.Logger
}

func NewIdentityResolver(ownerTokens TokenProvider, driverTokens DriverTokenValidator, userRepo UserRepo, log logger.Logger) *IdentityResolver {
	return &IdentityResolver{
		ownerTokens:  ownerTokens,
		driverTokens: driverTokens,
		userRepo:     userRepo,
		log:          log,
	}
}

func (r *IdentityResolver) Resolve(ctx context.Context, token string) (models.Identity, error) {
	ctx = wrap.WithAction(ctx, "resolve_identity")

	if token == "" {
		return models.AnonymousIdentity(), nil
	}

	if claims, err := r.ownerTokens.Validate(ctx, token); err == nil {
		if claims.TokenType != models.AccessToken {
			return models.AnonymousIdentity(), ErrInvalidToken
		}
		return r.ownerIdentity(ctx, claims)
	}

	claims, err := r.driverTokens.Validate(ctx, token)
	if err != nil {
		return models.AnonymousIdentity(), ErrInvalidToken
	}

	if claims.TokenType != models.DriverAccessToken {
		return models.AnonymousIdentity(), ErrInvalidToken
	}

	return models.DriverIdentity(claims), nil
}

func (r *IdentityResolver) ownerIdentity(ctx context.Context, claims *models.OwnerClaims) (models.Identity, error) {
	user, err := r.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return models.AnonymousIdentity(), wrap.Error(ctx, err)
	}

	// Token outlived its account.
	if user == nil {
		return models.AnonymousIdentity(), ErrInvalidToken
	}

	profile, err := r.userRepo.GetProfileByUserID(ctx, claims.UserID)
	if err != nil {
		return models.AnonymousIdentity(), wrap.Error(ctx, err)
	}

	// An owner without a profile cannot be scoped to anything.
	if profile == nil {
		return models.AnonymousIdentity(), ErrInvalidToken
	}

	return models.OwnerIdentity(user, profile), nil
}
