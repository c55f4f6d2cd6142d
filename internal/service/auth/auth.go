package auth

import (
	"context"
	"fmt"

	"fleetmaster/internal/domain/models"
	"fleetmaster/pkg/logger"
	wrap "fleetmaster/pkg/logger/wrapper"
	"fleetmaster/pkg/metrics"
	"fleetmaster/pkg/passhash"
	"fleetmaster/pkg/trm"
	"fleetmaster/pkg/uuid"
)

type AuthService struct {
	userRepo     UserRepo
	refreshRepo  RefreshTokenRepo
	tokenService TokenProvider
	txManager    trm.TxManager
	log          logger.Logger
}

func NewAuthService(userRepo UserRepo, refreshRepo RefreshTokenRepo, tokenService TokenProvider, txManager trm.TxManager, log logger.Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		refreshRepo:  refreshRepo,
		tokenService: tokenService,
		txManager:    txManager,
		log:          log,
	}
}

// Register creates a new owner account together with its fleet profile.
// Both rows are written in one transaction so a half-created account
// cannot exist.
func (s *AuthService) Register(ctx context.Context, req *models.UserCreateRequest) (uuid.UUID, error) {
	ctx = wrap.WithAction(ctx, "owner_register")

	existing, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error(ctx, "Failed to check email uniqueness", err)
		return uuid.Nil, ErrUnexpected
	}

	if existing != nil {
		return uuid.Nil, ErrNotUniqueEmail
	}

	hashPassword, err := passhash.HashPassword(req.Password)
	if err != nil {
		s.log.Error(ctx, "Failed to generate hash from password", err)
		return uuid.Nil, ErrUnexpected
	}

	newUser := models.User{
		Name:  req.Name,
		Email: req.Email,
	}
	newUser.SetPassword(hashPassword)

	var userID uuid.UUID

	txErr := s.txManager.Do(ctx, func(txCtx context.Context) error {
		id, err := s.userRepo.CreateUser(txCtx, &newUser)
		if err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}

		if _, err := s.userRepo.CreateProfile(txCtx, &models.Profile{
			UserID:  id,
			Company: req.Company,
		}); err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}

		userID = id
		return nil
	})
	if txErr != nil {
		s.log.Error(ctx, "Failed to register owner", txErr)
		return uuid.Nil, ErrUnexpected
	}

	return userID, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	ctx = wrap.WithAction(ctx, "owner_login")

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		metrics.RecordLoginAttempt("owner", "error")
		return nil, wrap.Error(ctx, err)
	}

	if user == nil {
		metrics.RecordLoginAttempt("owner", "failure")
		return nil, ErrInvalidCredentials
	}

	if ok, err := passhash.VerifyPassword(password, user.GetPassword()); err != nil || !ok {
		metrics.RecordLoginAttempt("owner", "failure")
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.tokenService.GenerateTokens(ctx, user)
	if err != nil {
		metrics.RecordLoginAttempt("owner", "error")
		return nil, ErrTokenGenerateFail
	}

	metrics.RecordLoginAttempt("owner", "success")
	metrics.TokensIssuedTotal.WithLabelValues("owner").Inc()

	return tokens, nil
}

// Logout revokes every live refresh token of the user. Already-issued
// access tokens stay valid until they expire.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	ctx = wrap.WithAction(ctx, "owner_logout")

	if err := s.refreshRepo.RevokeAllForSubject(ctx, userID); err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to revoke refresh tokens: %w", err))
	}

	return nil
}

// Me loads the account and profile behind validated owner claims.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, *models.Profile, error) {
	ctx = wrap.WithAction(ctx, "owner_me")

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, wrap.Error(ctx, err)
	}
	if user == nil {
		return nil, nil, ErrInvalidToken
	}

	profile, err := s.userRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, nil, wrap.Error(ctx, err)
	}

	return user, profile, nil
}
