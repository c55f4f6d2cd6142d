package driverauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleetmaster/internal/domain/models"
	"fleetmaster/internal/domain/types"
	"fleetmaster/pkg/hasher"
	"fleetmaster/pkg/logger"
	wrap "fleetmaster/pkg/logger/wrapper"
	"fleetmaster/pkg/trm"
	"fleetmaster/pkg/uuid"

	"github.com/golang-jwt/jwt/v5"
)

// DriverTokenService issues and validates the driver token family.
// Driver tokens carry the driver's id and name directly, so requests
// authenticated with them never touch the users table.
type DriverTokenService struct {
	refreshRepo RefreshTokenRepo
	txManager   trm.TxManager
	RefreshTTL  time.Duration
	AccessTTL   time.Duration
	secret      string
	log         logger.Logger
}

func NewDriverTokenService(secret string, refreshRepo RefreshTokenRepo, txManager trm.TxManager, refreshTTL, accessTTL time.Duration, log logger.Logger) *DriverTokenService {
	return &DriverTokenService{
		refreshRepo: refreshRepo,
		txManager:   txManager,
		RefreshTTL:  refreshTTL,
		AccessTTL:   accessTTL,
		secret:      secret,
		log:         log,
	}
}

// GenerateTokens creates a driver access and refresh token pair.
// The refresh token is recorded so it can be rotated and revoked, same
// as owner refresh tokens.
func (s *DriverTokenService) GenerateTokens(ctx context.Context, driver *models.Driver) (*models.TokenPair, error) {
	ctx = wrap.WithAction(ctx, "generate_driver_tokens")
	if driver == nil {
		return nil, wrap.Error(ctx, errors.New("driver is nil"))
	}

	claims := &models.DriverClaims{
		DriverID:  driver.ID,
		FirstName: driver.FirstName,
		LastName:  driver.LastName,
	}

	pair, err := s.mint(ctx, claims)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	return pair, nil
}

// mint signs a fresh pair from the subject fields of claims. Token ids
// are always newly generated, never carried over.
func (s *DriverTokenService) mint(ctx context.Context, claims *models.DriverClaims) (*models.TokenPair, error) {
	issuedAt := time.Now().UTC()
	accessID := uuid.New()
	refreshID := uuid.New()

	accessExp := issuedAt.Add(s.AccessTTL)
	refreshExp := issuedAt.Add(s.RefreshTTL)

	accessToken, err := s.signClaims(newDriverClaim(models.DriverAccessToken, claims, issuedAt, s.AccessTTL, accessID))
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.signClaims(newDriverClaim(models.DriverRefreshToken, claims, issuedAt, s.RefreshTTL, refreshID))
	if err != nil {
		return nil, err
	}

	record := &models.RefreshTokenRecord{
		ID:          refreshID,
		SubjectID:   claims.DriverID,
		SubjectKind: types.DriverSubject,
		TokenHash:   hasher.Hash(refreshToken),
		ExpiresAt:   refreshExp,
		Revoked:     false,
		CreatedAt:   issuedAt,
	}

	if err := s.refreshRepo.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist driver refresh token: %w", err)
	}

	return &models.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// Refresh rotates a driver token pair. The subject fields of the new
// pair come from the presented token's claims; only the token ids change.
func (s *DriverTokenService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	ctx = wrap.WithAction(ctx, "refresh_driver_token")

	claims, err := s.Validate(ctx, refreshToken)
	if err != nil {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	if claims.TokenType != models.DriverRefreshToken {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	var pair *models.TokenPair

	txErr := s.txManager.Do(ctx, func(txCtx context.Context) error {
		record, err := s.refreshRepo.Get(txCtx, claims.TokenID)
		if err != nil {
			return fmt.Errorf("failed to load refresh token record: %w", err)
		}

		if record == nil || record.Revoked {
			return ErrInvalidToken
		}

		now := time.Now().UTC()
		if now.After(record.ExpiresAt) {
			if err := s.refreshRepo.MarkUsed(txCtx, record.ID); err != nil {
				return fmt.Errorf("failed to revoke expired refresh token: %w", err)
			}
			return ErrExpToken
		}

		if record.TokenHash != hasher.Hash(refreshToken) {
			if err := s.refreshRepo.MarkUsed(txCtx, record.ID); err != nil {
				return fmt.Errorf("failed to revoke mismatched refresh token: %w", err)
			}
			return ErrInvalidToken
		}

		if err := s.refreshRepo.MarkUsed(txCtx, record.ID); err != nil {
			return fmt.Errorf("failed to mark refresh token as used: %w", err)
		}

		pair, err = s.mint(txCtx, claims)
		if err != nil {
			return err
		}

		return nil
	})

	if txErr != nil {
		return nil, wrap.Error(ctx, txErr)
	}

	return pair, nil
}

// Validate validates a driver JWT, returning its claims if valid.
// Owner tokens fail here on the 'token_type' check.
func (s *DriverTokenService) Validate(ctx context.Context, token string) (*models.DriverClaims, error) {
	ctx = wrap.WithAction(ctx, "validate_driver_token")

	parsedToken, err := jwt.ParseWithClaims(token, jwt.MapClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return []byte(s.secret), nil
	})
	if err != nil || !parsedToken.Valid {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	mc, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	typ, _ := mc["token_type"].(string)
	if !models.IsValidDriverTokenType(typ) {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	driverIDStr, _ := mc["driver_id"].(string)
	if driverIDStr == "" {
		return nil, wrap.Error(ctx, fmt.Errorf("invalid or missing 'driver_id' in token claims"))
	}
	driverID, err := uuid.Parse(driverIDStr)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("invalid 'driver_id' in token claims"))
	}

	tokenIDStr, _ := mc["jti"].(string)
	if tokenIDStr == "" {
		return nil, wrap.Error(ctx, fmt.Errorf("invalid or missing 'jti' in token claims"))
	}
	tokenID, err := uuid.Parse(tokenIDStr)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("invalid 'jti' in token claims"))
	}

	firstName, _ := mc["first_name"].(string)
	lastName, _ := mc["last_name"].(string)

	expFloat, ok := mc["exp"].(float64)
	if !ok {
		return nil, wrap.Error(ctx, fmt.Errorf("invalid or missing 'exp' in token claims"))
	}

	expTime := time.Unix(int64(expFloat), 0)
	if time.Now().UTC().After(expTime) {
		return nil, wrap.Error(ctx, ErrExpToken)
	}

	return &models.DriverClaims{
		DriverID:  driverID,
		TokenID:   tokenID,
		TokenType: typ,
		FirstName: firstName,
		LastName:  lastName,
		ExpiresAt: expTime,
	}, nil
}

func (s *DriverTokenService) signClaims(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func newDriverClaim(tokenType string, claims *models.DriverClaims, issuedAt time.Time, ttl time.Duration, tokenID uuid.UUID) jwt.Claims {
	return jwt.MapClaims{
		"token_type": tokenType,
		"jti":        tokenID.String(),
		"driver_id":  claims.DriverID.String(),
		"first_name": claims.FirstName,
		"last_name":  claims.LastName,
		"iat":        issuedAt.Unix(),
		"exp":        issuedAt.Add(ttl).Unix(),
	}
}
