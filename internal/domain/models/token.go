package models

import (
	"time"

	"fleetmaster/internal/domain/types"
	"fleetmaster/pkg/uuid"
)

// Token type tags. Owner and driver tokens share the signing key but
// carry disjoint claim shapes, so the tags never overlap.
const (
	AccessToken  = "access"
	RefreshToken = "refresh"

	DriverAccessToken  = "driver_access"
	DriverRefreshToken = "driver_refresh"
)

// IsValidOwnerTokenType reports whether typ belongs to the owner family.
func IsValidOwnerTokenType(typ string) bool {
	return typ == AccessToken || typ == RefreshToken
}

// IsValidDriverTokenType reports whether typ belongs to the driver family.
func IsValidDriverTokenType(typ string) bool {
	return typ == DriverAccessToken || typ == DriverRefreshToken
}

type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// OwnerClaims is the validated claim set of an owner token.
type OwnerClaims struct {
	UserID    uuid.UUID
	TokenID   uuid.UUID
	TokenType string
	Email     string
	ExpiresAt time.Time
}

// DriverClaims is the validated claim set of a driver token.
// Driver tokens never resolve to a user identity.
type DriverClaims struct {
	DriverID  uuid.UUID
	TokenID   uuid.UUID
	TokenType string
	FirstName string
	LastName  string
	ExpiresAt time.Time
}

// RefreshTokenRecord is the stored (blacklistable) side of a refresh
// token, keyed by its jti. Both owner and driver refresh tokens are
// recorded here.
type RefreshTokenRecord struct {
	ID          uuid.UUID
	SubjectID   uuid.UUID
	SubjectKind types.SubjectKind
	TokenHash   string
	ExpiresAt   time.Time
	Revoked     bool
	CreatedAt   time.Time
	LastUsed    *time.Time
}
