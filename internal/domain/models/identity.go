package models

import (
	"context"

	"fleetmaster/pkg/uuid"
)

// IdentityKind tags the variant of a resolved request identity.
type IdentityKind int

const (
	IdentityAnonymous IdentityKind = iota
	IdentityOwner
	IdentityDriver
)

// Identity is the tagged union of possible request identities. An owner
// request never carries driver claims and a driver request never
// carries a user; authorization matches on Kind, not on nil checks.
type Identity struct {
	Kind IdentityKind

	// set when Kind == IdentityOwner
	User    *User
	Profile *Profile

	// set when Kind == IdentityDriver
	Driver *DriverClaims
}

func AnonymousIdentity() Identity {
	return Identity{Kind: IdentityAnonymous}
}

func OwnerIdentity(user *User, profile *Profile) Identity {
	return Identity{Kind: IdentityOwner, User: user, Profile: profile}
}

func DriverIdentity(claims *DriverClaims) Identity {
	return Identity{Kind: IdentityDriver, Driver: claims}
}

func (i Identity) IsAnonymous() bool {
	return i.Kind == IdentityAnonymous
}

// ProfileID returns the owner's profile id, or uuid.Nil for non-owner identities.
func (i Identity) ProfileID() uuid.UUID {
	if i.Kind == IdentityOwner && i.Profile != nil {
		return i.Profile.ID
	}
	return uuid.Nil
}

// DriverID returns the driver id, or uuid.Nil for non-driver identities.
func (i Identity) DriverID() uuid.UUID {
	if i.Kind == IdentityDriver && i.Driver != nil {
		return i.Driver.DriverID
	}
	return uuid.Nil
}

type identityCtxKey struct{}

var identityKey = identityCtxKey{}

// WithIdentity attaches the resolved identity to the request context.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the identity stored in the context.
// A request that never went through the resolver reads as anonymous.
func IdentityFromContext(ctx context.Context) Identity {
	if identity, ok := ctx.Value(identityKey).(Identity); ok {
		return identity
	}
	return AnonymousIdentity()
}
