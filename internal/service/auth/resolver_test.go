package auth

import (
	"context"
	"testing"
	"time"

	"fleetmaster/internal/domain/models"
	"fleetmaster/internal/service/driverauth"
	"fleetmaster/pkg/uuid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(users *fakeUserRepo, refresh *fakeRefreshRepo) (*IdentityResolver, *TokenService, *driverauth.DriverTokenService) {
	ownerTokens := newTestTokenService(users, refresh)
	driverTokens := driverauth.NewDriverTokenService("test-secret", refresh, fakeTxManager{}, 24*time.Hour, time.Hour, nil)
	resolver := NewIdentityResolver(ownerTokens, driverTokens, users, nil)
	return resolver, ownerTokens, driverTokens
}

func TestResolveOwnerAccessToken(t *testing.T) {
	users := newFakeUserRepo()
	refresh := newFakeRefreshRepo()
	resolver, ownerTokens, _ := newTestResolver(users, refresh)

	user := newTestUser(users)
	profileID, err := users.CreateProfile(context.Background(), &models.Profile{UserID: user.ID, Company: "Acme Logistics"})
	require.NoError(t, err)

	pair, err := ownerTokens.GenerateTokens(context.Background(), user)
	require.NoError(t, err)

	identity, err := resolver.Resolve(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.IdentityOwner, identity.Kind)
	require.NotNil(t, identity.User)
	assert.Equal(t, user.ID, identity.User.ID)
	assert.Equal(t, profileID, identity.ProfileID())
}

func TestResolveRejectsOwnerRefreshToken(t *testing.T) {
	users := newFakeUserRepo()
	refresh := newFakeRefreshRepo()
	resolver, ownerTokens, _ := newTestResolver(users, refresh)

	user := newTestUser(users)
	pair, err := ownerTokens.GenerateTokens(context.Background(), user)
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolveDriverAccessToken(t *testing.T) {
	users := newFakeUserRepo()
	refresh := newFakeRefreshRepo()
	resolver, _, driverTokens := newTestResolver(users, refresh)

	driver := &models.Driver{ID: uuid.New(), FirstName: "Miras", LastName: "Bekov"}
	pair, err := driverTokens.GenerateTokens(context.Background(), driver)
	require.NoError(t, err)

	identity, err := resolver.Resolve(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.IdentityDriver, identity.Kind)
	assert.Equal(t, driver.ID, identity.DriverID())
	assert.Nil(t, identity.User)
}

func TestResolveRejectsDriverRefreshToken(t *testing.T) {
	users := newFakeUserRepo()
	refresh := newFakeRefreshRepo()
	resolver, _, driverTokens := newTestResolver(users, refresh)

	driver := &models.Driver{ID: uuid.New(), FirstName: "Miras", LastName: "Bekov"}
	pair, err := driverTokens.GenerateTokens(context.Background(), driver)
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolveEmptyTokenIsAnonymous(t *testing.T) {
	resolver, _, _ := newTestResolver(newFakeUserRepo(), newFakeRefreshRepo())

	identity, err := resolver.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.True(t, identity.IsAnonymous())
}

func TestResolveGarbageTokenFails(t *testing.T) {
	resolver, _, _ := newTestResolver(newFakeUserRepo(), newFakeRefreshRepo())

	_, err := resolver.Resolve(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolveTokenForDeletedUserFails(t *testing.T) {
	users := newFakeUserRepo()
	refresh := newFakeRefreshRepo()
	resolver, ownerTokens, _ := newTestResolver(users, refresh)

	user := newTestUser(users)
	pair, err := ownerTokens.GenerateTokens(context.Background(), user)
	require.NoError(t, err)

	delete(users.users, user.ID)

	_, err = resolver.Resolve(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestResolveTokenForUserWithoutProfileFails(t *testing.T) {
	users := newFakeUserRepo()
	refresh := newFakeRefreshRepo()
	resolver, ownerTokens, _ := newTestResolver(users, refresh)

	// User exists but never got a profile row.
	user := newTestUser(users)
	pair, err := ownerTokens.GenerateTokens(context.Background(), user)
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
