package auth

import (
	"context"
	"testing"
	"time"

	"fleetmaster/internal/domain/models"
	"fleetmaster/pkg/uuid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users    map[uuid.UUID]*models.User
	profiles map[uuid.UUID]*models.Profile
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    make(map[uuid.UUID]*models.User),
		profiles: make(map[uuid.UUID]*models.Profile),
	}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *models.User) (uuid.UUID, error) {
	id := uuid.New()
	stored := *user
	stored.ID = id
	f.users[id] = &stored
	return id, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, userID uuid.UUID) (*models.User, error) {
	return f.users[userID], nil
}

func (f *fakeUserRepo) CreateProfile(_ context.Context, profile *models.Profile) (uuid.UUID, error) {
	id := uuid.New()
	stored := *profile
	stored.ID = id
	f.profiles[profile.UserID] = &stored
	return id, nil
}

func (f *fakeUserRepo) GetProfileByUserID(_ context.Context, userID uuid.UUID) (*models.Profile, error) {
	return f.profiles[userID], nil
}

type fakeRefreshRepo struct {
	records map[uuid.UUID]*models.RefreshTokenRecord
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{records: make(map[uuid.UUID]*models.RefreshTokenRecord)}
}

func (f *fakeRefreshRepo) Save(_ context.Context, record *models.RefreshTokenRecord) error {
	stored := *record
	f.records[record.ID] = &stored
	return nil
}

func (f *fakeRefreshRepo) Get(_ context.Context, tokenID uuid.UUID) (*models.RefreshTokenRecord, error) {
	return f.records[tokenID], nil
}

func (f *fakeRefreshRepo) MarkUsed(_ context.Context, tokenID uuid.UUID) error {
	if rec, ok := f.records[tokenID]; ok {
		rec.Revoked = true
	}
	return nil
}

func (f *fakeRefreshRepo) RevokeAllForSubject(_ context.Context, subjectID uuid.UUID) error {
	for _, rec := range f.records {
		if rec.SubjectID == subjectID {
			rec.Revoked = true
		}
	}
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func newTestTokenService(users *fakeUserRepo, refresh *fakeRefreshRepo) *TokenService {
	return NewTokenService("test-secret", users, refresh, fakeTxManager{}, 24*time.Hour, time.Hour, nil)
}

func newTestUser(users *fakeUserRepo) *models.User {
	user := &models.User{Name: "Ava Owner", Email: "ava@example.com"}
	id, _ := users.CreateUser(context.Background(), user)
	return users.users[id]
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	users := newFakeUserRepo()
	refresh := newFakeRefreshRepo()
	svc := newTestTokenService(users, refresh)
	user := newTestUser(users)

	pair, err := svc.GenerateTokens(context.Background(), user)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.Validate(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.AccessToken, claims.TokenType)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.False(t, claims.TokenID.IsNil())
}

func TestGenerateTokensPersistsRefreshRecord(t *testing.T) {
	users := newFakeUserRepo()
	refresh := newFakeRefreshRepo()
	svc := newTestTokenService(users, refresh)
	user := newTestUser(users)

	pair, err := svc.GenerateTokens(context.Background(), user)
	require.NoError(t, err)

	claims, err := svc.Validate(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, models.RefreshToken, claims.TokenType)

	rec, err := refresh.Get(context.Background(), claims.TokenID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, user.ID, rec.SubjectID)
	assert.False(t, rec.Revoked)
}

func TestRefreshRotatesTokenPair(t *testing.T) {
	users := newFakeUserRepo()
	refresh := newFakeRefreshRepo()
	svc := newTestTokenService(users, refresh)
	user := newTestUser(users)

	pair, err := svc.GenerateTokens(context.Background(), user)
	require.NoError(t, err)

	oldClaims, err := svc.Validate(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	newPair, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, newPair.RefreshToken)

	// The presented refresh token is revoked during rotation.
	rec, err := refresh.Get(context.Background(), oldClaims.TokenID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, rec.Revoked)

	// Replaying the rotated token fails.
	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	users := newFakeUserRepo()
	refresh := newFakeRefreshRepo()
	svc := newTestTokenService(users, refresh)
	user := newTestUser(users)

	pair, err := svc.GenerateTokens(context.Background(), user)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := newTestTokenService(newFakeUserRepo(), newFakeRefreshRepo())

	for _, token := range []string{"", "not.a.jwt", "a.b.c"} {
		if _, err := svc.Validate(context.Background(), token); err == nil {
			t.Errorf("expected validation to fail for %q", token)
		}
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	users := newFakeUserRepo()
	refresh := newFakeRefreshRepo()
	svc := newTestTokenService(users, refresh)
	user := newTestUser(users)

	pair, err := svc.GenerateTokens(context.Background(), user)
	require.NoError(t, err)

	other := NewTokenService("other-secret", users, refresh, fakeTxManager{}, 24*time.Hour, time.Hour, nil)
	_, err = other.Validate(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	users := newFakeUserRepo()
	refresh := newFakeRefreshRepo()
	svc := NewTokenService("test-secret", users, refresh, fakeTxManager{}, 24*time.Hour, -time.Minute, nil)
	user := newTestUser(users)

	pair, err := svc.GenerateTokens(context.Background(), user)
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), pair.AccessToken)
	require.Error(t, err)
}
