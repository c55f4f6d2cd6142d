package driverauth

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"fleetmaster/internal/domain/models"
	"fleetmaster/pkg/ratelimit"
	"fleetmaster/pkg/uuid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AB2345 sums to 337, so its check digit is 7.
const testAccessCode = "AB2345-7"

type fakeDriverRepo struct {
	drivers []models.Driver
}

func (f *fakeDriverRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Driver, error) {
	for i := range f.drivers {
		if f.drivers[i].ID == id {
			return &f.drivers[i], nil
		}
	}
	return nil, nil
}

func (f *fakeDriverRepo) FindByCredentials(_ context.Context, firstName, lastName string, dateOfBirth time.Time, accessCode string) ([]models.Driver, error) {
	var matches []models.Driver
	for _, d := range f.drivers {
		if d.FirstName == firstName && d.LastName == lastName && d.DateOfBirth.Equal(dateOfBirth) && d.AccessCode == accessCode {
			matches = append(matches, d)
		}
	}
	return matches, nil
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

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestDriver() models.Driver {
	return models.Driver{
		ID:          uuid.New(),
		ProfileID:   uuid.New(),
		FirstName:   "Marta",
		LastName:    "Kovacs",
		DateOfBirth: time.Date(1990, time.March, 14, 0, 0, 0, 0, time.UTC),
		AccessCode:  testAccessCode,
	}
}

func newTestService(drivers ...models.Driver) (*DriverAuthService, *DriverTokenService, *ratelimit.Limiter) {
	repo := &fakeDriverRepo{drivers: drivers}
	tokens := NewDriverTokenService("test-secret", newFakeRefreshRepo(), fakeTxManager{}, 24*time.Hour, time.Hour, nil)
	limiter := ratelimit.NewWithClock(10, 15*time.Minute, &fakeClock{now: time.Now()})
	return NewDriverAuthService(repo, tokens, limiter, testLogger{}), tokens, limiter
}

// testLogger satisfies logger.Logger with no output.
type testLogger struct{}

func (testLogger) Debug(ctx context.Context, msg string, args ...any)            {}
func (testLogger) Info(ctx context.Context, msg string, args ...any)             {}
func (testLogger) Warn(ctx context.Context, msg string, args ...any)             {}
func (testLogger) Error(ctx context.Context, msg string, err error, args ...any) {}
func (testLogger) GetSlogLogger() *slog.Logger                                   { return slog.Default() }

func loginRequest(driver models.Driver) *models.DriverLoginRequest {
	return &models.DriverLoginRequest{
		FirstName:   driver.FirstName,
		LastName:    driver.LastName,
		DateOfBirth: driver.DateOfBirth,
		AccessCode:  driver.AccessCode,
	}
}

func TestLoginSuccess(t *testing.T) {
	driver := newTestDriver()
	svc, tokens, _ := newTestService(driver)

	pair, err := svc.Login(context.Background(), loginRequest(driver))
	require.NoError(t, err)

	claims, err := tokens.Validate(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.DriverAccessToken, claims.TokenType)
	assert.Equal(t, driver.ID, claims.DriverID)
	assert.Equal(t, driver.FirstName, claims.FirstName)
	assert.Equal(t, driver.LastName, claims.LastName)
}

func TestLoginWrongField(t *testing.T) {
	driver := newTestDriver()

	tests := []struct {
		name   string
		mutate func(*models.DriverLoginRequest)
	}{
		{"wrong first name", func(r *models.DriverLoginRequest) { r.FirstName = "Martha" }},
		{"wrong last name", func(r *models.DriverLoginRequest) { r.LastName = "Kovac" }},
		{"case mismatch", func(r *models.DriverLoginRequest) { r.FirstName = "marta" }},
		{"wrong date of birth", func(r *models.DriverLoginRequest) {
			r.DateOfBirth = r.DateOfBirth.AddDate(0, 0, 1)
		}},
		{"wrong access code", func(r *models.DriverLoginRequest) { r.AccessCode = "CD6789-1" }},
		{"malformed access code", func(r *models.DriverLoginRequest) { r.AccessCode = "ab2345-7" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(driver)
			req := loginRequest(driver)
			tt.mutate(req)

			_, err := svc.Login(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestLoginAmbiguousMatchFails(t *testing.T) {
	d1 := newTestDriver()
	d2 := d1
	d2.ID = uuid.New()
	d2.ProfileID = uuid.New()

	svc, _, _ := newTestService(d1, d2)

	_, err := svc.Login(context.Background(), loginRequest(d1))
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginThrottledAfterRepeatedFailures(t *testing.T) {
	driver := newTestDriver()
	svc, _, _ := newTestService(driver)

	// Correct name and birth date, guessed code.
	bad := loginRequest(driver)
	bad.AccessCode = "CD6789-1"

	for i := 0; i < 10; i++ {
		_, err := svc.Login(context.Background(), bad)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// The 11th attempt is rejected before credentials are checked,
	// even with the correct code.
	_, err := svc.Login(context.Background(), loginRequest(driver))
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestLoginThrottleIgnoresSubmittedCode(t *testing.T) {
	driver := newTestDriver()
	svc, _, _ := newTestService(driver)

	// Ten guesses, each with a different code, all count against the
	// same driver lookup key.
	bad := loginRequest(driver)
	for i := 0; i < 10; i++ {
		bad.AccessCode = string(rune('B'+i)) + "B2345-7"
		_, err := svc.Login(context.Background(), bad)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err := svc.Login(context.Background(), loginRequest(driver))
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestLoginThrottleLiftsAfterWindow(t *testing.T) {
	driver := newTestDriver()
	repo := &fakeDriverRepo{drivers: []models.Driver{driver}}
	tokens := NewDriverTokenService("test-secret", newFakeRefreshRepo(), fakeTxManager{}, 24*time.Hour, time.Hour, nil)
	clock := &fakeClock{now: time.Now()}
	limiter := ratelimit.NewWithClock(10, 15*time.Minute, clock)
	svc := NewDriverAuthService(repo, tokens, limiter, testLogger{})

	bad := loginRequest(driver)
	bad.AccessCode = "CD6789-1"
	for i := 0; i < 10; i++ {
		_, _ = svc.Login(context.Background(), bad)
	}

	_, err := svc.Login(context.Background(), loginRequest(driver))
	require.ErrorIs(t, err, ErrTooManyAttempts)

	clock.now = clock.now.Add(15 * time.Minute)

	_, err = svc.Login(context.Background(), loginRequest(driver))
	assert.NoError(t, err)
}

func TestLoginSuccessResetsThrottle(t *testing.T) {
	driver := newTestDriver()
	svc, _, limiter := newTestService(driver)

	bad := loginRequest(driver)
	bad.AccessCode = "CD6789-1"
	for i := 0; i < 9; i++ {
		_, _ = svc.Login(context.Background(), bad)
	}

	_, err := svc.Login(context.Background(), loginRequest(driver))
	require.NoError(t, err)

	// The counter is back to zero, so nine more failures are allowed.
	key := throttleKey(loginRequest(driver))
	assert.True(t, limiter.Allowed(key))
	for i := 0; i < 9; i++ {
		_, _ = svc.Login(context.Background(), bad)
	}
	assert.True(t, limiter.Allowed(key))
}

func TestDriverRefreshPreservesSubjectClaims(t *testing.T) {
	driver := newTestDriver()
	svc, tokens, _ := newTestService(driver)

	pair, err := svc.Login(context.Background(), loginRequest(driver))
	require.NoError(t, err)

	oldClaims, err := tokens.Validate(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	newPair, err := tokens.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	newClaims, err := tokens.Validate(context.Background(), newPair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.DriverAccessToken, newClaims.TokenType)
	assert.Equal(t, oldClaims.DriverID, newClaims.DriverID)
	assert.Equal(t, oldClaims.FirstName, newClaims.FirstName)
	assert.Equal(t, oldClaims.LastName, newClaims.LastName)
	assert.NotEqual(t, oldClaims.TokenID, newClaims.TokenID)

	// Rotation revokes the presented refresh token.
	_, err = tokens.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDriverRefreshRejectsAccessToken(t *testing.T) {
	driver := newTestDriver()
	svc, tokens, _ := newTestService(driver)

	pair, err := svc.Login(context.Background(), loginRequest(driver))
	require.NoError(t, err)

	_, err = tokens.Refresh(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDriverTokenRejectedByWrongSecret(t *testing.T) {
	driver := newTestDriver()
	svc, _, _ := newTestService(driver)

	pair, err := svc.Login(context.Background(), loginRequest(driver))
	require.NoError(t, err)

	other := NewDriverTokenService("other-secret", newFakeRefreshRepo(), fakeTxManager{}, 24*time.Hour, time.Hour, nil)
	_, err = other.Validate(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
