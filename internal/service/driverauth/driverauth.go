package driverauth

import (
	"context"

	"fleetmaster/internal/domain/models"
	"fleetmaster/pkg/accesscode"
	"fleetmaster/pkg/logger"
	wrap "fleetmaster/pkg/logger/wrapper"
	"fleetmaster/pkg/metrics"
	"fleetmaster/pkg/uuid"
)

// DriverAuthService implements the driver credential exchange: first
// name, last name, date of birth and access code traded for a driver
// token pair. Every failure path returns the same generic error so the
// response never reveals which field was wrong.
type DriverAuthService struct {
	driverRepo   DriverRepo
	tokenService DriverTokenProvider
	throttle     Throttle
	log          logger.Logger
}

func NewDriverAuthService(driverRepo DriverRepo, tokenService DriverTokenProvider, throttle Throttle, log logger.Logger) *DriverAuthService {
	return &DriverAuthService{
		driverRepo:   driverRepo,
		tokenService: tokenService,
		throttle:     throttle,
		log:          log,
	}
}

// throttleKey identifies a login attempt by the driver lookup fields.
// The submitted access code must stay out of the key: a fresh counter
// per guessed code would let code enumeration run unthrottled.
func throttleKey(req *models.DriverLoginRequest) string {
	return req.FirstName + "|" + req.LastName + "|" + req.DateOfBirth.Format("2006-01-02")
}

// Login matches the four credential fields exactly and issues a driver
// token pair. Failed attempts are throttled per driver lookup key.
func (s *DriverAuthService) Login(ctx context.Context, req *models.DriverLoginRequest) (*models.TokenPair, error) {
	ctx = wrap.WithAction(ctx, "driver_login")

	key := throttleKey(req)

	if !s.throttle.Allowed(key) {
		metrics.RecordLoginAttempt("driver", "throttled")
		return nil, ErrTooManyAttempts
	}

	// A malformed code can never match a stored one; fail without a
	// database round trip but still count the attempt.
	if !accesscode.Valid(req.AccessCode) {
		s.throttle.Fail(key)
		metrics.RecordLoginAttempt("driver", "failure")
		return nil, ErrInvalidCredentials
	}

	matches, err := s.driverRepo.FindByCredentials(ctx, req.FirstName, req.LastName, req.DateOfBirth, req.AccessCode)
	if err != nil {
		s.log.Error(ctx, "Failed to look up driver credentials", err)
		metrics.RecordLoginAttempt("driver", "error")
		return nil, ErrUnexpected
	}

	// Anything other than exactly one match is a failed login. More
	// than one match means a credential collision across profiles and
	// must not log anyone in.
	if len(matches) != 1 {
		s.throttle.Fail(key)
		metrics.RecordLoginAttempt("driver", "failure")
		return nil, ErrInvalidCredentials
	}

	driver := matches[0]

	tokens, err := s.tokenService.GenerateTokens(ctx, &driver)
	if err != nil {
		metrics.RecordLoginAttempt("driver", "error")
		return nil, ErrTokenGenerateFail
	}

	s.throttle.Reset(key)
	metrics.RecordLoginAttempt("driver", "success")
	metrics.TokensIssuedTotal.WithLabelValues("driver").Inc()

	return tokens, nil
}

// Me loads the full driver row behind validated driver claims.
func (s *DriverAuthService) Me(ctx context.Context, driverID uuid.UUID) (*models.Driver, error) {
	ctx = wrap.WithAction(ctx, "driver_me")

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	// Token outlived the driver row.
	if driver == nil {
		return nil, ErrInvalidToken
	}

	return driver, nil
}
