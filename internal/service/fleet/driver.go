package fleet

import (
	"context"
	"fmt"
	"time"

	"fleetmaster/internal/domain/models"
	"fleetmaster/internal/domain/types"
	"fleetmaster/pkg/accesscode"
	wrap "fleetmaster/pkg/logger/wrapper"
	"fleetmaster/pkg/uuid"
)

// accessCodeAttempts bounds the retry loop for generating a globally
// unique access code. Collisions over a 32^6 space are rare enough
// that hitting the bound means something else is wrong.
const accessCodeAttempts = 10

// CreateDriver registers a new driver under the owner's profile and
// generates their access code. The plaintext code is returned exactly
// once; list and get responses never include it.
func (s *Service) CreateDriver(ctx context.Context, req *models.DriverCreateRequest) (*models.Driver, error) {
	ctx = wrap.WithAction(ctx, "create_driver")

	driver := &models.Driver{
		ID:          uuid.New(),
		ProfileID:   req.ProfileID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		Phone:       req.Phone,
		CreatedAt:   time.Now().UTC(),
	}

	fn := func(ctx context.Context) error {
		code, err := s.uniqueAccessCode(ctx)
		if err != nil {
			return err
		}
		driver.AccessCode = code

		if err := s.repos.driver.Create(ctx, driver); err != nil {
			return fmt.Errorf("failed to create driver: %w", err)
		}

		return nil
	}

	if err := s.trm.Do(ctx, fn); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	if s.publisher != nil {
		msg := models.DriverEventMessage{
			DriverID:  driver.ID,
			ProfileID: driver.ProfileID,
			FirstName: driver.FirstName,
			LastName:  driver.LastName,
			Timestamp: time.Now().UTC(),
		}
		if err := s.publisher.PublishDriverCreated(ctx, msg); err != nil {
			s.l.Warn(ctx, "failed to publish driver created event", "driver_id", driver.ID)
		}
	}

	return driver, nil
}

func (s *Service) GetDriver(ctx context.Context, profileID, driverID uuid.UUID) (*models.Driver, error) {
	ctx = wrap.WithAction(ctx, "get_driver")

	driver, err := s.ownedDriver(ctx, profileID, driverID)
	if err != nil {
		return nil, err
	}

	driver.AccessCode = ""
	return driver, nil
}

func (s *Service) ListDrivers(ctx context.Context, profileID uuid.UUID, filters models.Filters) ([]models.Driver, models.Metadata, error) {
	ctx = wrap.WithAction(ctx, "list_drivers")

	drivers, metadata, err := s.repos.driver.ListByProfile(ctx, profileID, filters)
	if err != nil {
		return nil, models.Metadata{}, wrap.Error(ctx, fmt.Errorf("failed to list drivers: %w", err))
	}

	for i := range drivers {
		drivers[i].AccessCode = ""
	}

	return drivers, metadata, nil
}

func (s *Service) UpdateDriver(ctx context.Context, profileID uuid.UUID, driver *models.Driver) (*models.Driver, error) {
	ctx = wrap.WithAction(ctx, "update_driver")

	existing, err := s.ownedDriver(ctx, profileID, driver.ID)
	if err != nil {
		return nil, err
	}

	driver.ProfileID = existing.ProfileID
	driver.AccessCode = existing.AccessCode
	driver.CreatedAt = existing.CreatedAt

	if err := s.repos.driver.Update(ctx, driver); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to update driver: %w", err))
	}

	driver.AccessCode = ""
	return driver, nil
}

func (s *Service) DeleteDriver(ctx context.Context, profileID, driverID uuid.UUID) error {
	ctx = wrap.WithAction(ctx, "delete_driver")

	if _, err := s.ownedDriver(ctx, profileID, driverID); err != nil {
		return err
	}

	if err := s.repos.driver.Delete(ctx, driverID); err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to delete driver: %w", err))
	}

	return nil
}

// RegenerateAccessCode replaces the driver's access code, invalidating
// the old one immediately. The new plaintext code is returned once.
func (s *Service) RegenerateAccessCode(ctx context.Context, profileID, driverID uuid.UUID) (string, error) {
	ctx = wrap.WithAction(ctx, "regenerate_access_code")

	if _, err := s.ownedDriver(ctx, profileID, driverID); err != nil {
		return "", err
	}

	var code string

	fn := func(ctx context.Context) error {
		generated, err := s.uniqueAccessCode(ctx)
		if err != nil {
			return err
		}

		if err := s.repos.driver.UpdateAccessCode(ctx, driverID, generated); err != nil {
			return fmt.Errorf("failed to update access code: %w", err)
		}

		code = generated
		return nil
	}

	if err := s.trm.Do(ctx, fn); err != nil {
		return "", wrap.Error(ctx, err)
	}

	return code, nil
}

// uniqueAccessCode generates an access code not currently assigned to
// any driver. Uniqueness is global, not per profile, because drivers
// log in with the code alone plus name and birth date.
func (s *Service) uniqueAccessCode(ctx context.Context) (string, error) {
	for i := 0; i < accessCodeAttempts; i++ {
		code, err := accesscode.Generate()
		if err != nil {
			return "", fmt.Errorf("failed to generate access code: %w", err)
		}

		exists, err := s.repos.driver.AccessCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check access code uniqueness: %w", err)
		}

		if !exists {
			return code, nil
		}
	}

	return "", types.ErrDuplicateAccessCode
}

func (s *Service) ownedDriver(ctx context.Context, profileID, driverID uuid.UUID) (*models.Driver, error) {
	driver, err := s.repos.driver.GetByID(ctx, driverID)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to load driver: %w", err))
	}

	if driver == nil {
		return nil, types.ErrDriverNotFound
	}

	if driver.ProfileID != profileID {
		return nil, types.ErrForbidden
	}

	return driver, nil
}
