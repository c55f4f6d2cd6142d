package fleet

import (
	"context"
	"fmt"
	"time"

	"fleetmaster/internal/domain/models"
	"fleetmaster/internal/domain/types"
	wrap "fleetmaster/pkg/logger/wrapper"
	"fleetmaster/pkg/uuid"
)

// StartShift opens a new shift for the driver. A driver can have at
// most one open shift at a time.
func (s *Service) StartShift(ctx context.Context, driverID uuid.UUID) (*models.Shift, error) {
	ctx = wrap.WithAction(ctx, "start_shift")

	var shift *models.Shift

	fn := func(ctx context.Context) error {
		open, err := s.repos.shift.GetOpen(ctx, driverID)
		if err != nil {
			return fmt.Errorf("failed to check open shift: %w", err)
		}

		if open != nil {
			return types.ErrShiftAlreadyOpen
		}

		shift = &models.Shift{
			ID:        uuid.New(),
			DriverID:  driverID,
			StartedAt: time.Now().UTC(),
		}

		if err := s.repos.shift.Create(ctx, shift); err != nil {
			return fmt.Errorf("failed to create shift: %w", err)
		}

		return nil
	}

	if err := s.trm.Do(ctx, fn); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	return shift, nil
}

// EndShift closes the driver's open shift.
func (s *Service) EndShift(ctx context.Context, driverID uuid.UUID) (*models.Shift, error) {
	ctx = wrap.WithAction(ctx, "end_shift")

	var shift *models.Shift

	fn := func(ctx context.Context) error {
		open, err := s.repos.shift.GetOpen(ctx, driverID)
		if err != nil {
			return fmt.Errorf("failed to load open shift: %w", err)
		}

		if open == nil {
			return types.ErrNoOpenShift
		}

		endedAt := time.Now().UTC()
		if err := s.repos.shift.Close(ctx, open.ID, endedAt); err != nil {
			return fmt.Errorf("failed to close shift: %w", err)
		}

		open.EndedAt = &endedAt
		shift = open

		return nil
	}

	if err := s.trm.Do(ctx, fn); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	return shift, nil
}
