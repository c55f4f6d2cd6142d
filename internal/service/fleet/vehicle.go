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

// CreateVehicle registers a new vehicle under the owner's profile.
func (s *Service) CreateVehicle(ctx context.Context, profileID uuid.UUID, vehicle *models.Vehicle) (*models.Vehicle, error) {
	ctx = wrap.WithAction(ctx, "create_vehicle")

	vehicle.ID = uuid.New()
	vehicle.ProfileID = profileID
	vehicle.CreatedAt = time.Now().UTC()

	if err := s.repos.vehicle.Create(ctx, vehicle); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to create vehicle: %w", err))
	}

	return vehicle, nil
}

// GetVehicle loads one vehicle, enforcing profile ownership. A vehicle
// that exists but belongs to another profile reads as forbidden, not as
// missing, so owners cannot probe for foreign ids.
func (s *Service) GetVehicle(ctx context.Context, profileID, vehicleID uuid.UUID) (*models.Vehicle, error) {
	ctx = wrap.WithAction(ctx, "get_vehicle")
	ctx = wrap.WithVehicleID(ctx, vehicleID.String())
	return s.ownedVehicle(ctx, profileID, vehicleID)
}

func (s *Service) ListVehicles(ctx context.Context, profileID uuid.UUID, vehicleType string, filters models.Filters) ([]models.Vehicle, models.Metadata, error) {
	ctx = wrap.WithAction(ctx, "list_vehicles")

	if vehicleType != "" && !types.IsValidVehicleType(vehicleType) {
		return nil, models.Metadata{}, types.ErrInvalidVehicleType
	}

	vehicles, metadata, err := s.repos.vehicle.ListByProfile(ctx, profileID, vehicleType, filters)
	if err != nil {
		return nil, models.Metadata{}, wrap.Error(ctx, fmt.Errorf("failed to list vehicles: %w", err))
	}

	return vehicles, metadata, nil
}

func (s *Service) UpdateVehicle(ctx context.Context, profileID uuid.UUID, vehicle *models.Vehicle) (*models.Vehicle, error) {
	ctx = wrap.WithAction(ctx, "update_vehicle")
	ctx = wrap.WithVehicleID(ctx, vehicle.ID.String())

	existing, err := s.ownedVehicle(ctx, profileID, vehicle.ID)
	if err != nil {
		return nil, err
	}

	vehicle.ProfileID = existing.ProfileID
	vehicle.CreatedAt = existing.CreatedAt

	if err := s.repos.vehicle.Update(ctx, vehicle); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to update vehicle: %w", err))
	}

	return vehicle, nil
}

// DeleteVehicle removes the vehicle together with all of its
// maintenance history in one transaction.
func (s *Service) DeleteVehicle(ctx context.Context, profileID, vehicleID uuid.UUID) error {
	ctx = wrap.WithAction(ctx, "delete_vehicle")
	ctx = wrap.WithVehicleID(ctx, vehicleID.String())

	if _, err := s.ownedVehicle(ctx, profileID, vehicleID); err != nil {
		return err
	}

	fn := func(ctx context.Context) error {
		reports, _, err := s.repos.maintenance.ListByProfile(ctx, profileID, vehicleID, models.AllFilters())
		if err != nil {
			return fmt.Errorf("failed to list vehicle reports: %w", err)
		}

		for _, report := range reports {
			if err := s.repos.maintenance.DeleteEvents(ctx, report.ID); err != nil {
				return fmt.Errorf("failed to delete report events: %w", err)
			}
			if err := s.repos.maintenance.DeleteReport(ctx, report.ID); err != nil {
				return fmt.Errorf("failed to delete report: %w", err)
			}
		}

		if err := s.repos.vehicle.Delete(ctx, vehicleID); err != nil {
			return fmt.Errorf("failed to delete vehicle: %w", err)
		}

		return nil
	}

	if err := s.trm.Do(ctx, fn); err != nil {
		return wrap.Error(ctx, err)
	}

	return nil
}

// ownedVehicle loads a vehicle and checks it belongs to the profile.
// Existence is checked before ownership.
func (s *Service) ownedVehicle(ctx context.Context, profileID, vehicleID uuid.UUID) (*models.Vehicle, error) {
	vehicle, err := s.repos.vehicle.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to load vehicle: %w", err))
	}

	if vehicle == nil {
		return nil, types.ErrVehicleNotFound
	}

	if vehicle.ProfileID != profileID {
		return nil, types.ErrForbidden
	}

	return vehicle, nil
}
