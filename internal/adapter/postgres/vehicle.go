package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleetmaster/internal/domain/models"
	"fleetmaster/pkg/uuid"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type VehicleRepo struct {
	db *pgxpool.Pool
}

func NewVehicleRepo(db *pgxpool.Pool) *VehicleRepo {
	return &VehicleRepo{db: db}
}

const vehicleColumns = `id, profile_id, registration, make, model, year, vehicle_type, mileage,
		last_service_date, next_service_due, insurance_expiry_date, license_expiry_date, created_at, updated_at`

func (r *VehicleRepo) Create(ctx context.Context, vehicle *models.Vehicle) error {
	const op = "VehicleRepo.Create"
	query := `
		INSERT INTO vehicles(id, profile_id, registration, make, model, year, vehicle_type, mileage,
			last_service_date, next_service_due, insurance_expiry_date, license_expiry_date, created_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query,
		vehicle.ID,
		vehicle.ProfileID,
		vehicle.Registration,
		vehicle.Make,
		vehicle.Model,
		vehicle.Year,
		vehicle.VehicleType,
		vehicle.Mileage,
		vehicle.LastServiceDate,
		vehicle.NextServiceDue,
		vehicle.InsuranceExpiryDate,
		vehicle.LicenseExpiryDate,
		vehicle.CreatedAt,
	); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// GetByID returns nil without error when the vehicle does not exist.
func (r *VehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	const op = "VehicleRepo.GetByID"
	query := fmt.Sprintf(`SELECT %s FROM vehicles WHERE id = $1`, vehicleColumns)

	vehicle, err := scanVehicle(TxorDB(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return vehicle, nil
}

func (r *VehicleRepo) ListByProfile(ctx context.Context, profileID uuid.UUID, vehicleType string, filters models.Filters) ([]models.Vehicle, models.Metadata, error) {
	const op = "VehicleRepo.ListByProfile"
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), %s
		FROM vehicles
		WHERE profile_id = $1
		  AND ($2 = '' OR vehicle_type = $2)
		ORDER BY %s %s, id ASC
		LIMIT $3 OFFSET $4`, vehicleColumns, filters.SortColumn(), filters.SortDirection())

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, profileID, vehicleType, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, models.Metadata{}, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var (
		vehicles     []models.Vehicle
		totalRecords int
	)

	for rows.Next() {
		var (
			v       models.Vehicle
			updated *time.Time
		)
		if err := rows.Scan(
			&totalRecords,
			&v.ID,
			&v.ProfileID,
			&v.Registration,
			&v.Make,
			&v.Model,
			&v.Year,
			&v.VehicleType,
			&v.Mileage,
			&v.LastServiceDate,
			&v.NextServiceDue,
			&v.InsuranceExpiryDate,
			&v.LicenseExpiryDate,
			&v.CreatedAt,
			&updated,
		); err != nil {
			return nil, models.Metadata{}, fmt.Errorf("%s: %w", op, err)
		}
		if updated != nil {
			v.UpdatedAt = *updated
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, models.Metadata{}, fmt.Errorf("%s: %w", op, err)
	}

	metadata := models.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return vehicles, metadata, nil
}

// AllByProfile loads the full fleet for health scoring, optionally
// filtered by vehicle type.
func (r *VehicleRepo) AllByProfile(ctx context.Context, profileID uuid.UUID, vehicleType string) ([]models.Vehicle, error) {
	const op = "VehicleRepo.AllByProfile"
	query := fmt.Sprintf(`
		SELECT %s
		FROM vehicles
		WHERE profile_id = $1
		  AND ($2 = '' OR vehicle_type = $2)
		ORDER BY registration ASC`, vehicleColumns)

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, profileID, vehicleType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		var (
			v       models.Vehicle
			updated *time.Time
		)
		if err := rows.Scan(
			&v.ID,
			&v.ProfileID,
			&v.Registration,
			&v.Make,
			&v.Model,
			&v.Year,
			&v.VehicleType,
			&v.Mileage,
			&v.LastServiceDate,
			&v.NextServiceDue,
			&v.InsuranceExpiryDate,
			&v.LicenseExpiryDate,
			&v.CreatedAt,
			&updated,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if updated != nil {
			v.UpdatedAt = *updated
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return vehicles, nil
}

func (r *VehicleRepo) CountByProfile(ctx context.Context, profileID uuid.UUID, vehicleType string) (int, error) {
	const op = "VehicleRepo.CountByProfile"
	query := `
		SELECT count(*)
		FROM vehicles
		WHERE profile_id = $1
		  AND ($2 = '' OR vehicle_type = $2)`

	var count int
	if err := TxorDB(ctx, r.db).QueryRow(ctx, query, profileID, vehicleType).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

func (r *VehicleRepo) Update(ctx context.Context, vehicle *models.Vehicle) error {
	const op = "VehicleRepo.Update"
	query := `
		UPDATE vehicles
		SET registration = $2, make = $3, model = $4, year = $5, vehicle_type = $6, mileage = $7,
			last_service_date = $8, next_service_due = $9, insurance_expiry_date = $10,
			license_expiry_date = $11, updated_at = $12
		WHERE id = $1`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, query,
		vehicle.ID,
		vehicle.Registration,
		vehicle.Make,
		vehicle.Model,
		vehicle.Year,
		vehicle.VehicleType,
		vehicle.Mileage,
		vehicle.LastServiceDate,
		vehicle.NextServiceDue,
		vehicle.InsuranceExpiryDate,
		vehicle.LicenseExpiryDate,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func (r *VehicleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "VehicleRepo.Delete"

	tag, err := TxorDB(ctx, r.db).Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// SyncMileage sets the vehicle mileage from its most recent remaining
// maintenance report, or zero if none remain. Runs as one statement so
// the cascade-delete transaction stays set-based.
func (r *VehicleRepo) SyncMileage(ctx context.Context, vehicleID uuid.UUID) error {
	const op = "VehicleRepo.SyncMileage"
	query := `
		UPDATE vehicles
		SET mileage = COALESCE((
			SELECT mr.mileage
			FROM maintenance_reports mr
			WHERE mr.vehicle_id = vehicles.id
			ORDER BY mr.start_date DESC, mr.created_at DESC
			LIMIT 1
		), 0),
		updated_at = $2
		WHERE id = $1`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query, vehicleID, time.Now().UTC()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func scanVehicle(row pgx.Row) (*models.Vehicle, error) {
	var (
		v       models.Vehicle
		updated *time.Time
	)
	if err := row.Scan(
		&v.ID,
		&v.ProfileID,
		&v.Registration,
		&v.Make,
		&v.Model,
		&v.Year,
		&v.VehicleType,
		&v.Mileage,
		&v.LastServiceDate,
		&v.NextServiceDue,
		&v.InsuranceExpiryDate,
		&v.LicenseExpiryDate,
		&v.CreatedAt,
		&updated,
	); err != nil {
		return nil, err
	}
	if updated != nil {
		v.UpdatedAt = *updated
	}
	return &v, nil
}
