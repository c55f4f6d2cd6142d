package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleetmaster/internal/domain/models"
	"fleetmaster/internal/domain/types"
	pgdb "fleetmaster/pkg/postgres"
	"fleetmaster/pkg/uuid"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DriverRepo struct {
	db *pgxpool.Pool
}

func NewDriverRepo(db *pgxpool.Pool) *DriverRepo {
	return &DriverRepo{db: db}
}

func (r *DriverRepo) Create(ctx context.Context, driver *models.Driver) error {
	const op = "DriverRepo.Create"
	query := `
		INSERT INTO drivers(id, profile_id, first_name, last_name, date_of_birth, phone, access_code, created_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query,
		driver.ID,
		driver.ProfileID,
		driver.FirstName,
		driver.LastName,
		driver.DateOfBirth,
		driver.Phone,
		driver.AccessCode,
		driver.CreatedAt,
	); err != nil {
		// A code collision lost the race against the uniqueness check.
		if pgdb.IsUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, types.ErrDuplicateAccessCode)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// GetByID returns nil without error when the driver does not exist.
func (r *DriverRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	const op = "DriverRepo.GetByID"
	query := `
		SELECT id, profile_id, first_name, last_name, date_of_birth, phone, access_code, created_at, updated_at
		FROM drivers
		WHERE id = $1`

	driver, err := scanDriver(TxorDB(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return driver, nil
}

func (r *DriverRepo) ListByProfile(ctx context.Context, profileID uuid.UUID, filters models.Filters) ([]models.Driver, models.Metadata, error) {
	const op = "DriverRepo.ListByProfile"
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), id, profile_id, first_name, last_name, date_of_birth, phone, access_code, created_at, updated_at
		FROM drivers
		WHERE profile_id = $1
		ORDER BY %s %s, id ASC
		LIMIT $2 OFFSET $3`, filters.SortColumn(), filters.SortDirection())

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, profileID, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, models.Metadata{}, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var (
		drivers      []models.Driver
		totalRecords int
	)

	for rows.Next() {
		var (
			d       models.Driver
			updated *time.Time
		)
		if err := rows.Scan(
			&totalRecords,
			&d.ID,
			&d.ProfileID,
			&d.FirstName,
			&d.LastName,
			&d.DateOfBirth,
			&d.Phone,
			&d.AccessCode,
			&d.CreatedAt,
			&updated,
		); err != nil {
			return nil, models.Metadata{}, fmt.Errorf("%s: %w", op, err)
		}
		if updated != nil {
			d.UpdatedAt = *updated
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, models.Metadata{}, fmt.Errorf("%s: %w", op, err)
	}

	metadata := models.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return drivers, metadata, nil
}

func (r *DriverRepo) Update(ctx context.Context, driver *models.Driver) error {
	const op = "DriverRepo.Update"
	query := `
		UPDATE drivers
		SET first_name = $2, last_name = $3, date_of_birth = $4, phone = $5, updated_at = $6
		WHERE id = $1`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, query,
		driver.ID,
		driver.FirstName,
		driver.LastName,
		driver.DateOfBirth,
		driver.Phone,
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

func (r *DriverRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "DriverRepo.Delete"

	tag, err := TxorDB(ctx, r.db).Exec(ctx, `DELETE FROM drivers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// AccessCodeExists checks code uniqueness across all profiles.
func (r *DriverRepo) AccessCodeExists(ctx context.Context, code string) (bool, error) {
	const op = "DriverRepo.AccessCodeExists"
	query := `
		SELECT EXISTS(
			SELECT 1 FROM drivers
			WHERE access_code = $1
		)`

	var exists bool
	if err := TxorDB(ctx, r.db).QueryRow(ctx, query, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

func (r *DriverRepo) UpdateAccessCode(ctx context.Context, id uuid.UUID, code string) error {
	const op = "DriverRepo.UpdateAccessCode"
	query := `
		UPDATE drivers
		SET access_code = $2, updated_at = $3
		WHERE id = $1`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, query, id, code, time.Now().UTC())
	if err != nil {
		if pgdb.IsUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, types.ErrDuplicateAccessCode)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// FindByCredentials matches the driver login tuple exactly and
// case-sensitively. The caller requires exactly one row; anything else
// is treated as invalid credentials.
func (r *DriverRepo) FindByCredentials(ctx context.Context, firstName, lastName string, dateOfBirth time.Time, accessCode string) ([]models.Driver, error) {
	const op = "DriverRepo.FindByCredentials"
	query := `
		SELECT id, profile_id, first_name, last_name, date_of_birth, phone, access_code, created_at, updated_at
		FROM drivers
		WHERE first_name = $1 AND last_name = $2 AND date_of_birth = $3 AND access_code = $4`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, firstName, lastName, dateOfBirth, accessCode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var drivers []models.Driver
	for rows.Next() {
		var (
			d       models.Driver
			updated *time.Time
		)
		if err := rows.Scan(
			&d.ID,
			&d.ProfileID,
			&d.FirstName,
			&d.LastName,
			&d.DateOfBirth,
			&d.Phone,
			&d.AccessCode,
			&d.CreatedAt,
			&updated,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if updated != nil {
			d.UpdatedAt = *updated
		}
		drivers = append(drivers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return drivers, nil
}

func scanDriver(row pgx.Row) (*models.Driver, error) {
	var (
		d       models.Driver
		updated *time.Time
	)
	if err := row.Scan(
		&d.ID,
		&d.ProfileID,
		&d.FirstName,
		&d.LastName,
		&d.DateOfBirth,
		&d.Phone,
		&d.AccessCode,
		&d.CreatedAt,
		&updated,
	); err != nil {
		return nil, err
	}
	if updated != nil {
		d.UpdatedAt = *updated
	}
	return &d, nil
}
