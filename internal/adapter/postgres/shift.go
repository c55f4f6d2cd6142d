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

type ShiftRepo struct {
	db *pgxpool.Pool
}

func NewShiftRepo(db *pgxpool.Pool) *ShiftRepo {
	return &ShiftRepo{db: db}
}

func (r *ShiftRepo) Create(ctx context.Context, shift *models.Shift) error {
	const op = "ShiftRepo.Create"
	query := `
		INSERT INTO shifts(id, driver_id, started_at)
		VALUES($1, $2, $3)`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query,
		shift.ID,
		shift.DriverID,
		shift.StartedAt,
	); err != nil {
		// The driver row can disappear between token validation and the
		// insert when the owner deletes the driver.
		if pgdb.IsForeignKeyViolation(err) {
			return fmt.Errorf("%s: %w", op, types.ErrDriverNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// GetOpen returns the driver's open shift, or nil when there is none.
func (r *ShiftRepo) GetOpen(ctx context.Context, driverID uuid.UUID) (*models.Shift, error) {
	const op = "ShiftRepo.GetOpen"
	query := `
		SELECT id, driver_id, started_at, ended_at
		FROM shifts
		WHERE driver_id = $1 AND ended_at IS NULL
		ORDER BY started_at DESC
		LIMIT 1`

	var shift models.Shift
	err := TxorDB(ctx, r.db).QueryRow(ctx, query, driverID).Scan(
		&shift.ID,
		&shift.DriverID,
		&shift.StartedAt,
		&shift.EndedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &shift, nil
}

func (r *ShiftRepo) Close(ctx context.Context, shiftID uuid.UUID, endedAt time.Time) error {
	const op = "ShiftRepo.Close"
	query := `
		UPDATE shifts
		SET ended_at = $2
		WHERE id = $1 AND ended_at IS NULL`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, query, shiftID, endedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// StartDates returns the distinct calendar dates (UTC) on which the
// driver started at least one shift within [from, to]. Computed
// set-based, so multiple shifts per day collapse into one row.
func (r *ShiftRepo) StartDates(ctx context.Context, driverID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	const op = "ShiftRepo.StartDates"
	query := `
		SELECT DISTINCT (started_at AT TIME ZONE 'UTC')::date AS day
		FROM shifts
		WHERE driver_id = $1
		  AND started_at >= $2
		  AND started_at < $3
		ORDER BY day ASC`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, driverID, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		dates = append(dates, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return dates, nil
}
