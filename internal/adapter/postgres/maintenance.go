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

type MaintenanceRepo struct {
	db *pgxpool.Pool
}

func NewMaintenanceRepo(db *pgxpool.Pool) *MaintenanceRepo {
	return &MaintenanceRepo{db: db}
}

// totalCostExpr derives the report cost from both child collections.
// The value is never stored; it is always computed by the database.
const totalCostExpr = `
	COALESCE((SELECT SUM(p.cost) FROM part_purchase_events p WHERE p.report_id = mr.id), 0) +
	COALESCE((SELECT SUM(s.cost) FROM service_provider_events s WHERE s.report_id = mr.id), 0)`

func (r *MaintenanceRepo) CreateReport(ctx context.Context, report *models.MaintenanceReport) error {
	const op = "MaintenanceRepo.CreateReport"
	query := `
		INSERT INTO maintenance_reports(id, profile_id, vehicle_id, start_date, end_date, mileage, description, maintenance_type, created_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query,
		report.ID,
		report.ProfileID,
		report.VehicleID,
		report.StartDate,
		report.EndDate,
		report.Mileage,
		report.Description,
		report.MaintenanceType,
		report.CreatedAt,
	); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// GetByID returns the report with its derived total cost, or nil when absent.
// Child events are loaded separately via LoadEvents.
func (r *MaintenanceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceReport, error) {
	const op = "MaintenanceRepo.GetByID"
	query := fmt.Sprintf(`
		SELECT mr.id, mr.profile_id, mr.vehicle_id, mr.start_date, mr.end_date, mr.mileage,
			mr.description, mr.maintenance_type, mr.created_at, mr.updated_at,
			%s AS total_cost
		FROM maintenance_reports mr
		WHERE mr.id = $1`, totalCostExpr)

	var (
		report  models.MaintenanceReport
		updated *time.Time
	)

	err := TxorDB(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&report.ID,
		&report.ProfileID,
		&report.VehicleID,
		&report.StartDate,
		&report.EndDate,
		&report.Mileage,
		&report.Description,
		&report.MaintenanceType,
		&report.CreatedAt,
		&updated,
		&report.TotalCost,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if updated != nil {
		report.UpdatedAt = *updated
	}

	return &report, nil
}

func (r *MaintenanceRepo) ListByProfile(ctx context.Context, profileID uuid.UUID, vehicleID uuid.UUID, filters models.Filters) ([]models.MaintenanceReport, models.Metadata, error) {
	const op = "MaintenanceRepo.ListByProfile"
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), mr.id, mr.profile_id, mr.vehicle_id, mr.start_date, mr.end_date, mr.mileage,
			mr.description, mr.maintenance_type, mr.created_at, mr.updated_at,
			%s AS total_cost
		FROM maintenance_reports mr
		WHERE mr.profile_id = $1
		  AND ($2::uuid IS NULL OR mr.vehicle_id = $2)
		ORDER BY %s %s, mr.id ASC
		LIMIT $3 OFFSET $4`, totalCostExpr, "mr."+filters.SortColumn(), filters.SortDirection())

	var vehicleArg any
	if !vehicleID.IsNil() {
		vehicleArg = vehicleID
	}

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, profileID, vehicleArg, filters.Limit(), filters.Offset())
	if err != nil {
		return nil, models.Metadata{}, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var (
		reports      []models.MaintenanceReport
		totalRecords int
	)

	for rows.Next() {
		var (
			report  models.MaintenanceReport
			updated *time.Time
		)
		if err := rows.Scan(
			&totalRecords,
			&report.ID,
			&report.ProfileID,
			&report.VehicleID,
			&report.StartDate,
			&report.EndDate,
			&report.Mileage,
			&report.Description,
			&report.MaintenanceType,
			&report.CreatedAt,
			&updated,
			&report.TotalCost,
		); err != nil {
			return nil, models.Metadata{}, fmt.Errorf("%s: %w", op, err)
		}
		if updated != nil {
			report.UpdatedAt = *updated
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, models.Metadata{}, fmt.Errorf("%s: %w", op, err)
	}

	metadata := models.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return reports, metadata, nil
}

func (r *MaintenanceRepo) Update(ctx context.Context, report *models.MaintenanceReport) error {
	const op = "MaintenanceRepo.Update"
	query := `
		UPDATE maintenance_reports
		SET start_date = $2, end_date = $3, mileage = $4, description = $5, maintenance_type = $6, updated_at = $7
		WHERE id = $1`

	tag, err := TxorDB(ctx, r.db).Exec(ctx, query,
		report.ID,
		report.StartDate,
		report.EndDate,
		report.Mileage,
		report.Description,
		report.MaintenanceType,
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

// DeleteReport removes the report row. Child events must be removed
// first (DeleteEvents); both run inside the caller's transaction.
func (r *MaintenanceRepo) DeleteReport(ctx context.Context, id uuid.UUID) error {
	const op = "MaintenanceRepo.DeleteReport"

	tag, err := TxorDB(ctx, r.db).Exec(ctx, `DELETE FROM maintenance_reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// DeleteEvents removes both child collections of a report.
func (r *MaintenanceRepo) DeleteEvents(ctx context.Context, reportID uuid.UUID) error {
	const op = "MaintenanceRepo.DeleteEvents"

	q := TxorDB(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM part_purchase_events WHERE report_id = $1`, reportID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := q.Exec(ctx, `DELETE FROM service_provider_events WHERE report_id = $1`, reportID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *MaintenanceRepo) AddPartPurchase(ctx context.Context, event *models.PartPurchaseEvent) error {
	const op = "MaintenanceRepo.AddPartPurchase"
	query := `
		INSERT INTO part_purchase_events(id, report_id, part_name, cost, purchase_date)
		VALUES($1, $2, $3, $4, $5)`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query,
		event.ID,
		event.ReportID,
		event.PartName,
		event.Cost,
		event.PurchaseDate,
	); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *MaintenanceRepo) AddServiceEvent(ctx context.Context, event *models.ServiceProviderEvent) error {
	const op = "MaintenanceRepo.AddServiceEvent"
	query := `
		INSERT INTO service_provider_events(id, report_id, provider_name, cost, service_date)
		VALUES($1, $2, $3, $4, $5)`

	if _, err := TxorDB(ctx, r.db).Exec(ctx, query,
		event.ID,
		event.ReportID,
		event.ProviderName,
		event.Cost,
		event.ServiceDate,
	); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// LoadEvents fills both child collections of a report.
func (r *MaintenanceRepo) LoadEvents(ctx context.Context, report *models.MaintenanceReport) error {
	const op = "MaintenanceRepo.LoadEvents"

	q := TxorDB(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, report_id, part_name, cost, purchase_date
		FROM part_purchase_events
		WHERE report_id = $1
		ORDER BY purchase_date ASC, id ASC`, report.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var e models.PartPurchaseEvent
		if err := rows.Scan(&e.ID, &e.ReportID, &e.PartName, &e.Cost, &e.PurchaseDate); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		report.PartPurchases = append(report.PartPurchases, e)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	srows, err := q.Query(ctx, `
		SELECT id, report_id, provider_name, cost, service_date
		FROM service_provider_events
		WHERE report_id = $1
		ORDER BY service_date ASC, id ASC`, report.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer srows.Close()

	for srows.Next() {
		var e models.ServiceProviderEvent
		if err := srows.Scan(&e.ID, &e.ReportID, &e.ProviderName, &e.Cost, &e.ServiceDate); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		report.ServiceEvents = append(report.ServiceEvents, e)
	}
	if err := srows.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
