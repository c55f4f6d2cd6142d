package postgres

import (
	"context"
	"fmt"
	"time"

	"fleetmaster/internal/domain/models"
	"fleetmaster/pkg/uuid"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AnalyticsRepo runs the aggregation queries behind the maintenance
// overview. All sums and groupings are pushed down to the database;
// the service layer only sees ordered period rows.
type AnalyticsRepo struct {
	db *pgxpool.Pool
}

func NewAnalyticsRepo(db *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{db: db}
}

// reportCosts is the common inner query: one row per report with its
// derived cost, scoped to the profile and optional vehicle type.
const reportCosts = `
	SELECT mr.start_date, (` + totalCostExpr + `) AS total_cost
	FROM maintenance_reports mr
	JOIN vehicles v ON v.id = mr.vehicle_id
	WHERE mr.profile_id = $1
	  AND ($2 = '' OR v.vehicle_type = $2)`

// YearlyTotals returns per-year cost sums in ascending year order.
func (r *AnalyticsRepo) YearlyTotals(ctx context.Context, profileID uuid.UUID, vehicleType string) ([]models.PeriodTotal, error) {
	const op = "AnalyticsRepo.YearlyTotals"
	query := fmt.Sprintf(`
		SELECT EXTRACT(YEAR FROM t.start_date)::int AS year, SUM(t.total_cost)
		FROM (%s) t
		GROUP BY year
		ORDER BY year ASC`, reportCosts)

	return r.queryPeriods(ctx, op, query, periodYearly, profileID, vehicleType)
}

// QuarterlyTotals returns per-quarter cost sums in ascending
// (year, quarter) order.
func (r *AnalyticsRepo) QuarterlyTotals(ctx context.Context, profileID uuid.UUID, vehicleType string) ([]models.PeriodTotal, error) {
	const op = "AnalyticsRepo.QuarterlyTotals"
	query := fmt.Sprintf(`
		SELECT EXTRACT(YEAR FROM t.start_date)::int AS year,
		       EXTRACT(QUARTER FROM t.start_date)::int AS quarter,
		       SUM(t.total_cost)
		FROM (%s) t
		GROUP BY year, quarter
		ORDER BY year ASC, quarter ASC`, reportCosts)

	return r.queryPeriods(ctx, op, query, periodQuarterly, profileID, vehicleType)
}

// MonthlyTotals returns per-month cost sums in ascending (year, month) order.
func (r *AnalyticsRepo) MonthlyTotals(ctx context.Context, profileID uuid.UUID, vehicleType string) ([]models.PeriodTotal, error) {
	const op = "AnalyticsRepo.MonthlyTotals"
	query := fmt.Sprintf(`
		SELECT EXTRACT(YEAR FROM t.start_date)::int AS year,
		       EXTRACT(MONTH FROM t.start_date)::int AS month,
		       SUM(t.total_cost)
		FROM (%s) t
		GROUP BY year, month
		ORDER BY year ASC, month ASC`, reportCosts)

	return r.queryPeriods(ctx, op, query, periodMonthly, profileID, vehicleType)
}

type periodShape int

const (
	periodYearly periodShape = iota
	periodQuarterly
	periodMonthly
)

func (r *AnalyticsRepo) queryPeriods(ctx context.Context, op, query string, shape periodShape, profileID uuid.UUID, vehicleType string) ([]models.PeriodTotal, error) {
	rows, err := TxorDB(ctx, r.db).Query(ctx, query, profileID, vehicleType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var periods []models.PeriodTotal
	for rows.Next() {
		var p models.PeriodTotal
		var scanErr error
		switch shape {
		case periodYearly:
			scanErr = rows.Scan(&p.Year, &p.Total)
		case periodQuarterly:
			scanErr = rows.Scan(&p.Year, &p.Quarter, &p.Total)
		case periodMonthly:
			scanErr = rows.Scan(&p.Year, &p.Month, &p.Total)
		}
		if scanErr != nil {
			return nil, fmt.Errorf("%s: %w", op, scanErr)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return periods, nil
}

// TopPartFailures counts part purchase events grouped by part name
// within the window, ordered by count descending with name ascending as
// tiebreaker.
func (r *AnalyticsRepo) TopPartFailures(ctx context.Context, profileID uuid.UUID, vehicleType string, since time.Time, limit int) ([]models.RecurringIssue, error) {
	const op = "AnalyticsRepo.TopPartFailures"
	query := `
		SELECT p.part_name, count(*) AS cnt
		FROM part_purchase_events p
		JOIN maintenance_reports mr ON mr.id = p.report_id
		JOIN vehicles v ON v.id = mr.vehicle_id
		WHERE mr.profile_id = $1
		  AND ($2 = '' OR v.vehicle_type = $2)
		  AND p.purchase_date >= $3
		GROUP BY p.part_name
		ORDER BY cnt DESC, p.part_name ASC
		LIMIT $4`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query, profileID, vehicleType, since, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var issues []models.RecurringIssue
	for rows.Next() {
		var issue models.RecurringIssue
		if err := rows.Scan(&issue.PartName, &issue.Count); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return issues, nil
}
