package analytics

import (
	"context"
	"fmt"
	"time"

	"fleetmaster/internal/domain/models"
	"fleetmaster/internal/domain/types"
	"fleetmaster/pkg/logger"
	wrap "fleetmaster/pkg/logger/wrapper"
	"fleetmaster/pkg/metrics"
	"fleetmaster/pkg/uuid"
)

// topIssuesLimit caps the recurring-issue list.
const topIssuesLimit = 3

// issueWindow is how far back part failures are counted.
const issueWindow = 365 * 24 * time.Hour

/*
Service computes the maintenance overview for an owner's fleet: cost
roll-ups, period-over-period deltas, recurring part failures and
vehicle health buckets. The heavy grouping and summing runs in SQL;
this service only post-processes ordered period rows.
*/
type Service struct {
	repos repos
	now   func() time.Time
	l     logger.Logger
}

type repos struct {
	analytics AnalyticsRepo
	vehicle   VehicleRepo
	shift     ShiftRepo
}

// New returns a new analytics service.
func New(analyticsRepo AnalyticsRepo, vehicleRepo VehicleRepo, shiftRepo ShiftRepo, l logger.Logger) *Service {
	return &Service{
		repos: repos{
			analytics: analyticsRepo,
			vehicle:   vehicleRepo,
			shift:     shiftRepo,
		},
		now: func() time.Time { return time.Now().UTC() },
		l:   l,
	}
}

// Overview builds the full maintenance analytics payload for the
// profile, optionally filtered to one vehicle type.
func (s *Service) Overview(ctx context.Context, profileID uuid.UUID, vehicleType string) (*models.OverviewReport, error) {
	ctx = wrap.WithAction(ctx, "fleet_overview")

	started := time.Now()
	defer func() {
		metrics.FleetOverviewDuration.Observe(time.Since(started).Seconds())
	}()

	if vehicleType != "" && !types.IsValidVehicleType(vehicleType) {
		return nil, types.ErrInvalidVehicleType
	}

	now := s.now()

	yearly, err := s.repos.analytics.YearlyTotals(ctx, profileID, vehicleType)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to load yearly totals: %w", err))
	}

	quarterly, err := s.repos.analytics.QuarterlyTotals(ctx, profileID, vehicleType)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to load quarterly totals: %w", err))
	}

	monthly, err := s.repos.analytics.MonthlyTotals(ctx, profileID, vehicleType)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to load monthly totals: %w", err))
	}

	vehicleCount, err := s.repos.vehicle.CountByProfile(ctx, profileID, vehicleType)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to count vehicles: %w", err))
	}

	topIssues, err := s.repos.analytics.TopPartFailures(ctx, profileID, vehicleType, now.Add(-issueWindow), topIssuesLimit)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to load part failures: %w", err))
	}

	vehicles, err := s.repos.vehicle.AllByProfile(ctx, profileID, vehicleType)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to load vehicles: %w", err))
	}

	report := &models.OverviewReport{
		Costs:     costSummary(now, vehicleCount, yearly, quarterly, monthly),
		Yearly:    periodChanges(yearly, yearShape),
		Quarterly: periodChanges(quarterly, quarterShape),
		Monthly:   periodChanges(monthly, monthShape),
		TopIssues: topIssues,
		Health:    healthReport(now, vehicles),
	}

	return report, nil
}

// MissingShiftDates returns the dates within the last 30 calendar days
// (today back to today minus 29, inclusive) on which the driver started
// no shift, ascending. A date with any shift start counts as covered.
func (s *Service) MissingShiftDates(ctx context.Context, driverID uuid.UUID) ([]time.Time, error) {
	ctx = wrap.WithAction(ctx, "missing_shift_dates")

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := today.AddDate(0, 0, -29)

	covered, err := s.repos.shift.StartDates(ctx, driverID, from, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to load shift dates: %w", err))
	}

	coveredSet := make(map[time.Time]struct{}, len(covered))
	for _, d := range covered {
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		coveredSet[day] = struct{}{}
	}

	missing := make([]time.Time, 0, 30)
	for day := from; !day.After(today); day = day.AddDate(0, 0, 1) {
		if _, ok := coveredSet[day]; !ok {
			missing = append(missing, day)
		}
	}

	return missing, nil
}
