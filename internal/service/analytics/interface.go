package analytics

import (
	"context"
	"time"

	"fleetmaster/internal/domain/models"
	"fleetmaster/pkg/uuid"
)

type AnalyticsRepo interface {
	YearlyTotals(ctx context.Context, profileID uuid.UUID, vehicleType string) ([]models.PeriodTotal, error)
	QuarterlyTotals(ctx context.Context, profileID uuid.UUID, vehicleType string) ([]models.PeriodTotal, error)
	MonthlyTotals(ctx context.Context, profileID uuid.UUID, vehicleType string) ([]models.PeriodTotal, error)
	TopPartFailures(ctx context.Context, profileID uuid.UUID, vehicleType string, since time.Time, limit int) ([]models.RecurringIssue, error)
}

type VehicleRepo interface {
	AllByProfile(ctx context.Context, profileID uuid.UUID, vehicleType string) ([]models.Vehicle, error)
	CountByProfile(ctx context.Context, profileID uuid.UUID, vehicleType string) (int, error)
}

type ShiftRepo interface {
	StartDates(ctx context.Context, driverID uuid.UUID, from, to time.Time) ([]time.Time, error)
}
