package analytics

import (
	"context"
	"testing"
	"time"

	"fleetmaster/internal/domain/models"
	"fleetmaster/pkg/uuid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeShiftRepo struct {
	dates []time.Time
}

func (f *fakeShiftRepo) StartDates(_ context.Context, _ uuid.UUID, from, to time.Time) ([]time.Time, error) {
	var out []time.Time
	for _, d := range f.dates {
		if !d.Before(from) && d.Before(to) {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeAnalyticsRepo struct {
	yearly    []models.PeriodTotal
	quarterly []models.PeriodTotal
	monthly   []models.PeriodTotal
	issues    []models.RecurringIssue
}

func (f *fakeAnalyticsRepo) YearlyTotals(_ context.Context, _ uuid.UUID, _ string) ([]models.PeriodTotal, error) {
	return f.yearly, nil
}

func (f *fakeAnalyticsRepo) QuarterlyTotals(_ context.Context, _ uuid.UUID, _ string) ([]models.PeriodTotal, error) {
	return f.quarterly, nil
}

func (f *fakeAnalyticsRepo) MonthlyTotals(_ context.Context, _ uuid.UUID, _ string) ([]models.PeriodTotal, error) {
	return f.monthly, nil
}

func (f *fakeAnalyticsRepo) TopPartFailures(_ context.Context, _ uuid.UUID, _ string, _ time.Time, limit int) ([]models.RecurringIssue, error) {
	if len(f.issues) > limit {
		return f.issues[:limit], nil
	}
	return f.issues, nil
}

type fakeVehicleRepo struct {
	vehicles []models.Vehicle
}

func (f *fakeVehicleRepo) AllByProfile(_ context.Context, _ uuid.UUID, _ string) ([]models.Vehicle, error) {
	return f.vehicles, nil
}

func (f *fakeVehicleRepo) CountByProfile(_ context.Context, _ uuid.UUID, _ string) (int, error) {
	return len(f.vehicles), nil
}

func newTestService(analyticsRepo *fakeAnalyticsRepo, vehicleRepo *fakeVehicleRepo, shiftRepo *fakeShiftRepo, now time.Time) *Service {
	svc := New(analyticsRepo, vehicleRepo, shiftRepo, nil)
	svc.now = func() time.Time { return now }
	return svc
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMissingShiftDates(t *testing.T) {
	now := time.Date(2024, time.June, 30, 15, 30, 0, 0, time.UTC)

	// Shifts on three of the last 30 days; one date has two shifts.
	shifts := &fakeShiftRepo{dates: []time.Time{
		day(2024, time.June, 30),
		day(2024, time.June, 15),
		day(2024, time.June, 15),
		day(2024, time.June, 1),
	}}

	svc := newTestService(&fakeAnalyticsRepo{}, &fakeVehicleRepo{}, shifts, now)

	missing, err := svc.MissingShiftDates(context.Background(), uuid.New())
	require.NoError(t, err)

	// 30-day window minus 3 covered dates (duplicates collapse).
	assert.Len(t, missing, 27)

	assert.Equal(t, day(2024, time.June, 2), missing[0])
	assert.NotContains(t, missing, day(2024, time.June, 15))
	assert.NotContains(t, missing, day(2024, time.June, 30))

	// Ascending order.
	for i := 1; i < len(missing); i++ {
		assert.True(t, missing[i].After(missing[i-1]))
	}
}

func TestMissingShiftDatesNoShifts(t *testing.T) {
	now := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
	svc := newTestService(&fakeAnalyticsRepo{}, &fakeVehicleRepo{}, &fakeShiftRepo{}, now)

	missing, err := svc.MissingShiftDates(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Len(t, missing, 30)
	assert.Equal(t, day(2024, time.June, 1), missing[0])
	assert.Equal(t, day(2024, time.June, 30), missing[29])
}

func TestMissingShiftDatesIgnoresOldShifts(t *testing.T) {
	now := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)

	// A shift before the window does not cover anything.
	shifts := &fakeShiftRepo{dates: []time.Time{day(2024, time.April, 1)}}
	svc := newTestService(&fakeAnalyticsRepo{}, &fakeVehicleRepo{}, shifts, now)

	missing, err := svc.MissingShiftDates(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Len(t, missing, 30)
}

func TestOverviewAssemblesReport(t *testing.T) {
	now := time.Date(2024, time.May, 15, 0, 0, 0, 0, time.UTC)
	today := day(2024, time.May, 15)

	analyticsRepo := &fakeAnalyticsRepo{
		yearly: []models.PeriodTotal{
			{Year: 2023, Total: 1000},
			{Year: 2024, Total: 1200},
		},
		quarterly: []models.PeriodTotal{
			{Year: 2024, Quarter: 2, Total: 600},
		},
		monthly: []models.PeriodTotal{
			{Year: 2024, Month: 5, Total: 300},
		},
		issues: []models.RecurringIssue{
			{PartName: "brake pad", Count: 5},
			{PartName: "air filter", Count: 3},
		},
	}

	vehicleRepo := &fakeVehicleRepo{vehicles: []models.Vehicle{
		{
			Registration:        "KA01",
			LastServiceDate:     today.AddDate(0, 0, -10),
			NextServiceDue:      today.AddDate(0, 0, 50),
			InsuranceExpiryDate: today.AddDate(1, 0, 0),
			LicenseExpiryDate:   today.AddDate(1, 0, 0),
		},
		{
			Registration:        "KA02",
			LastServiceDate:     today.AddDate(0, 0, -100),
			NextServiceDue:      today.AddDate(0, 0, -120),
			InsuranceExpiryDate: today.AddDate(1, 0, 0),
			LicenseExpiryDate:   today.AddDate(1, 0, 0),
		},
	}}

	svc := newTestService(analyticsRepo, vehicleRepo, &fakeShiftRepo{}, now)

	report, err := svc.Overview(context.Background(), uuid.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Costs.VehicleCount)
	assert.Equal(t, 1200.0, report.Costs.YearTotal)
	assert.Equal(t, 600.0, report.Costs.YearAverage)
	assert.InDelta(t, 20.0, report.Costs.YoYChangePct, 1e-9)

	assert.Len(t, report.TopIssues, 2)
	assert.Equal(t, "brake pad", report.TopIssues[0].PartName)

	assert.Equal(t, 50.0, report.Health.Service.GoodPct)
	assert.Equal(t, 50.0, report.Health.Service.CriticalPct)

	assert.Len(t, report.Yearly, 2)
	assert.InDelta(t, 20.0, report.Yearly[1].ChangePct, 1e-9)
}

func TestOverviewRejectsUnknownVehicleType(t *testing.T) {
	svc := newTestService(&fakeAnalyticsRepo{}, &fakeVehicleRepo{}, &fakeShiftRepo{}, time.Now())

	_, err := svc.Overview(context.Background(), uuid.New(), "PLANE")
	assert.Error(t, err)
}
