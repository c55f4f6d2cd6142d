package analytics

import (
	"testing"
	"time"

	"fleetmaster/internal/domain/models"
	"fleetmaster/internal/domain/types"

	"github.com/stretchr/testify/assert"
)

func TestClassifyGapBoundaries(t *testing.T) {
	tests := []struct {
		days int
		want types.HealthBucket
	}{
		{31, types.HealthGood},
		{30, types.HealthWarning},
		{1, types.HealthWarning},
		{0, types.HealthWarning},
		{-1, types.HealthCritical},
		{-365, types.HealthCritical},
		{400, types.HealthGood},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyGap(tt.days), "gap of %d days", tt.days)
	}
}

func TestHealthReportBuckets(t *testing.T) {
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	today := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	vehicles := []models.Vehicle{
		{
			// Service gap 60d (good), insurance expired (critical),
			// license 10d out (warning).
			Registration:        "KA01",
			Make:                "Volvo",
			Model:               "FH",
			Year:                2020,
			LastServiceDate:     today.AddDate(0, 0, -30),
			NextServiceDue:      today.AddDate(0, 0, 30),
			InsuranceExpiryDate: today.AddDate(0, 0, -5),
			LicenseExpiryDate:   today.AddDate(0, 0, 10),
		},
		{
			// Everything far in the future.
			Registration:        "KA02",
			Make:                "Scania",
			Model:               "R450",
			Year:                2022,
			LastServiceDate:     today.AddDate(0, 0, -10),
			NextServiceDue:      today.AddDate(0, 0, 60),
			InsuranceExpiryDate: today.AddDate(1, 0, 0),
			LicenseExpiryDate:   today.AddDate(1, 0, 0),
		},
	}

	report := healthReport(now, vehicles)

	assert.Equal(t, 100.0, report.Service.GoodPct)
	assert.Empty(t, report.Service.Warning)
	assert.Empty(t, report.Service.Critical)

	assert.Equal(t, 50.0, report.Insurance.GoodPct)
	assert.Equal(t, 50.0, report.Insurance.CriticalPct)
	if assert.Len(t, report.Insurance.Critical, 1) {
		assert.Equal(t, "KA01", report.Insurance.Critical[0].Registration)
	}

	assert.Equal(t, 50.0, report.License.WarningPct)
	if assert.Len(t, report.License.Warning, 1) {
		assert.Equal(t, "KA01", report.License.Warning[0].Registration)
	}
}

func TestHealthReportEmptyFleet(t *testing.T) {
	report := healthReport(time.Now(), nil)

	assert.Equal(t, 0.0, report.Service.GoodPct)
	assert.Equal(t, 0.0, report.Insurance.CriticalPct)
	assert.Empty(t, report.License.Warning)
}

func TestHealthReportOverdueService(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	// NextServiceDue before LastServiceDate means the schedule is overdue.
	vehicles := []models.Vehicle{
		{
			Registration:    "KA03",
			LastServiceDate: now.AddDate(0, 0, -10),
			NextServiceDue:  now.AddDate(0, 0, -20),
			// Insurance and license well in the future.
			InsuranceExpiryDate: now.AddDate(2, 0, 0),
			LicenseExpiryDate:   now.AddDate(2, 0, 0),
		},
	}

	report := healthReport(now, vehicles)

	assert.Equal(t, 100.0, report.Service.CriticalPct)
	assert.Equal(t, 100.0, report.Insurance.GoodPct)
}
