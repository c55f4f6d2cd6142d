package analytics

import (
	"testing"
	"time"

	"fleetmaster/internal/domain/models"

	"github.com/stretchr/testify/assert"
)

func TestPeriodChangesMonthlyAdjacent(t *testing.T) {
	totals := []models.PeriodTotal{
		{Year: 2024, Month: 1, Total: 100},
		{Year: 2024, Month: 2, Total: 150},
		{Year: 2024, Month: 3, Total: 75},
	}

	changes := periodChanges(totals, monthShape)

	assert.Len(t, changes, 3)
	assert.Equal(t, 0.0, changes[0].ChangePct)
	assert.InDelta(t, 50.0, changes[1].ChangePct, 1e-9)
	assert.InDelta(t, -50.0, changes[2].ChangePct, 1e-9)
}

func TestPeriodChangesMonthlyGap(t *testing.T) {
	// February is missing, so March has no computable change.
	totals := []models.PeriodTotal{
		{Year: 2024, Month: 1, Total: 100},
		{Year: 2024, Month: 3, Total: 200},
	}

	changes := periodChanges(totals, monthShape)

	assert.Equal(t, 0.0, changes[1].ChangePct)
}

func TestPeriodChangesDecemberToJanuary(t *testing.T) {
	totals := []models.PeriodTotal{
		{Year: 2023, Month: 12, Total: 100},
		{Year: 2024, Month: 1, Total: 110},
	}

	changes := periodChanges(totals, monthShape)

	assert.InDelta(t, 10.0, changes[1].ChangePct, 1e-9)
}

func TestPeriodChangesQuarterly(t *testing.T) {
	tests := []struct {
		name    string
		prev    models.PeriodTotal
		cur     models.PeriodTotal
		wantPct float64
	}{
		{
			"same year adjacent",
			models.PeriodTotal{Year: 2024, Quarter: 1, Total: 100},
			models.PeriodTotal{Year: 2024, Quarter: 2, Total: 120},
			20.0,
		},
		{
			"q4 to q1 across years",
			models.PeriodTotal{Year: 2023, Quarter: 4, Total: 200},
			models.PeriodTotal{Year: 2024, Quarter: 1, Total: 100},
			-50.0,
		},
		{
			"gap within year",
			models.PeriodTotal{Year: 2024, Quarter: 1, Total: 100},
			models.PeriodTotal{Year: 2024, Quarter: 3, Total: 120},
			0.0,
		},
		{
			"gap across years",
			models.PeriodTotal{Year: 2022, Quarter: 4, Total: 100},
			models.PeriodTotal{Year: 2024, Quarter: 1, Total: 120},
			0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes := periodChanges([]models.PeriodTotal{tt.prev, tt.cur}, quarterShape)
			assert.InDelta(t, tt.wantPct, changes[1].ChangePct, 1e-9)
		})
	}
}

func TestPeriodChangesYearlyGap(t *testing.T) {
	totals := []models.PeriodTotal{
		{Year: 2021, Total: 100},
		{Year: 2022, Total: 150},
		{Year: 2024, Total: 300},
	}

	changes := periodChanges(totals, yearShape)

	assert.InDelta(t, 50.0, changes[1].ChangePct, 1e-9)
	// 2023 is missing, so 2024 has no baseline.
	assert.Equal(t, 0.0, changes[2].ChangePct)
}

func TestPeriodChangesZeroPrevious(t *testing.T) {
	totals := []models.PeriodTotal{
		{Year: 2023, Total: 0},
		{Year: 2024, Total: 500},
	}

	changes := periodChanges(totals, yearShape)

	assert.Equal(t, 0.0, changes[1].ChangePct)
}

func TestCostSummaryCurrentPeriods(t *testing.T) {
	now := time.Date(2024, time.May, 15, 10, 0, 0, 0, time.UTC)

	yearly := []models.PeriodTotal{
		{Year: 2023, Total: 1000},
		{Year: 2024, Total: 1500},
	}
	quarterly := []models.PeriodTotal{
		{Year: 2024, Quarter: 1, Total: 700},
		{Year: 2024, Quarter: 2, Total: 800},
	}
	monthly := []models.PeriodTotal{
		{Year: 2024, Month: 4, Total: 300},
		{Year: 2024, Month: 5, Total: 500},
	}

	summary := costSummary(now, 4, yearly, quarterly, monthly)

	assert.Equal(t, 4, summary.VehicleCount)
	assert.Equal(t, 1500.0, summary.YearTotal)
	assert.Equal(t, 375.0, summary.YearAverage)
	// May is in Q2.
	assert.Equal(t, 800.0, summary.QuarterTotal)
	assert.Equal(t, 200.0, summary.QuarterAverage)
	assert.Equal(t, 500.0, summary.MonthTotal)
	assert.Equal(t, 125.0, summary.MonthAverage)
	assert.InDelta(t, 50.0, summary.YoYChangePct, 1e-9)
}

func TestCostSummaryEmptyFleet(t *testing.T) {
	now := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)

	summary := costSummary(now, 0, nil, nil, nil)

	assert.Equal(t, 0.0, summary.YearAverage)
	assert.Equal(t, 0.0, summary.QuarterAverage)
	assert.Equal(t, 0.0, summary.MonthAverage)
}

func TestCostSummaryNoBaselineYear(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	yearly := []models.PeriodTotal{
		{Year: 2024, Total: 900},
	}

	summary := costSummary(now, 3, yearly, nil, nil)

	assert.Equal(t, 0.0, summary.YoYChangePct)
}
