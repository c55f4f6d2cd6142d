package analytics

import (
	"time"

	"fleetmaster/internal/domain/models"
)

type periodShape int

const (
	yearShape periodShape = iota
	quarterShape
	monthShape
)

// periodChanges annotates ordered period rows with their change against
// the immediately preceding row. The change is computed only when the
// two periods are calendar-adjacent; a gap in the sequence or a zero
// previous total yields 0, never a division error.
func periodChanges(totals []models.PeriodTotal, shape periodShape) []models.PeriodChange {
	changes := make([]models.PeriodChange, 0, len(totals))

	for i, cur := range totals {
		change := models.PeriodChange{
			Year:    cur.Year,
			Quarter: cur.Quarter,
			Month:   cur.Month,
			Total:   cur.Total,
		}

		if i > 0 {
			prev := totals[i-1]
			if adjacent(prev, cur, shape) && prev.Total != 0 {
				change.ChangePct = (cur.Total - prev.Total) / prev.Total * 100
			}
		}

		changes = append(changes, change)
	}

	return changes
}

// adjacent reports whether cur immediately follows prev in calendar
// order for the given shape.
func adjacent(prev, cur models.PeriodTotal, shape periodShape) bool {
	switch shape {
	case yearShape:
		return cur.Year == prev.Year+1
	case quarterShape:
		if cur.Year == prev.Year {
			return cur.Quarter == prev.Quarter+1
		}
		return cur.Year == prev.Year+1 && prev.Quarter == 4 && cur.Quarter == 1
	case monthShape:
		if cur.Year == prev.Year {
			return cur.Month == prev.Month+1
		}
		return cur.Year == prev.Year+1 && prev.Month == 12 && cur.Month == 1
	default:
		return false
	}
}

// costSummary rolls the current calendar year, quarter and month totals
// up with fleet averages. An empty fleet averages to 0.0 rather than
// dividing by zero.
func costSummary(now time.Time, vehicleCount int, yearly, quarterly, monthly []models.PeriodTotal) models.CostSummary {
	year := now.Year()
	quarter := (int(now.Month())-1)/3 + 1
	month := int(now.Month())

	summary := models.CostSummary{VehicleCount: vehicleCount}

	var prevYearTotal float64
	for _, t := range yearly {
		switch t.Year {
		case year:
			summary.YearTotal = t.Total
		case year - 1:
			prevYearTotal = t.Total
		}
	}

	for _, t := range quarterly {
		if t.Year == year && t.Quarter == quarter {
			summary.QuarterTotal = t.Total
			break
		}
	}

	for _, t := range monthly {
		if t.Year == year && t.Month == month {
			summary.MonthTotal = t.Total
			break
		}
	}

	if vehicleCount > 0 {
		count := float64(vehicleCount)
		summary.YearAverage = summary.YearTotal / count
		summary.QuarterAverage = summary.QuarterTotal / count
		summary.MonthAverage = summary.MonthTotal / count
	}

	// A zero previous year means no baseline, not an error.
	if prevYearTotal != 0 {
		summary.YoYChangePct = (summary.YearTotal - prevYearTotal) / prevYearTotal * 100
	}

	return summary
}
