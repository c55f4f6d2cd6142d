package analytics

import (
	"time"

	"fleetmaster/internal/domain/models"
	"fleetmaster/internal/domain/types"
)

// healthWarningDays is the bucket boundary: a gap above it is good,
// a non-negative gap up to it is warning, a negative gap is critical.
const healthWarningDays = 30

// healthReport classifies every vehicle on three independent date-gap
// measures and aggregates bucket percentages per measure.
func healthReport(now time.Time, vehicles []models.Vehicle) models.HealthReport {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var service, insurance, license measureAccumulator

	for _, v := range vehicles {
		ref := models.VehicleRef{
			Registration: v.Registration,
			Make:         v.Make,
			Model:        v.Model,
			Year:         v.Year,
		}

		service.add(ref, daysBetween(v.LastServiceDate, v.NextServiceDue))
		insurance.add(ref, daysBetween(today, v.InsuranceExpiryDate))
		license.add(ref, daysBetween(today, v.LicenseExpiryDate))
	}

	total := len(vehicles)

	return models.HealthReport{
		Service:   service.measure(total),
		Insurance: insurance.measure(total),
		License:   license.measure(total),
	}
}

// classifyGap maps a day gap to its health bucket.
func classifyGap(days int) types.HealthBucket {
	switch {
	case days > healthWarningDays:
		return types.HealthGood
	case days >= 0:
		return types.HealthWarning
	default:
		return types.HealthCritical
	}
}

// daysBetween returns the whole-day gap from a to b, negative when b
// precedes a.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

type measureAccumulator struct {
	good     int
	warning  []models.VehicleRef
	critical []models.VehicleRef
}

func (m *measureAccumulator) add(ref models.VehicleRef, gapDays int) {
	switch classifyGap(gapDays) {
	case types.HealthGood:
		m.good++
	case types.HealthWarning:
		m.warning = append(m.warning, ref)
	case types.HealthCritical:
		m.critical = append(m.critical, ref)
	}
}

func (m *measureAccumulator) measure(total int) models.HealthMeasure {
	out := models.HealthMeasure{
		Warning:  m.warning,
		Critical: m.critical,
	}

	if total == 0 {
		return out
	}

	count := float64(total)
	out.GoodPct = float64(m.good) / count * 100
	out.WarningPct = float64(len(m.warning)) / count * 100
	out.CriticalPct = float64(len(m.critical)) / count * 100

	return out
}
