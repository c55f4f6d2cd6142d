package dto

import (
	"time"

	"fleetmaster/internal/domain/models"
	"fleetmaster/internal/domain/types"
	"fleetmaster/pkg/uuid"
	"fleetmaster/pkg/validator"
)

type PartPurchaseRequest struct {
	PartName     string  `json:"part_name"`
	Cost         float64 `json:"cost"`
	PurchaseDate string  `json:"purchase_date"`
}

type ServiceProviderRequest struct {
	ProviderName string  `json:"provider_name"`
	Cost         float64 `json:"cost"`
	ServiceDate  string  `json:"service_date"`
}

type MaintenanceReportRequest struct {
	VehicleID       string `json:"vehicle_id"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	Mileage         int64  `json:"mileage"`
	Description     string `json:"description,omitempty"`
	MaintenanceType string `json:"maintenance_type"`

	PartPurchases []PartPurchaseRequest    `json:"part_purchase_events,omitempty"`
	ServiceEvents []ServiceProviderRequest `json:"service_provider_events,omitempty"`
}

func (r *MaintenanceReportRequest) ToModel(id, profileID uuid.UUID) (*models.MaintenanceReport, error) {
	vehicleID, err := uuid.Parse(r.VehicleID)
	if err != nil {
		return nil, err
	}
	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse(dateLayout, r.EndDate)
	if err != nil {
		return nil, err
	}

	report := &models.MaintenanceReport{
		ID:              id,
		ProfileID:       profileID,
		VehicleID:       vehicleID,
		StartDate:       start,
		EndDate:         end,
		Mileage:         r.Mileage,
		Description:     r.Description,
		MaintenanceType: r.MaintenanceType,
	}

	for _, p := range r.PartPurchases {
		date, err := time.Parse(dateLayout, p.PurchaseDate)
		if err != nil {
			return nil, err
		}
		report.PartPurchases = append(report.PartPurchases, models.PartPurchaseEvent{
			PartName:     p.PartName,
			Cost:         p.Cost,
			PurchaseDate: date,
		})
	}

	for _, s := range r.ServiceEvents {
		date, err := time.Parse(dateLayout, s.ServiceDate)
		if err != nil {
			return nil, err
		}
		report.ServiceEvents = append(report.ServiceEvents, models.ServiceProviderEvent{
			ProviderName: s.ProviderName,
			Cost:         s.Cost,
			ServiceDate:  date,
		})
	}

	return report, nil
}

func ValidateMaintenanceReport(v *validator.Validator, req *MaintenanceReportRequest) {
	v.Check(req.VehicleID != "", "vehicle_id", "must be provided")
	if req.VehicleID != "" {
		_, err := uuid.Parse(req.VehicleID)
		v.Check(err == nil, "vehicle_id", "must be a valid UUID")
	}

	v.Check(types.IsValidMaintenanceType(req.MaintenanceType), "maintenance_type", "must be one of PREVENTIVE, CORRECTIVE, INSPECTION")
	v.Check(req.Mileage >= 0, "mileage", "must not be negative")

	validateDateField(v, "start_date", req.StartDate)
	validateDateField(v, "end_date", req.EndDate)

	for _, p := range req.PartPurchases {
		v.Check(p.PartName != "", "part_purchase_events", "part_name must be provided")
		v.Check(p.Cost >= 0, "part_purchase_events", "cost must not be negative")
		validateDateField(v, "part_purchase_events", p.PurchaseDate)
	}

	for _, s := range req.ServiceEvents {
		v.Check(s.ProviderName != "", "service_provider_events", "provider_name must be provided")
		v.Check(s.Cost >= 0, "service_provider_events", "cost must not be negative")
		validateDateField(v, "service_provider_events", s.ServiceDate)
	}
}

func validateDateField(v *validator.Validator, field, value string) {
	v.Check(value != "", field, "must be provided")
	if value != "" {
		_, err := time.Parse(dateLayout, value)
		v.Check(err == nil, field, "must be a valid date in YYYY-MM-DD format")
	}
}
