package models

import (
	"time"

	"fleetmaster/pkg/uuid"
)

// MaintenanceReport is one maintenance episode on a vehicle.
// TotalCost is derived from the child events, never stored.
type MaintenanceReport struct {
	ID              uuid.UUID `json:"id"`
	ProfileID       uuid.UUID `json:"profile_id"`
	VehicleID       uuid.UUID `json:"vehicle_id"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	Mileage         int64     `json:"mileage"`
	Description     string    `json:"description,omitempty"`
	MaintenanceType string    `json:"maintenance_type"`

	TotalCost float64 `json:"total_cost"`

	PartPurchases []PartPurchaseEvent    `json:"part_purchase_events,omitempty"`
	ServiceEvents []ServiceProviderEvent `json:"service_provider_events,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

type PartPurchaseEvent struct {
	ID           uuid.UUID `json:"id"`
	ReportID     uuid.UUID `json:"report_id"`
	PartName     string    `json:"part_name"`
	Cost         float64   `json:"cost"`
	PurchaseDate time.Time `json:"purchase_date"`
}

type ServiceProviderEvent struct {
	ID           uuid.UUID `json:"id"`
	ReportID     uuid.UUID `json:"report_id"`
	ProviderName string    `json:"provider_name"`
	Cost         float64   `json:"cost"`
	ServiceDate  time.Time `json:"service_date"`
}
