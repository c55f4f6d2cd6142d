package models

import (
	"time"

	"fleetmaster/pkg/uuid"
)

// Messages published to the fleet events exchange.

type ReportEventMessage struct {
	ReportID  uuid.UUID `json:"report_id"`
	ProfileID uuid.UUID `json:"profile_id"`
	VehicleID uuid.UUID `json:"vehicle_id"`
	TotalCost float64   `json:"total_cost"`
	Timestamp time.Time `json:"timestamp"`
}

type DriverEventMessage struct {
	DriverID  uuid.UUID `json:"driver_id"`
	ProfileID uuid.UUID `json:"profile_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Timestamp time.Time `json:"timestamp"`
}
