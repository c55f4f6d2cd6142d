package models

import (
	"time"

	"fleetmaster/pkg/uuid"
)

type Vehicle struct {
	ID           uuid.UUID `json:"id"`
	ProfileID    uuid.UUID `json:"profile_id"`
	Registration string    `json:"registration"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Year         int       `json:"year"`
	VehicleType  string    `json:"vehicle_type"`
	Mileage      int64     `json:"mileage"`

	// Dates used for health scoring
	LastServiceDate     time.Time `json:"last_service_date"`
	NextServiceDue      time.Time `json:"next_service_due"`
	InsuranceExpiryDate time.Time `json:"insurance_expiry_date"`
	LicenseExpiryDate   time.Time `json:"license_expiry_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}
