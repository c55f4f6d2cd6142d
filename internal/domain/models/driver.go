package models

import (
	"time"

	"fleetmaster/pkg/uuid"
)

// Driver is a fleet employee with a code-based login, scoped under one Profile.
type Driver struct {
	ID          uuid.UUID `json:"id"`
	ProfileID   uuid.UUID `json:"profile_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DateOfBirth time.Time `json:"date_of_birth"`
	Phone       string    `json:"phone,omitempty"`
	AccessCode  string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
}

// DriverCreateRequest carries the fields needed to register a driver.
// The access code is generated server-side, never supplied by the caller.
type DriverCreateRequest struct {
	ProfileID   uuid.UUID
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	Phone       string
}

// DriverLoginRequest is the driver credential exchange payload.
// All fields are matched exactly and case-sensitively.
type DriverLoginRequest struct {
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	AccessCode  string
}

// Shift is one working period of a driver. EndedAt is nil while the
// shift is open.
type Shift struct {
	ID        uuid.UUID  `json:"id"`
	DriverID  uuid.UUID  `json:"driver_id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}
