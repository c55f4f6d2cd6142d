package dto

import (
	"time"

	"fleetmaster/internal/domain/models"
	"fleetmaster/internal/domain/types"
	"fleetmaster/pkg/uuid"
	"fleetmaster/pkg/validator"
)

type VehicleRequest struct {
	Registration string `json:"registration"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	VehicleType  string `json:"vehicle_type"`
	Mileage      int64  `json:"mileage"`

	LastServiceDate     string `json:"last_service_date"`
	NextServiceDue      string `json:"next_service_due"`
	InsuranceExpiryDate string `json:"insurance_expiry_date"`
	LicenseExpiryDate   string `json:"license_expiry_date"`
}

func (r *VehicleRequest) ToModel(id, profileID uuid.UUID) (*models.Vehicle, error) {
	lastService, err := time.Parse(dateLayout, r.LastServiceDate)
	if err != nil {
		return nil, err
	}
	nextService, err := time.Parse(dateLayout, r.NextServiceDue)
	if err != nil {
		return nil, err
	}
	insurance, err := time.Parse(dateLayout, r.InsuranceExpiryDate)
	if err != nil {
		return nil, err
	}
	license, err := time.Parse(dateLayout, r.LicenseExpiryDate)
	if err != nil {
		return nil, err
	}

	return &models.Vehicle{
		ID:                  id,
		ProfileID:           profileID,
		Registration:        r.Registration,
		Make:                r.Make,
		Model:               r.Model,
		Year:                r.Year,
		VehicleType:         r.VehicleType,
		Mileage:             r.Mileage,
		LastServiceDate:     lastService,
		NextServiceDue:      nextService,
		InsuranceExpiryDate: insurance,
		LicenseExpiryDate:   license,
	}, nil
}

func ValidateVehicle(v *validator.Validator, req *VehicleRequest) {
	v.Check(req.Registration != "", "registration", "must be provided")
	v.Check(len(req.Registration) <= 32, "registration", "must not be more than 32 bytes long")
	v.Check(req.Make != "", "make", "must be provided")
	v.Check(req.Model != "", "model", "must be provided")
	v.Check(req.Year >= 1950, "year", "must be 1950 or later")
	v.Check(req.Year <= time.Now().Year()+1, "year", "must not be in the future")
	v.Check(types.IsValidVehicleType(req.VehicleType), "vehicle_type", "must be one of CAR, VAN, TRUCK, BUS")
	v.Check(req.Mileage >= 0, "mileage", "must not be negative")

	for field, value := range map[string]string{
		"last_service_date":     req.LastServiceDate,
		"next_service_due":      req.NextServiceDue,
		"insurance_expiry_date": req.InsuranceExpiryDate,
		"license_expiry_date":   req.LicenseExpiryDate,
	} {
		v.Check(value != "", field, "must be provided")
		if value != "" {
			_, err := time.Parse(dateLayout, value)
			v.Check(err == nil, field, "must be a valid date in YYYY-MM-DD format")
		}
	}
}
