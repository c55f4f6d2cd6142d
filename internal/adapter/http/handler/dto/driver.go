package dto

import (
	"time"

	"fleetmaster/internal/domain/models"
	"fleetmaster/pkg/uuid"
	"fleetmaster/pkg/validator"
)

// dateLayout is the wire format for calendar dates.
const dateLayout = "2006-01-02"

type DriverLoginRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
	AccessCode  string `json:"access_code"`
}

// ToModel parses the date of birth. A malformed date is a bad request,
// a distinct outcome from wrong credentials.
func (r *DriverLoginRequest) ToModel() (*models.DriverLoginRequest, error) {
	dob, err := time.Parse(dateLayout, r.DateOfBirth)
	if err != nil {
		return nil, err
	}

	return &models.DriverLoginRequest{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		DateOfBirth: dob,
		AccessCode:  r.AccessCode,
	}, nil
}

func ValidateDriverLogin(v *validator.Validator, req *DriverLoginRequest) {
	v.Check(req.FirstName != "", "first_name", "must be provided")
	v.Check(req.LastName != "", "last_name", "must be provided")
	v.Check(req.DateOfBirth != "", "date_of_birth", "must be provided")
	v.Check(req.AccessCode != "", "access_code", "must be provided")
}

type CreateDriverRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
	Phone       string `json:"phone,omitempty"`
}

func (r *CreateDriverRequest) ToModel(profileID uuid.UUID) (*models.DriverCreateRequest, error) {
	dob, err := time.Parse(dateLayout, r.DateOfBirth)
	if err != nil {
		return nil, err
	}

	return &models.DriverCreateRequest{
		ProfileID:   profileID,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		DateOfBirth: dob,
		Phone:       r.Phone,
	}, nil
}

func ValidateCreateDriver(v *validator.Validator, req *CreateDriverRequest) {
	v.Check(req.FirstName != "", "first_name", "must be provided")
	v.Check(len(req.FirstName) <= 100, "first_name", "must not be more than 100 bytes long")
	v.Check(req.LastName != "", "last_name", "must be provided")
	v.Check(len(req.LastName) <= 100, "last_name", "must not be more than 100 bytes long")
	v.Check(req.DateOfBirth != "", "date_of_birth", "must be provided")

	if req.DateOfBirth != "" {
		_, err := time.Parse(dateLayout, req.DateOfBirth)
		v.Check(err == nil, "date_of_birth", "must be a valid date in YYYY-MM-DD format")
	}
}

type UpdateDriverRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
	Phone       string `json:"phone,omitempty"`
}

func (r *UpdateDriverRequest) ToModel(driverID uuid.UUID) (*models.Driver, error) {
	dob, err := time.Parse(dateLayout, r.DateOfBirth)
	if err != nil {
		return nil, err
	}

	return &models.Driver{
		ID:          driverID,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		DateOfBirth: dob,
		Phone:       r.Phone,
	}, nil
}

func ValidateUpdateDriver(v *validator.Validator, req *UpdateDriverRequest) {
	ValidateCreateDriver(v, &CreateDriverRequest{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
		Phone:       req.Phone,
	})
}
