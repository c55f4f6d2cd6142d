package types

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrDriverNotFound  = errors.New("driver not found")
	ErrReportNotFound  = errors.New("maintenance report not found")
	ErrShiftNotFound   = errors.New("shift not found")
	ErrNotFound        = errors.New("requested item not found")

	ErrForbidden       = errors.New("access to this resource is forbidden")
	ErrUnauthenticated = errors.New("authentication required")
	ErrRateLimited     = errors.New("too many failed attempts, try again later")

	ErrDuplicateEmail      = errors.New("account with this email already exists")
	ErrDuplicateAccessCode = errors.New("access code already in use")
	ErrInvalidDateRange    = errors.New("end date must not be before start date")
	ErrShiftAlreadyOpen    = errors.New("driver already has an open shift")
	ErrNoOpenShift         = errors.New("driver has no open shift")

	ErrInvalidVehicleType     = errors.New("unknown vehicle type")
	ErrInvalidMaintenanceType = errors.New("unknown maintenance type")
)
