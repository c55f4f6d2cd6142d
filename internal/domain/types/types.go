package types

// VehicleType classifies fleet vehicles
type VehicleType string

const (
	CarType   VehicleType = "CAR"
	VanType   VehicleType = "VAN"
	TruckType VehicleType = "TRUCK"
	BusType   VehicleType = "BUS"
)

func (t VehicleType) String() string {
	return string(t)
}

// IsValidVehicleType reports whether the given value is a known vehicle type.
func IsValidVehicleType(t string) bool {
	switch VehicleType(t) {
	case CarType, VanType, TruckType, BusType:
		return true
	default:
		return false
	}
}

// MaintenanceType classifies maintenance reports
type MaintenanceType string

const (
	PreventiveMaintenance MaintenanceType = "PREVENTIVE"
	CorrectiveMaintenance MaintenanceType = "CORRECTIVE"
	InspectionMaintenance MaintenanceType = "INSPECTION"
)

func IsValidMaintenanceType(t string) bool {
	switch MaintenanceType(t) {
	case PreventiveMaintenance, CorrectiveMaintenance, InspectionMaintenance:
		return true
	default:
		return false
	}
}

// HealthBucket classifies a vehicle on one date-gap measure
type HealthBucket string

const (
	HealthGood     HealthBucket = "good"     // gap > 30 days
	HealthWarning  HealthBucket = "warning"  // 0 <= gap <= 30 days
	HealthCritical HealthBucket = "critical" // gap < 0 (overdue)
)

// SubjectKind tags whose refresh token a stored record belongs to
type SubjectKind string

const (
	OwnerSubject  SubjectKind = "owner"
	DriverSubject SubjectKind = "driver"
)
