package fleet

import (
	"fleetmaster/pkg/logger"
	"fleetmaster/pkg/trm"
)

/*
Service provides the business logic for fleet management: vehicles,
drivers with their access codes, maintenance reports and shifts.
*/
type Service struct {
	repos     repos
	publisher Publisher
	alerter   Alerter
	trm       trm.TxManager
	l         logger.Logger
}

type repos struct {
	vehicle     VehicleRepo
	driver      DriverRepo
	maintenance MaintenanceRepo
	shift       ShiftRepo
}

// New returns a new instance of the fleet service with all dependencies injected.
func New(vehicleRepo VehicleRepo, driverRepo DriverRepo, maintenanceRepo MaintenanceRepo, shiftRepo ShiftRepo, publisher Publisher, alerter Alerter, trm trm.TxManager, l logger.Logger) *Service {
	return &Service{
		repos: repos{
			vehicle:     vehicleRepo,
			driver:      driverRepo,
			maintenance: maintenanceRepo,
			shift:       shiftRepo,
		},
		publisher: publisher,
		alerter:   alerter,
		trm:       trm,
		l:         l,
	}
}
