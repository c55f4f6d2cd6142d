package fleet

import (
	"context"
	"time"

	"fleetmaster/internal/domain/models"
	"fleetmaster/pkg/uuid"
)

type VehicleRepo interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID, vehicleType string, filters models.Filters) ([]models.Vehicle, models.Metadata, error)
	Update(ctx context.Context, vehicle *models.Vehicle) error
	Delete(ctx context.Context, id uuid.UUID) error
	SyncMileage(ctx context.Context, vehicleID uuid.UUID) error
}

type DriverRepo interface {
	Create(ctx context.Context, driver *models.Driver) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Driver, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID, filters models.Filters) ([]models.Driver, models.Metadata, error)
	Update(ctx context.Context, driver *models.Driver) error
	Delete(ctx context.Context, id uuid.UUID) error
	AccessCodeExists(ctx context.Context, code string) (bool, error)
	UpdateAccessCode(ctx context.Context, id uuid.UUID, code string) error
}

type MaintenanceRepo interface {
	CreateReport(ctx context.Context, report *models.MaintenanceReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MaintenanceReport, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID, vehicleID uuid.UUID, filters models.Filters) ([]models.MaintenanceReport, models.Metadata, error)
	Update(ctx context.Context, report *models.MaintenanceReport) error
	DeleteReport(ctx context.Context, id uuid.UUID) error
	DeleteEvents(ctx context.Context, reportID uuid.UUID) error
	AddPartPurchase(ctx context.Context, event *models.PartPurchaseEvent) error
	AddServiceEvent(ctx context.Context, event *models.ServiceProviderEvent) error
	LoadEvents(ctx context.Context, report *models.MaintenanceReport) error
}

type ShiftRepo interface {
	Create(ctx context.Context, shift *models.Shift) error
	GetOpen(ctx context.Context, driverID uuid.UUID) (*models.Shift, error)
	Close(ctx context.Context, shiftID uuid.UUID, endedAt time.Time) error
}

// Publisher emits fleet lifecycle events to the message broker.
type Publisher interface {
	PublishReportCreated(ctx context.Context, msg models.ReportEventMessage) error
	PublishReportDeleted(ctx context.Context, msg models.ReportEventMessage) error
	PublishDriverCreated(ctx context.Context, msg models.DriverEventMessage) error
}

// Alerter pushes live notifications to a connected fleet owner.
type Alerter interface {
	SendTo(id uuid.UUID, msg map[string]any) error
}
