package fleet

import (
	"context"
	"fmt"
	"time"

	"fleetmaster/internal/domain/models"
	"fleetmaster/internal/domain/types"
	wrap "fleetmaster/pkg/logger/wrapper"
	"fleetmaster/pkg/uuid"
)

// Alert event names pushed over the owner's websocket and matched when
// choosing the broker routing.
const (
	reportCreatedEvent = "maintenance_report_created"
	reportDeletedEvent = "maintenance_report_deleted"
)

// CreateReport records a maintenance episode with its cost events and
// resyncs the vehicle's mileage, all in one transaction.
func (s *Service) CreateReport(ctx context.Context, profileID uuid.UUID, report *models.MaintenanceReport) (*models.MaintenanceReport, error) {
	ctx = wrap.WithAction(ctx, "create_maintenance_report")
	ctx = wrap.WithVehicleID(ctx, report.VehicleID.String())

	if _, err := s.ownedVehicle(ctx, profileID, report.VehicleID); err != nil {
		return nil, err
	}

	if err := validateReport(report); err != nil {
		return nil, err
	}

	report.ID = uuid.New()
	report.ProfileID = profileID
	report.CreatedAt = time.Now().UTC()

	fn := func(ctx context.Context) error {
		if err := s.repos.maintenance.CreateReport(ctx, report); err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}

		if err := s.insertEvents(ctx, report); err != nil {
			return err
		}

		if err := s.repos.vehicle.SyncMileage(ctx, report.VehicleID); err != nil {
			return fmt.Errorf("failed to sync vehicle mileage: %w", err)
		}

		return nil
	}

	if err := s.trm.Do(ctx, fn); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	report.TotalCost = eventsTotal(report)

	s.notifyReport(ctx, reportCreatedEvent, report)

	return report, nil
}

func (s *Service) GetReport(ctx context.Context, profileID, reportID uuid.UUID) (*models.MaintenanceReport, error) {
	ctx = wrap.WithAction(ctx, "get_maintenance_report")

	report, err := s.ownedReport(ctx, profileID, reportID)
	if err != nil {
		return nil, err
	}

	if err := s.repos.maintenance.LoadEvents(ctx, report); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to load report events: %w", err))
	}

	return report, nil
}

func (s *Service) ListReports(ctx context.Context, profileID, vehicleID uuid.UUID, filters models.Filters) ([]models.MaintenanceReport, models.Metadata, error) {
	ctx = wrap.WithAction(ctx, "list_maintenance_reports")

	if !vehicleID.IsNil() {
		if _, err := s.ownedVehicle(ctx, profileID, vehicleID); err != nil {
			return nil, models.Metadata{}, err
		}
	}

	reports, metadata, err := s.repos.maintenance.ListByProfile(ctx, profileID, vehicleID, filters)
	if err != nil {
		return nil, models.Metadata{}, wrap.Error(ctx, fmt.Errorf("failed to list reports: %w", err))
	}

	return reports, metadata, nil
}

// UpdateReport replaces the report fields and its full event set, then
// resyncs the vehicle's mileage. Events are replaced wholesale; partial
// event edits do not exist.
func (s *Service) UpdateReport(ctx context.Context, profileID uuid.UUID, report *models.MaintenanceReport) (*models.MaintenanceReport, error) {
	ctx = wrap.WithAction(ctx, "update_maintenance_report")

	existing, err := s.ownedReport(ctx, profileID, report.ID)
	if err != nil {
		return nil, err
	}

	if err := validateReport(report); err != nil {
		return nil, err
	}

	report.ProfileID = existing.ProfileID
	report.VehicleID = existing.VehicleID
	report.CreatedAt = existing.CreatedAt

	fn := func(ctx context.Context) error {
		if err := s.repos.maintenance.Update(ctx, report); err != nil {
			return fmt.Errorf("failed to update report: %w", err)
		}

		if err := s.repos.maintenance.DeleteEvents(ctx, report.ID); err != nil {
			return fmt.Errorf("failed to delete old events: %w", err)
		}

		if err := s.insertEvents(ctx, report); err != nil {
			return err
		}

		if err := s.repos.vehicle.SyncMileage(ctx, report.VehicleID); err != nil {
			return fmt.Errorf("failed to sync vehicle mileage: %w", err)
		}

		return nil
	}

	if err := s.trm.Do(ctx, fn); err != nil {
		return nil, wrap.Error(ctx, err)
	}

	report.TotalCost = eventsTotal(report)

	return report, nil
}

// DeleteReport removes the report with its cost events and resyncs the
// vehicle's mileage from the remaining reports. The three writes
// commit or roll back together.
func (s *Service) DeleteReport(ctx context.Context, profileID, reportID uuid.UUID) error {
	ctx = wrap.WithAction(ctx, "delete_maintenance_report")

	report, err := s.ownedReport(ctx, profileID, reportID)
	if err != nil {
		return err
	}

	fn := func(ctx context.Context) error {
		if err := s.repos.maintenance.DeleteEvents(ctx, reportID); err != nil {
			return fmt.Errorf("failed to delete report events: %w", err)
		}

		if err := s.repos.maintenance.DeleteReport(ctx, reportID); err != nil {
			return fmt.Errorf("failed to delete report: %w", err)
		}

		if err := s.repos.vehicle.SyncMileage(ctx, report.VehicleID); err != nil {
			return fmt.Errorf("failed to sync vehicle mileage: %w", err)
		}

		return nil
	}

	if err := s.trm.Do(ctx, fn); err != nil {
		return wrap.Error(ctx, err)
	}

	s.notifyReport(ctx, reportDeletedEvent, report)

	return nil
}

func (s *Service) insertEvents(ctx context.Context, report *models.MaintenanceReport) error {
	for i := range report.PartPurchases {
		event := &report.PartPurchases[i]
		event.ID = uuid.New()
		event.ReportID = report.ID

		if err := s.repos.maintenance.AddPartPurchase(ctx, event); err != nil {
			return fmt.Errorf("failed to add part purchase event: %w", err)
		}
	}

	for i := range report.ServiceEvents {
		event := &report.ServiceEvents[i]
		event.ID = uuid.New()
		event.ReportID = report.ID

		if err := s.repos.maintenance.AddServiceEvent(ctx, event); err != nil {
			return fmt.Errorf("failed to add service provider event: %w", err)
		}
	}

	return nil
}

// notifyReport publishes the broker event and pushes a live alert to
// the owner if they have an open websocket. Neither failure rolls back
// the committed report.
func (s *Service) notifyReport(ctx context.Context, event string, report *models.MaintenanceReport) {
	if s.publisher != nil {
		msg := models.ReportEventMessage{
			ReportID:  report.ID,
			ProfileID: report.ProfileID,
			VehicleID: report.VehicleID,
			TotalCost: report.TotalCost,
			Timestamp: time.Now().UTC(),
		}

		var err error
		switch event {
		case reportCreatedEvent:
			err = s.publisher.PublishReportCreated(ctx, msg)
		case reportDeletedEvent:
			err = s.publisher.PublishReportDeleted(ctx, msg)
		}
		if err != nil {
			s.l.Warn(ctx, "failed to publish report event", "event", event, "report_id", report.ID)
		}
	}

	if s.alerter != nil {
		alert := map[string]any{
			"event":      event,
			"report_id":  report.ID.String(),
			"vehicle_id": report.VehicleID.String(),
			"total_cost": report.TotalCost,
		}
		// No connection just means the owner is not watching.
		_ = s.alerter.SendTo(report.ProfileID, alert)
	}
}

func (s *Service) ownedReport(ctx context.Context, profileID, reportID uuid.UUID) (*models.MaintenanceReport, error) {
	report, err := s.repos.maintenance.GetByID(ctx, reportID)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to load report: %w", err))
	}

	if report == nil {
		return nil, types.ErrReportNotFound
	}

	if report.ProfileID != profileID {
		return nil, types.ErrForbidden
	}

	return report, nil
}

func validateReport(report *models.MaintenanceReport) error {
	if report.EndDate.Before(report.StartDate) {
		return types.ErrInvalidDateRange
	}

	if !types.IsValidMaintenanceType(report.MaintenanceType) {
		return types.ErrInvalidMaintenanceType
	}

	return nil
}

func eventsTotal(report *models.MaintenanceReport) float64 {
	var total float64
	for _, e := range report.PartPurchases {
		total += e.Cost
	}
	for _, e := range report.ServiceEvents {
		total += e.Cost
	}
	return total
}
