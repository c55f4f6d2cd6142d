package handler

import (
	"context"
	"net/http"

	"fleetmaster/internal/adapter/http/handler/dto"
	"fleetmaster/internal/domain/models"
	"fleetmaster/pkg/logger"
	wrap "fleetmaster/pkg/logger/wrapper"
	"fleetmaster/pkg/uuid"
	"fleetmaster/pkg/validator"
)

type MaintenanceService interface {
	CreateReport(ctx context.Context, profileID uuid.UUID, report *models.MaintenanceReport) (*models.MaintenanceReport, error)
	GetReport(ctx context.Context, profileID, reportID uuid.UUID) (*models.MaintenanceReport, error)
	ListReports(ctx context.Context, profileID, vehicleID uuid.UUID, filters models.Filters) ([]models.MaintenanceReport, models.Metadata, error)
	UpdateReport(ctx context.Context, profileID uuid.UUID, report *models.MaintenanceReport) (*models.MaintenanceReport, error)
	DeleteReport(ctx context.Context, profileID, reportID uuid.UUID) error
}

type Maintenance struct {
	service MaintenanceService
	l       logger.Logger
}

func NewMaintenance(service MaintenanceService, l logger.Logger) *Maintenance {
	return &Maintenance{
		service: service,
		l:       l,
	}
}

var reportSortSafeList = []string{"created_at", "start_date", "total_cost", "-created_at", "-start_date", "-total_cost"}

func (h *Maintenance) Create(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "create_maintenance_report")

	var req dto.MaintenanceReportRequest
	if err := readJSON(w, r, &req); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to read request JSON data", err)
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateMaintenanceReport(v, &req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	identity := models.IdentityFromContext(ctx)

	report, err := req.ToModel(uuid.Nil, identity.ProfileID())
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	created, err := h.service.CreateReport(ctx, identity.ProfileID(), report)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to create maintenance report", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"report": created}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
		return
	}

	h.l.Info(ctx, "maintenance report created", "report_id", created.ID, "total_cost", created.TotalCost)
}

func (h *Maintenance) Get(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_maintenance_report")

	reportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequestResponse(w, "invalid report uuid format")
		return
	}

	identity := models.IdentityFromContext(ctx)

	report, err := h.service.GetReport(ctx, identity.ProfileID(), reportID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get maintenance report", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"report": report}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

func (h *Maintenance) List(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_maintenance_reports")

	v := validator.New()
	qs := r.URL.Query()

	page := readInt(qs, "page", 1, v)
	pageSize := readInt(qs, "page_size", 20, v)
	sort := readString(qs, "sort", "-created_at")

	// Optional scope to a single vehicle.
	vehicleID := uuid.Nil
	if raw := readString(qs, "vehicle_id", ""); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			v.AddError("vehicle_id", "must be a valid UUID")
		} else {
			vehicleID = parsed
		}
	}

	filters, err := models.NewFilters(page, pageSize, sort, reportSortSafeList)
	if err != nil {
		internalErrorResponse(w, "internal error")
		return
	}

	filters.Validate(v)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	identity := models.IdentityFromContext(ctx)

	reports, metadata, err := h.service.ListReports(ctx, identity.ProfileID(), vehicleID, filters)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list maintenance reports", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"reports":  reports,
		"metadata": metadata,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

func (h *Maintenance) Update(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "update_maintenance_report")

	reportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequestResponse(w, "invalid report uuid format")
		return
	}

	var req dto.MaintenanceReportRequest
	if err := readJSON(w, r, &req); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to read request JSON data", err)
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateMaintenanceReport(v, &req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	identity := models.IdentityFromContext(ctx)

	report, err := req.ToModel(reportID, identity.ProfileID())
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	updated, err := h.service.UpdateReport(ctx, identity.ProfileID(), report)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to update maintenance report", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"report": updated}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

func (h *Maintenance) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "delete_maintenance_report")

	reportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequestResponse(w, "invalid report uuid format")
		return
	}

	identity := models.IdentityFromContext(ctx)

	if err := h.service.DeleteReport(ctx, identity.ProfileID(), reportID); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to delete maintenance report", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"message": "maintenance report deleted"}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}

	h.l.Info(ctx, "maintenance report deleted", "report_id", reportID)
}
