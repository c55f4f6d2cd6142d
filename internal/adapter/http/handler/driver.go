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

type FleetDriverService interface {
	CreateDriver(ctx context.Context, req *models.DriverCreateRequest) (*models.Driver, error)
	GetDriver(ctx context.Context, profileID, driverID uuid.UUID) (*models.Driver, error)
	ListDrivers(ctx context.Context, profileID uuid.UUID, filters models.Filters) ([]models.Driver, models.Metadata, error)
	UpdateDriver(ctx context.Context, profileID uuid.UUID, driver *models.Driver) (*models.Driver, error)
	DeleteDriver(ctx context.Context, profileID, driverID uuid.UUID) error
	RegenerateAccessCode(ctx context.Context, profileID, driverID uuid.UUID) (string, error)
}

type Driver struct {
	service FleetDriverService
	l       logger.Logger
}

func NewDriver(service FleetDriverService, l logger.Logger) *Driver {
	return &Driver{
		service: service,
		l:       l,
	}
}

var driverSortSafeList = []string{"created_at", "last_name", "-created_at", "-last_name"}

func (h *Driver) Create(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "create_driver")

	var req dto.CreateDriverRequest
	if err := readJSON(w, r, &req); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to read request JSON data", err)
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateCreateDriver(v, &req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	identity := models.IdentityFromContext(ctx)

	createReq, err := req.ToModel(identity.ProfileID())
	if err != nil {
		badRequestResponse(w, "date_of_birth must be a valid date in YYYY-MM-DD format")
		return
	}

	driver, err := h.service.CreateDriver(ctx, createReq)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to create driver", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	// The access code is shown exactly once, at creation time.
	response := envelope{
		"driver":      driver,
		"access_code": driver.AccessCode,
	}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
		return
	}

	h.l.Info(ctx, "driver created", "driver_id", driver.ID)
}

func (h *Driver) Get(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_driver")

	driverID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequestResponse(w, "invalid driver uuid format")
		return
	}

	identity := models.IdentityFromContext(ctx)

	driver, err := h.service.GetDriver(ctx, identity.ProfileID(), driverID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get driver", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"driver": driver}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

func (h *Driver) List(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_drivers")

	v := validator.New()
	qs := r.URL.Query()

	page := readInt(qs, "page", 1, v)
	pageSize := readInt(qs, "page_size", 20, v)
	sort := readString(qs, "sort", "created_at")

	filters, err := models.NewFilters(page, pageSize, sort, driverSortSafeList)
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

	drivers, metadata, err := h.service.ListDrivers(ctx, identity.ProfileID(), filters)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list drivers", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"drivers":  drivers,
		"metadata": metadata,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

func (h *Driver) Update(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "update_driver")

	driverID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequestResponse(w, "invalid driver uuid format")
		return
	}

	var req dto.UpdateDriverRequest
	if err := readJSON(w, r, &req); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to read request JSON data", err)
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateUpdateDriver(v, &req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	driver, err := req.ToModel(driverID)
	if err != nil {
		badRequestResponse(w, "date_of_birth must be a valid date in YYYY-MM-DD format")
		return
	}

	identity := models.IdentityFromContext(ctx)

	updated, err := h.service.UpdateDriver(ctx, identity.ProfileID(), driver)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to update driver", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"driver": updated}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

func (h *Driver) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "delete_driver")

	driverID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequestResponse(w, "invalid driver uuid format")
		return
	}

	identity := models.IdentityFromContext(ctx)

	if err := h.service.DeleteDriver(ctx, identity.ProfileID(), driverID); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to delete driver", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"message": "driver deleted"}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}

	h.l.Info(ctx, "driver deleted", "driver_id", driverID)
}

func (h *Driver) RegenerateAccessCode(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "regenerate_access_code")

	driverID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequestResponse(w, "invalid driver uuid format")
		return
	}

	identity := models.IdentityFromContext(ctx)

	code, err := h.service.RegenerateAccessCode(ctx, identity.ProfileID(), driverID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to regenerate access code", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	// Shown once. The old code stops working immediately.
	response := envelope{"access_code": code}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}

	h.l.Info(ctx, "driver access code regenerated", "driver_id", driverID)
}
