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

type VehicleService interface {
	CreateVehicle(ctx context.Context, profileID uuid.UUID, vehicle *models.Vehicle) (*models.Vehicle, error)
	GetVehicle(ctx context.Context, profileID, vehicleID uuid.UUID) (*models.Vehicle, error)
	ListVehicles(ctx context.Context, profileID uuid.UUID, vehicleType string, filters models.Filters) ([]models.Vehicle, models.Metadata, error)
	UpdateVehicle(ctx context.Context, profileID uuid.UUID, vehicle *models.Vehicle) (*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, profileID, vehicleID uuid.UUID) error
}

type Vehicle struct {
	service VehicleService
	l       logger.Logger
}

func NewVehicle(service VehicleService, l logger.Logger) *Vehicle {
	return &Vehicle{
		service: service,
		l:       l,
	}
}

var vehicleSortSafeList = []string{"created_at", "registration", "year", "mileage", "-created_at", "-registration", "-year", "-mileage"}

func (h *Vehicle) Create(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "create_vehicle")

	var req dto.VehicleRequest
	if err := readJSON(w, r, &req); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to read request JSON data", err)
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateVehicle(v, &req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	identity := models.IdentityFromContext(ctx)

	vehicle, err := req.ToModel(uuid.Nil, identity.ProfileID())
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	created, err := h.service.CreateVehicle(ctx, identity.ProfileID(), vehicle)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to create vehicle", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"vehicle": created}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
		return
	}

	h.l.Info(ctx, "vehicle created", "vehicle_id", created.ID)
}

func (h *Vehicle) Get(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_vehicle")

	vehicleID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequestResponse(w, "invalid vehicle uuid format")
		return
	}

	identity := models.IdentityFromContext(ctx)

	vehicle, err := h.service.GetVehicle(ctx, identity.ProfileID(), vehicleID)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to get vehicle", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"vehicle": vehicle}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

func (h *Vehicle) List(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "list_vehicles")

	v := validator.New()
	qs := r.URL.Query()

	page := readInt(qs, "page", 1, v)
	pageSize := readInt(qs, "page_size", 20, v)
	sort := readString(qs, "sort", "created_at")
	vehicleType := readString(qs, "vehicle_type", "")

	filters, err := models.NewFilters(page, pageSize, sort, vehicleSortSafeList)
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

	vehicles, metadata, err := h.service.ListVehicles(ctx, identity.ProfileID(), vehicleType, filters)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to list vehicles", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{
		"vehicles": vehicles,
		"metadata": metadata,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

func (h *Vehicle) Update(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "update_vehicle")

	vehicleID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequestResponse(w, "invalid vehicle uuid format")
		return
	}

	var req dto.VehicleRequest
	if err := readJSON(w, r, &req); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to read request JSON data", err)
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateVehicle(v, &req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	identity := models.IdentityFromContext(ctx)

	vehicle, err := req.ToModel(vehicleID, identity.ProfileID())
	if err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	updated, err := h.service.UpdateVehicle(ctx, identity.ProfileID(), vehicle)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to update vehicle", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"vehicle": updated}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}

func (h *Vehicle) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "delete_vehicle")

	vehicleID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		badRequestResponse(w, "invalid vehicle uuid format")
		return
	}

	identity := models.IdentityFromContext(ctx)

	if err := h.service.DeleteVehicle(ctx, identity.ProfileID(), vehicleID); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to delete vehicle", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"message": "vehicle deleted"}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}

	h.l.Info(ctx, "vehicle deleted", "vehicle_id", vehicleID)
}
