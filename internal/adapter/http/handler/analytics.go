package handler

import (
	"context"
	"net/http"

	"fleetmaster/internal/domain/models"
	"fleetmaster/pkg/logger"
	wrap "fleetmaster/pkg/logger/wrapper"
	"fleetmaster/pkg/uuid"
)

type AnalyticsService interface {
	Overview(ctx context.Context, profileID uuid.UUID, vehicleType string) (*models.OverviewReport, error)
}

type Analytics struct {
	service AnalyticsService
	l       logger.Logger
}

func NewAnalytics(service AnalyticsService, l logger.Logger) *Analytics {
	return &Analytics{
		service: service,
		l:       l,
	}
}

// Overview godoc
// @Summary      Maintenance overview
// @Description  Fleet-wide maintenance cost, recurring issue and health analytics
// @Tags         Analytics
// @Produce      json
// @Param        vehicle_type  query  string  false  "Restrict to one vehicle type (CAR, VAN, TRUCK, BUS)"
// @Success      200  {object}  models.OverviewReport
// @Router       /v1/maintenance/overview [get]
func (h *Analytics) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "maintenance_overview")

	vehicleType := readString(r.URL.Query(), "vehicle_type", "")

	identity := models.IdentityFromContext(ctx)

	overview, err := h.service.Overview(ctx, identity.ProfileID(), vehicleType)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to build maintenance overview", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"overview": overview}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(ctx, "failed to write response", err)
		internalErrorResponse(w, err.Error())
	}
}
