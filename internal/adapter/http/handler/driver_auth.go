package handler

import (
	"context"
	"net/http"
	"time"

	"fleetmaster/internal/adapter/http/handler/dto"
	"fleetmaster/internal/domain/models"
	"fleetmaster/pkg/logger"
	wrap "fleetmaster/pkg/logger/wrapper"
	"fleetmaster/pkg/uuid"
	"fleetmaster/pkg/validator"
)

const (
	driverAccessCookie  = "driver_access"
	driverRefreshCookie = "driver_refresh"
)

type DriverAuthService interface {
	Login(ctx context.Context, req *models.DriverLoginRequest) (*models.TokenPair, error)
	Me(ctx context.Context, driverID uuid.UUID) (*models.Driver, error)
}

type DriverTokenService interface {
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
}

type ShiftService interface {
	StartShift(ctx context.Context, driverID uuid.UUID) (*models.Shift, error)
	EndShift(ctx context.Context, driverID uuid.UUID) (*models.Shift, error)
}

type ShiftReporter interface {
	MissingShiftDates(ctx context.Context, driverID uuid.UUID) ([]time.Time, error)
}

type DriverAuth struct {
	auth    DriverAuthService
	tokens  DriverTokenService
	shifts  ShiftService
	reports ShiftReporter
	l       logger.Logger
}

func NewDriverAuth(auth DriverAuthService, tokens DriverTokenService, shifts ShiftService, reports ShiftReporter, l logger.Logger) *DriverAuth {
	return &DriverAuth{
		auth:    auth,
		tokens:  tokens,
		shifts:  shifts,
		reports: reports,
		l:       l,
	}
}

func (h *DriverAuth) Login(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "login_driver")

	req := &dto.DriverLoginRequest{}
	if err := readJSON(w, r, req); err != nil {
		badRequestResponse(w, err.Error())
		return
	}

	v := validator.New()
	dto.ValidateDriverLogin(v, req)
	if !v.Valid() {
		failedValidationResponse(w, v.Errors)
		return
	}

	creds, err := req.ToModel()
	if err != nil {
		badRequestResponse(w, "date_of_birth must be a valid date in YYYY-MM-DD format")
		return
	}

	tokens, err := h.auth.Login(ctx, creds)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to login driver", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	setTokenCookies(w, driverAccessCookie, driverRefreshCookie, tokens)

	response := envelope{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

func (h *DriverAuth) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "refresh_driver_token")

	refreshToken := requestRefreshToken(w, r, driverRefreshCookie)
	if refreshToken == "" {
		badRequestResponse(w, "refresh token must be provided")
		return
	}

	tokens, err := h.tokens.Refresh(ctx, refreshToken)
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to refresh driver token pair", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	setTokenCookies(w, driverAccessCookie, driverRefreshCookie, tokens)

	response := envelope{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

func (h *DriverAuth) Me(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "get_driver_me")

	identity := models.IdentityFromContext(ctx)

	driver, err := h.auth.Me(ctx, identity.DriverID())
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to load driver account", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"driver": driver}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

func (h *DriverAuth) StartShift(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "start_shift")

	identity := models.IdentityFromContext(ctx)

	shift, err := h.shifts.StartShift(ctx, identity.DriverID())
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to start shift", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"shift": shift}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

func (h *DriverAuth) EndShift(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "end_shift")

	identity := models.IdentityFromContext(ctx)

	shift, err := h.shifts.EndShift(ctx, identity.DriverID())
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to end shift", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	response := envelope{"shift": shift}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}

func (h *DriverAuth) MissingShifts(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "missing_shift_dates")

	identity := models.IdentityFromContext(ctx)

	dates, err := h.reports.MissingShiftDates(ctx, identity.DriverID())
	if err != nil {
		h.l.Error(wrap.ErrorCtx(ctx, err), "failed to report missing shift dates", err)
		errorResponse(w, GetCode(err), err.Error())
		return
	}

	formatted := make([]string, 0, len(dates))
	for _, d := range dates {
		formatted = append(formatted, d.Format("2006-01-02"))
	}

	response := envelope{"missing_dates": formatted}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		h.l.Error(ctx, "failed to write JSON response", err)
		internalErrorResponse(w, "failed to write JSON response")
	}
}
