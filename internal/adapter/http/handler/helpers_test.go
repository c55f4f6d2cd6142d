package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"fleetmaster/internal/domain/types"
	"fleetmaster/internal/service/auth"
	"fleetmaster/internal/service/driverauth"
)

func TestGetCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{auth.ErrInvalidToken, http.StatusUnauthorized},
		{auth.ErrExpToken, http.StatusUnauthorized},
		{driverauth.ErrInvalidCredentials, http.StatusUnauthorized},
		{types.ErrUnauthenticated, http.StatusUnauthorized},
		{types.ErrForbidden, http.StatusForbidden},
		{types.ErrVehicleNotFound, http.StatusNotFound},
		{types.ErrDriverNotFound, http.StatusNotFound},
		{types.ErrReportNotFound, http.StatusNotFound},
		{auth.ErrNotUniqueEmail, http.StatusConflict},
		{types.ErrShiftAlreadyOpen, http.StatusConflict},
		{types.ErrDuplicateAccessCode, http.StatusConflict},
		{types.ErrInvalidDateRange, http.StatusUnprocessableEntity},
		{types.ErrInvalidVehicleType, http.StatusUnprocessableEntity},
		{types.ErrNoOpenShift, http.StatusUnprocessableEntity},
		{driverauth.ErrTooManyAttempts, http.StatusTooManyRequests},
		{types.ErrRateLimited, http.StatusTooManyRequests},
		{errors.New("database on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := GetCode(tt.err); got != tt.want {
			t.Errorf("GetCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestGetCodeUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("FleetService.GetVehicle: %w", types.ErrVehicleNotFound)
	if got := GetCode(wrapped); got != http.StatusNotFound {
		t.Errorf("GetCode(wrapped) = %d, want %d", got, http.StatusNotFound)
	}
}
