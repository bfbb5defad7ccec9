package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/qrave1/RoomMeet/internal/application/constant"
	"github.com/qrave1/RoomMeet/internal/usecase"
)

var errorStatuses = []struct {
	err    error
	status int
}{
	{usecase.ErrInvalidReservation, http.StatusBadRequest},
	{usecase.ErrUnknownUser, http.StatusUnauthorized},
	{usecase.ErrInvalidCredentials, http.StatusUnauthorized},
	{usecase.ErrRoomNotFound, http.StatusNotFound},
	{usecase.ErrDuplicateTitle, http.StatusConflict},
	{usecase.ErrUsernameTaken, http.StatusConflict},
	{usecase.ErrNoActiveSession, http.StatusConflict},
	{usecase.ErrSessionNotFound, http.StatusGone},
	{usecase.ErrReservationNotYetStarted, http.StatusTooEarly},
	{usecase.ErrSessionProvisioningFailed, http.StatusBadGateway},
	{usecase.ErrRoomLockUnavailable, http.StatusServiceUnavailable},
}

// errorResponse отдает клиенту только сообщение sentinel-ошибки, детали остаются в логе
func errorResponse(c echo.Context, op string, err error) error {
	for _, e := range errorStatuses {
		if !errors.Is(err, e.err) {
			continue
		}

		if e.status >= http.StatusInternalServerError {
			slog.Error(op, slog.Any(constant.Error, err))
		}

		return c.JSON(e.status, map[string]string{"error": e.err.Error()})
	}

	slog.Error(op, slog.Any(constant.Error, err))

	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
}
