package handler

import (
	"net/http"

	"course-checkout/internal/errs"

	"github.com/labstack/echo/v4"
)

// httpError maps a marked service error to the status the client sees.
// Unmarked errors stay internal.
func httpError(err error) error {
	switch {
	case errs.Is(err, errs.ErrInvalidRequest):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	case errs.Is(err, errs.ErrCourseNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "course not found")
	case errs.Is(err, errs.ErrAlreadyEnrolled):
		return echo.NewHTTPError(http.StatusConflict, "already enrolled")
	case errs.Is(err, errs.ErrGatewayUnavailable), errs.Is(err, errs.ErrPersistence):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "temporarily unavailable, please retry").SetInternal(err)
	case errs.Is(err, errs.ErrInvalidSignature):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid signature")
	case errs.Is(err, errs.ErrInvalidPayload):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
	}
}
