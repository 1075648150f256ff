package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/refurb_shop/internal/service"
)

var statusBySentinel = []struct {
	err  error
	code int
}{
	{service.ErrValidation, http.StatusBadRequest},
	{service.ErrEmptyCart, http.StatusBadRequest},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrConflict, http.StatusConflict},
	{service.ErrUnauthorized, http.StatusUnauthorized},
}

// message drops the ": <sentinel>" suffix the service layer appends.
func message(err, sentinel error) string {
	msg := err.Error()
	if msg == sentinel.Error() {
		return msg
	}
	return strings.TrimSuffix(msg, ": "+sentinel.Error())
}

// fail logs the error under op and converts it into an echo.HTTPError.
// Unknown errors become a 500 with a generic message.
func fail(l *slog.Logger, op string, err error) error {
	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			l.Warn(op+"_error", "status", s.code, "error", err)
			return echo.NewHTTPError(s.code, message(err, s.err))
		}
	}
	l.Error(op+"_error", "status", http.StatusInternalServerError, "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}

func badRequest(l *slog.Logger, op, reason string, err error) error {
	l.Warn(op+"_error", "status", http.StatusBadRequest, "reason", reason, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, reason)
}

func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New(name + " must be a positive integer")
	}
	return uint(id), nil
}
