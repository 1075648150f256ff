package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/refurb_shop/internal/service"
	"github.com/Skotchmaster/refurb_shop/pkg/logging"
	"github.com/Skotchmaster/refurb_shop/pkg/util"
)

type StatsHTTP struct {
	Svc *service.StatsService
}

// DailyStats serves ?days=N; anything that is not a positive integer means the default window.
func (h *StatsHTTP) DailyStats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.stats")

	days := util.ParseIntDefault(c.QueryParam("days"), service.DefaultStatsDays)
	res, err := h.Svc.DailyStats(ctx, days)
	if err != nil {
		return fail(l, "stats", err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *StatsHTTP) ManagementReport(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "management.report")

	rep, err := h.Svc.ManagementReport(ctx)
	if err != nil {
		return fail(l, "management_report", err)
	}
	return c.JSON(http.StatusOK, rep)
}
