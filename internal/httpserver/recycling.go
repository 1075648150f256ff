package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/refurb_shop/internal/service"
	"github.com/Skotchmaster/refurb_shop/internal/transport"
	"github.com/Skotchmaster/refurb_shop/pkg/logging"
)

type RecyclingHTTP struct {
	Svc *service.RecyclingService
}

func (h *RecyclingHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "recycling.create")

	var req transport.RecyclingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "recycling_create", "invalid body", err)
	}
	rec, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "recycling_create", err)
	}

	l.Info("recycling_create_success", "id", rec.ID)
	return c.JSON(http.StatusCreated, echo.Map{"success": true})
}

func (h *RecyclingHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "recycling.list")

	list, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "recycling_list", err)
	}
	return c.JSON(http.StatusOK, list)
}
