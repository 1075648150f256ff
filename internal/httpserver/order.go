package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/refurb_shop/internal/service"
	"github.com/Skotchmaster/refurb_shop/pkg/logging"
	middleware "github.com/Skotchmaster/refurb_shop/pkg/middleware/auth"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.list")

	orders, err := h.Svc.ListAll(ctx)
	if err != nil {
		return fail(l, "list_orders", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) MyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "orders.mine")

	userID, ok := middleware.UserID(c)
	if !ok {
		l.Warn("my_orders_error", "status", http.StatusUnauthorized, "reason", "no user in context")
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := h.Svc.ListMine(ctx, userID)
	if err != nil {
		return fail(l, "my_orders", err)
	}
	return c.JSON(http.StatusOK, orders)
}
