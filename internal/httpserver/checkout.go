package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/refurb_shop/internal/service"
	"github.com/Skotchmaster/refurb_shop/internal/session"
	"github.com/Skotchmaster/refurb_shop/internal/transport"
	"github.com/Skotchmaster/refurb_shop/pkg/logging"
)

type CheckoutHTTP struct {
	Svc *service.CheckoutService
}

func (h *CheckoutHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout")

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "checkout", "invalid body", err)
	}

	res, err := h.Svc.Checkout(ctx, session.Resolve(c.Request()), callerID(c), req)
	if err != nil {
		return fail(l, "checkout", err)
	}

	l.Info("checkout_success", "order_id", res.OrderID, "total_clp", res.TotalCLP)
	return c.JSON(http.StatusCreated, res)
}
