package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/refurb_shop/internal/service"
	"github.com/Skotchmaster/refurb_shop/internal/session"
	"github.com/Skotchmaster/refurb_shop/internal/transport"
	"github.com/Skotchmaster/refurb_shop/pkg/logging"
	middleware "github.com/Skotchmaster/refurb_shop/pkg/middleware/auth"
)

type CartHTTP struct {
	Svc *service.CartService
}

func callerID(c echo.Context) *uint {
	if id, ok := middleware.UserID(c); ok {
		return &id
	}
	return nil
}

func bindLine(c echo.Context) (*transport.CartLineRequest, uint, error) {
	var req transport.CartLineRequest
	if err := c.Bind(&req); err != nil {
		return nil, 0, errors.New("invalid body")
	}
	if !req.VariantID.Present {
		return nil, 0, errors.New("variant_id is required")
	}
	if !req.VariantID.Valid || req.VariantID.Value <= 0 {
		return nil, 0, errors.New("variant_id must be a positive integer")
	}
	return &req, uint(req.VariantID.Value), nil
}

// variantRequest reads {variant_id}; any other field is ignored.
func variantRequest(c echo.Context) (uint, error) {
	_, variantID, err := bindLine(c)
	return variantID, err
}

// lineRequest reads {variant_id, quantity}; quantity falls back to one when absent.
func lineRequest(c echo.Context) (uint, int, error) {
	req, variantID, err := bindLine(c)
	if err != nil {
		return 0, 0, err
	}
	qty := 1
	if req.Quantity.Present {
		if !req.Quantity.Valid {
			return 0, 0, errors.New("quantity must be an integer")
		}
		qty = int(req.Quantity.Value)
	}
	return variantID, qty, nil
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	cart, err := h.Svc.Read(ctx, session.Resolve(c.Request()), callerID(c))
	if err != nil {
		return fail(l, "get_cart", err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	variantID, qty, err := lineRequest(c)
	if err != nil {
		return badRequest(l, "add_to_cart", err.Error(), err)
	}
	if err := h.Svc.Add(ctx, session.Resolve(c.Request()), callerID(c), variantID, qty); err != nil {
		return fail(l, "add_to_cart", err)
	}

	l.Info("add_to_cart_success", "variant_id", variantID, "quantity", qty)
	return c.JSON(http.StatusCreated, echo.Map{"success": true})
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update")

	variantID, qty, err := lineRequest(c)
	if err != nil {
		return badRequest(l, "update_cart", err.Error(), err)
	}
	res, err := h.Svc.UpdateQuantity(ctx, session.Resolve(c.Request()), callerID(c), variantID, qty)
	if err != nil {
		return fail(l, "update_cart", err)
	}

	if res.Removed {
		return c.JSON(http.StatusOK, echo.Map{"removed": true})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"updated":    true,
		"variant_id": res.VariantID,
		"quantity":   res.Quantity,
	})
}

func (h *CartHTTP) RemoveLine(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove")

	variantID, err := variantRequest(c)
	if err != nil {
		return badRequest(l, "remove_from_cart", err.Error(), err)
	}
	n, err := h.Svc.RemoveLine(ctx, session.Resolve(c.Request()), variantID)
	if err != nil {
		return fail(l, "remove_from_cart", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"removed": n})
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	n, err := h.Svc.Clear(ctx, session.Resolve(c.Request()))
	if err != nil {
		return fail(l, "clear_cart", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"cleared": n})
}
