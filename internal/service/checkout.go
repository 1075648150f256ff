package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/refurb_shop/internal/models"
	"github.com/Skotchmaster/refurb_shop/internal/repo"
	"github.com/Skotchmaster/refurb_shop/internal/transport"
)

type CheckoutService struct {
	Repo   *repo.GormRepo
	Events Publisher
}

var checkoutLimits = []struct {
	field string
	max   int
	get   func(*transport.CheckoutRequest) string
}{
	{"customer_name", 120, func(r *transport.CheckoutRequest) string { return r.CustomerName }},
	{"customer_email", 254, func(r *transport.CheckoutRequest) string { return r.CustomerEmail }},
	{"customer_phone", 50, func(r *transport.CheckoutRequest) string { return r.CustomerPhone }},
	{"customer_address", 255, func(r *transport.CheckoutRequest) string { return r.CustomerAddress }},
	{"payment_method", 20, func(r *transport.CheckoutRequest) string { return r.PaymentMethod }},
}

func normalizeCheckout(in transport.CheckoutRequest) (transport.CheckoutRequest, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.CustomerAddress = strings.TrimSpace(in.CustomerAddress)
	in.CustomerNotes = strings.TrimSpace(in.CustomerNotes)
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)

	if in.CustomerName == "" || in.CustomerEmail == "" {
		return in, validationf("customer_name and customer_email are required")
	}
	for _, lim := range checkoutLimits {
		if len([]rune(lim.get(&in))) > lim.max {
			return in, validationf("%s must be at most %d characters", lim.field, lim.max)
		}
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = models.DefaultPaymentMethod
	}
	return in, nil
}

// Checkout converts the session's cart into a PENDING order. An empty cart is
// reported before the customer fields are looked at.
func (s *CheckoutService) Checkout(ctx context.Context, sessionKey string, userID *uint, in transport.CheckoutRequest) (*transport.CheckoutResponse, error) {
	if err := checkSession(sessionKey); err != nil {
		return nil, err
	}

	lines, err := s.Repo.CartLines(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	in, err = normalizeCheckout(in)
	if err != nil {
		return nil, err
	}

	order := models.Order{
		UserID:          userID,
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		CustomerPhone:   in.CustomerPhone,
		CustomerAddress: in.CustomerAddress,
		CustomerNotes:   in.CustomerNotes,
		PaymentMethod:   in.PaymentMethod,
	}
	if err := s.Repo.Checkout(ctx, sessionKey, &order); err != nil {
		if errors.Is(err, repo.ErrNoLines) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}

	publish(ctx, s.Events, TopicOrder, orderKey(order.ID), Event{
		Type: "order_created", SessionKey: sessionKey, OrderID: order.ID, TotalCLP: order.TotalCLP, UserID: order.UserID,
	})

	return &transport.CheckoutResponse{
		OrderID:  order.ID,
		TotalCLP: order.TotalCLP,
		Status:   order.Status,
	}, nil
}
