package httpserver_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/refurb_shop/internal/models"
	"github.com/Skotchmaster/refurb_shop/internal/repo"
	"github.com/Skotchmaster/refurb_shop/internal/transport"
	middleware "github.com/Skotchmaster/refurb_shop/pkg/middleware/auth"
)

func TestCheckout_HTTP(t *testing.T) {
	s := newServer(t)
	v := s.variant(t, "Laptop", 1500)
	u, tok := s.user(t, "ana", middleware.RoleUser)

	rec := s.do(t, call{method: http.MethodPost, path: "/api/v1/checkout", session: "s1", body: map[string]any{}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"cart is empty"}`, rec.Body.String())

	s.do(t, call{method: http.MethodPost, path: "/api/v1/cart", session: "s1", token: tok, body: map[string]any{"variant_id": v.ID, "quantity": 2}})

	rec = s.do(t, call{method: http.MethodPost, path: "/api/v1/checkout", session: "s1", token: tok, body: map[string]any{"customer_name": "Ana"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, call{method: http.MethodPost, path: "/api/v1/checkout", session: "s1", token: tok, body: transport.CheckoutRequest{
		CustomerName: "Ana", CustomerEmail: "ana@x.com",
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	res := decode[transport.CheckoutResponse](t, rec)
	assert.EqualValues(t, 3000, res.TotalCLP)
	assert.Equal(t, models.StatusPending, res.Status)

	cart := decode[transport.Cart](t, s.do(t, call{method: http.MethodGet, path: "/api/v1/cart", session: "s1"}))
	assert.Empty(t, cart.Items)

	rec = s.do(t, call{method: http.MethodGet, path: "/api/v1/orders/mine", token: tok})
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decode[[]models.Order](t, rec)
	require.Len(t, mine, 1)
	assert.Equal(t, res.OrderID, mine[0].ID)
	require.NotNil(t, mine[0].UserID)
	assert.Equal(t, u.ID, *mine[0].UserID)
	require.Len(t, mine[0].Items, 1)
	assert.Equal(t, "Laptop", mine[0].Items[0].TitleSnapshot)
}

func TestStaffEndpoints_Authorization(t *testing.T) {
	s := newServer(t)
	_, userTok := s.user(t, "ana", middleware.RoleUser)
	adminTok := s.admin(t)

	for _, path := range []string{
		"/api/v1/orders",
		"/api/v1/admin/stats",
		"/api/v1/management-report",
	} {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, s.do(t, call{method: http.MethodGet, path: path}).Code)
			assert.Equal(t, http.StatusForbidden, s.do(t, call{method: http.MethodGet, path: path, token: userTok}).Code)
			assert.Equal(t, http.StatusOK, s.do(t, call{method: http.MethodGet, path: path, token: adminTok}).Code)
		})
	}

	assert.Equal(t, http.StatusUnauthorized, s.do(t, call{method: http.MethodGet, path: "/api/v1/orders/mine"}).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, call{method: http.MethodGet, path: "/api/v1/orders/mine", token: "garbage"}).Code)
}

func TestStats_HTTP(t *testing.T) {
	s := newServer(t)
	adminTok := s.admin(t)
	v := s.variant(t, "Phone", 100)

	s.do(t, call{method: http.MethodPost, path: "/api/v1/cart", session: "s", body: map[string]any{"variant_id": v.ID, "quantity": 4}})
	rec := s.do(t, call{method: http.MethodPost, path: "/api/v1/checkout", session: "s", body: map[string]any{"customer_name": "A", "customer_email": "a@x.com"}})
	require.Equal(t, http.StatusCreated, rec.Code)

	for _, q := range []string{"", "?days=abc", "?days=-3"} {
		res := decode[transport.StatsResponse](t, s.do(t, call{method: http.MethodGet, path: "/api/v1/admin/stats" + q, token: adminTok}))
		assert.Equal(t, 30, res.Days, q)
	}

	res := decode[transport.StatsResponse](t, s.do(t, call{method: http.MethodGet, path: "/api/v1/admin/stats?days=7", token: adminTok}))
	assert.Equal(t, 7, res.Days)
	require.Len(t, res.Results, 1)
	assert.EqualValues(t, 1, res.Results[0].OrdersCount)
	assert.EqualValues(t, 400, res.Results[0].TotalCLP)
	assert.EqualValues(t, 4, res.Results[0].ItemsSold)
	assert.EqualValues(t, 1, res.Results[0].CartsCount)

	rep := decode[repo.ManagementReport](t, s.do(t, call{method: http.MethodGet, path: "/api/v1/management-report", token: adminTok}))
	assert.EqualValues(t, 1, rep.OrdersCount)
	assert.EqualValues(t, 400, rep.TotalIncome)
}

func TestRecycling_HTTP(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, call{method: http.MethodPost, path: "/api/v1/recycling-requests", body: map[string]any{"name": "Ana"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, call{method: http.MethodPost, path: "/api/v1/recycling-requests", body: transport.RecyclingRequest{
		Name: "Ana", Email: "ana@x.com", EquipmentType: "monitor",
	}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	list := decode[[]models.RecyclingRequest](t, s.do(t, call{method: http.MethodGet, path: "/api/v1/recycling-requests"}))
	require.Len(t, list, 1)
	assert.Equal(t, "monitor", list[0].EquipmentType)

	_, userTok := s.user(t, "ana", middleware.RoleUser)
	list = decode[[]models.RecyclingRequest](t, s.do(t, call{method: http.MethodGet, path: "/api/v1/recycling-requests", token: userTok}))
	assert.Len(t, list, 1)
}
