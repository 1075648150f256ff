package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	jwthelp "github.com/Skotchmaster/refurb_shop/pkg/jwt"
	middleware "github.com/Skotchmaster/refurb_shop/pkg/middleware/auth"
	"github.com/Skotchmaster/refurb_shop/pkg/middleware/csrf"
)

type Deps struct {
	CartHandler      *CartHTTP
	CheckoutHandler  *CheckoutHTTP
	OrderHandler     *OrderHTTP
	StatsHandler     *StatsHTTP
	RecyclingHandler *RecyclingHTTP
	CatalogHandler   *CatalogHTTP
	AuthHandler      *AuthHTTP

	JWTSecret []byte

	// Ready reports whether backing stores answer; nil means always ready.
	Ready func(c echo.Context) error

	RateLimitRPS   float64
	RateLimitBurst int
}

// rateLimiter throttles per client IP; a non-positive rate disables it.
func rateLimiter(rps float64, burst int) echo.MiddlewareFunc {
	if rps <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:  rate.Limit(rps),
		Burst: burst,
	})
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
		},
	})
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c); err != nil {
				return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable", "error": err.Error()})
			}
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := middleware.NewAuthenticator(d.JWTSecret)
	limited := rateLimiter(d.RateLimitRPS, d.RateLimitBurst)

	v1 := e.Group("/api/v1", csrf.Middleware(true, jwthelp.AccessCookie, jwthelp.RefreshCookie))

	auth := v1.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login, limited)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.POST("/logout", d.AuthHandler.Logout)
	auth.GET("/me", d.AuthHandler.Me, authMW.RequireAuth)

	shop := v1.Group("", authMW.Optional)
	shop.GET("/cart", d.CartHandler.GetCart)
	shop.POST("/cart", d.CartHandler.AddToCart)
	shop.POST("/cart/update", d.CartHandler.UpdateQuantity)
	shop.POST("/cart/remove", d.CartHandler.RemoveLine)
	shop.POST("/cart/clear", d.CartHandler.ClearCart)
	shop.POST("/checkout", d.CheckoutHandler.Checkout, limited)
	shop.GET("/recycling-requests", d.RecyclingHandler.List)
	shop.POST("/recycling-requests", d.RecyclingHandler.Create, limited)

	v1.GET("/orders/mine", d.OrderHandler.MyOrders, authMW.RequireAuth)

	staff := v1.Group("", authMW.RequireAdmin)
	staff.GET("/orders", d.OrderHandler.ListOrders)
	staff.GET("/admin/stats", d.StatsHandler.DailyStats)
	staff.GET("/management-report", d.StatsHandler.ManagementReport)

	v1.GET("/brands", d.CatalogHandler.ListBrands)
	v1.GET("/brands/:id", d.CatalogHandler.GetBrand)
	v1.GET("/categories", d.CatalogHandler.ListCategories)
	v1.GET("/categories/:id", d.CatalogHandler.GetCategory)
	v1.GET("/products", d.CatalogHandler.GetProducts)
	v1.GET("/products/search", d.CatalogHandler.SearchProducts)
	v1.GET("/products/:id", d.CatalogHandler.GetProduct)

	staff.POST("/brands", d.CatalogHandler.CreateBrand)
	staff.PATCH("/brands/:id", d.CatalogHandler.PatchBrand)
	staff.DELETE("/brands/:id", d.CatalogHandler.DeleteBrand)
	staff.POST("/categories", d.CatalogHandler.CreateCategory)
	staff.PATCH("/categories/:id", d.CatalogHandler.PatchCategory)
	staff.DELETE("/categories/:id", d.CatalogHandler.DeleteCategory)
	staff.POST("/products", d.CatalogHandler.CreateProduct)
	staff.PATCH("/products/:id", d.CatalogHandler.PatchProduct)
	staff.DELETE("/products/:id", d.CatalogHandler.DeleteProduct)
	staff.POST("/products/:id/variants", d.CatalogHandler.CreateVariant)
	staff.PATCH("/variants/:id", d.CatalogHandler.PatchVariant)
	staff.DELETE("/variants/:id", d.CatalogHandler.DeleteVariant)
}
