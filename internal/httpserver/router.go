package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pasalko/storefront/internal/cache"
	"github.com/pasalko/storefront/internal/checkout"
	"github.com/pasalko/storefront/internal/events"
	"github.com/pasalko/storefront/internal/inflight"
	mw "github.com/pasalko/storefront/internal/middleware"
	"github.com/pasalko/storefront/internal/search"
	"github.com/pasalko/storefront/internal/session"
	"github.com/pasalko/storefront/internal/upstream"
)

type Deps struct {
	API      *upstream.Client
	Sessions session.Provider
	Events   *events.Publisher
	Cache    *cache.Cache
	Search   *search.Service

	AssetBase string
	ReturnURL string
	Logger    *slog.Logger
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, m := range mw.Common() {
		e.Use(m)
	}
	e.Use(mw.RequestLogger(d.Logger))

	guard := &mw.Guard{Sessions: d.Sessions}
	e.Use(guard.Middleware)

	auth := &AuthHTTP{API: d.API, Sessions: d.Sessions}
	catalog := &CatalogHTTP{API: d.API, Cache: d.Cache, Search: d.Search, AssetBase: d.AssetBase}
	cart := &CartHTTP{API: d.API, Events: d.Events, Guard: inflight.NewGuard()}
	co := &CheckoutHTTP{
		API:      d.API,
		Sessions: d.Sessions,
		Flow:     &checkout.Orchestrator{API: d.API, Events: d.Events, ReturnURL: d.ReturnURL},
	}
	orders := &OrderHTTP{API: d.API}
	profile := &ProfileHTTP{API: d.API, Sessions: d.Sessions}
	business := &BusinessHTTP{API: d.API}
	admin := &AdminHTTP{API: d.API}

	// Public auth surface.
	e.POST("/login", auth.Login)
	e.POST("/register", auth.Register)
	e.POST("/business/login", auth.BusinessLogin)
	e.POST("/business/register", auth.BusinessRegister)
	e.POST("/forgot-password", auth.ForgotPassword)
	e.POST("/logout", auth.Logout)

	// Browsing.
	e.GET("/products", catalog.Products)
	e.GET("/products/:id", catalog.Product)
	e.GET("/categories", catalog.Categories)
	e.GET("/search", catalog.SearchProducts)

	// Cart.
	e.GET("/cart", cart.GetCart)
	e.POST("/cart/items", cart.AddToCart)
	e.PUT("/cart/items/:productId", cart.UpdateCartItem)
	e.DELETE("/cart/items/:productId", cart.RemoveFromCart)
	e.DELETE("/cart", cart.ClearCart)
	e.GET("/cart/items/:productId/updating", cart.ItemBusy)

	// Checkout wizard.
	e.GET("/checkout", co.State)
	e.POST("/checkout/address", co.AddAddress)
	e.POST("/checkout/address/select", co.SelectAddress)
	e.POST("/checkout/payment-method", co.SelectPayment)
	e.POST("/checkout/continue", co.Continue)
	e.POST("/checkout/back", co.Back)
	e.POST("/checkout/place-order", co.PlaceOrder)

	// Customer account; the guard protects everything under /auth and /profile.
	e.GET("/auth/orders", orders.List)
	e.GET("/auth/orders/:id", orders.Get)
	e.POST("/auth/orders/:id/cancel", orders.Cancel)
	e.GET("/auth/payment/verify", co.VerifyPayment)
	e.GET("/profile", profile.Get)
	e.PUT("/profile", profile.Update)

	// Seller dashboard.
	e.GET("/business/profile", business.Profile)
	e.PUT("/business/profile", business.UpdateProfile)
	e.POST("/business/documents", business.UploadDocument)
	e.GET("/business/products", business.Products)
	e.POST("/business/products", business.CreateProduct)
	e.PUT("/business/products/:id", business.UpdateProduct)
	e.DELETE("/business/products/:id", business.DeleteProduct)
	e.GET("/business/orders", business.Orders)
	e.PATCH("/business/orders/:id", business.UpdateOrderStatus)
	e.GET("/business/customers", business.Customers)
	e.GET("/business/wallet", business.Wallet)
	e.GET("/business/wallet/transactions", business.WalletTransactions)

	// Admin approval; role-gated by the guard.
	e.GET("/admin/businesses/pending", admin.PendingBusinesses)
	e.POST("/admin/businesses/:id/approve", admin.ApproveBusiness)
	e.POST("/admin/businesses/:id/reject", admin.RejectBusiness)
}
