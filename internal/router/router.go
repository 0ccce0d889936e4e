package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"traderhub-api/internal/handler"
	"traderhub-api/internal/middleware"
	"traderhub-api/internal/service"
)

func base() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Token", "X-Request-ID", "HX-Request"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	return r
}

// CMSDeps carries everything the CMS router mounts.
type CMSDeps struct {
	Health  *handler.HealthHandler
	Auth    *handler.CMSAuthHandler
	Product *handler.CMSProductHandler
	Order   *handler.CMSOrderHandler
	Sync    *handler.CMSSyncHandler
	Browse  *handler.CMSBrowseHandler
	Tokens  *service.TokenService
}

// NewCMS builds the trader-facing CMS router.
func NewCMS(d CMSDeps) http.Handler {
	r := base()

	r.Get("/api/status", d.Health.Status)
	r.Get("/api/v1/health", d.Health.Health)
	r.Post("/api/v1/auth/register", d.Auth.Register)
	r.Post("/api/v1/auth/login", d.Auth.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.TraderAuth(d.Tokens))

		r.Post("/api/v1/auth/refresh", d.Auth.Refresh)
		r.Post("/api/v1/auth/logout", d.Auth.Logout)
		r.Get("/api/v1/profile", d.Auth.Profile)
		r.Put("/api/v1/profile", d.Auth.UpdateProfile)

		r.Get("/api/v1/products", d.Product.List)
		r.Put("/api/v1/products/order", d.Product.Reorder)
		r.Get("/api/v1/products/{id}", d.Product.Get)
		r.Put("/api/v1/products/{id}", d.Product.Update)
		r.Get("/api/v1/categories", d.Product.Categories)

		r.Get("/api/v1/orders", d.Order.List)
		r.Get("/api/v1/orders/stats", d.Order.Stats)
		r.Get("/api/v1/audit", d.Order.AuditLog)

		r.Get("/api/v1/browse/products", d.Browse.BrowseProducts)
		r.Get("/api/v1/browse/categories", d.Browse.BrowseCategories)
		r.Get("/api/v1/selection", d.Browse.ListSelection)
		r.Post("/api/v1/selection", d.Browse.AddToSelection)
		r.Delete("/api/v1/selection", d.Browse.RemoveFromSelection)
		r.Delete("/api/v1/selection/all", d.Browse.ClearSelection)
		r.Post("/api/v1/selection/save", d.Browse.SaveSelection)

		r.Post("/api/v1/sync/products", d.Sync.SyncProducts)
		r.Post("/api/v1/sync/orders", d.Sync.SyncOrders)
	})

	return r
}

// ShopDeps carries everything the shop router mounts.
type ShopDeps struct {
	Health     *handler.HealthHandler
	Auth       *handler.ShopAuthHandler
	Product    *handler.ShopProductHandler
	Cart       *handler.ShopCartHandler
	Order      *handler.ShopOrderHandler
	Tokens     *service.TokenService
	CartSecret string
	CartTTL    time.Duration
}

// NewShop builds the customer-facing storefront router.
func NewShop(d ShopDeps) http.Handler {
	r := base()

	r.Get("/api/status", d.Health.Status)
	r.Get("/api/v1/health", d.Health.Health)
	r.Post("/api/v1/auth/register", d.Auth.Register)
	r.Post("/api/v1/auth/login", d.Auth.Login)

	r.Get("/api/v1/products", d.Product.List)
	r.Get("/api/v1/products/{id}", d.Product.Get)
	r.Get("/api/v1/categories", d.Product.Categories)

	cartSession := middleware.CartSession(d.CartSecret, d.CartTTL)

	r.Group(func(r chi.Router) {
		r.Use(cartSession)
		r.Use(middleware.OptionalCustomerAuth(d.Tokens))
		r.Get("/api/v1/cart", d.Cart.Get)
		r.Post("/api/v1/cart/items", d.Cart.Add)
		r.Put("/api/v1/cart/items/{id}", d.Cart.Update)
		r.Delete("/api/v1/cart/items/{id}", d.Cart.Remove)
		r.Delete("/api/v1/cart", d.Cart.Clear)
		// Guest checkout; an authenticated customer passes a token and
		// the handler prefers the session email.
		r.Post("/api/v1/orders", d.Order.Create)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.CustomerAuth(d.Tokens))
		r.Post("/api/v1/auth/refresh", d.Auth.Refresh)
		r.Post("/api/v1/auth/logout", d.Auth.Logout)
		r.Get("/api/v1/auth/me", d.Auth.Me)
		r.Put("/api/v1/auth/me", d.Auth.UpdateMe)
		r.Get("/api/v1/orders", d.Order.List)
		r.Get("/api/v1/orders/{id}", d.Order.Get)
	})

	return r
}
