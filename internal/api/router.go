package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/example/boutique/internal/api/middleware"
	"github.com/example/boutique/internal/auth"
	"github.com/example/boutique/internal/metrics"
)

type RouterConfig struct {
	Handlers     *Handlers
	AuthHandlers *AuthHandlers
	JWTService   *auth.JWTService
	Metrics      *metrics.ServerMetrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", cfg.AuthHandlers.Login)

		// Storefront
		r.Get("/products", cfg.Handlers.ListProducts)
		r.Get("/products/{id}", cfg.Handlers.GetProduct)
		r.Post("/products/{id}/views", cfg.Handlers.IncrementProductViews)
		r.Get("/settings", cfg.Handlers.GetSettings)
		r.Post("/visits", cfg.Handlers.RecordVisit)

		// Session cart
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cfg.Handlers.GetCart)
			r.Delete("/", cfg.Handlers.ClearCart)
			r.Post("/items", cfg.Handlers.AddToCart)
			r.Patch("/items/{id}", cfg.Handlers.UpdateCartItem)
			r.Delete("/items/{id}", cfg.Handlers.RemoveFromCart)
			r.Post("/checkout", cfg.Handlers.Checkout)
		})

		// Back office
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.JWTService))
			r.Use(middleware.RequireRole("admin"))

			r.Post("/products", cfg.Handlers.CreateProduct)
			r.Put("/products/{id}", cfg.Handlers.UpdateProduct)
			r.Delete("/products/{id}", cfg.Handlers.DeleteProduct)
			r.Put("/settings", cfg.Handlers.UpdateSettings)
			r.Get("/orders", cfg.Handlers.ListOrders)
			r.Get("/visits", cfg.Handlers.ListVisits)
			r.Get("/analytics", cfg.Handlers.GetAnalytics)
		})
	})

	return r
}
