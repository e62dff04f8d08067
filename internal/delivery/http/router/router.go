package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/user/price-tracker/internal/delivery/http/handler"
	"github.com/user/price-tracker/internal/delivery/http/middleware"
	"github.com/user/price-tracker/internal/usecase"
)

type Options struct {
	AllowedOrigins []string
	// RequestTimeout bounds every request, including the product fetch.
	RequestTimeout time.Duration
}

func New(h *handler.Handler, auth usecase.Authenticator, opts Options, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(chimw.Timeout(opts.RequestTimeout))
	}
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/health", h.HandleHealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Post("/track", h.HandleTrack)

		r.Post("/auth/register", h.HandleRegister)
		r.Post("/auth/login", h.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(auth, logger))

			r.Post("/auth/logout", h.HandleLogout)
			r.Get("/auth/profile/{id}", h.HandleGetProfile)
			r.Put("/auth/profile/{id}", h.HandleUpdateProfile)

			r.Post("/orders", h.HandleCreateOrder)
			// {id} is the user id here and the order id below.
			r.Get("/orders/{id}", h.HandleListUserOrders)
			r.Get("/dashboard", h.HandleDashboard)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Get("/auth/users", h.HandleListUsers)
				r.Get("/auth/orders-all", h.HandleListAllOrders)
				r.Put("/orders/{id}/status", h.HandleUpdateOrderStatus)
			})
		})
	})

	return r
}
