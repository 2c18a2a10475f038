package router

import (
	"net/http"

	"github.com/RoyceAzure/lab/shop/internal/api"
	"github.com/RoyceAzure/lab/shop/internal/api/handler"
	m "github.com/RoyceAzure/lab/shop/internal/api/middleware"
	"github.com/RoyceAzure/lab/shop/internal/infra/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type Server struct {
	CartHandler    *handler.CartHandler
	OrderHandler   *handler.OrderHandler
	AddressHandler *handler.AddressHandler
	ProductHandler *handler.ProductHandler
	UserHandler    *handler.UserHandler
}

func NewServer(
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	addressHandler *handler.AddressHandler,
	productHandler *handler.ProductHandler,
	userHandler *handler.UserHandler,
) *Server {
	return &Server{
		CartHandler:    cartHandler,
		OrderHandler:   orderHandler,
		AddressHandler: addressHandler,
		ProductHandler: productHandler,
		UserHandler:    userHandler,
	}
}

// checkout 以 user 為單位限流，拿不到 user 時退回 ip
func userKey(r *http.Request) string {
	if userID := chi.URLParam(r, "userID"); userID != "" {
		return "user:" + userID
	}
	return "ip:" + r.RemoteAddr
}

// SetupRouter limiter 為 nil 時不限流
func SetupRouter(server *Server, limiter ratelimit.Limiter, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// 全局中間件
	r.Use(m.RequestIdMiddleware)
	r.Use(middleware.RealIP)
	r.Use(m.LoggerMiddleware(logger))
	r.Use(m.RecoverMiddleware(logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.ErrorJSON(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.ErrorJSON(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		api.SuccessJSON(w, "ok")
	})

	checkoutLimit := func(next http.Handler) http.Handler { return next }
	if limiter != nil {
		checkoutLimit = m.NewRateLimitMiddleware(limiter, "checkout", userKey)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/carts/{sessionID}", func(r chi.Router) {
			r.Get("/", server.CartHandler.GetCart)
			r.Delete("/", server.CartHandler.Clear)
			r.Post("/items", server.CartHandler.AddItem)
			r.Patch("/items", server.CartHandler.UpdateQuantity)
			r.Delete("/items", server.CartHandler.RemoveItem)
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", server.UserHandler.CreateUser)
			r.Route("/{userID}", func(r chi.Router) {
				r.Get("/", server.UserHandler.GetUser)
				r.With(checkoutLimit).Post("/checkout", server.OrderHandler.Checkout)
				r.Get("/orders", server.OrderHandler.GetUserOrders)
				r.Get("/addresses", server.AddressHandler.ListAddresses)
				r.Post("/addresses", server.AddressHandler.AddAddress)
			})
		})

		r.Get("/orders", server.OrderHandler.ListOrders)
		r.Route("/orders/{orderID}", func(r chi.Router) {
			r.Get("/", server.OrderHandler.GetOrder)
			r.Post("/cancel", server.OrderHandler.CancelOrder)
			r.Put("/status", server.OrderHandler.UpdateStatus)
		})

		r.Route("/addresses/{addressID}", func(r chi.Router) {
			r.Put("/", server.AddressHandler.UpdateAddress)
			r.Delete("/", server.AddressHandler.DeleteAddress)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", server.ProductHandler.ListProducts)
			r.Post("/", server.ProductHandler.CreateProduct)
			r.Get("/{productID}", server.ProductHandler.GetProduct)
			r.Get("/{productID}/stock", server.ProductHandler.GetStock)
		})
	})

	return r
}
