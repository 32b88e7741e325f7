package router

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	m "github.com/RoyceAzure/lab/storefront/internal/api/middleware"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func SetupRouter(server *api.Server, userService service.IUserService, buffer *metrics.Buffer, logger *zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// 全局中間件
	r.Use(m.RequestIdMiddleware)
	r.Use(m.AuthPayloadMiddleware(userService))
	r.Use(middleware.RealIP)
	r.Use(m.LoggerMiddleware(logger))
	r.Use(m.MetricsMiddleware(buffer))
	r.Use(m.RecoverMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// API 路由
	r.Route("/api/v1", func(r chi.Router) {
		//Auth相關路由
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", server.AuthHandler.Register)
			r.Post("/login", server.AuthHandler.Login)
			r.Post("/logout", server.AuthHandler.Logout)
			r.With(m.AuthMiddleware).Get("/me", server.AuthHandler.Me)
		})

		//公開目錄路由
		r.Route("/products", func(r chi.Router) {
			r.Get("/", server.ProductHandler.List)
			r.Get("/{productID}", server.ProductHandler.Get)
		})
		r.Post("/coupons/validate", server.CouponHandler.Validate)

		//需登入路由
		r.Group(func(r chi.Router) {
			r.Use(m.AuthMiddleware)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", server.CartHandler.Get)
				r.Delete("/", server.CartHandler.Clear)
				r.Post("/items", server.CartHandler.AddItem)
				r.Put("/items/{itemID}", server.CartHandler.UpdateItem)
				r.Delete("/items/{itemID}", server.CartHandler.RemoveItem)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", server.OrderHandler.Create)
				r.Get("/", server.OrderHandler.List)
				r.Get("/{orderID}", server.OrderHandler.Get)
				r.Post("/{orderID}/cancel", server.OrderHandler.Cancel)
				r.Post("/{orderID}/payment", server.PaymentHandler.CreateIntent)
			})
			r.Post("/payments/{paymentID}/confirm", server.PaymentHandler.Confirm)

			r.Route("/addresses", func(r chi.Router) {
				r.Post("/", server.AddressHandler.Create)
				r.Get("/", server.AddressHandler.List)
				r.Put("/{addressID}", server.AddressHandler.Update)
				r.Delete("/{addressID}", server.AddressHandler.Delete)
			})
		})

		//管理路由
		r.Group(func(r chi.Router) {
			r.Use(m.AuthMiddleware)
			r.Use(m.AdminMiddleware)

			r.Route("/admin", func(r chi.Router) {
				r.Post("/products", server.ProductHandler.AdminCreate)
				r.Put("/products/{productID}", server.ProductHandler.AdminUpdate)
				r.Delete("/products/{productID}", server.ProductHandler.AdminArchive)
				r.Put("/products/{productID}/stock", server.ProductHandler.AdminSetStock)

				r.Get("/orders", server.OrderHandler.AdminList)
				r.Put("/orders/{orderID}/status", server.OrderHandler.AdminUpdateStatus)
				r.Post("/orders/{orderID}/refund", server.PaymentHandler.AdminRefund)

				r.Get("/metrics", server.MetricsHandler.Stats)
				r.Get("/metrics/samples", server.MetricsHandler.Samples)
			})
		})

		//供應商webhook, 用簽章驗證不走session
		r.Post("/webhooks/payment", server.WebhookHandler.HandlePaymentEvent)
	})

	return r
}
