package api

import "github.com/RoyceAzure/lab/storefront/internal/api/handler"

type Server struct {
	AuthHandler    *handler.AuthHandler
	ProductHandler *handler.ProductHandler
	CartHandler    *handler.CartHandler
	OrderHandler   *handler.OrderHandler
	PaymentHandler *handler.PaymentHandler
	CouponHandler  *handler.CouponHandler
	AddressHandler *handler.AddressHandler
	WebhookHandler *handler.WebhookHandler
	MetricsHandler *handler.MetricsHandler
}

func NewServer(
	authHandler *handler.AuthHandler,
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	paymentHandler *handler.PaymentHandler,
	couponHandler *handler.CouponHandler,
	addressHandler *handler.AddressHandler,
	webhookHandler *handler.WebhookHandler,
	metricsHandler *handler.MetricsHandler,
) *Server {
	return &Server{
		AuthHandler:    authHandler,
		ProductHandler: productHandler,
		CartHandler:    cartHandler,
		OrderHandler:   orderHandler,
		PaymentHandler: paymentHandler,
		CouponHandler:  couponHandler,
		AddressHandler: addressHandler,
		WebhookHandler: webhookHandler,
		MetricsHandler: metricsHandler,
	}
}
