package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/infra/payment"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/pkg/api"
	"github.com/rs/zerolog"
)

// maxWebhookBody 供應商事件不會超過64KB, 超過視為惡意
const maxWebhookBody = 64 << 10

type WebhookHandler struct {
	paymentService service.IPaymentService
	webhookSecret  string
	logger         *zerolog.Logger
}

func NewWebhookHandler(paymentService service.IPaymentService, webhookSecret string, logger *zerolog.Logger) *WebhookHandler {
	if paymentService == nil {
		panic("paymentService cannot be nil")
	}
	return &WebhookHandler{
		paymentService: paymentService,
		webhookSecret:  webhookSecret,
		logger:         logger,
	}
}

// HandlePaymentEvent POST /webhooks/payment
// 驗簽失敗回400, 處理失敗回500讓供應商重送, 重送靠狀態guard冪等
func (h *WebhookHandler) HandlePaymentEvent(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "cannot read request body", nil)
		return
	}

	event, err := payment.ConstructEvent(body, r.Header.Get("Webhook-Signature"), h.webhookSecret, time.Now().UTC())
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) || errors.Is(err, payment.ErrStaleTimestamp) {
			h.logger.Warn().
				Str("request_id", util.GetRequestID(r.Context())).
				Err(err).
				Msg("rejected webhook with bad signature")
			api.ErrorJSON(w, http.StatusBadRequest, api.CodeInvalidSignature, "invalid webhook signature", nil)
			return
		}
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "malformed webhook payload", nil)
		return
	}

	if err := h.paymentService.HandleWebhookEvent(r.Context(), event); err != nil {
		h.logger.Error().
			Str("request_id", util.GetRequestID(r.Context())).
			Str("event_id", event.ID).
			Str("event_type", event.Type).
			Err(err).
			Msg("webhook processing failed")
		api.ErrorJSON(w, http.StatusInternalServerError, api.CodeInternal, "event processing failed", nil)
		return
	}
	api.SuccessJSON(w, map[string]string{"received": event.ID})
}
