package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/pkg/api"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	paymentService service.IPaymentService
}

func NewPaymentHandler(paymentService service.IPaymentService) *PaymentHandler {
	if paymentService == nil {
		panic("paymentService cannot be nil")
	}
	return &PaymentHandler{paymentService: paymentService}
}

// CreateIntent POST /orders/{orderID}/payment
// 同一筆訂單已有進行中的payment時回傳同一個intent, 不會重複建立
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	user := util.GetAuthUserFromContext(r.Context())
	orderID := chi.URLParam(r, "orderID")

	payment, err := h.paymentService.CreateIntent(r.Context(), user.UserID, orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	// client_secret只在這裡回給下單者本人
	api.CreatedJSON(w, dto.ConvertPaymentToDTO(payment, true))
}

// Confirm POST /payments/{paymentID}/confirm
// 客戶端完成付款後主動回報, 與webhook互為備援, 兩邊都是冪等的
func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	user := util.GetAuthUserFromContext(r.Context())

	paymentID, err := uuid.Parse(chi.URLParam(r, "paymentID"))
	if err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "invalid payment id", nil)
		return
	}

	payment, err := h.paymentService.ConfirmPayment(r.Context(), user.UserID, paymentID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	api.SuccessJSON(w, dto.ConvertPaymentToDTO(payment, false))
}

// AdminRefund POST /admin/orders/{orderID}/refund
func (h *PaymentHandler) AdminRefund(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	payment, err := h.paymentService.Refund(r.Context(), orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	api.SuccessJSON(w, dto.ConvertPaymentToDTO(payment, false))
}
