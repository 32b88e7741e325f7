package handler

import (
	"encoding/json"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/pkg/api"
	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	checkoutService service.ICheckoutService
	orderService    service.IOrderService
}

func NewOrderHandler(checkoutService service.ICheckoutService, orderService service.IOrderService) *OrderHandler {
	if checkoutService == nil || orderService == nil {
		panic("checkoutService and orderService cannot be nil")
	}
	return &OrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

// Create POST /orders
// 驗價、扣庫存、核銷coupon、清購物車在同一個DB交易內完成
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := util.GetAuthUserFromContext(r.Context())

	var createDTO dto.CreateOrderDTO
	if err := json.NewDecoder(r.Body).Decode(&createDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "invalid request body", nil)
		return
	}
	if len(createDTO.Items) == 0 {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "order must contain at least one item", nil)
		return
	}

	lines := make([]service.SubmittedLine, 0, len(createDTO.Items))
	for _, item := range createDTO.Items {
		lines = append(lines, service.SubmittedLine{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	order, err := h.checkoutService.PlaceOrder(r.Context(), user.UserID, lines,
		createDTO.CouponCode, createDTO.ShippingAddressID, createDTO.BillingAddressID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	api.CreatedJSON(w, dto.ConvertOrderToDTO(order))
}

// List GET /orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	user := util.GetAuthUserFromContext(r.Context())
	page, pageSize := parsePaging(r)

	orders, total, err := h.orderService.ListUserOrders(r.Context(), user.UserID, page, pageSize)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]dto.OrderDTO, 0, len(orders))
	for i := range orders {
		items = append(items, dto.ConvertOrderToDTO(&orders[i]))
	}
	api.SuccessJSON(w, dto.PagedResponse[dto.OrderDTO]{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// Get GET /orders/{orderID}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := util.GetAuthUserFromContext(r.Context())
	orderID := chi.URLParam(r, "orderID")

	order, err := h.orderService.GetOrder(r.Context(), user.UserID, user.IsAdmin, orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	api.SuccessJSON(w, dto.ConvertOrderToDTO(order))
}

// Cancel POST /orders/{orderID}/cancel
// 只有尚未付款的PENDING訂單能取消, 取消時釋放庫存保留
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	user := util.GetAuthUserFromContext(r.Context())
	orderID := chi.URLParam(r, "orderID")

	order, err := h.orderService.CancelOrder(r.Context(), user.UserID, orderID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	api.SuccessJSON(w, dto.ConvertOrderToDTO(order))
}

// AdminList GET /admin/orders
func (h *OrderHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePaging(r)
	status := model.OrderStatus(r.URL.Query().Get("status"))

	orders, total, err := h.orderService.ListAllOrders(r.Context(), status, page, pageSize)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	items := make([]dto.OrderDTO, 0, len(orders))
	for i := range orders {
		items = append(items, dto.ConvertOrderToDTO(&orders[i]))
	}
	api.SuccessJSON(w, dto.PagedResponse[dto.OrderDTO]{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// AdminUpdateStatus PUT /admin/orders/{orderID}/status
// 只允許出貨流程的合法轉移, 付款狀態由reconciliation管
func (h *OrderHandler) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	var statusDTO dto.UpdateOrderStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&statusDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "invalid request body", nil)
		return
	}

	order, err := h.orderService.UpdateOrderStatus(r.Context(), orderID, model.OrderStatus(statusDTO.Status))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	api.SuccessJSON(w, dto.ConvertOrderToDTO(order))
}
