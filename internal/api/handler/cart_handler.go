package handler

import (
	"encoding/json"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/pkg/api"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	cartService service.ICartService
}

func NewCartHandler(cartService service.ICartService) *CartHandler {
	if cartService == nil {
		panic("cartService cannot be nil")
	}
	return &CartHandler{cartService: cartService}
}

// Get GET /cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := util.GetAuthUserFromContext(r.Context())

	cart, err := h.cartService.GetCart(r.Context(), user.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	api.SuccessJSON(w, cart)
}

// AddItem POST /cart/items
// 同商品同變體重複加入時數量累加
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	user := util.GetAuthUserFromContext(r.Context())

	var addDTO dto.AddCartItemDTO
	if err := json.NewDecoder(r.Body).Decode(&addDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "invalid request body", nil)
		return
	}
	if addDTO.ProductID == 0 || addDTO.Quantity < 1 {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "product_id and positive quantity are required", nil)
		return
	}

	if err := h.cartService.AddItem(r.Context(), user.UserID, addDTO.ProductID, addDTO.VariantID, addDTO.Quantity); err != nil {
		handleServiceError(w, err)
		return
	}

	cart, err := h.cartService.GetCart(r.Context(), user.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	api.SuccessJSON(w, cart)
}

// UpdateItem PUT /cart/items/{itemID}
// quantity帶0等同刪除
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	user := util.GetAuthUserFromContext(r.Context())

	itemID, err := parseUintParam(chi.URLParam(r, "itemID"))
	if err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "invalid cart item id", nil)
		return
	}

	var updateDTO dto.UpdateCartItemDTO
	if err := json.NewDecoder(r.Body).Decode(&updateDTO); err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "invalid request body", nil)
		return
	}
	if updateDTO.Quantity < 0 {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "quantity cannot be negative", nil)
		return
	}

	if err := h.cartService.UpdateItemQuantity(r.Context(), user.UserID, itemID, updateDTO.Quantity); err != nil {
		handleServiceError(w, err)
		return
	}

	cart, err := h.cartService.GetCart(r.Context(), user.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	api.SuccessJSON(w, cart)
}

// RemoveItem DELETE /cart/items/{itemID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	user := util.GetAuthUserFromContext(r.Context())

	itemID, err := parseUintParam(chi.URLParam(r, "itemID"))
	if err != nil {
		api.ErrorJSON(w, http.StatusBadRequest, api.CodeValidation, "invalid cart item id", nil)
		return
	}

	if err := h.cartService.RemoveItem(r.Context(), user.UserID, itemID); err != nil {
		handleServiceError(w, err)
		return
	}
	api.SuccessJSON(w, nil)
}

// Clear DELETE /cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user := util.GetAuthUserFromContext(r.Context())

	if err := h.cartService.ClearCart(r.Context(), user.UserID); err != nil {
		handleServiceError(w, err)
		return
	}
	api.SuccessJSON(w, nil)
}
